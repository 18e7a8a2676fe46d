package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/NSBrianWard/IMFPlayer/audio"
	"github.com/NSBrianWard/IMFPlayer/hw/opl"
	"github.com/NSBrianWard/IMFPlayer/imf"
	"github.com/NSBrianWard/IMFPlayer/log"
	"github.com/NSBrianWard/IMFPlayer/player"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	hintStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244"))
)

// applyRates overrides the configured rates with the command line ones.
func applyRates(cfg *player.Config, clock, mixer rateHz) {
	if clock != 0 {
		cfg.Playback.ClockRate = int(clock)
	}
	if mixer != 0 {
		cfg.Playback.MixerRate = int(mixer)
	}
}

// playMain plays an IMF file until the user quits.
func playMain(args Play, cfg player.Config) error {
	applyRates(&cfg, args.ClockRate, args.MixerRate)

	song, err := imf.Open(args.Path)
	if err != nil {
		return err
	}

	latency := time.Duration(cfg.Audio.LatencyMs) * time.Millisecond
	dev, err := audio.Open(cfg.OutputRate(), latency)
	if err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}

	p := player.New(song, cfg, opl.New(cfg.Playback.MixerRate))
	if err := p.Start(dev); err != nil {
		return errors.Join(err, p.Stop(), dev.Close())
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	printBanner(os.Stdout, args.Path, cfg, dev.Rate(), interactive)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	waitQuit(ctx, os.Stdin, interactive)
	return p.Stop()
}

func printBanner(w io.Writer, path string, cfg player.Config, deviceRate int, interactive bool) {
	fmt.Fprintln(w, titleStyle.Render("Playing: "+filepath.Base(path)))
	fmt.Fprintf(w, "%s %d Hz\n", labelStyle.Render("IMF clock rate:"), cfg.Playback.ClockRate)
	fmt.Fprintf(w, "%s %d Hz\n", labelStyle.Render("Mixer rate:"), cfg.Playback.MixerRate)
	if deviceRate != cfg.Playback.MixerRate {
		fmt.Fprintf(w, "%s %d Hz\n", labelStyle.Render("Device rate:"), deviceRate)
	}

	if interactive {
		fmt.Fprintln(w, hintStyle.Render("Press Enter to quit..."))
	} else {
		fmt.Fprintln(w, hintStyle.Render("Press Ctrl+C to quit..."))
	}
}

// waitQuit blocks until ctx is done or, if interactive is set, a line is
// read from r.
func waitQuit(ctx context.Context, r io.Reader, interactive bool) {
	enter := make(chan struct{})
	if interactive {
		go func() {
			_, err := bufio.NewReader(r).ReadString('\n')
			if err != nil && err != io.EOF {
				log.ModCLI.WarnZ("failed to read stdin").Error("err", err).End()
			}
			close(enter)
		}()
	}

	select {
	case <-enter:
		log.ModCLI.DebugZ("quit requested").End()
	case <-ctx.Done():
		log.ModCLI.DebugZ("interrupted").End()
	}
}
