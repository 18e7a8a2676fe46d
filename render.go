package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NSBrianWard/IMFPlayer/hw/opl"
	"github.com/NSBrianWard/IMFPlayer/imf"
	"github.com/NSBrianWard/IMFPlayer/log"
	"github.com/NSBrianWard/IMFPlayer/player"
)

// renderMain renders IMF files to WAV files, concurrently.
func renderMain(w io.Writer, args Render, cfg player.Config) error {
	applyRates(&cfg, args.ClockRate, args.MixerRate)

	opts := player.RenderOptions{
		ClockRate: cfg.Playback.ClockRate,
		MixerRate: cfg.Playback.MixerRate,
		Seconds:   cfg.Render.Seconds,
		Loops:     cfg.Render.Loops,
	}
	switch {
	case args.Seconds > 0:
		opts.Seconds = args.Seconds
	case args.Loops > 0:
		opts.Seconds = 0
		opts.Loops = args.Loops
	}

	outdir := cfg.Render.OutDir
	if args.OutDir != "" {
		outdir = args.OutDir
	}
	if err := os.MkdirAll(outdir, player.DefaultFileMode); err != nil {
		return err
	}

	var mu sync.Mutex // serializes writes to w

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, path := range args.Paths {
		g.Go(func() error {
			start := time.Now()
			dst, frames, err := renderFile(path, outdir, opts)
			if err != nil {
				log.ModPlayer.ErrorZ("render failed").
					String("file", path).
					Error("err", err).
					End()
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			dur := time.Duration(frames) * time.Second / time.Duration(opts.MixerRate)
			fmt.Fprintf(w, "%s -> %s (%s, took %s)\n", path, dst, dur.Round(time.Millisecond), time.Since(start).Round(time.Millisecond))
			return nil
		})
	}
	return g.Wait()
}

// wavPath returns the path of the WAV file rendered from path.
func wavPath(path, outdir string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outdir, base+".wav")
}

func renderFile(path, outdir string, opts player.RenderOptions) (string, int, error) {
	song, err := imf.Open(path)
	if err != nil {
		return "", 0, err
	}

	dst := wavPath(path, outdir)
	f, err := os.Create(dst)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	frames, err := player.RenderWAV(f, song, opl.New(opts.MixerRate), opts)
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", path, err)
	}
	return dst, frames, f.Close()
}
