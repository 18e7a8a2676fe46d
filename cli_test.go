package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/go-faster/jx"
	"github.com/google/go-cmp/cmp"

	"github.com/NSBrianWard/IMFPlayer/imf"
	"github.com/NSBrianWard/IMFPlayer/player"
)

func parse(t *testing.T, args ...string) (CLI, error) {
	t.Helper()

	var cli CLI
	parser, err := newParser(&cli)
	tcheck(t, err)

	ctx, err := parser.Parse(args)
	if err != nil {
		return cli, err
	}
	cli.mode = commandMode(ctx.Command())
	return cli, nil
}

func TestParsePlay(t *testing.T) {
	tests := []struct {
		args []string
		want Play
	}{
		{
			args: []string{"K4T01.imf"},
			want: Play{Path: "K4T01.imf"},
		},
		{
			args: []string{"K4T01.imf", "560"},
			want: Play{Path: "K4T01.imf", ClockRate: 560},
		},
		{
			args: []string{"track01.wlf", "700", "44100"},
			want: Play{Path: "track01.wlf", ClockRate: 700, MixerRate: 44100},
		},
		{
			args: []string{"DUKINA.IMF", "fast", "0"},
			want: Play{Path: "DUKINA.IMF"},
		},
		{
			args: []string{"play", "DUKINA.IMF", "280"},
			want: Play{Path: "DUKINA.IMF", ClockRate: 280},
		},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			cli, err := parse(t, tt.args...)
			tcheck(t, err)

			if cli.mode != playMode {
				t.Errorf("mode = %d, want %d", cli.mode, playMode)
			}
			if diff := cmp.Diff(tt.want, cli.Play); diff != "" {
				t.Errorf("play args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := [][]string{
		{},
		{"a.imf", "560", "49716", "extra"},
		{"--log", "nope", "a.imf"},
		{"--log", "all,no", "a.imf"},
		{"render", "--seconds", "10", "--loops", "2", "a.imf"},
	}
	for _, args := range tests {
		if _, err := parse(t, args...); err == nil {
			t.Errorf("parse %q should fail", args)
		}
	}
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		args []string
		want mode
	}{
		{[]string{"info", "a.imf", "--json"}, infoMode},
		{[]string{"render", "a.imf", "b.imf", "--loops", "2"}, renderMode},
		{[]string{"version"}, versionMode},
	}
	for _, tt := range tests {
		cli, err := parse(t, tt.args...)
		tcheckf(t, err, "parse %q", tt.args)
		if cli.mode != tt.want {
			t.Errorf("parse %q: mode = %d, want %d", tt.args, cli.mode, tt.want)
		}
	}
}

func TestExitCode(t *testing.T) {
	_, errMissing := imf.Open(filepath.Join(t.TempDir(), "missing.imf"))

	tests := []struct {
		err  error
		want int
	}{
		{errMissing, exitNotFound},
		{fmt.Errorf("song.imf: %w", imf.ErrTooSmall), exitFailure},
		{fmt.Errorf("song.imf: %w", imf.ErrEmptyPayload), exitFailure},
		{errors.New("failed to open audio device"), exitFailure},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
	if !errors.Is(errMissing, fs.ErrNotExist) {
		t.Errorf("missing file error %v should match fs.ErrNotExist", errMissing)
	}
}

func TestWaitQuit(t *testing.T) {
	t.Run("enter", func(t *testing.T) {
		done := make(chan struct{})
		go func() {
			waitQuit(context.Background(), strings.NewReader("\n"), true)
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("waitQuit didn't return after enter")
		}
	})

	t.Run("cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// Non interactive: stdin is ignored.
		waitQuit(ctx, strings.NewReader("\n"), false)
	})
}

func TestInfoJSON(t *testing.T) {
	path := writeSong(t, t.TempDir(), "song.imf", testEvents)

	var buf bytes.Buffer
	args := Info{Path: path, JSON: true}
	tcheck(t, infoMain(&buf, args, player.DefaultConfig))

	if !jx.Valid(buf.Bytes()) {
		t.Fatalf("invalid json: %s", buf.String())
	}

	got := map[string]string{}
	d := jx.DecodeBytes(buf.Bytes())
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		raw, err := d.Raw()
		if err != nil {
			return err
		}
		got[string(key)] = raw.String()
		return nil
	})
	tcheck(t, err)

	want := map[string]string{
		"file":          `"` + path + `"`,
		"format":        `"DeclaredSize"`,
		"declared_size": "32",
		"truncated":     "false",
		"size":          "34",
		"events":        "8",
		"loop_ticks":    "280",
		"clock_rate":    "560",
	}

	secs, err := strconv.ParseFloat(got["duration_seconds"], 64)
	tcheckf(t, err, "duration_seconds")
	if secs != 0.5 {
		t.Errorf("duration_seconds = %v, want 0.5", secs)
	}
	delete(got, "duration_seconds")

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestInfoText(t *testing.T) {
	path := writeSong(t, t.TempDir(), "song.imf", testEvents)

	var buf bytes.Buffer
	tcheck(t, infoMain(&buf, Info{Path: path, ClockRate: 280}, player.DefaultConfig))

	for _, s := range []string{"Events:", " 8\n", "1s at 280 Hz"} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("info output doesn't contain %q:\n%s", s, buf.String())
		}
	}
}

func TestRenderFiles(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeSong(t, dir, "one.imf", testEvents),
		writeSong(t, dir, "two.IMF", testEvents),
		writeSong(t, dir, "three.wlf", testEvents),
	}
	outdir := filepath.Join(dir, "wav")

	args := Render{
		Paths:     paths,
		OutDir:    outdir,
		Seconds:   0.25,
		MixerRate: 8000,
	}
	var buf bytes.Buffer
	tcheck(t, renderMain(&buf, args, player.DefaultConfig))

	for _, name := range []string{"one.wav", "two.wav", "three.wav"} {
		f, err := os.Open(filepath.Join(outdir, name))
		tcheck(t, err)
		defer f.Close()

		dec := wav.NewDecoder(f)
		if !dec.IsValidFile() {
			t.Fatalf("%s: invalid wav file", name)
		}
		pcm, err := dec.FullPCMBuffer()
		tcheckf(t, err, "%s: read pcm", name)
		if got := len(pcm.Data); got != 2000*2 {
			t.Errorf("%s: %d samples, want %d", name, got, 2000*2)
		}
	}
	if got := strings.Count(buf.String(), "\n"); got != len(paths) {
		t.Errorf("render printed %d lines, want %d", got, len(paths))
	}
}

func TestRenderMissingFile(t *testing.T) {
	dir := t.TempDir()
	args := Render{
		Paths:  []string{filepath.Join(dir, "missing.imf")},
		OutDir: dir,
	}
	err := renderMain(&bytes.Buffer{}, args, player.DefaultConfig)
	if got := exitCode(err); got != exitNotFound {
		t.Errorf("exitCode(%v) = %d, want %d", err, got, exitNotFound)
	}
}

func TestWavPath(t *testing.T) {
	tests := []struct{ path, want string }{
		{"/music/K4T01.imf", "out/K4T01.wav"},
		{"track01.wlf", "out/track01.wav"},
		{"noext", "out/noext.wav"},
	}
	for _, tt := range tests {
		if got := wavPath(tt.path, "out"); got != filepath.FromSlash(tt.want) {
			t.Errorf("wavPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
