package main

import (
	"fmt"
	"io"

	"github.com/go-faster/jx"

	"github.com/NSBrianWard/IMFPlayer/imf"
	"github.com/NSBrianWard/IMFPlayer/player"
)

// infoMain prints infos about an IMF file.
func infoMain(w io.Writer, args Info, cfg player.Config) error {
	applyRates(&cfg, args.ClockRate, 0)

	song, err := imf.Open(args.Path)
	if err != nil {
		return err
	}

	if args.JSON {
		_, err := w.Write(songJSON(args.Path, song, cfg.Playback.ClockRate))
		return err
	}
	printInfos(w, args.Path, song, cfg.Playback.ClockRate)
	return nil
}

func printInfos(w io.Writer, path string, song *imf.Song, clockRate int) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("File:         "), path)
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Format:       "), song.Variant)
	if song.Variant == imf.TypeDeclaredSize {
		trunc := ""
		if song.Truncated() {
			trunc = " (truncated)"
		}
		fmt.Fprintf(w, "%s %d bytes%s\n", labelStyle.Render("Declared size:"), song.Declared, trunc)
	}
	fmt.Fprintf(w, "%s %d bytes\n", labelStyle.Render("File size:    "), song.Size)
	fmt.Fprintf(w, "%s %d\n", labelStyle.Render("Events:       "), len(song.Events))
	fmt.Fprintf(w, "%s %d\n", labelStyle.Render("Loop ticks:   "), song.LoopTicks())
	fmt.Fprintf(w, "%s %s at %d Hz\n", labelStyle.Render("Duration:     "), song.Duration(clockRate), clockRate)
}

func songJSON(path string, song *imf.Song, clockRate int) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("file", func(e *jx.Encoder) { e.Str(path) })
		e.Field("format", func(e *jx.Encoder) { e.Str(song.Variant.String()) })
		e.Field("declared_size", func(e *jx.Encoder) { e.Int(song.Declared) })
		e.Field("truncated", func(e *jx.Encoder) { e.Bool(song.Truncated()) })
		e.Field("size", func(e *jx.Encoder) { e.Int(song.Size) })
		e.Field("events", func(e *jx.Encoder) { e.Int(len(song.Events)) })
		e.Field("loop_ticks", func(e *jx.Encoder) { e.UInt64(song.LoopTicks()) })
		e.Field("clock_rate", func(e *jx.Encoder) { e.Int(clockRate) })
		e.Field("duration_seconds", func(e *jx.Encoder) { e.Float64(song.Duration(clockRate).Seconds()) })
	})
	return append(e.Bytes(), '\n')
}
