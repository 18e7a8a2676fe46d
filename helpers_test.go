package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/NSBrianWard/IMFPlayer/imf"
)

/* general testing helpers */

func tcheck(tb testing.TB, err error) {
	if err == nil {
		return
	}

	tb.Helper()
	tb.Fatalf("fatal error:\n\n%s\n", err)
}

func tcheckf(tb testing.TB, err error, format string, args ...any) {
	if err == nil {
		return
	}

	tb.Helper()
	tb.Fatalf("fatal error:\n\n%s: %s\n", fmt.Sprintf(format, args...), err)
}

// writeSong writes a type-1 IMF file made of events in dir.
func writeSong(tb testing.TB, dir, name string, events []imf.Event) string {
	tb.Helper()

	buf, err := imf.Encode(events)
	tcheckf(tb, err, "encode %s", name)

	path := filepath.Join(dir, name)
	tcheck(tb, os.WriteFile(path, buf, 0644))
	return path
}

var testEvents = []imf.Event{
	{Reg: 0x20, Value: 0x01, Delay: 0},
	{Reg: 0x23, Value: 0x01, Delay: 0},
	{Reg: 0x43, Value: 0x00, Delay: 0},
	{Reg: 0x63, Value: 0xF0, Delay: 0},
	{Reg: 0x83, Value: 0x07, Delay: 0},
	{Reg: 0xA0, Value: 0x98, Delay: 0},
	{Reg: 0xB0, Value: 0x31, Delay: 279},
	{Reg: 0xB0, Value: 0x11, Delay: 1},
}
