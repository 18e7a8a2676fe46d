package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/NSBrianWard/IMFPlayer/player"
)

var version = "devel"

// Exit codes.
const (
	exitUsage    = 1 // wrong arguments
	exitNotFound = 2 // IMF file not found
	exitFailure  = 3 // IMF parse error, playback failure
)

func main() {
	cli := parseArgs(os.Args[1:])
	cfg := player.LoadConfigOrDefault(cli.Config)

	switch cli.mode {
	case playMode:
		check(playMain(cli.Play, cfg))
	case infoMode:
		check(infoMain(os.Stdout, cli.Info, cfg))
	case renderMode:
		check(renderMain(os.Stdout, cli.Render, cfg))
	case versionMode:
		fmt.Println("imfplayer", version)
	}
}

// check exits with the exit code matching err, if not nil.
func check(err error) {
	if err == nil {
		return
	}
	exitf(exitCode(err), "%s", err)
}

func exitCode(err error) int {
	if errors.Is(err, fs.ErrNotExist) {
		return exitNotFound
	}
	return exitFailure
}
