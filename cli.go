package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/NSBrianWard/IMFPlayer/log"
)

type mode byte

const (
	playMode    mode = iota // Play an IMF file
	infoMode                // Show IMF file infos
	renderMode              // Render IMF files to WAV
	versionMode             // Show imfplayer version
)

type (
	CLI struct {
		Play    Play    `cmd:"" help:"Play an IMF file. (default command)" default:"withargs"`
		Info    Info    `cmd:"" help:"Show IMF file infos."`
		Render  Render  `cmd:"" help:"Render IMF files to WAV."`
		Version Version `cmd:"" help:"Show imfplayer version."`

		Log    logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`
		Config string     `help:"${config_help}" type:"path" placeholder:"FILE"`

		mode mode
	}

	Play struct {
		Path      string `arg:"" name:"imffile" help:"IMF file to play."`
		ClockRate rateHz `arg:"" optional:"" name:"clock-rate" help:"${clockrate_help}"`
		MixerRate rateHz `arg:"" optional:"" name:"mixer-rate" help:"${mixerrate_help}"`
	}

	Info struct {
		Path      string `arg:"" name:"imffile" help:"IMF file."`
		ClockRate rateHz `name:"clock-rate" help:"${clockrate_help}"`
		JSON      bool   `name:"json" help:"Output infos as JSON."`
	}

	Render struct {
		Paths     []string `arg:"" name:"imffile" help:"IMF files to render."`
		OutDir    string   `name:"out-dir" type:"path" help:"Output directory."`
		Seconds   float64  `name:"seconds" help:"Render duration, in seconds." xor:"stop"`
		Loops     int      `name:"loops" help:"Number of times the song is played." xor:"stop"`
		ClockRate rateHz   `name:"clock-rate" help:"${clockrate_help}"`
		MixerRate rateHz   `name:"mixer-rate" help:"${mixerrate_help}"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"log_help":       "Enable logging for specified modules.",
	"config_help":    "Configuration file. (default: user config directory)",
	"clockrate_help": "IMF clock rate in Hz, usually 280, 560 or 700. (default: 560)",
	"mixerrate_help": "Mixer sample rate in Hz. (default: 49716)",
}

func newParser(cli *CLI) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("imfplayer"),
		kong.Description("IMF (id Music Format) player. github.com/NSBrianWard/IMFPlayer"),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
}

func parseArgs(args []string) CLI {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	cli.mode = commandMode(ctx.Command())
	return cli
}

func commandMode(cmd string) mode {
	switch {
	case strings.HasPrefix(cmd, "info"):
		return infoMode
	case strings.HasPrefix(cmd, "render"):
		return renderMode
	case cmd == "version":
		return versionMode
	default:
		return playMode
	}
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.

Examples:
  imfplayer K4T01.imf
  imfplayer K4T01.imf 560
  imfplayer track01.wlf 700 44100
  imfplayer DUKINA.IMF 280
`
	var strs []string
	for _, m := range log.ModuleNames() {
		strs = append(strs, "    - "+m)
	}

	fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	nolog := false
	allLogs := false

	tok := ctx.Scan.Pop()
	for _, v := range strings.Split(tok.String(), ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return fmt.Errorf("unknown log module %s", v)
			}
			lm |= logModMask(mod.Mask())
		}
	}

	if nolog {
		if allLogs {
			return fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if lm != 0 {
			return fmt.Errorf("cannot combine 'no' with other log modules")
		}
		log.Disable()
		return nil
	}

	if allLogs {
		lm = logModMask(log.ModuleMaskAll)
	}

	log.EnableDebugModules(log.ModuleMask(lm))
	return nil
}

// rateHz is a rate in Hz. 0 means the configured default.
type rateHz int

// Decode decodes a positive integer. Anything else is replaced by the
// default rate, with a warning.
//
// Implements kong.MapperValue interface.
func (r *rateHz) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	s := tok.String()

	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		log.ModCLI.Warnf("invalid %s %q, using default", ctx.Value.Name, s)
		*r = 0
		return nil
	}
	*r = rateHz(n)
	return nil
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n\t"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	exitf(exitUsage, format, args...)
}

func exitf(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(code)
}
