package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"gridpath/ctxlog"
	"gridpath/export"
)

// Exit codes.
const (
	exitFailure     = 1
	exitUsage       = 2
	exitExpectation = 3
)

// ExitError is an error that carries the process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// config is the parsed command line.
type config struct {
	scenarioPath string

	width, height int
	start, goal   string
	obstacles     string

	connectivity  string
	heuristic     string
	diagonalCost  float64
	maxExpansions int
	noCache       bool

	format      export.Format
	output      string
	color       bool
	interactive bool
	metrics     bool

	logLevel  string
	logFormat string

	// set records the flags given explicitly, so that search flags only
	// override a scenario file's settings when present.
	set map[string]bool
}

// parseArgs processes command-line arguments. It returns the config, whether
// the program should exit cleanly (help), or an *ExitError.
func parseArgs(args []string, output io.Writer) (*config, bool, error) {
	fs := flag.NewFlagSet("gridpath", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(output, `
gridpath - shortest paths on obstacle grids with incremental replanning.

Usage:
  gridpath [options] [SCENARIO]
  gridpath -width W -height H -start x,y -goal x,y [-obstacles "x,y;x,y"]

Arguments:
  SCENARIO
    Scenario file (.hcl, .json, .map/.txt); the format is detected from the
    extension or the content.

Options:
`)
		fs.PrintDefaults()
	}

	cfg := &config{set: make(map[string]bool)}
	fs.StringVar(&cfg.scenarioPath, "scenario", "", "Scenario file to run")
	fs.IntVar(&cfg.width, "width", 0, "Grid width for a one-off query")
	fs.IntVar(&cfg.height, "height", 0, "Grid height for a one-off query")
	fs.StringVar(&cfg.start, "start", "", "Start cell as x,y")
	fs.StringVar(&cfg.goal, "goal", "", "Goal cell as x,y")
	fs.StringVar(&cfg.obstacles, "obstacles", "", `Blocked cells as "x,y;x,y"`)
	fs.StringVar(&cfg.connectivity, "connectivity", "cardinal", "Moves: cardinal or octile")
	fs.StringVar(&cfg.heuristic, "heuristic", "auto", "Heuristic: auto, manhattan, euclidean, chebyshev, octile")
	fs.Float64Var(&cfg.diagonalCost, "diagonal-cost", 0, "Cost of a diagonal step (0 = √2)")
	fs.IntVar(&cfg.maxExpansions, "max-expansions", 0, "Abort a search after this many expansions (0 = unlimited)")
	fs.BoolVar(&cfg.noCache, "no-cache", false, "Disable the replanning cache")
	format := fs.String("format", "ascii", "Output format: ascii, json, msgpack")
	fs.StringVar(&cfg.output, "o", "", "Output file (default: stdout)")
	fs.BoolVar(&cfg.color, "color", false, "Color the ascii output")
	fs.BoolVar(&cfg.interactive, "i", false, "Open the interactive editor")
	fs.BoolVar(&cfg.metrics, "metrics", false, "Print Prometheus metrics after the run")
	fs.StringVar(&cfg.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.logFormat, "log-format", "text", "Log format: text or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: exitUsage, Message: err.Error()}
	}
	fs.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })

	if cfg.scenarioPath == "" && fs.NArg() > 0 {
		cfg.scenarioPath = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		return nil, false, &ExitError{Code: exitUsage, Message: "only one scenario file may be given"}
	}

	oneOff := cfg.width != 0 || cfg.height != 0 || cfg.start != "" || cfg.goal != ""
	switch {
	case cfg.scenarioPath != "" && oneOff:
		return nil, false, &ExitError{Code: exitUsage, Message: "a scenario file cannot be combined with -width/-height/-start/-goal"}
	case cfg.scenarioPath == "" && !oneOff:
		fs.Usage()
		return nil, true, nil
	case oneOff && (cfg.width <= 0 || cfg.height <= 0 || cfg.start == "" || cfg.goal == ""):
		return nil, false, &ExitError{Code: exitUsage, Message: "a one-off query needs -width, -height, -start and -goal"}
	}

	f, err := export.ParseFormat(*format)
	if err != nil {
		return nil, false, &ExitError{Code: exitUsage, Message: err.Error()}
	}
	cfg.format = f

	if _, err := ctxlog.New(io.Discard, cfg.logLevel, cfg.logFormat); err != nil {
		return nil, false, &ExitError{Code: exitUsage, Message: err.Error()}
	}
	cfg.logFormat = strings.ToLower(cfg.logFormat)
	return cfg, false, nil
}
