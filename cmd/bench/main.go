// Command bench replays the same stream of queries and obstacle changes
// against a cached and an uncached planner, checks that both agree and
// reports how much work the replanning cache saved.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"text/tabwriter"
	"time"

	"gridpath/ctxlog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var cfg Config
	fs.IntVar(&cfg.Width, "width", 96, "Grid width")
	fs.IntVar(&cfg.Height, "height", 96, "Grid height")
	fs.Float64Var(&cfg.Density, "density", 0.25, "Obstacle density for random grids")
	fs.BoolVar(&cfg.Maze, "maze", false, "Use braided mazes instead of random obstacles")
	fs.IntVar(&cfg.Grids, "grids", 8, "Number of generated grids")
	fs.IntVar(&cfg.Pairs, "pairs", 20, "Start/goal pairs per grid")
	fs.IntVar(&cfg.Repeats, "repeats", 5, "Queries per pair, with one obstacle change before each")
	fs.Int64Var(&cfg.Seed, "seed", 1, "Seed of the first grid")
	fs.IntVar(&cfg.Parallel, "parallel", runtime.GOMAXPROCS(0), "Grids benchmarked at once")
	octile := fs.Bool("octile", false, "Allow diagonal moves")
	logLevel := fs.String("log-level", "warn", "Log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.Octile = *octile

	logger, err := ctxlog.New(stderr, *logLevel, "text")
	if err != nil {
		return err
	}
	ctx = ctxlog.WithLogger(ctx, logger)

	results, err := Run(ctx, cfg)
	if err != nil {
		return err
	}
	return writeTable(stdout, results)
}

func writeTable(w io.Writer, results []Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "seed\tqueries\tfound\thits\tcached\tuncached\texpanded (cached)\texpanded (uncached)\t")
	var total Result
	for _, r := range results {
		writeRow(tw, fmt.Sprint(r.Seed), r)
		total.add(r)
	}
	writeRow(tw, "total", total)
	return tw.Flush()
}

func writeRow(w io.Writer, label string, r Result) {
	fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\t%d\t%d\t\n",
		label, r.Queries, r.Found, r.Cache.Hits,
		r.CachedTime.Round(time.Microsecond), r.UncachedTime.Round(time.Microsecond),
		r.CachedExpanded, r.UncachedExpanded)
}
