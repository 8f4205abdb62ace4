package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"

	"gridpath/core"
	"gridpath/ctxlog"
	"gridpath/export"
	"gridpath/importer"
	"gridpath/metrics"
	"gridpath/pathfinding"
	"gridpath/scenario"
	"gridpath/terminal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFailure)
	}
}

// run parses args, runs the scenario or opens the editor, and writes the
// report to stdout (or -o). Logs go to stderr.
func run(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	cfg, exit, err := parseArgs(args, stdout)
	if err != nil || exit {
		return err
	}

	logger, err := ctxlog.New(stderr, cfg.logLevel, cfg.logFormat)
	if err != nil {
		return &ExitError{Code: exitUsage, Message: err.Error()}
	}
	ctx = ctxlog.WithLogger(ctx, logger)

	s, err := loadScenario(cfg)
	if err != nil {
		return &ExitError{Code: exitUsage, Message: err.Error()}
	}
	logger.Debug("scenario loaded", "name", s.Name, "width", s.Width, "height", s.Height, "queries", len(s.Queries))

	var (
		reg     *prometheus.Registry
		options []pathfinding.PlannerOption
	)
	if cfg.metrics {
		reg = prometheus.NewRegistry()
		options = append(options, pathfinding.WithMetrics(metrics.New(reg)))
	}
	if cfg.noCache {
		options = append(options, pathfinding.WithoutCache())
	}

	if cfg.interactive {
		return runInteractive(ctx, s, options)
	}

	report, err := scenario.Run(ctx, s, options...)
	if err != nil {
		return err
	}
	if err := writeReport(cfg, stdout, report); err != nil {
		return err
	}
	if reg != nil {
		if err := metrics.WriteText(stdout, reg); err != nil {
			return err
		}
	}

	if err := report.Err(); err != nil {
		return &ExitError{Code: exitExpectation, Message: err.Error()}
	}
	for _, o := range report.Outcomes {
		if o.Err != nil {
			return &ExitError{Code: exitFailure, Message: o.Err.Error()}
		}
	}
	return nil
}

// loadScenario reads the scenario file, or builds a single query from the
// one-off flags, and applies explicitly set search flags on top.
func loadScenario(cfg *config) (*scenario.Scenario, error) {
	var s *scenario.Scenario
	if cfg.scenarioPath != "" {
		var err error
		if s, err = importer.NewImporterRegistry().ImportFile(cfg.scenarioPath); err != nil {
			return nil, err
		}
	} else {
		start, err := core.ParseCell(cfg.start)
		if err != nil {
			return nil, fmt.Errorf("-start: %w", err)
		}
		goal, err := core.ParseCell(cfg.goal)
		if err != nil {
			return nil, fmt.Errorf("-goal: %w", err)
		}
		obstacles, err := core.ParseCells(cfg.obstacles)
		if err != nil {
			return nil, fmt.Errorf("-obstacles: %w", err)
		}
		s = &scenario.Scenario{
			Name:      "query",
			Width:     cfg.width,
			Height:    cfg.height,
			Obstacles: obstacles,
			Options:   pathfinding.DefaultOptions(),
			Queries:   []scenario.Query{{Start: start, Goal: goal}},
		}
	}

	if cfg.set["connectivity"] || cfg.scenarioPath == "" {
		conn, err := core.ParseConnectivity(cfg.connectivity)
		if err != nil {
			return nil, err
		}
		s.Options.Connectivity = conn
	}
	if cfg.set["heuristic"] || cfg.scenarioPath == "" {
		h, err := pathfinding.ParseHeuristic(cfg.heuristic)
		if err != nil {
			return nil, err
		}
		s.Options.Heuristic = h
	}
	if cfg.set["diagonal-cost"] {
		s.Options.DiagonalCost = cfg.diagonalCost
	}
	if cfg.set["max-expansions"] {
		s.Options.MaxExpansions = cfg.maxExpansions
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func writeReport(cfg *config, stdout io.Writer, report *scenario.Report) error {
	exp, err := export.NewExporter(cfg.format)
	if err != nil {
		return err
	}
	if ascii, ok := exp.(*export.ASCIIExporter); ok {
		ascii.Color = cfg.color
	}
	data, err := exp.Export(report)
	if err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}

	if cfg.output == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(cfg.output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// runInteractive opens the editor on the scenario's grid with the first
// query's endpoints and obstacle changes applied.
func runInteractive(ctx context.Context, s *scenario.Scenario, options []pathfinding.PlannerOption) error {
	options = append([]pathfinding.PlannerOption{
		pathfinding.WithOptions(s.Options),
		pathfinding.WithLogger(ctxlog.FromContext(ctx)),
	}, options...)
	planner, err := pathfinding.NewPlanner(s.Width, s.Height, options...)
	if err != nil {
		return err
	}
	q := s.Queries[0]
	obstacles := append(append([]core.Cell(nil), s.Obstacles...), q.Block...)
	if err := planner.ReplaceObstacles(obstacles); err != nil {
		return &ExitError{Code: exitUsage, Message: err.Error()}
	}
	for _, c := range q.Unblock {
		if err := planner.SetObstacleAt(c, false); err != nil {
			return &ExitError{Code: exitUsage, Message: err.Error()}
		}
	}

	err = terminal.Run(ctx, planner, q.Start, q.Goal)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
