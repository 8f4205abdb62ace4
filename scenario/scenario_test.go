package scenario

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"gridpath/core"
	"gridpath/ctxlog"
	"gridpath/pathfinding"
)

func cost(v float64) *float64 { return &v }

func checkerboard() *Scenario {
	return &Scenario{
		Name:      "checkerboard",
		Width:     5,
		Height:    5,
		Obstacles: []core.Cell{{X: 1, Y: 1}, {X: 1, Y: 3}, {X: 3, Y: 1}, {X: 3, Y: 3}},
		Options:   pathfinding.DefaultOptions(),
		Queries: []Query{
			{Name: "corner", Start: core.Cell{}, Goal: core.Cell{X: 4, Y: 4}, ExpectCost: cost(8)},
			{Name: "again", Start: core.Cell{}, Goal: core.Cell{X: 4, Y: 4}, ExpectCost: cost(8)},
			{Name: "centre blocked", Start: core.Cell{}, Goal: core.Cell{X: 4, Y: 4},
				Block: []core.Cell{{X: 2, Y: 2}}, ExpectCost: cost(8)},
			{Name: "walled in", Start: core.Cell{}, Goal: core.Cell{X: 4, Y: 4},
				Block: []core.Cell{{X: 3, Y: 4}, {X: 4, Y: 3}}, ExpectUnreachable: true},
		},
	}
}

func TestRunCheckerboard(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	report, err := Run(ctx, checkerboard())
	if err != nil {
		t.Fatal(err)
	}
	if err := report.Err(); err != nil {
		for _, o := range report.Outcomes {
			t.Logf("%s: %v", o.Query.Name, o.Failures)
		}
		t.Fatal(err)
	}
	if len(report.Outcomes) != 4 {
		t.Fatalf("got %d outcomes", len(report.Outcomes))
	}
	if !report.Outcomes[1].Result.Cached {
		t.Error("repeated query was not served from cache")
	}
	if !report.Outcomes[2].Grid.IsObstacle(core.Cell{X: 2, Y: 2}) {
		t.Error("outcome grid does not reflect the block")
	}
	if report.Cache.Hits == 0 {
		t.Errorf("cache stats = %s", report.Cache)
	}
	if !strings.Contains(logs.String(), "scenario=checkerboard") {
		t.Errorf("logs missing scenario attribute:\n%s", logs.String())
	}
}

func TestRunReportsFailedExpectations(t *testing.T) {
	s := checkerboard()
	s.Queries = []Query{
		{Name: "wrong cost", Start: core.Cell{}, Goal: core.Cell{X: 4, Y: 4}, ExpectCost: cost(6)},
		{Name: "bad start", Start: core.Cell{X: 1, Y: 1}, Goal: core.Cell{X: 4, Y: 4}, ExpectCost: cost(6)},
		{Name: "bad start unchecked", Start: core.Cell{X: 1, Y: 1}, Goal: core.Cell{X: 4, Y: 4}},
		{Name: "unexpectedly reachable", Start: core.Cell{}, Goal: core.Cell{X: 2, Y: 0}, ExpectUnreachable: true},
	}
	report, err := Run(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	if got := report.Failed(); got != 3 {
		t.Errorf("Failed() = %d, want 3", got)
	}
	if !errors.Is(report.Err(), ErrExpectation) {
		t.Errorf("Err() = %v", report.Err())
	}
	if !errors.Is(report.Outcomes[1].Err, core.ErrInvalidStart) {
		t.Errorf("outcome error = %v", report.Outcomes[1].Err)
	}
	if !report.Outcomes[2].Passed() {
		t.Error("query without expectations should pass")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Scenario)
	}{
		{"zero size", func(s *Scenario) { s.Width = 0 }},
		{"no queries", func(s *Scenario) { s.Queries = nil }},
		{"conflicting expectations", func(s *Scenario) {
			s.Queries[0].ExpectUnreachable = true
		}},
		{"inadmissible options", func(s *Scenario) {
			s.Options = pathfinding.Options{Connectivity: core.Octile, Heuristic: pathfinding.HeuristicManhattan}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := checkerboard()
			tt.modify(s)
			if _, err := Run(context.Background(), s); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunRejectsOutOfBoundsUpdates(t *testing.T) {
	s := checkerboard()
	s.Queries[0].Block = []core.Cell{{X: 9, Y: 9}}
	if _, err := Run(context.Background(), s); !errors.Is(err, core.ErrOutOfBounds) {
		t.Errorf("err = %v, want ErrOutOfBounds", err)
	}
	s = checkerboard()
	s.Obstacles = append(s.Obstacles, core.Cell{X: -1, Y: 0})
	if _, err := Run(context.Background(), s); !errors.Is(err, core.ErrOutOfBounds) {
		t.Errorf("err = %v, want ErrOutOfBounds", err)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := Run(ctx, checkerboard())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if report == nil || len(report.Outcomes) != 0 {
		t.Error("cancelled run should return an empty report")
	}
}
