package export

import (
	"fmt"
	"strings"

	"gridpath/canvas"
	"gridpath/core"
	"gridpath/grid"
	"gridpath/scenario"
)

// Glyphs used for cells that are not part of a path.
const (
	GlyphFree     = '.'
	GlyphObstacle = '#'
	GlyphStart    = 'S'
	GlyphGoal     = 'G'
)

// ASCIIExporter draws every query's grid with its path overlaid, followed by
// a one-line summary per query and one for the whole report.
type ASCIIExporter struct {
	// Color adds ANSI colors: dim free cells, red obstacles, cyan paths.
	Color bool
}

// NewASCIIExporter creates a new ASCII exporter
func NewASCIIExporter() *ASCIIExporter {
	return &ASCIIExporter{}
}

// Export renders the report as text
func (e *ASCIIExporter) Export(r *scenario.Report) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("report is nil")
	}

	var sb strings.Builder
	if r.Scenario != "" {
		fmt.Fprintf(&sb, "scenario %s (%s, %s)\n", r.Scenario, r.Options.Connectivity, r.Options.Heuristic)
	}
	for i, o := range r.Outcomes {
		if i > 0 {
			sb.WriteString("\n")
		}
		name := o.Query.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		fmt.Fprintf(&sb, "query %s: %s -> %s\n", name, o.Query.Start, o.Query.Goal)

		if o.Grid != nil {
			drawing, err := e.Render(o.Grid, o.Query.Start, o.Query.Goal, o.Result.Path)
			if err != nil {
				return nil, fmt.Errorf("query %s: %w", name, err)
			}
			sb.WriteString(drawing)
			sb.WriteString("\n")
		}
		sb.WriteString(Summary(o))
		sb.WriteString("\n")
		for _, f := range o.Failures {
			fmt.Fprintf(&sb, "  FAIL: %s\n", f)
		}
	}

	fmt.Fprintf(&sb, "\n%d queries, %d failed, %s\n", len(r.Outcomes), r.Failed(), r.Cache)
	return []byte(sb.String()), nil
}

// Render draws g with path overlaid and the endpoints marked.
func (e *ASCIIExporter) Render(g *grid.Grid, start, goal core.Cell, path core.Path) (string, error) {
	c, err := canvas.NewColoredMatrixCanvas(g.Width(), g.Height())
	if err != nil {
		return "", err
	}
	c.Fill(func(cell core.Cell) rune {
		if g.IsObstacle(cell) {
			c.SetColor(cell, "red")
			return GlyphObstacle
		}
		c.SetColor(cell, "dim")
		return GlyphFree
	})

	if len(path.Cells) >= 2 {
		if err := c.DrawPath(path.Cells); err != nil {
			return "", fmt.Errorf("draw path: %w", err)
		}
		for _, cell := range path.Cells[1 : len(path.Cells)-1] {
			c.SetColor(cell, "cyan")
		}
	}
	// Endpoints outside the grid are reported by the summary instead.
	if g.InBounds(start) {
		if err := c.SetWithColor(start, GlyphStart, "green"); err != nil {
			return "", fmt.Errorf("start %s: %w", start, err)
		}
	}
	if g.InBounds(goal) {
		if err := c.SetWithColor(goal, GlyphGoal, "yellow"); err != nil {
			return "", fmt.Errorf("goal %s: %w", goal, err)
		}
	}

	if e.Color {
		return c.ColoredString(), nil
	}
	return c.String(), nil
}

// Summary describes the result of one query on a single line.
func Summary(o scenario.Outcome) string {
	res := o.Result
	switch {
	case o.Err != nil:
		return fmt.Sprintf("error: %v", o.Err)
	case !res.Found:
		return fmt.Sprintf("unreachable | expanded %d", res.Expanded)
	}
	source := "searched"
	if res.Cached {
		source = "cached"
	}
	return fmt.Sprintf("cost %.6g | %d cells | expanded %d | %s", res.Path.Cost, len(res.Path.Cells), res.Expanded, source)
}

// GetFileExtension returns the recommended file extension
func (e *ASCIIExporter) GetFileExtension() string {
	return ".txt"
}

// GetFormatName returns the format name
func (e *ASCIIExporter) GetFormatName() string {
	return "ASCII"
}
