package importer

import (
	"fmt"
	"strings"

	"gridpath/core"
	"gridpath/pathfinding"
	"gridpath/scenario"
)

// document is the format-neutral form shared by the HCL and JSON importers.
type document struct {
	name          string
	width, height int
	obstacles     []core.Cell
	rows          []string
	connectivity  string
	heuristic     string
	diagonalCost  *float64
	maxExpansions int
	queries       []scenario.Query
}

// build turns a decoded document into a scenario. Rows, when present, add
// their obstacles and fix the size if width and height were left out.
func (d *document) build() (*scenario.Scenario, error) {
	s := &scenario.Scenario{
		Name:      d.name,
		Width:     d.width,
		Height:    d.height,
		Obstacles: append([]core.Cell(nil), d.obstacles...),
		Queries:   d.queries,
	}

	if len(d.rows) > 0 {
		cells, w, h, err := parseRows(d.rows, nil)
		if err != nil {
			return nil, err
		}
		if s.Width == 0 && s.Height == 0 {
			s.Width, s.Height = w, h
		} else if s.Width != w || s.Height != h {
			return nil, fmt.Errorf("rows describe a %dx%d grid, but width/height say %dx%d", w, h, s.Width, s.Height)
		}
		s.Obstacles = append(s.Obstacles, cells...)
	}

	conn, err := core.ParseConnectivity(d.connectivity)
	if err != nil {
		return nil, err
	}
	h, err := pathfinding.ParseHeuristic(d.heuristic)
	if err != nil {
		return nil, err
	}
	s.Options = pathfinding.Options{
		Connectivity:  conn,
		Heuristic:     h,
		MaxExpansions: d.maxExpansions,
	}
	if d.diagonalCost != nil {
		s.Options.DiagonalCost = *d.diagonalCost
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// markers collects the positions of special characters found by parseRows.
type markers map[rune][]core.Cell

// parseRows reads an ASCII map: '#' or 'X' blocks a cell, '.' is free. Any
// rune present in found is recorded there and treated as free.
func parseRows(rows []string, found markers) (obstacles []core.Cell, width, height int, err error) {
	for y, row := range rows {
		row = strings.TrimRight(row, " \t\r")
		runes := []rune(row)
		if y == 0 {
			width = len(runes)
		} else if len(runes) != width {
			return nil, 0, 0, fmt.Errorf("%w: row %d has %d cells, want %d", core.ErrInvalidSize, y, len(runes), width)
		}
		for x, r := range runes {
			c := core.Cell{X: x, Y: y}
			switch r {
			case '#', 'X':
				obstacles = append(obstacles, c)
			case '.':
			default:
				if _, ok := found[r]; !ok {
					return nil, 0, 0, fmt.Errorf("row %d col %d: unexpected %q", y, x, r)
				}
				found[r] = append(found[r], c)
			}
		}
	}
	return obstacles, width, len(rows), nil
}
