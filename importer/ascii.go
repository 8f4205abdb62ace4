package importer

import (
	"fmt"
	"strings"

	"gridpath/pathfinding"
	"gridpath/scenario"
)

// ASCIIImporter reads a plain map: '.' free, '#' or 'X' blocked, 'S' start
// and 'G' goal. It produces a single query from S to G.
type ASCIIImporter struct {
	// Options applied to the imported scenario.
	Options pathfinding.Options
}

// NewASCIIImporter creates an ASCII importer with default search options.
func NewASCIIImporter() *ASCIIImporter {
	return &ASCIIImporter{Options: pathfinding.DefaultOptions()}
}

// CanImport accepts content made only of map characters with an S and a G.
func (a *ASCIIImporter) CanImport(content string) bool {
	lines := mapLines(content)
	if len(lines) == 0 {
		return false
	}
	var hasStart, hasGoal bool
	for _, line := range lines {
		for _, r := range line {
			switch r {
			case '.', '#', 'X':
			case 'S':
				hasStart = true
			case 'G':
				hasGoal = true
			default:
				return false
			}
		}
	}
	return hasStart && hasGoal
}

// Import converts the map into a one-query scenario.
func (a *ASCIIImporter) Import(content string) (*scenario.Scenario, error) {
	lines := mapLines(content)
	if len(lines) == 0 {
		return nil, fmt.Errorf("empty map")
	}
	found := markers{'S': nil, 'G': nil}
	obstacles, width, height, err := parseRows(lines, found)
	if err != nil {
		return nil, err
	}
	if len(found['S']) != 1 || len(found['G']) != 1 {
		return nil, fmt.Errorf("map needs exactly one S and one G, found %d and %d", len(found['S']), len(found['G']))
	}

	s := &scenario.Scenario{
		Width:     width,
		Height:    height,
		Obstacles: obstacles,
		Options:   a.Options,
		Queries: []scenario.Query{{
			Name:  "map",
			Start: found['S'][0],
			Goal:  found['G'][0],
		}},
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// GetFormatName returns the format name
func (a *ASCIIImporter) GetFormatName() string {
	return "ASCII"
}

// GetFileExtensions returns common file extensions for this format
func (a *ASCIIImporter) GetFileExtensions() []string {
	return []string{".txt", ".map"}
}

// mapLines returns the non-blank lines with trailing whitespace removed.
func mapLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(trimBOM(content), "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
