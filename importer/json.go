package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gridpath/core"
	"gridpath/scenario"
)

type jsonScenario struct {
	Name          string      `json:"name,omitempty"`
	Width         int         `json:"width"`
	Height        int         `json:"height"`
	Obstacles     [][2]int    `json:"obstacles,omitempty"`
	Rows          []string    `json:"rows,omitempty"`
	Connectivity  string      `json:"connectivity"`
	Heuristic     string      `json:"heuristic"`
	DiagonalCost  *float64    `json:"diagonal_cost,omitempty"`
	MaxExpansions int         `json:"max_expansions,omitempty"`
	Queries       []jsonQuery `json:"queries"`
}

type jsonQuery struct {
	Name              string   `json:"name,omitempty"`
	Start             *[2]int  `json:"start"`
	Goal              *[2]int  `json:"goal"`
	Block             [][2]int `json:"block,omitempty"`
	Unblock           [][2]int `json:"unblock,omitempty"`
	ExpectCost        *float64 `json:"expect_cost,omitempty"`
	ExpectUnreachable bool     `json:"expect_unreachable,omitempty"`
}

// JSONImporter reads scenarios written as JSON objects.
type JSONImporter struct{}

// NewJSONImporter creates a new JSON importer
func NewJSONImporter() *JSONImporter {
	return &JSONImporter{}
}

// CanImport checks for a JSON object.
func (j *JSONImporter) CanImport(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(trimBOM(content)), "{")
}

// Import decodes content. Unknown fields are rejected to catch typos.
func (j *JSONImporter) Import(content string) (*scenario.Scenario, error) {
	dec := json.NewDecoder(strings.NewReader(trimBOM(content)))
	dec.DisallowUnknownFields()
	var raw jsonScenario
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode JSON scenario: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("failed to decode JSON scenario: trailing data")
	}

	doc := &document{
		name:          raw.Name,
		width:         raw.Width,
		height:        raw.Height,
		obstacles:     pairs(raw.Obstacles),
		rows:          raw.Rows,
		connectivity:  raw.Connectivity,
		heuristic:     raw.Heuristic,
		diagonalCost:  raw.DiagonalCost,
		maxExpansions: raw.MaxExpansions,
	}
	for i, q := range raw.Queries {
		if q.Start == nil || q.Goal == nil {
			return nil, fmt.Errorf("query %d: start and goal are required", i+1)
		}
		doc.queries = append(doc.queries, scenario.Query{
			Name:              q.Name,
			Start:             core.Cell{X: q.Start[0], Y: q.Start[1]},
			Goal:              core.Cell{X: q.Goal[0], Y: q.Goal[1]},
			Block:             pairs(q.Block),
			Unblock:           pairs(q.Unblock),
			ExpectCost:        q.ExpectCost,
			ExpectUnreachable: q.ExpectUnreachable,
		})
	}
	return doc.build()
}

// GetFormatName returns the format name
func (j *JSONImporter) GetFormatName() string {
	return "JSON"
}

// GetFileExtensions returns common file extensions for this format
func (j *JSONImporter) GetFileExtensions() []string {
	return []string{".json"}
}

func pairs(in [][2]int) []core.Cell {
	if len(in) == 0 {
		return nil
	}
	out := make([]core.Cell, len(in))
	for i, p := range in {
		out[i] = core.Cell{X: p[0], Y: p[1]}
	}
	return out
}

// MarshalJSON writes s in the format JSONImporter reads, so scenarios from
// any supported format can be converted to JSON.
func MarshalJSON(s *scenario.Scenario) ([]byte, error) {
	raw := jsonScenario{
		Name:          s.Name,
		Width:         s.Width,
		Height:        s.Height,
		Obstacles:     xyPairs(s.Obstacles),
		Connectivity:  s.Options.Connectivity.String(),
		Heuristic:     s.Options.Heuristic.String(),
		MaxExpansions: s.Options.MaxExpansions,
	}
	if s.Options.DiagonalCost != 0 {
		cost := s.Options.DiagonalCost
		raw.DiagonalCost = &cost
	}
	for _, q := range s.Queries {
		start, goal := [2]int{q.Start.X, q.Start.Y}, [2]int{q.Goal.X, q.Goal.Y}
		raw.Queries = append(raw.Queries, jsonQuery{
			Name:              q.Name,
			Start:             &start,
			Goal:              &goal,
			Block:             xyPairs(q.Block),
			Unblock:           xyPairs(q.Unblock),
			ExpectCost:        q.ExpectCost,
			ExpectUnreachable: q.ExpectUnreachable,
		})
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func xyPairs(cells []core.Cell) [][2]int {
	if len(cells) == 0 {
		return nil
	}
	out := make([][2]int, len(cells))
	for i, c := range cells {
		out[i] = [2]int{c.X, c.Y}
	}
	return out
}

// trimBOM drops a UTF-8 byte order mark some editors prepend.
func trimBOM(content string) string {
	return string(bytes.TrimPrefix([]byte(content), []byte("\xef\xbb\xbf")))
}
