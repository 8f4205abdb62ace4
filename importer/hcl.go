package importer

import (
	"fmt"
	"regexp"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"gridpath/core"
	"gridpath/scenario"
)

// hclRoot is the top level of a scenario file.
type hclRoot struct {
	Name    string      `hcl:"name,optional"`
	Grid    *hclGrid    `hcl:"grid,block"`
	Search  *hclSearch  `hcl:"search,block"`
	Queries []*hclQuery `hcl:"query,block"`
}

type hclGrid struct {
	Width     int            `hcl:"width,optional"`
	Height    int            `hcl:"height,optional"`
	Obstacles hcl.Expression `hcl:"obstacles,optional"`
	Rows      []string       `hcl:"rows,optional"`
}

type hclSearch struct {
	Connectivity  string   `hcl:"connectivity,optional"`
	Heuristic     string   `hcl:"heuristic,optional"`
	DiagonalCost  *float64 `hcl:"diagonal_cost,optional"`
	MaxExpansions int      `hcl:"max_expansions,optional"`
}

type hclQuery struct {
	Name              string         `hcl:"name,label"`
	Start             hcl.Expression `hcl:"start"`
	Goal              hcl.Expression `hcl:"goal"`
	Block             hcl.Expression `hcl:"block,optional"`
	Unblock           hcl.Expression `hcl:"unblock,optional"`
	ExpectCost        *float64       `hcl:"expect_cost,optional"`
	ExpectUnreachable bool           `hcl:"expect_unreachable,optional"`
}

var hclGridBlock = regexp.MustCompile(`(?m)^\s*grid\s*\{`)

// HCLImporter reads scenario files written in HCL.
type HCLImporter struct{}

// NewHCLImporter creates a new HCL importer
func NewHCLImporter() *HCLImporter {
	return &HCLImporter{}
}

// CanImport checks for a top-level grid block.
func (h *HCLImporter) CanImport(content string) bool {
	return hclGridBlock.MatchString(content)
}

// Import parses content as an HCL scenario.
func (h *HCLImporter) Import(content string) (*scenario.Scenario, error) {
	return h.ImportNamed("scenario.hcl", content)
}

// ImportNamed parses content, using name in diagnostics.
func (h *HCLImporter) ImportNamed(name, content string) (*scenario.Scenario, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL([]byte(content), name)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", name, diags)
	}

	var root hclRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", name, diags)
	}
	if root.Grid == nil {
		return nil, fmt.Errorf("%s: missing grid block", name)
	}

	doc := &document{
		name:   root.Name,
		width:  root.Grid.Width,
		height: root.Grid.Height,
		rows:   root.Grid.Rows,
	}
	var err error
	if doc.obstacles, err = cellList(root.Grid.Obstacles, "grid.obstacles"); err != nil {
		return nil, err
	}
	if s := root.Search; s != nil {
		doc.connectivity = s.Connectivity
		doc.heuristic = s.Heuristic
		doc.diagonalCost = s.DiagonalCost
		doc.maxExpansions = s.MaxExpansions
	}

	for _, q := range root.Queries {
		query := scenario.Query{
			Name:              q.Name,
			ExpectCost:        q.ExpectCost,
			ExpectUnreachable: q.ExpectUnreachable,
		}
		prefix := fmt.Sprintf("query %q", q.Name)
		if query.Start, err = cellValue(q.Start, prefix+".start"); err != nil {
			return nil, err
		}
		if query.Goal, err = cellValue(q.Goal, prefix+".goal"); err != nil {
			return nil, err
		}
		if query.Block, err = cellList(q.Block, prefix+".block"); err != nil {
			return nil, err
		}
		if query.Unblock, err = cellList(q.Unblock, prefix+".unblock"); err != nil {
			return nil, err
		}
		doc.queries = append(doc.queries, query)
	}

	s, err := doc.build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

// GetFormatName returns the format name
func (h *HCLImporter) GetFormatName() string {
	return "HCL"
}

// GetFileExtensions returns common file extensions for this format
func (h *HCLImporter) GetFileExtensions() []string {
	return []string{".hcl", ".gridpath"}
}

// cellValue evaluates expr as a two-element [x, y] sequence.
func cellValue(expr hcl.Expression, attr string) (core.Cell, error) {
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return core.Cell{}, fmt.Errorf("%s: %w", attr, diags)
	}
	return toCell(v, attr)
}

// cellList evaluates expr as a list of [x, y] pairs. An absent optional
// attribute evaluates to null and yields no cells.
func cellList(expr hcl.Expression, attr string) ([]core.Cell, error) {
	if expr == nil {
		return nil, nil
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s: %w", attr, diags)
	}
	if v.IsNull() {
		return nil, nil
	}
	if !v.CanIterateElements() {
		return nil, fmt.Errorf("%s: expected a list of [x, y] pairs, got %s", attr, v.Type().FriendlyName())
	}
	var cells []core.Cell
	for it := v.ElementIterator(); it.Next(); {
		idx, el := it.Element()
		c, err := toCell(el, fmt.Sprintf("%s[%s]", attr, idx.AsBigFloat().String()))
		if err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	return cells, nil
}

func toCell(v cty.Value, attr string) (core.Cell, error) {
	if v.IsNull() || !v.IsKnown() {
		return core.Cell{}, fmt.Errorf("%s: missing coordinates", attr)
	}
	if !(v.Type().IsTupleType() || v.Type().IsListType()) || v.LengthInt() != 2 {
		return core.Cell{}, fmt.Errorf("%s: expected [x, y], got %s", attr, v.Type().FriendlyName())
	}
	var xy [2]int
	for i := 0; i < 2; i++ {
		el := v.Index(cty.NumberIntVal(int64(i)))
		if err := gocty.FromCtyValue(el, &xy[i]); err != nil {
			return core.Cell{}, fmt.Errorf("%s: coordinate %d: %w", attr, i, err)
		}
	}
	return core.Cell{X: xy[0], Y: xy[1]}, nil
}
