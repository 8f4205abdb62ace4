package export

import (
	"gridpath/core"
	"gridpath/scenario"
)

// reportDoc is the serialized form shared by the JSON and MessagePack
// exporters.
type reportDoc struct {
	Scenario      string     `json:"scenario" msgpack:"scenario"`
	Connectivity  string     `json:"connectivity" msgpack:"connectivity"`
	Heuristic     string     `json:"heuristic" msgpack:"heuristic"`
	DiagonalCost  float64    `json:"diagonal_cost" msgpack:"diagonal_cost"`
	Queries       []queryDoc `json:"queries" msgpack:"queries"`
	Failed        int        `json:"failed" msgpack:"failed"`
	Cache         cacheDoc   `json:"cache" msgpack:"cache"`
	ElapsedMicros int64      `json:"elapsed_us" msgpack:"elapsed_us"`
}

type queryDoc struct {
	Name          string   `json:"name,omitempty" msgpack:"name,omitempty"`
	Start         [2]int   `json:"start" msgpack:"start"`
	Goal          [2]int   `json:"goal" msgpack:"goal"`
	Found         bool     `json:"found" msgpack:"found"`
	Cost          *float64 `json:"cost,omitempty" msgpack:"cost,omitempty"`
	Path          [][2]int `json:"path,omitempty" msgpack:"path,omitempty"`
	Cached        bool     `json:"cached" msgpack:"cached"`
	Expanded      int      `json:"expanded" msgpack:"expanded"`
	ElapsedMicros int64    `json:"elapsed_us" msgpack:"elapsed_us"`
	Error         string   `json:"error,omitempty" msgpack:"error,omitempty"`
	Passed        bool     `json:"passed" msgpack:"passed"`
	Failures      []string `json:"failures,omitempty" msgpack:"failures,omitempty"`
}

type cacheDoc struct {
	Hits          int `json:"hits" msgpack:"hits"`
	Misses        int `json:"misses" msgpack:"misses"`
	Stale         int `json:"stale" msgpack:"stale"`
	Invalidations int `json:"invalidations" msgpack:"invalidations"`
	Retained      int `json:"retained" msgpack:"retained"`
}

func newReportDoc(r *scenario.Report) reportDoc {
	opts := r.Options
	doc := reportDoc{
		Scenario:     r.Scenario,
		Connectivity: opts.Connectivity.String(),
		Heuristic:    opts.Heuristic.String(),
		DiagonalCost: opts.DiagonalCost,
		Failed:       r.Failed(),
		Cache: cacheDoc{
			Hits:          r.Cache.Hits,
			Misses:        r.Cache.Misses,
			Stale:         r.Cache.Stale,
			Invalidations: r.Cache.Invalidations,
			Retained:      r.Cache.Retained,
		},
		ElapsedMicros: r.Elapsed.Microseconds(),
		Queries:       make([]queryDoc, 0, len(r.Outcomes)),
	}
	for _, o := range r.Outcomes {
		q := queryDoc{
			Name:          o.Query.Name,
			Start:         xy(o.Query.Start),
			Goal:          xy(o.Query.Goal),
			Found:         o.Result.Found,
			Cached:        o.Result.Cached,
			Expanded:      o.Result.Expanded,
			ElapsedMicros: o.Result.Elapsed.Microseconds(),
			Passed:        o.Passed(),
			Failures:      o.Failures,
		}
		if o.Err != nil {
			q.Error = o.Err.Error()
		}
		if o.Result.Found {
			cost := o.Result.Path.Cost
			q.Cost = &cost
			q.Path = make([][2]int, len(o.Result.Path.Cells))
			for i, c := range o.Result.Path.Cells {
				q.Path[i] = xy(c)
			}
		}
		doc.Queries = append(doc.Queries, q)
	}
	return doc
}

func xy(c core.Cell) [2]int { return [2]int{c.X, c.Y} }
