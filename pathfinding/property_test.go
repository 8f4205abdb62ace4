package pathfinding

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gridpath/core"
	"gridpath/geometry"
	"gridpath/grid"
	"gridpath/gridgen"
)

const propertySeeds = 40

func randomGrid(t testing.TB, seed int64, size int, density float64) (*grid.Grid, core.Cell, core.Cell) {
	t.Helper()
	start, goal := core.Cell{}, core.Cell{X: size - 1, Y: size - 1}
	g, err := gridgen.Random(gridgen.RandomConfig{
		Width: size, Height: size, Density: density, Seed: seed,
		Keep: []core.Cell{start, goal},
	})
	if err != nil {
		t.Fatalf("gridgen: %v", err)
	}
	return g, start, goal
}

func TestOptimalityCardinalMatchesBFS(t *testing.T) {
	for seed := int64(1); seed <= propertySeeds; seed++ {
		g, start, goal := randomGrid(t, seed, 15, 0.3)
		res, err := Search(g, start, goal, DefaultOptions())
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		want := bfsDistance(g, start, goal)
		if want < 0 {
			if res.Found {
				t.Errorf("seed %d: found %s where BFS found nothing", seed, res.Path)
			}
			continue
		}
		if !res.Found || res.Path.Cost != float64(want) {
			t.Errorf("seed %d: cost %v, BFS %d\n%s", seed, res.Path.Cost, want, g)
			continue
		}
		assertValidPath(t, g, DefaultOptions(), res.Path, start, goal)
	}
}

func TestOptimalityOctileMatchesDijkstra(t *testing.T) {
	for _, diagonal := range []float64{1, 1.5, math.Sqrt2, 2} {
		opts := Options{Connectivity: core.Octile, DiagonalCost: diagonal}
		for seed := int64(1); seed <= propertySeeds; seed++ {
			g, start, goal := randomGrid(t, seed, 12, 0.3)
			res, err := Search(g, start, goal, opts)
			if err != nil {
				t.Fatalf("seed %d: %v", seed, err)
			}
			want := dijkstra(g, start, core.Octile, diagonal)[g.Index(goal)]
			if math.IsInf(want, 1) {
				if res.Found {
					t.Errorf("diag %.2f seed %d: found path Dijkstra missed", diagonal, seed)
				}
				continue
			}
			if !res.Found || !geometry.AlmostEqual(res.Path.Cost, want) {
				t.Errorf("diag %.2f seed %d: cost %v, Dijkstra %v", diagonal, seed, res.Path.Cost, want)
				continue
			}
			assertValidPath(t, g, opts, res.Path, start, goal)
		}
	}
}

func TestHeuristicsAreAdmissible(t *testing.T) {
	tests := []struct {
		name     string
		conn     core.Connectivity
		diagonal float64
		h        Heuristic
	}{
		{"cardinal manhattan", core.Cardinal, math.Sqrt2, Manhattan},
		{"cardinal euclidean", core.Cardinal, math.Sqrt2, Euclidean},
		{"cardinal chebyshev", core.Cardinal, math.Sqrt2, Chebyshev},
		{"octile chebyshev", core.Octile, math.Sqrt2, Chebyshev},
		{"octile euclidean", core.Octile, math.Sqrt2, Euclidean},
		{"octile octile", core.Octile, math.Sqrt2, Octile(math.Sqrt2)},
		{"octile unit diagonal", core.Octile, 1, Octile(1)},
		{"octile expensive diagonal", core.Octile, 2, Octile(2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(1); seed <= 10; seed++ {
				g, _, goal := randomGrid(t, seed, 12, 0.25)
				dist := dijkstra(g, goal, tt.conn, tt.diagonal)
				for idx, d := range dist {
					if math.IsInf(d, 1) {
						continue
					}
					c := g.CellAt(idx)
					if est := tt.h(c, goal); est > d+1e-9 {
						t.Fatalf("seed %d: h(%s) = %f exceeds true cost %f", seed, c, est, d)
					}
				}
			}
		})
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	for _, opts := range []Options{DefaultOptions(), {Connectivity: core.Octile}} {
		for seed := int64(1); seed <= 10; seed++ {
			g, start, goal := randomGrid(t, seed, 20, 0.2)
			a, errA := Search(g, start, goal, opts)
			b, errB := Search(g.Clone(), start, goal, opts)
			if errA != nil || errB != nil {
				t.Fatalf("seed %d: %v %v", seed, errA, errB)
			}
			if diff := cmp.Diff(a.Path, b.Path); diff != "" {
				t.Errorf("seed %d %s: paths differ (-a +b):\n%s", seed, opts.Connectivity, diff)
			}
		}
	}
}

// TestCacheMatchesRecomputation interleaves random obstacle changes with
// queries and checks every answer, cells included, against a fresh search.
func TestCacheMatchesRecomputation(t *testing.T) {
	for _, conn := range []core.Connectivity{core.Cardinal, core.Octile} {
		t.Run(conn.String(), func(t *testing.T) {
			for seed := int64(1); seed <= 15; seed++ {
				rng := rand.New(rand.NewSource(seed))
				g, start, goal := randomGrid(t, seed, 10, 0.2)
				p, err := NewPlannerForGrid(g, WithConnectivity(conn))
				if err != nil {
					t.Fatal(err)
				}
				opts := p.Options()

				hits := 0
				for step := 0; step < 60; step++ {
					c := core.Cell{X: rng.Intn(10), Y: rng.Intn(10)}
					if c != start && c != goal {
						if err := p.SetObstacleAt(c, !p.IsObstacle(c.X, c.Y)); err != nil {
							t.Fatal(err)
						}
					}

					got, err := p.Query(t.Context(), start, goal)
					if err != nil {
						t.Fatalf("seed %d step %d: %v", seed, step, err)
					}
					if got.Cached {
						hits++
					}
					snapshot := p.Snapshot()
					want, err := Search(snapshot, start, goal, opts)
					if err != nil {
						t.Fatal(err)
					}
					if got.Found != want.Found {
						t.Fatalf("seed %d step %d: cached found=%v, fresh found=%v\n%s",
							seed, step, got.Found, want.Found, snapshot)
					}
					if !got.Found {
						continue
					}
					if !geometry.AlmostEqual(got.Path.Cost, want.Path.Cost) {
						t.Fatalf("seed %d step %d: cost %v (cached=%v), fresh %v\n%s",
							seed, step, got.Path.Cost, got.Cached, want.Path.Cost, snapshot)
					}
					assertValidPath(t, snapshot, opts, got.Path, start, goal)
					if diff := cmp.Diff(want.Path.Cells, got.Path.Cells); diff != "" {
						t.Fatalf("seed %d step %d: cells differ from a fresh search (-fresh +got, cached=%v):\n%s\n%s",
							seed, step, got.Cached, diff, snapshot)
					}
				}
				if hits == 0 {
					t.Logf("seed %d: no cache hits", seed)
				}
			}
		})
	}
}
