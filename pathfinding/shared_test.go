package pathfinding

import (
	"sync"
	"testing"

	"gridpath/core"
)

func TestSharedPlannerConcurrentQueries(t *testing.T) {
	p, err := NewPlanner(20, 20)
	if err != nil {
		t.Fatal(err)
	}
	sp := NewSharedPlanner(p)
	start, goal := core.Cell{}, core.Cell{X: 19, Y: 19}

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				path, found, err := sp.FindPath(start, goal)
				if err != nil {
					errs <- err
					return
				}
				// Toggled cells never cut every monotone route.
				if !found || path.Cost != 38 || path.Start() != start || path.Goal() != goal {
					t.Errorf("bad answer: found=%v %s", found, path)
					return
				}
				path.Cells[0] = core.Cell{X: 3, Y: 3}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 50; j++ {
			if err := sp.SetObstacle(5+j%10, 10, j%20 < 10); err != nil {
				errs <- err
				return
			}
		}
	}()
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	stats := sp.CacheStats()
	if stats.Hits+stats.Misses+stats.Stale == 0 {
		t.Error("no cache lookups recorded")
	}
	if sp.Snapshot().Width() != 20 {
		t.Error("snapshot has wrong size")
	}
}

func TestSharedPlannerReplaceObstacles(t *testing.T) {
	p, _ := NewPlanner(4, 4)
	sp := NewSharedPlanner(p)
	if err := sp.ReplaceObstacles(cells(1, 0, 1, 1, 1, 2, 1, 3)); err != nil {
		t.Fatal(err)
	}
	_, found, err := sp.FindPath(core.Cell{}, core.Cell{X: 3, Y: 3})
	if err != nil || found {
		t.Errorf("found=%v err=%v, want unreachable", found, err)
	}
	if _, _, err := sp.FindPath(core.Cell{X: 1, Y: 1}, core.Cell{}); err == nil {
		t.Error("expected endpoint error")
	}
}
