package pathfinding

import (
	"container/heap"

	"gridpath/core"
)

// SearchNode is one frontier entry. The same cell may be pushed several
// times as better costs are found; stale entries are skipped on pop.
type SearchNode struct {
	Cell core.Cell
	G    float64 // Cost from start
	H    float64 // Heuristic cost to goal
	F    float64 // G + H
	seq  uint64  // Insertion order, the final tie-breaker
}

// nodeQueue implements heap.Interface.
type nodeQueue []SearchNode

func (nq nodeQueue) Len() int { return len(nq) }
func (nq nodeQueue) Less(i, j int) bool {
	// Primary sort by F
	if nq[i].F != nq[j].F {
		return nq[i].F < nq[j].F
	}

	// Tie-breaker 1: prefer nodes closer to goal (lower H, higher G)
	if nq[i].H != nq[j].H {
		return nq[i].H < nq[j].H
	}

	// Tie-breaker 2: first pushed, first popped
	return nq[i].seq < nq[j].seq
}
func (nq nodeQueue) Swap(i, j int) { nq[i], nq[j] = nq[j], nq[i] }

func (nq *nodeQueue) Push(x any) {
	*nq = append(*nq, x.(SearchNode))
}

func (nq *nodeQueue) Pop() any {
	old := *nq
	n := len(old)
	node := old[n-1]
	*nq = old[:n-1]
	return node
}

// Frontier is a binary min-heap of search nodes ordered by F, then H, then
// insertion order. There is no decrease-key: a cell whose cost improves is
// pushed again and the engine drops the outdated entry when it surfaces.
type Frontier struct {
	queue nodeQueue
	next  uint64
}

// NewFrontier creates a frontier with room for capacity entries.
func NewFrontier(capacity int) *Frontier {
	return &Frontier{queue: make(nodeQueue, 0, capacity)}
}

// Push adds cell with cost-so-far g and heuristic estimate h.
func (f *Frontier) Push(cell core.Cell, g, h float64) {
	heap.Push(&f.queue, SearchNode{Cell: cell, G: g, H: h, F: g + h, seq: f.next})
	f.next++
}

// PopMin removes and returns the entry with the smallest F. ok is false
// when the frontier is empty.
func (f *Frontier) PopMin() (node SearchNode, ok bool) {
	if len(f.queue) == 0 {
		return SearchNode{}, false
	}
	return heap.Pop(&f.queue).(SearchNode), true
}

// IsEmpty reports whether no entries remain.
func (f *Frontier) IsEmpty() bool { return len(f.queue) == 0 }

// Len returns the number of entries, stale ones included.
func (f *Frontier) Len() int { return len(f.queue) }
