// Package geometry holds the small distance helpers shared by the heuristics
// and the path validator.
package geometry

import "math"

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the minimum of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ManhattanDistance calculates the Manhattan distance between two points.
func ManhattanDistance(x1, y1, x2, y2 int) int {
	return Abs(x2-x1) + Abs(y2-y1)
}

// ChebyshevDistance is the number of king moves between two points.
func ChebyshevDistance(x1, y1, x2, y2 int) int {
	return Max(Abs(x2-x1), Abs(y2-y1))
}

// EuclideanDistance calculates the straight-line distance between two points.
func EuclideanDistance(x1, y1, x2, y2 int) float64 {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	return math.Sqrt(dx*dx + dy*dy)
}

// OctileDistance is the cost of the cheapest obstacle-free route when
// straight steps cost 1 and diagonal steps cost diagonal.
func OctileDistance(x1, y1, x2, y2 int, diagonal float64) float64 {
	dx := Abs(x2 - x1)
	dy := Abs(y2 - y1)
	lo, hi := Min(dx, dy), Max(dx, dy)
	return float64(lo)*diagonal + float64(hi-lo)
}

// AlmostEqual compares costs built from sums of irrational step costs.
func AlmostEqual(a, b float64) bool {
	const eps = 1e-9
	return math.Abs(a-b) <= eps*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
