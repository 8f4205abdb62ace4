// Package canvas provides a 2D character grid for rendering grids and paths
// as text.
package canvas

import "gridpath/core"

// Canvas is a drawable character surface addressed by grid cell.
type Canvas interface {
	Get(c core.Cell) rune
	Set(c core.Cell, char rune) error
	Size() (width, height int)
	Clear()
	String() string
}
