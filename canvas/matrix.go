package canvas

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"gridpath/core"
	"gridpath/geometry"
)

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidSize = errors.New("invalid canvas size")
	ErrBrokenPath  = errors.New("path cells are not adjacent")
)

var _ Canvas = (*MatrixCanvas)(nil)

// MatrixCanvas is a rune matrix with the drawing primitives needed to show a
// grid, its obstacles and a path across it.
//
// MatrixCanvas is NOT thread-safe for writes.
//
// Coordinate System:
//   - Origin (0,0) is top-left
//   - X increases rightward
//   - Y increases downward
//   - One grid cell is one character cell
type MatrixCanvas struct {
	matrix [][]rune
	width  int
	height int
}

// NewMatrixCanvas creates a new canvas with the specified dimensions.
func NewMatrixCanvas(width, height int) (*MatrixCanvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	matrix := make([][]rune, height)
	for y := 0; y < height; y++ {
		matrix[y] = make([]rune, width)
		for x := 0; x < width; x++ {
			matrix[y][x] = ' '
		}
	}

	return &MatrixCanvas{
		matrix: matrix,
		width:  width,
		height: height,
	}, nil
}

// Size returns the width and height of the canvas.
func (c *MatrixCanvas) Size() (width, height int) {
	return c.width, c.height
}

// Get returns the character at the given position.
// Returns ' ' (space) if position is out of bounds.
func (c *MatrixCanvas) Get(p core.Cell) rune {
	if !c.inBounds(p.X, p.Y) {
		return ' '
	}
	return c.matrix[p.Y][p.X]
}

// Set places a character at the given position.
func (c *MatrixCanvas) Set(p core.Cell, char rune) error {
	if !c.inBounds(p.X, p.Y) {
		return ErrOutOfBounds
	}
	c.matrix[p.Y][p.X] = char
	return nil
}

// Clear resets the canvas to all spaces.
func (c *MatrixCanvas) Clear() {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			c.matrix[y][x] = ' '
		}
	}
}

// String returns the canvas as a string with newlines.
func (c *MatrixCanvas) String() string {
	var sb strings.Builder
	sb.Grow(c.height * (c.width + 1))

	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			r := c.matrix[y][x]
			if r == '\x00' {
				// Wide character continuation
				sb.WriteRune(' ')
			} else {
				sb.WriteRune(r)
			}
		}
		if y < c.height-1 {
			sb.WriteRune('\n')
		}
	}

	return sb.String()
}

// Fill sets every cell for which pick returns a non-zero rune.
func (c *MatrixCanvas) Fill(pick func(core.Cell) rune) {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			if r := pick(core.Cell{X: x, Y: y}); r != 0 {
				c.matrix[y][x] = r
			}
		}
	}
}

// DrawText renders text starting at (x, y), clipped to the canvas.
func (c *MatrixCanvas) DrawText(x, y int, text string) error {
	if y < 0 || y >= c.height {
		return ErrOutOfBounds
	}

	currentX := x
	for _, r := range text {
		width := runewidth.RuneWidth(r)
		if width == 0 {
			continue
		}
		// Wide character doesn't fully fit
		if width == 2 && currentX >= 0 && currentX+1 >= c.width {
			break
		}
		if currentX >= 0 && currentX < c.width {
			c.matrix[y][currentX] = r
			if width == 2 && currentX+1 < c.width {
				c.matrix[y][currentX+1] = '\x00'
			}
		}
		currentX += width
		if currentX >= c.width {
			break
		}
	}

	return nil
}

// DrawPath draws the interior cells of a path of adjacent cells with
// line and corner characters. The endpoints are left untouched so callers
// can mark them.
func (c *MatrixCanvas) DrawPath(cells []core.Cell) error {
	if len(cells) < 2 {
		return fmt.Errorf("path must have at least 2 cells")
	}
	for i := 1; i < len(cells); i++ {
		a, b := cells[i-1], cells[i]
		if geometry.ChebyshevDistance(a.X, a.Y, b.X, b.Y) != 1 {
			return fmt.Errorf("%w: step %d from %s to %s", ErrBrokenPath, i, a, b)
		}
	}
	for i := 1; i < len(cells)-1; i++ {
		c.setClipped(cells[i].X, cells[i].Y, selectGlyph(cells[i-1], cells[i], cells[i+1]))
	}
	return nil
}

// selectGlyph chooses the character for curr given its neighbours on the
// path.
func selectGlyph(prev, curr, next core.Cell) rune {
	fromDir := getDirection(prev, curr)
	toDir := getDirection(curr, next)

	switch {
	case fromDir == 'E' && toDir == 'S', fromDir == 'N' && toDir == 'W':
		return '╮'
	case fromDir == 'E' && toDir == 'N', fromDir == 'S' && toDir == 'W':
		return '╯'
	case fromDir == 'W' && toDir == 'S', fromDir == 'N' && toDir == 'E':
		return '╭'
	case fromDir == 'W' && toDir == 'N', fromDir == 'S' && toDir == 'E':
		return '╰'
	case fromDir == toDir:
		switch fromDir {
		case 'E', 'W':
			return '─'
		case 'N', 'S':
			return '│'
		case '\\':
			return '╲'
		case '/':
			return '╱'
		}
	}
	// Mixed straight and diagonal moves
	return '*'
}

// getDirection returns the compass direction of the step from p1 to p2, or
// '\\' / '/' for a diagonal step.
func getDirection(p1, p2 core.Cell) rune {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	switch {
	case dx != 0 && dy != 0 && (dx > 0) == (dy > 0):
		return '\\'
	case dx != 0 && dy != 0:
		return '/'
	case dx > 0:
		return 'E'
	case dx < 0:
		return 'W'
	case dy > 0:
		return 'S'
	default:
		return 'N'
	}
}

func (c *MatrixCanvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// setClipped sets a character with bounds checking (no error).
func (c *MatrixCanvas) setClipped(x, y int, char rune) {
	if c.inBounds(x, y) {
		c.matrix[y][x] = char
	}
}
