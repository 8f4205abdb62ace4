package canvas

import (
	"strings"

	"gridpath/core"
)

// ANSI color codes
const (
	ColorReset   = "\033[0m"
	ColorRed     = "\033[31m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorBlue    = "\033[34m"
	ColorMagenta = "\033[35m"
	ColorCyan    = "\033[36m"
	ColorWhite   = "\033[37m"
	StyleDim     = "\033[2m"
)

// GetColorCode returns the ANSI color code for a color name
func GetColorCode(color string) string {
	switch color {
	case "red":
		return ColorRed
	case "green":
		return ColorGreen
	case "yellow":
		return ColorYellow
	case "blue":
		return ColorBlue
	case "magenta":
		return ColorMagenta
	case "cyan":
		return ColorCyan
	case "white":
		return ColorWhite
	case "dim":
		return StyleDim
	default:
		return ""
	}
}

// ColoredMatrixCanvas extends MatrixCanvas to support colored characters
type ColoredMatrixCanvas struct {
	*MatrixCanvas
	colors [][]string // Color code for each position
}

// NewColoredMatrixCanvas creates a new colored matrix canvas
func NewColoredMatrixCanvas(width, height int) (*ColoredMatrixCanvas, error) {
	m, err := NewMatrixCanvas(width, height)
	if err != nil {
		return nil, err
	}
	colors := make([][]string, height)
	for i := range colors {
		colors[i] = make([]string, width)
	}
	return &ColoredMatrixCanvas{MatrixCanvas: m, colors: colors}, nil
}

// SetColor colors the character already at p.
func (c *ColoredMatrixCanvas) SetColor(p core.Cell, color string) {
	if c.inBounds(p.X, p.Y) {
		c.colors[p.Y][p.X] = GetColorCode(color)
	}
}

// SetWithColor sets a character with a specific color
func (c *ColoredMatrixCanvas) SetWithColor(p core.Cell, char rune, color string) error {
	if err := c.MatrixCanvas.Set(p, char); err != nil {
		return err
	}
	c.colors[p.Y][p.X] = GetColorCode(color)
	return nil
}

// ColoredString returns the canvas as a string with ANSI color codes
func (c *ColoredMatrixCanvas) ColoredString() string {
	var sb strings.Builder

	for y := 0; y < c.height; y++ {
		currentColor := ""
		for x := 0; x < c.width; x++ {
			char := c.matrix[y][x]
			color := c.colors[y][x]

			if color != currentColor {
				if currentColor != "" {
					sb.WriteString(ColorReset)
				}
				if color != "" {
					sb.WriteString(color)
				}
				currentColor = color
			}

			if char == 0 {
				sb.WriteRune(' ')
			} else {
				sb.WriteRune(char)
			}
		}

		// Reset color at end of line if needed
		if currentColor != "" {
			sb.WriteString(ColorReset)
		}
		if y < c.height-1 {
			sb.WriteRune('\n')
		}
	}

	return sb.String()
}
