package canvas

import (
	"errors"
	"strings"
	"testing"

	"gridpath/core"
)

func TestMatrixCanvas_Creation(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"Small", 10, 5},
		{"Wide", 100, 10},
		{"Tall", 10, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canvas, err := NewMatrixCanvas(tt.width, tt.height)
			if err != nil {
				t.Fatal(err)
			}
			w, h := canvas.Size()
			if w != tt.width || h != tt.height {
				t.Errorf("Size() = (%d, %d), want (%d, %d)", w, h, tt.width, tt.height)
			}
			lines := strings.Split(canvas.String(), "\n")
			if len(lines) != tt.height || strings.TrimSpace(lines[0]) != "" {
				t.Errorf("fresh canvas is not blank: %q", lines[0])
			}
		})
	}

	if _, err := NewMatrixCanvas(0, 3); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("err = %v, want ErrInvalidSize", err)
	}
}

func TestMatrixCanvas_GetSet(t *testing.T) {
	canvas, _ := NewMatrixCanvas(20, 10)

	tests := []struct {
		name  string
		cell  core.Cell
		char  rune
		valid bool
	}{
		{"Origin", core.Cell{X: 0, Y: 0}, '╭', true},
		{"Bottom right", core.Cell{X: 19, Y: 9}, '╯', true},
		{"Out of bounds X", core.Cell{X: 20, Y: 5}, 'X', false},
		{"Negative Y", core.Cell{X: 5, Y: -1}, 'N', false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := canvas.Set(tt.cell, tt.char)
			if tt.valid {
				if err != nil {
					t.Fatalf("Set: %v", err)
				}
				if got := canvas.Get(tt.cell); got != tt.char {
					t.Errorf("Get = %c, want %c", got, tt.char)
				}
				return
			}
			if !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("err = %v, want ErrOutOfBounds", err)
			}
			if got := canvas.Get(tt.cell); got != ' ' {
				t.Errorf("out of bounds Get = %c, want space", got)
			}
		})
	}

	canvas.Clear()
	if canvas.Get(core.Cell{}) != ' ' {
		t.Error("Clear left characters behind")
	}
}

func TestMatrixCanvas_DrawPath(t *testing.T) {
	tests := []struct {
		name  string
		cells []core.Cell
		want  string
	}{
		{
			name:  "down then right",
			cells: []core.Cell{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}},
			want: "" +
				"   \n" +
				"│  \n" +
				"╰─ ",
		},
		{
			name:  "right then down",
			cells: []core.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 2, Y: 2}},
			want: "" +
				" ─╮\n" +
				"  │\n" +
				"   ",
		},
		{
			name:  "diagonal",
			cells: []core.Cell{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}},
			want: "" +
				"   \n" +
				" ╲ \n" +
				"   ",
		},
		{
			name:  "anti-diagonal then straight",
			cells: []core.Cell{{X: 0, Y: 2}, {X: 1, Y: 1}, {X: 2, Y: 1}},
			want: "" +
				"   \n" +
				" * \n" +
				"   ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canvas, _ := NewMatrixCanvas(3, 3)
			if err := canvas.DrawPath(tt.cells); err != nil {
				t.Fatal(err)
			}
			if got := canvas.String(); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}

	canvas, _ := NewMatrixCanvas(3, 3)
	if err := canvas.DrawPath([]core.Cell{{}}); err == nil {
		t.Error("expected error for single-cell path")
	}
	if err := canvas.DrawPath([]core.Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 0}}); !errors.Is(err, ErrBrokenPath) {
		t.Errorf("repeated cell: err = %v, want %v", err, ErrBrokenPath)
	}
	if err := canvas.DrawPath([]core.Cell{{X: 0, Y: 0}, {X: 2, Y: 0}}); !errors.Is(err, ErrBrokenPath) {
		t.Errorf("gap: err = %v, want %v", err, ErrBrokenPath)
	}
}

func TestMatrixCanvas_DrawText(t *testing.T) {
	canvas, _ := NewMatrixCanvas(6, 1)
	canvas.DrawText(1, 0, "cost 8 and more")
	if got := canvas.String(); got != " cost " {
		t.Errorf("got %q", got)
	}

	canvas.Clear()
	canvas.DrawText(0, 0, "地图")
	if got := canvas.String(); got != "地 图   " {
		t.Errorf("wide text = %q", got)
	}

	if err := canvas.DrawText(0, 4, "x"); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("err = %v, want ErrOutOfBounds", err)
	}
}

func TestMatrixCanvas_Fill(t *testing.T) {
	canvas, _ := NewMatrixCanvas(3, 2)
	canvas.Fill(func(c core.Cell) rune {
		if c.X == c.Y {
			return '#'
		}
		return '.'
	})
	if got, want := canvas.String(), "#..\n.#."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestColoredMatrixCanvas(t *testing.T) {
	canvas, err := NewColoredMatrixCanvas(3, 1)
	if err != nil {
		t.Fatal(err)
	}
	canvas.SetWithColor(core.Cell{X: 1}, 'S', "green")
	got := canvas.ColoredString()
	want := " " + ColorGreen + "S" + ColorReset + " "
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if canvas.String() != " S " {
		t.Errorf("plain string = %q", canvas.String())
	}
	if err := canvas.SetWithColor(core.Cell{X: 5}, 'x', "red"); err == nil {
		t.Error("expected out of bounds error")
	}
}
