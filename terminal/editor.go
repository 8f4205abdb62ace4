// Package terminal is an interactive grid editor: toggle obstacles, move the
// endpoints and watch the planner replan after every change.
package terminal

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"gridpath/canvas"
	"gridpath/core"
	"gridpath/export"
	"gridpath/pathfinding"
	"gridpath/scenario"
)

// gridTop is the screen row of the grid's first line; row 0 is the title.
const gridTop = 1

var (
	styleFree     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleObstacle = tcell.StyleDefault.Foreground(tcell.ColorRed)
	stylePath     = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleStart    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleGoal     = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStatus   = tcell.StyleDefault
	styleError    = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// Editor holds the state of one interactive session. It is driven by
// HandleEvent and painted by Draw; Run wires both to a screen's event loop.
type Editor struct {
	screen  tcell.Screen
	planner *pathfinding.Planner
	ctx     context.Context

	cursor      core.Cell
	start, goal core.Cell

	result  pathfinding.QueryResult
	err     error
	edits   int
	history *history
}

// NewEditor creates an editor on an initialized screen and plans the first
// path.
func NewEditor(ctx context.Context, screen tcell.Screen, planner *pathfinding.Planner, start, goal core.Cell) *Editor {
	e := &Editor{
		screen:  screen,
		planner: planner,
		ctx:     ctx,
		cursor:  start,
		start:   start,
		goal:    goal,
		history: newHistory(100),
	}
	e.history.save(e.snapshot())
	e.replan()
	return e
}

// Cursor returns the cell under the cursor.
func (e *Editor) Cursor() core.Cell { return e.cursor }

// Endpoints returns the current start and goal.
func (e *Editor) Endpoints() (start, goal core.Cell) { return e.start, e.goal }

// Result returns the latest planning result and error.
func (e *Editor) Result() (pathfinding.QueryResult, error) { return e.result, e.err }

// Run processes events until the user quits or ctx is cancelled. The caller
// owns the screen's Init and Fini.
func (e *Editor) Run() error {
	stop := context.AfterFunc(e.ctx, func() {
		_ = e.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	e.Draw()
	for {
		ev := e.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !e.HandleEvent(ev) {
			return e.ctx.Err()
		}
		e.Draw()
	}
}

// HandleEvent applies one event and reports whether the session continues.
func (e *Editor) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventInterrupt:
		return e.ctx.Err() == nil
	case *tcell.EventResize:
		e.screen.Sync()
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			c := core.Cell{X: x, Y: y - gridTop}
			if c.X < e.planner.Width() && c.Y >= 0 && c.Y < e.planner.Height() {
				e.cursor = c
				e.toggle()
			}
		}
	case *tcell.EventKey:
		return e.handleKey(ev)
	}
	return true
}

func (e *Editor) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyCtrlR: // Redo
		if s, ok := e.history.redo(); ok {
			e.restore(s)
		}
	case tcell.KeyUp:
		e.move(0, -1)
	case tcell.KeyDown:
		e.move(0, 1)
	case tcell.KeyLeft:
		e.move(-1, 0)
	case tcell.KeyRight:
		e.move(1, 0)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q': // Quit
			return false
		case 'k':
			e.move(0, -1)
		case 'j':
			e.move(0, 1)
		case 'h':
			e.move(-1, 0)
		case 'l':
			e.move(1, 0)
		case ' ', 'x': // Toggle obstacle
			e.toggle()
		case 's': // Start at cursor
			e.start = e.cursor
			e.commit()
		case 'g': // Goal at cursor
			e.goal = e.cursor
			e.commit()
		case 'c': // Clear all obstacles
			e.planner.ClearObstacles()
			e.commit()
		case 'u': // Undo
			if s, ok := e.history.undo(); ok {
				e.restore(s)
			}
		case 'r': // Force a fresh search
			e.planner.InvalidateCache()
			e.replan()
		}
	}
	return true
}

func (e *Editor) move(dx, dy int) {
	next := e.cursor.Add(dx, dy)
	if next.X < 0 || next.Y < 0 || next.X >= e.planner.Width() || next.Y >= e.planner.Height() {
		return
	}
	e.cursor = next
}

func (e *Editor) toggle() {
	blocked := !e.planner.IsObstacle(e.cursor.X, e.cursor.Y)
	if err := e.planner.SetObstacleAt(e.cursor, blocked); err != nil {
		e.err = err
		return
	}
	e.commit()
}

// commit records the current state for undo and replans.
func (e *Editor) commit() {
	e.edits++
	e.history.save(e.snapshot())
	e.replan()
}

func (e *Editor) snapshot() snapshot {
	return snapshot{obstacles: e.planner.Snapshot().Obstacles(), start: e.start, goal: e.goal}
}

func (e *Editor) restore(s snapshot) {
	if err := e.planner.ReplaceObstacles(s.obstacles); err != nil {
		e.err = err
		return
	}
	e.start, e.goal = s.start, s.goal
	e.replan()
}

func (e *Editor) replan() {
	e.result, e.err = e.planner.Query(e.ctx, e.start, e.goal)
}

// Draw paints the title, the grid with the current path and a status area.
func (e *Editor) Draw() {
	e.screen.Clear()
	w, h := e.planner.Width(), e.planner.Height()

	e.drawText(0, 0, fmt.Sprintf("gridpath %dx%d  %s", w, h, e.planner.Options().Connectivity), styleStatus)

	// Grid glyphs come from the canvas so the editor matches the ASCII export.
	c, err := canvas.NewMatrixCanvas(w, h)
	if err != nil {
		e.drawText(0, gridTop, err.Error(), styleError)
		e.screen.Show()
		return
	}
	c.Fill(func(cell core.Cell) rune {
		if e.planner.IsObstacle(cell.X, cell.Y) {
			return export.GlyphObstacle
		}
		return export.GlyphFree
	})
	onPath := make(map[core.Cell]bool)
	var drawErr error
	if cells := e.result.Path.Cells; e.err == nil && len(cells) >= 2 {
		if err := c.DrawPath(cells); err != nil {
			drawErr = fmt.Errorf("draw path: %w", err)
		} else {
			for _, cell := range cells[1 : len(cells)-1] {
				onPath[cell] = true
			}
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell := core.Cell{X: x, Y: y}
			r, style := c.Get(cell), styleFree
			switch {
			case cell == e.start:
				r, style = export.GlyphStart, styleStart
			case cell == e.goal:
				r, style = export.GlyphGoal, styleGoal
			case e.planner.IsObstacle(x, y):
				style = styleObstacle
			case onPath[cell]:
				style = stylePath
			}
			if cell == e.cursor {
				style = style.Reverse(true)
			}
			e.screen.SetContent(x, y+gridTop, r, nil, style)
		}
	}

	row := gridTop + h + 1
	switch {
	case e.err != nil:
		e.drawText(0, row, "error: "+e.err.Error(), styleError)
	case drawErr != nil:
		e.drawText(0, row, "error: "+drawErr.Error(), styleError)
	default:
		e.drawText(0, row, export.Summary(scenario.Outcome{Result: e.result}), styleStatus)
	}
	cur, total := e.history.stats()
	e.drawText(0, row+1, fmt.Sprintf("cursor %s | edits %d | history %d/%d | %s", e.cursor, e.edits, cur, total, e.planner.CacheStats()), styleStatus)
	e.drawText(0, row+2, "arrows/hjkl move  space toggle  s start  g goal  c clear  u undo  ^R redo  r replan  q quit", styleStatus)
	e.screen.Show()
}

func (e *Editor) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		e.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// Run opens the terminal, runs an editor over planner and restores the
// terminal on return.
func Run(ctx context.Context, planner *pathfinding.Planner, start, goal core.Cell) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	return NewEditor(ctx, screen, planner, start, goal).Run()
}
