package ui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"snake-engine/game/types"
)

var (
	snakeStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	foodStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	frameStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// TerminalRenderer draws straight into a tcell screen. Each cell is two columns wide so the
// grid looks square. Show must be called to flush.
type TerminalRenderer struct {
	layer         *Layer
	screen        tcell.Screen
	rows, columns int
}

func NewTerminalRenderer(screen tcell.Screen, rows, columns int) *TerminalRenderer {
	return &TerminalRenderer{layer: NewLayer(), screen: screen, rows: rows, columns: columns}
}

// screenPos maps a grid cell to the left column and row inside the frame.
func screenPos(c types.Cell) (int, int) {
	return 1 + c.Col*2, 1 + c.Row
}

func (t *TerminalRenderer) DrawCell(c types.Cell, color types.ColorTag) types.Handle {
	h := t.layer.DrawCell(c, color)
	t.paint(c, color)
	return h
}

// EraseCell blanks the cell unless another live handle still covers it, in which case that one
// is painted again.
func (t *TerminalRenderer) EraseCell(h types.Handle) {
	d, ok := t.layer.Lookup(h)
	if !ok {
		return
	}
	t.layer.EraseCell(h)
	if top, covered := t.layer.At(d.Cell); covered {
		t.paint(top.Cell, top.Color)
		return
	}
	x, y := screenPos(d.Cell)
	t.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
	t.screen.SetContent(x+1, y, ' ', nil, tcell.StyleDefault)
}

func (t *TerminalRenderer) paint(c types.Cell, color types.ColorTag) {
	x, y := screenPos(c)
	if color == types.FoodColor {
		t.screen.SetContent(x, y, '●', nil, foodStyle)
		t.screen.SetContent(x+1, y, ' ', nil, tcell.StyleDefault)
		return
	}
	t.screen.SetContent(x, y, '█', nil, snakeStyle)
	t.screen.SetContent(x+1, y, '█', nil, snakeStyle)
}

// DrawFrame draws the border and the status line below it.
func (t *TerminalRenderer) DrawFrame(hud HUD) {
	right := t.columns*2 + 1
	bottom := t.rows + 1
	for x := 1; x < right; x++ {
		t.screen.SetContent(x, 0, '─', nil, frameStyle)
		t.screen.SetContent(x, bottom, '─', nil, frameStyle)
	}
	for y := 1; y < bottom; y++ {
		t.screen.SetContent(0, y, '│', nil, frameStyle)
		t.screen.SetContent(right, y, '│', nil, frameStyle)
	}
	t.screen.SetContent(0, 0, '┌', nil, frameStyle)
	t.screen.SetContent(right, 0, '┐', nil, frameStyle)
	t.screen.SetContent(0, bottom, '└', nil, frameStyle)
	t.screen.SetContent(right, bottom, '┘', nil, frameStyle)

	status := fmt.Sprintf("Score: %d  Best: %d  Games: %d  Avg: %.1f", hud.Score, hud.Best, hud.GamesPlayed, hud.AvgScore)
	if hud.Autopilot {
		status += "  AUTO"
	}
	if hud.Over {
		status += "  Game over, r to restart"
	}
	t.drawLine(bottom+1, status)
	t.drawLine(bottom+2, fmt.Sprintf("Top: %d  Avg time: %s", hud.TopScore, hud.AvgDuration.Round(time.Second)))
	t.drawLine(bottom+3, "arrows/wasd move  p autopilot  q quit")
}

func (t *TerminalRenderer) drawLine(y int, s string) {
	w, _ := t.screen.Size()
	x := 0
	for _, r := range s {
		t.screen.SetContent(x, y, r, nil, tcell.StyleDefault)
		x++
	}
	for ; x < w; x++ {
		t.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
	}
}

func (t *TerminalRenderer) Show() {
	t.screen.Show()
}

var terminalRunes = map[rune]types.Direction{
	'w': types.Up,
	's': types.Down,
	'a': types.Left,
	'd': types.Right,
}

var terminalKeys = map[tcell.Key]types.Direction{
	tcell.KeyUp:    types.Up,
	tcell.KeyDown:  types.Down,
	tcell.KeyLeft:  types.Left,
	tcell.KeyRight: types.Right,
}

// RunTerminal plays on an initialised screen until q, Esc or Ctrl-C. The session must have been
// built on t. The caller owns the screen and finalises it.
func RunTerminal(t *TerminalRenderer, sess *Session, tick time.Duration, log *slog.Logger) error {
	t.screen.Clear()
	if err := sess.Start(); err != nil {
		return err
	}

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go t.screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	t.DrawFrame(sess.HUD())
	t.Show()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				t.screen.Sync()
			case *tcell.EventKey:
				if dir, ok := terminalKeys[ev.Key()]; ok {
					sess.Turn(dir)
					continue
				}
				switch ev.Key() {
				case tcell.KeyEscape, tcell.KeyCtrlC:
					return nil
				case tcell.KeyRune:
					r := ev.Rune()
					if dir, ok := terminalRunes[r]; ok {
						sess.Turn(dir)
						continue
					}
					switch r {
					case 'q':
						return nil
					case 'p':
						sess.ToggleAutopilot()
					case 'r':
						if err := sess.Restart(); err != nil {
							return err
						}
					}
				}
			}
		case <-ticker.C:
			if err := sess.Tick(); err != nil {
				log.Error("tick", "err", err)
			}
		}
		t.DrawFrame(sess.HUD())
		t.Show()
	}
}
