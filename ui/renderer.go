package ui

import (
	"fmt"
	"image/color"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"snake-engine/game/types"
)

const (
	borderPadding = 10 // Padding around game area
	hudHeight     = 60 // Space below the grid for the score line
)

// Renderer draws the game in a raylib window. Engine draw and erase calls only update the layer;
// the window is repainted from it once per frame.
type Renderer struct {
	*Layer
	rows, columns int32
	cellSize      int32
	screenWidth   int32
	screenHeight  int32
	offsetX       int32
	offsetY       int32
}

func NewRenderer(rows, columns, cellSize int) *Renderer {
	return &Renderer{
		Layer:    NewLayer(),
		rows:     int32(rows),
		columns:  int32(columns),
		cellSize: int32(cellSize),
	}
}

// WindowSize is the initial window size fitting the grid and the HUD.
func (r *Renderer) WindowSize() (int32, int32) {
	w := r.columns*r.cellSize + borderPadding*2
	h := r.rows*r.cellSize + borderPadding*2 + hudHeight
	return max(w, 420), h
}

func (r *Renderer) UpdateDimensions() {
	r.screenWidth = int32(rl.GetScreenWidth())
	r.screenHeight = int32(rl.GetScreenHeight())

	// Cells grow with the window.
	cellW := (r.screenWidth - borderPadding*2) / r.columns
	cellH := (r.screenHeight - borderPadding*2 - hudHeight) / r.rows
	r.cellSize = max(min(cellW, cellH), 1)
	r.offsetX = (r.screenWidth - r.cellSize*r.columns) / 2
	r.offsetY = borderPadding
}

func cellColor(tag types.ColorTag) color.RGBA {
	if tag == types.FoodColor {
		return rl.Red
	}
	return rl.Green
}

func (r *Renderer) Draw(hud HUD) {
	r.UpdateDimensions()
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	gridW := r.cellSize * r.columns
	gridH := r.cellSize * r.rows
	rl.DrawRectangle(r.offsetX-1, r.offsetY-1, gridW+2, gridH+2, rl.DarkGray)
	rl.DrawRectangle(r.offsetX, r.offsetY, gridW, gridH, rl.Black)

	for _, d := range r.Cells() {
		rl.DrawRectangle(
			r.offsetX+int32(d.Cell.Col)*r.cellSize,
			r.offsetY+int32(d.Cell.Row)*r.cellSize,
			r.cellSize, r.cellSize, cellColor(d.Color))
	}

	fontSize := int32(20)
	x := r.offsetX
	y := r.offsetY + gridH + borderPadding
	rl.DrawText(fmt.Sprintf("Score: %d", hud.Score), x, y, fontSize, rl.White)
	rl.DrawText(fmt.Sprintf("Best: %d", hud.Best), x+120, y, fontSize, rl.Green)
	rl.DrawText(fmt.Sprintf("Games: %d  Avg: %.1f  Top: %d  Avg time: %s",
		hud.GamesPlayed, hud.AvgScore, hud.TopScore, hud.AvgDuration.Round(time.Second)),
		x, y+fontSize+4, fontSize-4, rl.Gray)
	if hud.Autopilot {
		rl.DrawText("AUTO", x+240, y, fontSize, rl.Yellow)
	}

	if hud.Over {
		text := "Game Over! Press R to restart"
		textWidth := rl.MeasureText(text, fontSize)
		rl.DrawText(text, r.offsetX+(gridW-textWidth)/2, r.offsetY+gridH/2, fontSize, rl.White)
	}
	rl.EndDrawing()
}

// windowKeys is checked in order; when several are pressed in one frame the last one wins.
var windowKeys = []struct {
	key int32
	dir types.Direction
}{
	{rl.KeyUp, types.Up},
	{rl.KeyW, types.Up},
	{rl.KeyDown, types.Down},
	{rl.KeyS, types.Down},
	{rl.KeyLeft, types.Left},
	{rl.KeyA, types.Left},
	{rl.KeyRight, types.Right},
	{rl.KeyD, types.Right},
}

// RunWindow opens the window and plays until it is closed or Q is pressed.
// The session must have been built on r.
func RunWindow(r *Renderer, sess *Session, tick time.Duration, log *slog.Logger) error {
	w, h := r.WindowSize()
	rl.InitWindow(w, h, "Snake")
	rl.SetWindowState(rl.FlagWindowResizable)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	if err := sess.Start(); err != nil {
		return err
	}

	lastUpdate := time.Now()
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			break
		}
		for _, k := range windowKeys {
			if rl.IsKeyPressed(k.key) {
				sess.Turn(k.dir)
			}
		}
		if rl.IsKeyPressed(rl.KeyP) {
			sess.ToggleAutopilot()
		}
		if rl.IsKeyPressed(rl.KeyR) {
			if err := sess.Restart(); err != nil {
				return err
			}
		}

		// Update game state at fixed interval
		if time.Since(lastUpdate) >= tick {
			if err := sess.Tick(); err != nil {
				log.Error("tick", "err", err)
			}
			lastUpdate = time.Now()
		}

		r.Draw(sess.HUD())
	}
	return nil
}
