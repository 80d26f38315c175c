// Package game implements the snake state machine.
//
// An Engine owns the grid, the snake body, the food cell and the score. A driver calls SetDirection
// on input and Step once per tick. Every state change is mirrored to a Renderer, and the best score
// is persisted through a ScoreStore when the game ends.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"snake-engine/game/entity"
	"snake-engine/game/manager"
	"snake-engine/game/types"
)

// Engine errors.
var (
	ErrInvalidConfiguration = errors.New("invalid game configuration")
	ErrInvalidState         = errors.New("game already terminated")
	ErrUnknownDirection     = errors.New("unknown direction")
)

// Renderer mirrors engine state on some display surface. It is never queried for state.
type Renderer interface {
	DrawCell(c types.Cell, color types.ColorTag) types.Handle
	EraseCell(h types.Handle)
}

// ScoreStore persists the best score. Read returns 0 when nothing is stored.
type ScoreStore interface {
	Read() (int, error)
	Write(score int) error
}

// Sampler supplies uniform integers in [0, n) for food placement.
type Sampler = manager.Sampler

// State is the lifecycle state of an Engine.
type State int

const (
	Running State = iota
	Terminated
)

func (s State) String() string {
	if s == Terminated {
		return "terminated"
	}
	return "running"
}

// Layout is the initial snake: body cells head first and the starting direction.
type Layout struct {
	Body      []types.Cell
	Direction types.Direction
}

// Config describes one game instance.
type Config struct {
	Rows     int
	Columns  int
	CellSize int
	Layout   Layout
}

// StepResult is returned by every Step. Score is the final score when Terminated is set.
type StepResult struct {
	Terminated bool
	Score      int
}

// Snapshot is a read-only copy of the engine state.
type Snapshot struct {
	Grid      types.Grid
	Body      []types.Cell
	Food      types.Cell
	Direction types.Direction
	Score     int
	State     State
}

// Option configures an Engine.
type Option func(*Engine)

// WithSampler replaces the random source used for food placement.
func WithSampler(s Sampler) Option {
	return func(e *Engine) {
		e.rng = s
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// Engine is a single-player snake game. It is not safe for concurrent use.
type Engine struct {
	id       uuid.UUID
	grid     types.Grid
	cellSize int
	state    State

	snake      *entity.Snake
	food       types.Cell
	foodHandle types.Handle

	renderer     Renderer
	rng          Sampler
	log          *slog.Logger
	collisionMgr *manager.CollisionManager
	foodMgr      *manager.FoodManager
	scoreMgr     *manager.ScoreManager
}

// New validates cfg, draws the initial snake and places the first food.
func New(cfg Config, r Renderer, s ScoreStore, opts ...Option) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: renderer is required", ErrInvalidConfiguration)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: score store is required", ErrInvalidConfiguration)
	}

	grid := types.Grid{Rows: cfg.Rows, Columns: cfg.Columns}
	e := &Engine{
		id:       uuid.New(),
		grid:     grid,
		cellSize: cfg.CellSize,
		state:    Running,
		snake:    entity.NewSnake(cfg.Layout.Body, cfg.Layout.Direction),
		renderer: r,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		src := &rand.PCGSource{}
		src.Seed(uint64(time.Now().UnixNano()))
		e.rng = rand.New(src)
	}

	e.collisionMgr = manager.NewCollisionManager(grid)
	e.foodMgr = manager.NewFoodManager(grid, e.rng, e.collisionMgr)
	e.scoreMgr = manager.NewScoreManager(s)

	for i := range e.snake.Body {
		seg := &e.snake.Body[i]
		seg.Handle = r.DrawCell(seg.Cell, types.SnakeColor)
	}
	e.spawnFood()

	e.log.Debug("game started",
		"game", e.id,
		"rows", grid.Rows,
		"columns", grid.Columns,
		"length", e.snake.Len(),
	)
	return e, nil
}

func (cfg Config) validate() error {
	if cfg.Rows <= 0 || cfg.Columns <= 0 {
		return fmt.Errorf("%w: grid must be positive, got %dx%d", ErrInvalidConfiguration, cfg.Rows, cfg.Columns)
	}
	if cfg.CellSize <= 0 {
		return fmt.Errorf("%w: cell size must be positive, got %d", ErrInvalidConfiguration, cfg.CellSize)
	}
	if len(cfg.Layout.Body) == 0 {
		return fmt.Errorf("%w: snake layout is empty", ErrInvalidConfiguration)
	}
	grid := types.Grid{Rows: cfg.Rows, Columns: cfg.Columns}
	if len(cfg.Layout.Body) >= grid.Area() {
		return fmt.Errorf("%w: snake of length %d leaves no room for food on a %dx%d grid",
			ErrInvalidConfiguration, len(cfg.Layout.Body), cfg.Rows, cfg.Columns)
	}
	seen := make(map[types.Cell]struct{}, len(cfg.Layout.Body))
	for _, c := range cfg.Layout.Body {
		if !grid.Contains(c) {
			return fmt.Errorf("%w: snake cell %v outside %dx%d grid", ErrInvalidConfiguration, c, cfg.Rows, cfg.Columns)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: snake cell %v repeated", ErrInvalidConfiguration, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// SetDirection sets the direction used by the next Step. The last call before a Step wins.
// Reversing into the snake's own neck is allowed and ends the game on the next Step.
func (e *Engine) SetDirection(d types.Direction) error {
	if e.state == Terminated {
		return ErrInvalidState
	}
	e.snake.SetDirection(d)
	return nil
}

// Step advances the game by one cell.
//
// An unknown direction is logged and leaves the snake in place. A collision with a wall or with
// any body cell ends the game: the score is persisted if it beats the stored best and all drawn
// cells are erased. A store failure is returned together with the terminal result.
func (e *Engine) Step() (StepResult, error) {
	if e.state == Terminated {
		return StepResult{}, ErrInvalidState
	}

	newHead, ok := e.snake.GetHead().Move(e.snake.Direction)
	if !ok {
		e.log.Warn("skipping move",
			"game", e.id,
			"direction", e.snake.Direction,
			"err", ErrUnknownDirection,
		)
		return StepResult{Score: e.scoreMgr.Score()}, nil
	}

	if collision := e.collisionMgr.CheckCollision(newHead, e.snake); collision != manager.NoCollision {
		return e.stop(collision)
	}

	e.snake.Move(newHead, e.renderer.DrawCell(newHead, types.SnakeColor))

	if newHead == e.food {
		e.scoreMgr.Increment()
		e.renderer.EraseCell(e.foodHandle)
		e.spawnFood()
	} else {
		e.renderer.EraseCell(e.snake.RemoveTail().Handle)
	}

	return StepResult{Score: e.scoreMgr.Score()}, nil
}

// stop terminates the game, persists the score and clears the display.
func (e *Engine) stop(collision manager.CollisionType) (StepResult, error) {
	e.state = Terminated
	score := e.scoreMgr.Score()

	persisted, err := e.scoreMgr.Persist()

	for _, seg := range e.snake.Body {
		e.renderer.EraseCell(seg.Handle)
	}
	e.renderer.EraseCell(e.foodHandle)

	e.log.Info("game over",
		"game", e.id,
		"score", score,
		"collision", collision,
		"new_best", persisted,
	)

	result := StepResult{Terminated: true, Score: score}
	if err != nil {
		return result, fmt.Errorf("game %s: %w", e.id, err)
	}
	return result, nil
}

func (e *Engine) spawnFood() {
	e.food = e.foodMgr.GenerateFood(e.snake)
	e.foodHandle = e.renderer.DrawCell(e.food, types.FoodColor)
}

// MaxScore returns the persisted best score, 0 if none is stored.
func (e *Engine) MaxScore() (int, error) {
	return e.scoreMgr.HighScore()
}

func (e *Engine) ID() uuid.UUID { return e.id }

func (e *Engine) State() State { return e.state }

func (e *Engine) Score() int { return e.scoreMgr.Score() }

func (e *Engine) Direction() types.Direction { return e.snake.Direction }

func (e *Engine) Grid() types.Grid { return e.grid }

func (e *Engine) CellSize() int { return e.cellSize }

// Body returns a copy of the snake cells, head first.
func (e *Engine) Body() []types.Cell { return e.snake.Cells() }

func (e *Engine) Food() types.Cell { return e.food }

func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Grid:      e.grid,
		Body:      e.snake.Cells(),
		Food:      e.food,
		Direction: e.snake.Direction,
		Score:     e.scoreMgr.Score(),
		State:     e.state,
	}
}
