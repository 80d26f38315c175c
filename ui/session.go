package ui

import (
	"fmt"
	"log/slog"
	"time"

	"snake-engine/autopilot"
	"snake-engine/game"
	"snake-engine/game/types"
	"snake-engine/stats"
)

// HUD is the text shown next to the grid.
type HUD struct {
	Score       int
	Best        int
	GamesPlayed int
	AvgScore    float64
	TopScore    int           // Best score among the recorded games
	AvgDuration time.Duration // Mean length of the recorded games
	Autopilot   bool
	Over        bool
}

// Session drives consecutive games on one renderer: it forwards input, ticks the engine and
// records every finished game. Input and ticks must come from the same goroutine.
type Session struct {
	cfg      game.Config
	renderer game.Renderer
	store    game.ScoreStore
	stats    *stats.Recorder
	log      *slog.Logger
	opts     []game.Option
	now      func() time.Time

	engine    *game.Engine
	started   time.Time
	last      game.StepResult
	best      int
	autopilot bool
}

func NewSession(cfg game.Config, r game.Renderer, s game.ScoreStore, rec *stats.Recorder, log *slog.Logger, opts ...game.Option) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		cfg:      cfg,
		renderer: r,
		store:    s,
		stats:    rec,
		log:      log,
		opts:     append([]game.Option{game.WithLogger(log)}, opts...),
		now:      time.Now,
	}
}

// Start begins a new game. Every game gets its own copy of the configured layout.
// The best score is read first so a failing store leaves nothing drawn.
func (s *Session) Start() error {
	var best int
	if s.store != nil {
		var err error
		if best, err = s.store.Read(); err != nil {
			return fmt.Errorf("read best score: %w", err)
		}
	}
	e, err := game.New(s.cfg, s.renderer, s.store, s.opts...)
	if err != nil {
		return err
	}
	s.engine = e
	s.started = s.now()
	s.last = game.StepResult{}
	s.best = best
	return nil
}

// Restart starts a new game once the current one is over.
func (s *Session) Restart() error {
	if !s.Over() {
		return nil
	}
	return s.Start()
}

func (s *Session) Over() bool {
	return s.engine == nil || s.engine.State() == game.Terminated
}

// Turn forwards a direction change. It is ignored between games.
func (s *Session) Turn(d types.Direction) {
	if s.Over() || s.autopilot {
		return
	}
	if err := s.engine.SetDirection(d); err != nil {
		s.log.Error("set direction", "err", err)
	}
}

func (s *Session) SetAutopilot(on bool) {
	s.autopilot = on
}

func (s *Session) ToggleAutopilot() {
	s.autopilot = !s.autopilot
}

// Tick advances the running game by one step and records the game when it ends.
func (s *Session) Tick() error {
	if s.Over() {
		return nil
	}
	if s.autopilot {
		if err := s.engine.SetDirection(autopilot.Next(s.engine.Snapshot())); err != nil {
			return err
		}
	}

	res, stepErr := s.engine.Step()
	s.last = res
	if !res.Terminated {
		return stepErr
	}

	if res.Score > s.best {
		s.best = res.Score
	}
	if s.stats != nil {
		s.stats.AddGame(s.engine.ID(), res.Score, s.started, s.now())
		if err := s.stats.Save(); err != nil {
			s.log.Error("save stats", "err", err)
		}
	}
	if stepErr != nil {
		return fmt.Errorf("finish game: %w", stepErr)
	}
	return nil
}

// Engine returns the current game, nil before Start.
func (s *Session) Engine() *game.Engine {
	return s.engine
}

func (s *Session) HUD() HUD {
	h := HUD{
		Score:     s.last.Score,
		Best:      s.best,
		Autopilot: s.autopilot,
		Over:      s.Over(),
	}
	if s.stats != nil {
		h.GamesPlayed = s.stats.GamesPlayed()
		h.AvgScore = s.stats.AverageScore()
		h.TopScore = s.stats.MaxScore()
		h.AvgDuration = s.stats.AverageDuration()
	}
	return h
}
