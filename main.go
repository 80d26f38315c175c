package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/redis/go-redis/v9"

	"snake-engine/config"
	"snake-engine/game"
	"snake-engine/stats"
	"snake-engine/store"
	"snake-engine/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	speed := flag.Int("speed", int(cfg.TickInterval/time.Millisecond), "Game speed in milliseconds (lower = faster)")
	flag.StringVar(&cfg.UI, "ui", cfg.UI, "Front end: window or terminal")
	flag.StringVar(&cfg.ScoreStore, "store", cfg.ScoreStore, "Best score store: file, memory, redis or postgres")
	auto := flag.Bool("auto", false, "Let the autopilot play")
	flag.Parse()
	cfg.TickInterval = time.Duration(*speed) * time.Millisecond

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if err := run(cfg, *auto); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config.Config, auto bool) error {
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	scores, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	rec := stats.NewRecorder(cfg.StatsFile)
	if err := rec.Load(); err != nil {
		logger.Warn("could not load stats, starting empty", "file", cfg.StatsFile, "err", err)
	}
	defer func() {
		if err := rec.Save(); err != nil {
			logger.Error("save stats", "err", err)
		}
	}()

	gameCfg := cfg.GameConfig()
	logger.Info("starting",
		"ui", cfg.UI,
		"store", cfg.ScoreStore,
		"grid", fmt.Sprintf("%dx%d", cfg.Rows, cfg.Columns),
		"tick", cfg.TickInterval,
	)

	if cfg.UI == config.UITerminal {
		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		if err := screen.Init(); err != nil {
			return err
		}
		defer screen.Fini()

		r := ui.NewTerminalRenderer(screen, cfg.Rows, cfg.Columns)
		sess := ui.NewSession(gameCfg, r, scores, rec, logger)
		sess.SetAutopilot(auto)
		return ui.RunTerminal(r, sess, cfg.TickInterval, logger)
	}

	r := ui.NewRenderer(cfg.Rows, cfg.Columns, cfg.CellSize)
	sess := ui.NewSession(gameCfg, r, scores, rec, logger)
	sess.SetAutopilot(auto)
	return ui.RunWindow(r, sess, cfg.TickInterval, logger)
}

// newLogger writes to stderr, or to the log file while the terminal UI owns the screen.
func newLogger(cfg config.Config) (*slog.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.UI == config.UITerminal {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel})), closeFn, nil
}

func openStore(cfg config.Config, logger *slog.Logger) (game.ScoreStore, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch cfg.ScoreStore {
	case config.StoreMemory:
		return store.NewMemoryStore(0), func() {}, nil
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logger.Info("connected to Redis", "addr", cfg.RedisAddr)
		return store.NewRedisStore(client, cfg.MaxScoreKey, 0), func() { client.Close() }, nil
	case config.StorePostgres:
		ps, err := store.OpenPostgres(ctx, cfg.DatabaseURL, cfg.MaxScoreKey)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("connected to Postgres")
		return ps, func() { ps.Close() }, nil
	default:
		return store.NewFileStore(cfg.ScoreFile, cfg.MaxScoreKey), func() {}, nil
	}
}
