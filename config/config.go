package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"snake-engine/game"
	"snake-engine/game/types"
)

// UI front ends.
const (
	UIWindow   = "window"
	UITerminal = "terminal"
)

// Score store backends.
const (
	StoreFile     = "file"
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config holds the application's configuration values.
type Config struct {
	Rows         int           // Number of grid rows
	Columns      int           // Number of grid columns
	CellSize     int           // Side of a single cell in pixels
	TickInterval time.Duration // Time between two engine steps
	UI           string        // window or terminal
	ScoreStore   string        // file, memory, redis or postgres
	ScoreFile    string        // Path of the JSON score file
	StatsFile    string        // Path of the JSON stats file
	MaxScoreKey  string        // Key the best score is stored under
	RedisAddr    string
	RedisPass    string
	RedisDB      int
	DatabaseURL  string          // Postgres connection string
	Direction    types.Direction // Starting direction of the snake
	LogLevel     slog.Level      // Minimum level written to the log
	LogFile      string          // Log destination while the terminal UI owns the screen
}

// Load reads a .env file if there is one, then the environment, falling back to defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env file not found or could not be loaded", "err", err)
	}

	var errs []error
	getInt := func(key string, def int) int {
		v, err := getEnvAsInt(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	cfg := Config{
		Rows:         getInt("SNAKE_ROWS", 30),
		Columns:      getInt("SNAKE_COLUMNS", 20),
		CellSize:     getInt("SNAKE_CELL_SIZE", 13),
		TickInterval: time.Duration(getInt("SNAKE_TICK_MS", 100)) * time.Millisecond,
		UI:           getEnv("SNAKE_UI", UIWindow),
		ScoreStore:   getEnv("SNAKE_SCORE_STORE", StoreFile),
		ScoreFile:    getEnv("SNAKE_SCORE_FILE", "data/scores.json"),
		StatsFile:    getEnv("SNAKE_STATS_FILE", "data/stats.json"),
		MaxScoreKey:  getEnv("SNAKE_MAX_SCORE_KEY", "max_score"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:      getInt("REDIS_DB", 0),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		LogFile:      getEnv("SNAKE_LOG_FILE", "data/snake.log"),
	}
	dir, err := types.ParseDirection(getEnv("SNAKE_DIRECTION", "right"))
	if err != nil {
		errs = append(errs, fmt.Errorf("SNAKE_DIRECTION: %w", err))
	}
	cfg.Direction = dir
	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that the flags or environment may have broken.
func (c Config) Validate() error {
	var errs []error
	if c.Rows <= 0 || c.Columns <= 0 {
		errs = append(errs, fmt.Errorf("grid must be positive, got %dx%d", c.Rows, c.Columns))
	}
	if c.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("cell size must be positive, got %d", c.CellSize))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick interval must be positive, got %v", c.TickInterval))
	}
	switch c.UI {
	case UIWindow, UITerminal:
	default:
		errs = append(errs, fmt.Errorf("unknown ui %q", c.UI))
	}
	switch c.ScoreStore {
	case StoreFile, StoreMemory, StoreRedis:
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown score store %q", c.ScoreStore))
	}
	return errors.Join(errs...)
}

// GameConfig builds the engine configuration with the default starting snake.
func (c Config) GameConfig() game.Config {
	return game.Config{
		Rows:     c.Rows,
		Columns:  c.Columns,
		CellSize: c.CellSize,
		Layout:   DefaultLayout(c.Rows, c.Columns, c.Direction),
	}
}

// DefaultLayout is a four cell snake, head first, heading dir with its tail against the wall
// behind it. Horizontal snakes sit on row 14 and vertical ones on column 14, clamped into
// small grids. The snake is shortened when the grid is too narrow.
func DefaultLayout(rows, cols int, dir types.Direction) game.Layout {
	if dir != types.Up && dir != types.Down && dir != types.Left {
		dir = types.Right
	}

	var tail types.Cell
	var length int
	switch dir {
	case types.Up, types.Down:
		length = min(4, rows)
		tail.Col = min(14, cols-1)
		if dir == types.Up {
			tail.Row = rows - 1
		}
	case types.Right, types.Left:
		length = min(4, cols)
		tail.Row = min(14, rows-1)
		if dir == types.Left {
			tail.Col = cols - 1
		}
	}

	dr, dc, _ := dir.Delta()
	head := types.Cell{Row: tail.Row + dr*(length-1), Col: tail.Col + dc*(length-1)}
	body := make([]types.Cell, 0, length)
	for c, i := head, 0; i < length; i++ {
		body = append(body, c)
		c, _ = c.Move(dir.Opposite())
	}
	return game.Layout{Body: body, Direction: dir}
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue, fmt.Errorf("environment variable %s must be an integer: %w", key, err)
	}
	return value, nil
}
