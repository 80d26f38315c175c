package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const (
	createBestScores = `CREATE TABLE IF NOT EXISTS best_scores (
	key   TEXT PRIMARY KEY,
	score INTEGER NOT NULL
)`
	selectBestScore = `SELECT score FROM best_scores WHERE key = $1`
	upsertBestScore = `INSERT INTO best_scores (key, score) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET score = GREATEST(best_scores.score, EXCLUDED.score)`
)

// PostgresStore keeps best scores in the best_scores table, one row per key.
type PostgresStore struct {
	db      *sql.DB
	key     string
	timeout time.Duration
}

// OpenPostgres connects with lib/pq and makes sure the table exists.
func OpenPostgres(ctx context.Context, connStr, key string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	s := NewPostgresStore(db, key, 0)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func NewPostgresStore(db *sql.DB, key string, timeout time.Duration) *PostgresStore {
	if key == "" {
		key = DefaultKey
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &PostgresStore{db: db, key: key, timeout: timeout}
}

func (ps *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := ps.db.ExecContext(ctx, createBestScores); err != nil {
		return fmt.Errorf("failed to initialize best_scores table: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Read() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), ps.timeout)
	defer cancel()

	var score int
	err := ps.db.QueryRowContext(ctx, selectBestScore, ps.key).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("select best score: %w", err)
	}
	return score, nil
}

// Write upserts score. An existing higher value is kept.
func (ps *PostgresStore) Write(score int) error {
	ctx, cancel := context.WithTimeout(context.Background(), ps.timeout)
	defer cancel()

	if _, err := ps.db.ExecContext(ctx, upsertBestScore, ps.key, score); err != nil {
		return fmt.Errorf("upsert best score: %w", err)
	}
	return nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
