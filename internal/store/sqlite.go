package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver

	"foundry/internal/game"
)

// SQLiteStore keeps a single save slot in a local SQLite file. It is the
// default persistence backend; Postgres is opt-in via configuration.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS save_slot (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			payload TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create save_slot schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, st game.State) error {
	payload, err := EncodeState(st)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO save_slot (id, payload, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, string(payload), time.Now().UTC())
	return err
}

func (s *SQLiteStore) Load(ctx context.Context) (game.State, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM save_slot WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return game.State{}, false, nil
	}
	if err != nil {
		return game.State{}, false, err
	}
	st, err := DecodeState([]byte(payload))
	if err != nil {
		// A corrupt slot is discarded; the next save overwrites it.
		return game.State{}, false, nil
	}
	return st, true, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
