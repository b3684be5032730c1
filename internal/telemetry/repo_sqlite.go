package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// fixed width so stored timestamps sort lexically
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id         TEXT PRIMARY KEY,
	type       TEXT NOT NULL,
	timestamp  TEXT NOT NULL,
	metadata   TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS events_timestamp ON events (timestamp);
`

// SQLiteRepository persists events so balance runs can be compared across
// server restarts.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the event database at dsn. ":memory:"
// gives a private in-process database.
func OpenSQLite(dsn string) (*SQLiteRepository, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("telemetry dsn is required")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one connection keeps ":memory:" a single database and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *SQLiteRepository) RecordEvent(ctx context.Context, e Event) error {
	if e.ID == "" {
		return errors.New("event id is required")
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (id, type, timestamp, metadata) VALUES (?, ?, ?, ?)`,
		e.ID, string(e.Type), e.Timestamp.UTC().Format(timeFormat), e.Metadata)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetEvents(ctx context.Context, since time.Time, eventTypes []EventType) ([]Event, error) {
	query := `SELECT id, type, timestamp, metadata FROM events WHERE timestamp >= ?`
	args := []any{since.UTC().Format(timeFormat)}
	if len(eventTypes) > 0 {
		query += ` AND type IN (?` + strings.Repeat(`, ?`, len(eventTypes)-1) + `)`
		for _, t := range eventTypes {
			args = append(args, string(t))
		}
	}
	query += ` ORDER BY timestamp, rowid`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	result := make([]Event, 0)
	for rows.Next() {
		var (
			e  Event
			ts string
		)
		if err := rows.Scan(&e.ID, &e.Type, &ts, &e.Metadata); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if e.Timestamp, err = time.Parse(timeFormat, ts); err != nil {
			return nil, fmt.Errorf("parse event %s timestamp: %w", e.ID, err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}
	return nil
}

var _ Repository = (*SQLiteRepository)(nil)
