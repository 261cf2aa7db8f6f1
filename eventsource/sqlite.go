package eventsource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS events (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id   TEXT NOT NULL,
	stream_id  TEXT NOT NULL,
	version    INTEGER NOT NULL,
	event_type TEXT NOT NULL,
	data       BLOB,
	created_at TEXT NOT NULL,
	UNIQUE (stream_id, version)
);
CREATE TABLE IF NOT EXISTS stream_heads (
	stream_id TEXT PRIMARY KEY,
	version   INTEGER NOT NULL,
	digest    BLOB NOT NULL
);
`

// SQLiteStore is a Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) a store at path. Use ":memory:"
// for an ephemeral database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append writes events to a stream with optimistic concurrency.
func (s *SQLiteStore) Append(ctx context.Context, streamID string, expectedVersion int, events []*Event) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	current, digest, err := streamHead(ctx, tx, streamID)
	if err != nil {
		return 0, err
	}
	if expectedVersion != current {
		return 0, ErrConcurrencyConflict
	}

	for i, e := range events {
		e.StreamID = streamID
		e.Version = current + 1 + i
		digest = chainDigest(digest, e)
		_, err := tx.ExecContext(ctx,
			`INSERT INTO events (event_id, stream_id, version, event_type, data, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID.String(), e.StreamID, e.Version, e.Type, []byte(e.Data),
			e.Time.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return 0, fmt.Errorf("insert event: %w", err)
		}
	}
	version := current + len(events)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO stream_heads (stream_id, version, digest) VALUES (?, ?, ?)
		 ON CONFLICT (stream_id) DO UPDATE SET version = excluded.version, digest = excluded.digest`,
		streamID, version, digest)
	if err != nil {
		return 0, fmt.Errorf("update head: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return version, nil
}

// Read returns a stream's events from fromVersion on.
func (s *SQLiteStore) Read(ctx context.Context, streamID string, fromVersion int) ([]*Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT event_id, stream_id, version, event_type, data, created_at
		 FROM events WHERE stream_id = ? AND version >= ? ORDER BY version`,
		streamID, fromVersion)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ReadAll returns matching events in global append order.
func (s *SQLiteStore) ReadAll(ctx context.Context, filter EventFilter) ([]*Event, error) {
	query := `SELECT event_id, stream_id, version, event_type, data, created_at FROM events`
	var conds []string
	var args []any
	if filter.StreamID != "" {
		conds = append(conds, "stream_id = ?")
		args = append(args, filter.StreamID)
	}
	if len(filter.Types) > 0 {
		placeholders := strings.Repeat("?,", len(filter.Types))
		conds = append(conds, fmt.Sprintf("event_type IN (%s)", placeholders[:len(placeholders)-1]))
		for _, t := range filter.Types {
			args = append(args, t)
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY seq"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// StreamVersion returns the stream's current version, -1 if absent.
func (s *SQLiteStore) StreamVersion(ctx context.Context, streamID string) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx,
		`SELECT version FROM stream_heads WHERE stream_id = ?`, streamID).Scan(&version)
	if err == sql.ErrNoRows {
		return -1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query head: %w", err)
	}
	return version, nil
}

// Digest returns the stream's chained digest.
func (s *SQLiteStore) Digest(ctx context.Context, streamID string) ([]byte, error) {
	var digest []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT digest FROM stream_heads WHERE stream_id = ?`, streamID).Scan(&digest)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query head: %w", err)
	}
	return digest, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func streamHead(ctx context.Context, tx *sql.Tx, streamID string) (int, []byte, error) {
	var version int
	var digest []byte
	err := tx.QueryRowContext(ctx,
		`SELECT version, digest FROM stream_heads WHERE stream_id = ?`, streamID).
		Scan(&version, &digest)
	if err == sql.ErrNoRows {
		return -1, nil, nil
	}
	if err != nil {
		return 0, nil, fmt.Errorf("query head: %w", err)
	}
	return version, digest, nil
}

func scanEvents(rows *sql.Rows) ([]*Event, error) {
	var out []*Event
	for rows.Next() {
		var (
			e         Event
			id, stamp string
		)
		if err := rows.Scan(&id, &e.StreamID, &e.Version, &e.Type, (*[]byte)(&e.Data), &stamp); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse event id: %w", err)
		}
		e.ID = parsed
		t, err := time.Parse(time.RFC3339Nano, stamp)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp: %w", err)
		}
		e.Time = t
		out = append(out, &e)
	}
	return out, rows.Err()
}
