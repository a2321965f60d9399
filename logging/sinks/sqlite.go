package sinks

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"gloamdelve/server/logging"
)

// SQLiteSink persists every event into an append-only table so a session
// can be audited or replayed after the process exits. Writes are batched;
// the worker goroutine owning this sink calls Write serially.
type SQLiteSink struct {
	mu       sync.Mutex
	db       *sql.DB
	pending  []logging.Event
	maxBatch int
	lastErr  error
}

// NewSQLiteSink opens (or creates) the database at path and ensures the
// events schema exists.
func NewSQLiteSink(cfg logging.SQLiteConfig) (*SQLiteSink, error) {
	path := cfg.Path
	if path == "" {
		path = "events.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable wal mode: %w", err)
	}
	if err := createEventSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	maxBatch := cfg.MaxBatch
	if maxBatch <= 0 {
		maxBatch = 64
	}
	sink := &SQLiteSink{
		db:       db,
		pending:  make([]logging.Event, 0, maxBatch),
		maxBatch: maxBatch,
	}
	if cfg.FlushInterval > 0 {
		go sink.periodicFlush(cfg.FlushInterval)
	}
	return sink, nil
}

func createEventSchema(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			type TEXT NOT NULL,
			tick INTEGER NOT NULL,
			time DATETIME NOT NULL,
			actor_id TEXT NOT NULL,
			actor_kind TEXT NOT NULL,
			severity INTEGER NOT NULL,
			category TEXT,
			payload TEXT,
			extra TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_type ON events(type);`,
		`CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);`,
	}
	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// Write satisfies logging.Sink.
func (s *SQLiteSink) Write(event logging.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, event)
	if len(s.pending) >= s.maxBatch {
		return s.flushLocked()
	}
	return s.lastErr
}

func (s *SQLiteSink) flushLocked() error {
	if len(s.pending) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		s.lastErr = err
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO events
		(type, tick, time, actor_id, actor_kind, severity, category, payload, extra)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		s.lastErr = err
		return err
	}
	for _, event := range s.pending {
		payload := marshalColumn(event.Payload)
		extra := marshalColumn(event.Extra)
		if _, err := stmt.Exec(
			string(event.Type),
			event.Tick,
			event.Time.UTC().Format(time.RFC3339Nano),
			event.Actor.ID,
			string(event.Actor.Kind),
			int(event.Severity),
			event.Category,
			payload,
			extra,
		); err != nil {
			stmt.Close()
			tx.Rollback()
			s.lastErr = err
			return err
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		s.lastErr = err
		return err
	}
	s.pending = s.pending[:0]
	s.lastErr = nil
	return nil
}

func marshalColumn(v any) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func (s *SQLiteSink) periodicFlush(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		closed := s.db == nil
		if !closed {
			s.flushLocked()
		}
		s.mu.Unlock()
		if closed {
			return
		}
	}
}

// Close flushes the batch and closes the database.
func (s *SQLiteSink) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	flushErr := s.flushLocked()
	closeErr := s.db.Close()
	s.db = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
