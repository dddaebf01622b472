// Package history keeps a local journal of subscription changes in SQLite.
package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/tesso57/rssss/internal/domain/journal"
	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id       TEXT PRIMARY KEY,
	op       TEXT NOT NULL,
	title    TEXT NOT NULL DEFAULT '',
	feed_url TEXT NOT NULL DEFAULT '',
	detail   TEXT NOT NULL DEFAULT '',
	at       DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS events_at ON events (at);
`

// Manager handles reading and writing the journal.
type Manager struct {
	mu   sync.Mutex
	path string
	db   *sqlx.DB
	now  func() time.Time
}

// NewManager creates a journal stored at path. The database is opened lazily.
func NewManager(path string) *Manager {
	return new(Manager{path: path, now: time.Now})
}

// newManagerWithDB wraps an already open handle.
func newManagerWithDB(db *sqlx.DB) *Manager {
	return new(Manager{db: db, now: time.Now})
}

// Record appends an event. Empty ID and time are filled in.
func (m *Manager) Record(ctx context.Context, ev journal.Event) error {
	db, err := m.open(ctx)
	if err != nil {
		return err
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.At.IsZero() {
		ev.At = m.now()
	}
	ev.At = ev.At.UTC()

	_, err = db.NamedExecContext(ctx,
		`INSERT INTO events (id, op, title, feed_url, detail, at) VALUES (:id, :op, :title, :feed_url, :detail, :at)`,
		ev)
	if err != nil {
		return fmt.Errorf("record %s event: %w", ev.Op, err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (m *Manager) Recent(ctx context.Context, limit int) ([]journal.Event, error) {
	db, err := m.open(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	var events []journal.Event
	err = db.SelectContext(ctx, &events,
		`SELECT id, op, title, feed_url, detail, at FROM events ORDER BY at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Close releases the database handle.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}

func (m *Manager) open(ctx context.Context) (*sqlx.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db != nil {
		return m.db, nil
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0750); err != nil {
		return nil, err
	}
	db, err := sqlx.ConnectContext(ctx, "sqlite", m.path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	m.db = db
	return db, nil
}
