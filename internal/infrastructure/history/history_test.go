package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/tesso57/rssss/internal/domain/journal"
)

func TestManager_RecordAndRecent(t *testing.T) {
	ctx := context.Background()
	m := NewManager(filepath.Join(t.TempDir(), "state", "history.db"))
	t.Cleanup(func() { _ = m.Close() })

	base := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	events := []journal.Event{
		{Op: journal.OpBootstrap, Detail: "/home/me/.config/rssss/default.xml", At: base},
		{Op: journal.OpAdd, Title: "Example Blog", FeedURL: "https://example.com/feed", At: base.Add(time.Minute)},
		{Op: journal.OpSync, Detail: "abc1234", At: base.Add(2 * time.Minute)},
	}
	for _, ev := range events {
		if err := m.Record(ctx, ev); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := m.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(Recent) = %d, want 2", len(got))
	}
	if got[0].Op != journal.OpSync || got[1].Op != journal.OpAdd {
		t.Fatalf("unexpected order: %s, %s", got[0].Op, got[1].Op)
	}
	if got[1].FeedURL != "https://example.com/feed" || got[1].Title != "Example Blog" {
		t.Fatalf("unexpected event: %#v", got[1])
	}
	if got[1].ID == "" {
		t.Fatal("expected generated id")
	}
	if !got[0].At.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("At = %v", got[0].At)
	}
}

func TestManager_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	first := NewManager(path)
	if err := first.Record(ctx, journal.Event{Op: journal.OpRemove, FeedURL: "https://old.example/rss"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second := NewManager(path)
	t.Cleanup(func() { _ = second.Close() })
	got, err := second.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 1 || got[0].Op != journal.OpRemove {
		t.Fatalf("unexpected events: %#v", got)
	}
}

func TestManager_RecordError(t *testing.T) {
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = raw.Close() }()

	mock.ExpectExec("INSERT INTO events").WillReturnError(errors.New("disk full"))

	m := newManagerWithDB(sqlx.NewDb(raw, "sqlmock"))
	err = m.Record(context.Background(), journal.Event{Op: journal.OpAdd, FeedURL: "https://example.com/feed"})
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
