package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/martijnpeper/dagboek-bot/backend/internal/model/diary"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "diary.db"))
	if err != nil {
		t.Fatalf("New err: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndListRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := []diary.Entry{
		{Date: "2025-03-14", Author: "Martijn", Body: "Vandaag was een goede dag."},
		{Date: "2025-03-14", Author: "Lisa", Body: "Een rustige dag."},
		{Date: "2025-03-15", Author: "Martijn", Body: "Druk maar leuk."},
	}

	var lastID int64
	for _, entry := range want {
		id, err := s.AppendEntry(ctx, entry)
		if err != nil {
			t.Fatalf("AppendEntry err: %v", err)
		}
		if id <= lastID {
			t.Fatalf("ids should be monotonically increasing: %d after %d", id, lastID)
		}
		lastID = id
	}

	got, err := s.ListEntries(ctx)
	if err != nil {
		t.Fatalf("ListEntries err: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Date != want[i].Date || got[i].Author != want[i].Author || got[i].Body != want[i].Body {
			t.Fatalf("entry %d mismatch: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestReopenKeepsExistingEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diary.db")
	ctx := context.Background()

	first, err := New(path)
	if err != nil {
		t.Fatalf("New err: %v", err)
	}
	if _, err := first.AppendEntry(ctx, diary.Entry{Date: "2025-03-14", Author: "Martijn", Body: "test"}); err != nil {
		t.Fatalf("AppendEntry err: %v", err)
	}
	first.Close()

	// Schema creation must be idempotent across reopens.
	second, err := New(path)
	if err != nil {
		t.Fatalf("reopen err: %v", err)
	}
	defer second.Close()

	entries, err := second.ListEntries(ctx)
	if err != nil {
		t.Fatalf("ListEntries err: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after reopen, got %d", len(entries))
	}
}

func TestListEntriesEmpty(t *testing.T) {
	s := newTestStore(t)

	entries, err := s.ListEntries(context.Background())
	if err != nil {
		t.Fatalf("ListEntries err: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}
