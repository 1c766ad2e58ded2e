package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"gopress/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := history.Run{
			ID:         uuid.NewString(),
			Kind:       "merge",
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + 30*time.Second),
			Outcome:    "success",
			Files:      i + 1,
			Pages:      (i + 1) * 100,
		}
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record returned error: %v", err)
		}
	}

	runs, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Fatalf("expected newest first, got %v then %v", runs[0].StartedAt, runs[1].StartedAt)
	}
	if runs[0].Pages != 300 {
		t.Fatalf("unexpected pages: %d", runs[0].Pages)
	}
}

func TestRecentOnEmptyLedger(t *testing.T) {
	store := openStore(t)
	runs, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %d", len(runs))
	}
}

func TestRecordKeepsErrorDetail(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run := history.Run{
		ID:         uuid.NewString(),
		Kind:       "impose",
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
		Outcome:    "error",
		Detail:     "templates not found: /tmp/a.pdf",
	}
	if err := store.Record(ctx, run); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	runs, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if runs[0].Detail != run.Detail {
		t.Fatalf("detail round trip failed: %q", runs[0].Detail)
	}
}
