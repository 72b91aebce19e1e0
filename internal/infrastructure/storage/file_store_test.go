package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"MiningNewsBot/internal/domain"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileStore(path)
	ctx := context.Background()

	state := domain.BotState{
		PostedIDs: []string{"a", "b"},
		Queue: []domain.Article{{
			ID:          "c",
			Title:       "Queued story",
			URL:         "https://example.com/c",
			Source:      "Example",
			PublishedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		}},
		LastRun:         time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Cooldown:        &domain.Cooldown{Until: time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC), DurationHours: 2, ProgressiveCount: 1},
		RateLimitStreak: 1,
	}

	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(loaded.PostedIDs) != 2 || loaded.PostedIDs[0] != "a" {
		t.Fatalf("posted ids not round-tripped: %v", loaded.PostedIDs)
	}
	if len(loaded.Queue) != 1 || loaded.Queue[0].ID != "c" {
		t.Fatalf("queue not round-tripped: %v", loaded.Queue)
	}
	if !loaded.LastRun.Equal(state.LastRun) {
		t.Fatal("last-run time not round-tripped")
	}
	if loaded.Cooldown == nil || loaded.Cooldown.ProgressiveCount != 1 {
		t.Fatalf("cooldown not round-tripped: %+v", loaded.Cooldown)
	}
}

func TestFileStoreMissingFileIsEmptyState(t *testing.T) {
	t.Parallel()

	store := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))
	state, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(state.PostedIDs) != 0 || state.Cooldown != nil {
		t.Fatalf("expected empty state, got %+v", state)
	}
}

func TestFileStoreCorruptFileIsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	if _, err := NewFileStore(path).Load(context.Background()); err == nil {
		t.Fatal("corrupt state file must be an error")
	}
}

func TestFileStoreSaveLeavesNoTempFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	if err := NewFileStore(path).Save(context.Background(), domain.BotState{}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temp file must be renamed away")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("state file must exist: %v", err)
	}
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "deeper", "state.json")
	if err := NewFileStore(path).Save(context.Background(), domain.BotState{}); err != nil {
		t.Fatalf("save into missing directory: %v", err)
	}
}
