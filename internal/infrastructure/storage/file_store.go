// Package storage persists bot state to a local JSON file and optionally
// archives posted articles to Postgres.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"MiningNewsBot/internal/domain"
	"MiningNewsBot/internal/ports"
)

// FileStore keeps the bot state in a single JSON file. Saves are atomic:
// write to a temp file, then rename, so a crash never leaves a half-written
// state file.
type FileStore struct {
	path string
}

var _ ports.StateStore = (*FileStore)(nil)

// NewFileStore builds a store over the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the state file. A missing file yields an empty state (first
// run); an unreadable or corrupt file is an error, since nothing can be
// safely decided without state.
func (s *FileStore) Load(ctx context.Context) (domain.BotState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.BotState{}, nil
		}
		return domain.BotState{}, fmt.Errorf("read state file: %w", err)
	}

	var state domain.BotState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.BotState{}, fmt.Errorf("parse state file %s: %w", s.path, err)
	}

	return state, nil
}

// Save writes the state atomically.
func (s *FileStore) Save(ctx context.Context, state domain.BotState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp state file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp state file: %w", err)
	}

	return nil
}
