// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package liveupdates

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStorage persists the preference as a small JSON file, the durable
// per-profile store.
type FileStorage struct {
	Path string
}

// DefaultPath places the preference file under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "stockdeck", "live-updates.json"), nil
}

func (f *FileStorage) Load() (State, bool, error) {
	b, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, err
	}

	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		return State{}, false, err
	}
	return st, true, nil
}

func (f *FileStorage) Save(st State) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, b, 0o600)
}

// MemoryStorage is an in-memory Storage for tests.
type MemoryStorage struct {
	mu    sync.Mutex
	state State
	found bool
	// Saves counts Save calls so tests can assert mutations persist.
	Saves int
}

func (m *MemoryStorage) Load() (State, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.found, nil
}

func (m *MemoryStorage) Save(st State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = st
	m.found = true
	m.Saves++
	return nil
}

// Seed pre-populates the store, as if a previous run had saved.
func (m *MemoryStorage) Seed(st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = st
	m.found = true
}
