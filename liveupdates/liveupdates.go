// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package liveupdates

import (
	"log/slog"
	"sync"
)

// MinIntervalMs is the floor for the polling interval. It protects the
// upstream service from excessive polling and is never bypassed.
const MinIntervalMs = 10000

// DefaultIntervalMs is the polling interval used until the user changes it.
const DefaultIntervalMs = 60000

// State is the persisted preference: whether live polling is on, and how
// often it fires.
type State struct {
	Enabled    bool `json:"enabled"`
	IntervalMs int  `json:"interval_ms"`
}

// Storage is the persistence port. Load reports found=false when nothing has
// been persisted yet.
type Storage interface {
	Load() (state State, found bool, err error)
	Save(State) error
}

// Preferences is the process-wide live-updates toggle shared by every
// polling feed. Mutations are synchronous and persisted immediately; feeds
// observe new values at their next scheduling decision.
type Preferences struct {
	mu      sync.Mutex
	state   State
	storage Storage
}

// New initializes preferences from storage, falling back to the defaults
// (enabled, 60s) when nothing is persisted yet or the load fails.
func New(storage Storage) *Preferences {
	p := &Preferences{
		state:   State{Enabled: true, IntervalMs: DefaultIntervalMs},
		storage: storage,
	}

	st, found, err := storage.Load()
	if err != nil {
		slog.Warn("failed to load live-updates preference, using defaults", "error", err)
		return p
	}
	if found {
		if st.IntervalMs < MinIntervalMs {
			st.IntervalMs = MinIntervalMs
		}
		p.state = st
	}
	return p
}

// Enable turns live polling on.
func (p *Preferences) Enable() {
	p.mutate(func(s *State) { s.Enabled = true })
}

// Disable turns live polling off.
func (p *Preferences) Disable() {
	p.mutate(func(s *State) { s.Enabled = false })
}

// Toggle flips live polling.
func (p *Preferences) Toggle() {
	p.mutate(func(s *State) { s.Enabled = !s.Enabled })
}

// SetInterval sets the polling interval in milliseconds, clamped to the
// 10s floor.
func (p *Preferences) SetInterval(ms int) {
	if ms < MinIntervalMs {
		ms = MinIntervalMs
	}
	p.mutate(func(s *State) { s.IntervalMs = ms })
}

// Snapshot returns the current preference state.
func (p *Preferences) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Preferences) mutate(fn func(*State)) {
	p.mu.Lock()
	fn(&p.state)
	st := p.state
	p.mu.Unlock()

	if err := p.storage.Save(st); err != nil {
		slog.Error("failed to persist live-updates preference", "error", err)
	}
}
