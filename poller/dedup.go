// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poller

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultDedupWindow is how long a fetched result satisfies duplicate
// requests for the same key.
const DefaultDedupWindow = 5 * time.Second

type recentEntry struct {
	val any
	at  time.Time
}

// Deduper collapses duplicate fetches: concurrent calls for the same key
// share one in-flight fetch (singleflight), and calls arriving within the
// window after a success reuse its result. Feeds that should deduplicate
// against each other must share one Deduper.
type Deduper struct {
	window time.Duration
	g      singleflight.Group
	mu     sync.Mutex
	recent map[string]recentEntry
}

func NewDeduper(window time.Duration) *Deduper {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &Deduper{
		window: window,
		recent: make(map[string]recentEntry),
	}
}

// Do runs fn for key, unless a result from within the window exists or an
// identical fetch is already in flight. Only successes are cached; errors
// are shared with concurrent waiters but never replayed to later callers.
func (d *Deduper) Do(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	d.mu.Lock()
	if e, ok := d.recent[key]; ok && time.Since(e.at) < d.window {
		d.mu.Unlock()
		return e.val, nil
	}
	d.mu.Unlock()

	v, err, _ := d.g.Do(key, func() (any, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		d.mu.Lock()
		d.recent[key] = recentEntry{val: v, at: time.Now()}
		d.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Forget drops the cached result for key so the next Do fetches fresh.
func (d *Deduper) Forget(key string) {
	d.mu.Lock()
	delete(d.recent, key)
	d.mu.Unlock()
}
