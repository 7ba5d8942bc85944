// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/danielhkuo/stockdeck/liveupdates"
)

// Fetcher produces one value for a feed, typically by calling a BFF
// endpoint.
type Fetcher[T any] func(ctx context.Context) (T, error)

// State is what a feed exposes to its consumer. IsLoading is true only
// until the first successful fetch; Data survives later failures
// (stale-but-present), with Err set alongside it.
type State[T any] struct {
	Data          T
	Err           error
	IsLoading     bool
	IsValidating  bool
	LastFetchedAt time.Time
}

// Options tunes one feed.
type Options struct {
	// RefreshInterval overrides the preference interval when > 0.
	RefreshInterval time.Duration
	// DisablePolling keeps this feed manual-only regardless of the global
	// preference.
	DisablePolling bool
	// RetryCount is how many retries follow a failed fetch (default 3).
	RetryCount uint64
	// RetryDelay is the fixed delay between attempts (default 5s).
	RetryDelay time.Duration
	// RecheckInterval is how often a gated-off feed re-reads the preference
	// (default 1s). Exposed for tests.
	RecheckInterval time.Duration
}

func (o *Options) withDefaults() {
	if o.RetryCount == 0 {
		o.RetryCount = 3
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = 5 * time.Second
	}
	if o.RecheckInterval <= 0 {
		o.RecheckInterval = time.Second
	}
}

// Feed polls one resource. Lifecycle: NewFeed, Start, State/Refresh at
// will, Close. After Close no result is ever applied.
type Feed[T any] struct {
	key   string
	fetch Fetcher[T]
	prefs *liveupdates.Preferences
	dedup *Deduper
	opts  Options

	ctx       context.Context
	cancelCtx context.CancelFunc
	sched     *scheduler

	seq        atomic.Uint64
	mu         sync.Mutex
	state      State[T]
	appliedSeq uint64
	closed     bool
}

// NewFeed builds a feed without starting it. Feeds sharing a Deduper
// deduplicate fetches for the same key against each other.
func NewFeed[T any](key string, fetch Fetcher[T], prefs *liveupdates.Preferences, dedup *Deduper, opts Options) *Feed[T] {
	opts.withDefaults()
	if dedup == nil {
		dedup = NewDeduper(0)
	}
	return &Feed[T]{
		key:   key,
		fetch: fetch,
		prefs: prefs,
		dedup: dedup,
		opts:  opts,
		state: State[T]{IsLoading: true},
	}
}

// Start kicks off the immediate first fetch and the polling schedule.
func (f *Feed[T]) Start() {
	f.ctx, f.cancelCtx = context.WithCancel(context.Background())

	go func() { _ = f.fetchOnce(f.ctx) }()

	f.sched = newScheduler(f.nextWait, func() {
		// The gate is re-checked at fire time so a disable that landed
		// mid-wait suppresses the fetch.
		if f.shouldPoll() {
			_ = f.fetchOnce(f.ctx)
		}
	})
}

// Close cancels the schedule and any in-flight fetch, and marks every
// outstanding result discardable. Idempotent.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.mu.Unlock()

	if f.cancelCtx != nil {
		f.cancelCtx()
	}
	if f.sched != nil {
		f.sched.cancel()
	}
}

// State returns a snapshot of the feed's current state.
func (f *Feed[T]) State() State[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Refresh forces an immediate out-of-band fetch, bypassing the dedup cache
// and leaving the scheduled timer untouched.
func (f *Feed[T]) Refresh(ctx context.Context) error {
	f.dedup.Forget(f.key)
	return f.fetchOnce(ctx)
}

// IsPolling reports whether the schedule is currently live.
func (f *Feed[T]) IsPolling() bool {
	return f.shouldPoll()
}

func (f *Feed[T]) shouldPoll() bool {
	return f.prefs.Snapshot().Enabled && !f.opts.DisablePolling
}

func (f *Feed[T]) interval() time.Duration {
	if f.opts.RefreshInterval > 0 {
		return f.opts.RefreshInterval
	}
	return time.Duration(f.prefs.Snapshot().IntervalMs) * time.Millisecond
}

// nextWait is the scheduler's clock: the polling interval while live, a
// short re-check wait while gated off.
func (f *Feed[T]) nextWait() time.Duration {
	if f.shouldPoll() {
		return f.interval()
	}
	return f.opts.RecheckInterval
}

func (f *Feed[T]) fetchOnce(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.state.IsValidating = true
	f.mu.Unlock()

	seq := f.seq.Add(1)
	val, err := f.attempt(ctx)
	f.apply(seq, val, err)
	return err
}

// attempt runs the deduplicated fetch with fixed-delay retries.
func (f *Feed[T]) attempt(ctx context.Context) (T, error) {
	var out T

	op := func() error {
		v, err := f.dedup.Do(ctx, f.key, func(ctx context.Context) (any, error) {
			return f.fetch(ctx)
		})
		if err != nil {
			return err
		}
		t, ok := v.(T)
		if !ok {
			return backoff.Permanent(fmt.Errorf("unexpected payload type %T for key %q", v, f.key))
		}
		out = t
		return nil
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(f.opts.RetryDelay), f.opts.RetryCount),
		ctx,
	)
	if err := backoff.Retry(op, b); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// apply commits a resolved fetch. Results are applied in issuance order: a
// late-resolving earlier fetch never overwrites a newer one, and nothing is
// applied after Close.
func (f *Feed[T]) apply(seq uint64, val T, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	if seq <= f.appliedSeq {
		return
	}
	f.appliedSeq = seq
	f.state.IsValidating = false

	if err != nil {
		// Prior Data is retained: stale-but-present beats empty.
		f.state.Err = err
		return
	}

	f.state.Err = nil
	f.state.Data = val
	f.state.IsLoading = false
	f.state.LastFetchedAt = time.Now()
}
