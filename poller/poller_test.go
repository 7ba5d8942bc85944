// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/stockdeck/liveupdates"
)

func testPrefs() *liveupdates.Preferences {
	return liveupdates.New(&liveupdates.MemoryStorage{})
}

// fastOpts keeps test feeds snappy: tight schedule, no real retry delay.
func fastOpts() Options {
	return Options{
		RefreshInterval: 30 * time.Millisecond,
		RetryDelay:      5 * time.Millisecond,
		RecheckInterval: 10 * time.Millisecond,
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("Condition not met before timeout")
}

func TestFeedInitialFetch(t *testing.T) {
	var calls atomic.Int64
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "hello", nil
	}

	opts := fastOpts()
	opts.DisablePolling = true
	f := NewFeed("greeting", fetch, testPrefs(), NewDeduper(0), opts)

	if st := f.State(); !st.IsLoading {
		t.Error("Expected IsLoading before first fetch")
	}

	f.Start()
	defer f.Close()

	waitFor(t, time.Second, func() bool { return !f.State().IsLoading })

	st := f.State()
	if st.Data != "hello" {
		t.Errorf("Expected data applied, got %q", st.Data)
	}
	if st.Err != nil {
		t.Errorf("Expected no error, got %v", st.Err)
	}
	if st.LastFetchedAt.IsZero() {
		t.Error("Expected LastFetchedAt to be set")
	}
	if calls.Load() != 1 {
		t.Errorf("Expected exactly one fetch, got %d", calls.Load())
	}
}

func TestFeedDedupSharedKey(t *testing.T) {
	var calls atomic.Int64
	fetch := func(ctx context.Context) (int, error) {
		calls.Add(1)
		return 42, nil
	}

	opts := fastOpts()
	opts.DisablePolling = true
	dedup := NewDeduper(5 * time.Second)

	// Two subscribers to the same resource key within the window
	f1 := NewFeed("quote:AAPL", fetch, testPrefs(), dedup, opts)
	f2 := NewFeed("quote:AAPL", fetch, testPrefs(), dedup, opts)
	f1.Start()
	defer f1.Close()
	f2.Start()
	defer f2.Close()

	waitFor(t, time.Second, func() bool {
		return !f1.State().IsLoading && !f2.State().IsLoading
	})

	if calls.Load() != 1 {
		t.Errorf("Expected one shared fetch for the same key, got %d", calls.Load())
	}
	if f1.State().Data != 42 || f2.State().Data != 42 {
		t.Error("Expected both feeds to see the shared result")
	}
}

func TestFeedPollsOnInterval(t *testing.T) {
	var calls atomic.Int64
	fetch := func(ctx context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	// Nanosecond dedup window so every scheduled poll goes out
	f := NewFeed("poll", fetch, testPrefs(), NewDeduper(time.Nanosecond), fastOpts())
	f.Start()
	defer f.Close()

	waitFor(t, 2*time.Second, func() bool { return calls.Load() >= 3 })
}

func TestFeedDisableStopsThenResumes(t *testing.T) {
	var calls atomic.Int64
	fetch := func(ctx context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	prefs := testPrefs()
	f := NewFeed("gate", fetch, prefs, NewDeduper(time.Nanosecond), fastOpts())
	f.Start()
	defer f.Close()

	waitFor(t, 2*time.Second, func() bool { return calls.Load() >= 2 })

	prefs.Disable()
	// Let any already-armed tick drain
	time.Sleep(100 * time.Millisecond)
	settled := calls.Load()
	time.Sleep(150 * time.Millisecond)
	if calls.Load() != settled {
		t.Errorf("Expected no fetches while disabled, got %d more", calls.Load()-settled)
	}
	if f.IsPolling() {
		t.Error("Expected IsPolling false while disabled")
	}

	// Re-enabling resumes without restarting the feed
	prefs.Enable()
	waitFor(t, 2*time.Second, func() bool { return calls.Load() > settled })
}

func TestFeedRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int64
	fetch := func(ctx context.Context) (string, error) {
		if calls.Add(1) < 3 {
			return "", errors.New("flaky")
		}
		return "finally", nil
	}

	opts := fastOpts()
	opts.DisablePolling = true
	f := NewFeed("retry", fetch, testPrefs(), NewDeduper(time.Nanosecond), opts)
	f.Start()
	defer f.Close()

	waitFor(t, 2*time.Second, func() bool { return f.State().Data == "finally" })

	st := f.State()
	if st.Err != nil {
		t.Errorf("Expected error cleared after recovery, got %v", st.Err)
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls.Load())
	}
}

func TestFeedSurfacesErrorAfterRetries(t *testing.T) {
	var failing atomic.Bool
	var calls atomic.Int64
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		if failing.Load() {
			return "", errors.New("upstream down")
		}
		return "good", nil
	}

	opts := fastOpts()
	opts.DisablePolling = true
	f := NewFeed("stale", fetch, testPrefs(), NewDeduper(time.Nanosecond), opts)
	f.Start()
	defer f.Close()

	waitFor(t, time.Second, func() bool { return f.State().Data == "good" })

	failing.Store(true)
	before := calls.Load()
	if err := f.Refresh(context.Background()); err == nil {
		t.Fatal("Expected refresh to fail")
	}

	// Initial try plus 3 retries
	if got := calls.Load() - before; got != 4 {
		t.Errorf("Expected 4 attempts, got %d", got)
	}

	st := f.State()
	if st.Err == nil {
		t.Error("Expected surfaced error")
	}
	// Stale-but-present: the last good value survives the failure
	if st.Data != "good" {
		t.Errorf("Expected stale data retained, got %q", st.Data)
	}
	if st.IsLoading {
		t.Error("Expected IsLoading to stay false after a prior success")
	}
}

func TestFeedRefreshBypassesDedup(t *testing.T) {
	var calls atomic.Int64
	fetch := func(ctx context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	opts := fastOpts()
	opts.DisablePolling = true
	f := NewFeed("manual", fetch, testPrefs(), NewDeduper(time.Hour), opts)
	f.Start()
	defer f.Close()

	waitFor(t, time.Second, func() bool { return calls.Load() == 1 })

	// The hour-long dedup window would swallow a plain fetch; Refresh must
	// force one anyway.
	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("Expected refresh to fetch, got %d calls", calls.Load())
	}
	if f.State().Data != 2 {
		t.Errorf("Expected refreshed value, got %d", f.State().Data)
	}
}

func TestFeedCloseDiscardsInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) (string, error) {
		close(entered)
		select {
		case <-release:
			return "late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	opts := fastOpts()
	opts.DisablePolling = true
	f := NewFeed("closing", fetch, testPrefs(), NewDeduper(time.Nanosecond), opts)
	f.Start()

	<-entered
	f.Close()
	close(release)

	// Give the discarded result time to (not) land
	time.Sleep(50 * time.Millisecond)

	st := f.State()
	if !st.IsLoading || st.Data != "" {
		t.Errorf("Expected no state applied after Close, got %+v", st)
	}

	// Close is idempotent
	f.Close()
}

func TestFeedAppliesInIssuanceOrder(t *testing.T) {
	f := NewFeed("order", func(ctx context.Context) (string, error) {
		return "", nil
	}, testPrefs(), NewDeduper(0), Options{})

	f.apply(2, "newer", nil)
	// A late-resolving earlier fetch must not overwrite the newer result
	f.apply(1, "older", nil)

	if got := f.State().Data; got != "newer" {
		t.Errorf("Expected newer result retained, got %q", got)
	}

	// An error from a stale fetch is discarded too
	f.apply(1, "", errors.New("stale failure"))
	if f.State().Err != nil {
		t.Errorf("Expected stale error discarded, got %v", f.State().Err)
	}
}

func TestDeduperWindow(t *testing.T) {
	var calls atomic.Int64
	fn := func(ctx context.Context) (any, error) {
		return int(calls.Add(1)), nil
	}

	d := NewDeduper(50 * time.Millisecond)
	ctx := context.Background()

	v1, _ := d.Do(ctx, "k", fn)
	v2, _ := d.Do(ctx, "k", fn)
	if v1 != v2 || calls.Load() != 1 {
		t.Errorf("Expected second call served from window, got %v/%v after %d calls", v1, v2, calls.Load())
	}

	// A different key fetches independently
	_, _ = d.Do(ctx, "other", fn)
	if calls.Load() != 2 {
		t.Errorf("Expected independent fetch per key, got %d", calls.Load())
	}

	time.Sleep(60 * time.Millisecond)
	_, _ = d.Do(ctx, "k", fn)
	if calls.Load() != 3 {
		t.Errorf("Expected fresh fetch after window expiry, got %d", calls.Load())
	}
}

func TestDeduperDoesNotCacheErrors(t *testing.T) {
	var calls atomic.Int64
	fn := func(ctx context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("boom")
		}
		return "ok", nil
	}

	d := NewDeduper(time.Hour)
	ctx := context.Background()

	if _, err := d.Do(ctx, "k", fn); err == nil {
		t.Fatal("Expected first call to fail")
	}
	// The failure is not replayed; the next call fetches fresh
	v, err := d.Do(ctx, "k", fn)
	if err != nil || v != "ok" {
		t.Errorf("Expected fresh fetch after error, got %v, %v", v, err)
	}
}
