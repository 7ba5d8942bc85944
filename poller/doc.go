// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package poller implements the polling feed behind every live dashboard
resource.

A Feed wraps a Fetcher and keeps {Data, Err, IsLoading, IsValidating,
LastFetchedAt} fresh:

	feed := poller.NewFeed("portfolio", fetchPortfolio, prefs, dedup, poller.Options{})
	feed.Start()
	defer feed.Close()
	st := feed.State()

Behavior:

  - An immediate fetch on Start, then a refetch on the effective interval
    while the global live-updates preference allows it.
  - Duplicate fetches for the same key within a 5-second window collapse
    into one (feeds sharing a Deduper dedup against each other).
  - A failed fetch retries up to 3 times with a fixed delay before the
    error is surfaced; previously fetched Data is never cleared by a
    failure.
  - Results apply in issuance order; Close discards anything still in
    flight.
  - Refresh forces a fetch right now without touching the schedule.
*/
package poller
