// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP routes for the Stockdeck BFF using Go 1.22+
method patterns.

Routes:

	GET  /health                   liveness + uptime
	POST /auth/login               mint a session from email + login key
	POST /auth/logout              destroy the current session
	GET  /auth/me                  current session identity
	GET  /portfolio                portfolio summary (30s freshness)
	POST /portfolio/sync           trigger upstream data sync
	GET  /orders                   recent orders (30s freshness)
	GET  /stocks/{ticker}          stock profile (60s freshness)
	GET  /stocks/{ticker}/ideas    trading ideas (60s freshness)
	GET  /chart-data               OHLCV series (300s freshness)
	GET  /search                   ticker search (60s freshness)
	GET  /watchlist                watchlist quotes (30s freshness)
	POST /watchlist/validate       ticker validation

Everything except /health, /auth/login, and the root banner requires a valid
session.
*/
package router
