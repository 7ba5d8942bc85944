// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Response Helpers

	middleware.JSONResponse(w, 200, data)
	middleware.ErrorResponse(w, 404, "Stock ZZZZ not found")
	middleware.ErrorResponseDetail(w, 500, "Failed to fetch orders", detail)

Error bodies always take the normalized models.ErrorResponse shape; no raw
error ever reaches a client.

# Freshness

	middleware.SetFreshness(w, 30)

emits the Cache-Control directive declaring the endpoint's freshness window.
The windows are contractual: portfolio/orders/watchlist 30s, profiles and
ideas and search 60s, chart data 300s.

# Logging

WithLogging wraps each route, logging start and completion with a per-request
id and duration via slog.
*/
package middleware
