// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the request and response types for the Stockdeck BFF.

# Error Shape

Every endpoint that fails returns an ErrorResponse:

	{"error": "Stock ZZZZ not found"}
	{"error": "Watchlist service unavailable", "statusCode": 503}

Detail carries upstream-provided context when the upstream API supplied one.

# Passthrough vs Normalized Payloads

Portfolio, orders, stock profiles, and ideas are proxied verbatim; their
types are json.RawMessage aliases. Chart data is the one resource the BFF
reshapes: upstream ISO-dated bars become OHLCVBar values with Unix-second
timestamps, sorted ascending, wrapped in a ChartDataResponse whose S field
is "ok" or "no_data".
*/
package models
