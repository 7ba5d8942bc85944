// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the proxy endpoints of the Stockdeck BFF.

# Handler Types

Each handler is a struct with session-oracle, upstream-client, and config
dependencies:

  - PortfolioHandler: portfolio summary and sync trigger
  - OrdersHandler: recent orders with filters
  - StockHandler: stock profiles and trading ideas
  - ChartDataHandler: OHLCV series in charting format
  - SearchHandler: ticker search
  - WatchlistHandler: watchlist quotes and ticker validation
  - SessionHandler: login, logout, and session introspection

Handlers are created via constructor functions:

	ph := handlers.NewPortfolioHandler(oracle, up, cfg)

# Request Shape

Every proxied endpoint follows the same sequence:

 1. Auth guard - a missing or invalid session is a 401 before any upstream
    I/O happens.
 2. Parameter validation - missing required input is a 400 with a
    field-specific message.
 3. One upstream attempt with resource defaults applied.
 4. Error normalization - upstream 404s map to resource-specific responses,
    other non-2xx statuses pass through with upstream detail, and a
    transport failure becomes 502 (503 for search and watchlist).
 5. Freshness declaration via Cache-Control on success.

Chart data is the only resource that reshapes its payload: ISO-dated bars
become Unix-second bars sorted ascending, and an upstream 404 degrades to an
empty "no_data" series.
*/
package handlers
