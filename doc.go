// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Stockdeck BFF server.

Stockdeck is the backend-for-frontend for a single-user trading dashboard.
It authenticates browser sessions, proxies resource requests to an upstream
analytics API with a service credential, normalizes upstream errors into a
single JSON shape, and declares per-resource cache freshness windows.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	UPSTREAM_API_URL=http://localhost:8000 API_SECRET_KEY=... SESSION_SALT=... go run .

Or with flags:

	go run . -p 3318 -u "http://localhost:8000" --upstream-key ... --session-salt ...

# Configuration

Required settings:

  - UPSTREAM_API_URL (-u): base URL of the analytics API
  - API_SECRET_KEY (--upstream-key): upstream service credential
  - SESSION_SALT (--session-salt): secret for login key HMAC

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_URL (-d) / DATABASE_TYPE (-t): session store (default: sqlite)
  - ALLOWED_EMAILS: sign-in allowlist (empty denies everyone)
  - CONFIG_FILE (-c): YAML config file for any of the above

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: proxy endpoints (portfolio, orders, stocks, chart data,
    search, watchlist, sessions)
  - upstream: single-attempt HTTP client for the analytics API
  - auth: session store and request guard
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, freshness headers
  - models: request/response types
  - db: session schema creation
  - cliparse: configuration parsing

The client side of the system lives in liveupdates (the polling on/off
preference), poller (the generic polling feed), and client (typed fetchers
and per-resource feeds).

See package documentation for each component.
*/
package main
