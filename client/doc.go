// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package client is the Go consumer of the Stockdeck BFF: typed fetchers
// for every endpoint plus feed constructors that wrap them in polling
// state machines. A Client authenticates once via Login (cookie jar) or
// WithToken, and its feeds share one request deduper.
package client
