// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the session database. dbType is "sqlite" or "postgres".
func Open(dbType, url string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case "sqlite":
		driver = "sqlite"
	case "postgres":
		driver = "postgres"
	default:
		return nil, fmt.Errorf("unknown database type %q", dbType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Rebind converts ?-style placeholders to $N for postgres. Queries are
// written with ? so the same SQL runs on both supported databases.
func Rebind(dbType, query string) string {
	if dbType != "postgres" {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Timestamps are written by the application, not the database, so the schema
// stays portable between sqlite and postgres.
const schema = `
-- Sessions
CREATE TABLE IF NOT EXISTS session (
    id TEXT PRIMARY KEY,
    token TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    expires_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_token ON session(token);
CREATE INDEX IF NOT EXISTS idx_session_expires ON session(expires_at);
`
