// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles session database connections and schema creation.

The BFF keeps no business data; the only table is the session store backing
the auth package. Both sqlite (default, via modernc.org/sqlite) and postgres
(via lib/pq) are supported:

	conn, err := db.Open("sqlite", "stockdeck.db")
	err = db.CreateSchema(conn)

Queries elsewhere in the codebase use ?-style placeholders and pass through
db.Rebind, which rewrites them to $N when the backing store is postgres.
*/
package db
