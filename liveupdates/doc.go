// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package liveupdates holds the global live-updates preference: a single
on/off switch and polling interval shared by every polling feed in the
process.

The preference is read at init from an injected Storage port and written
back on every mutation, so it survives restarts:

	storage := &liveupdates.FileStorage{Path: path}
	prefs := liveupdates.New(storage)
	prefs.Toggle()
	prefs.SetInterval(30000)

SetInterval clamps to a 10-second floor - the floor is an invariant
protecting the upstream service, not a default.
*/
package liveupdates
