// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides session management and the request guard for the
Stockdeck BFF.

# Login Keys

Login keys use HMAC-SHA256 to create deterministic, verifiable keys per
allowlisted email:

	key := auth.GenerateLoginKey(email, salt)
	err := auth.ValidateLoginKey(email, key, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same email and salt always produce the same key, so nothing needs to be
stored server-side. The identity provider itself is outside this system; the
login key is the hand-off point.

# Sessions

Session tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateSessionToken()

Sessions live in the database behind Store, which implements SessionOracle.
A session is either fully valid or absent: expired rows read as absent and
are lazily deleted.

# The Guard

Every proxied endpoint starts with:

	res := auth.Check(r.Context(), oracle, r)
	if !res.Authenticated {
		// 401, and no upstream call is ever made
	}

Check fails closed - a store error reads as unauthenticated. The explicit
Result return keeps the auth-before-upstream ordering visible in each
handler rather than hidden in middleware control flow.
*/
package auth
