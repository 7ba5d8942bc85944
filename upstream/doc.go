// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package upstream is the HTTP client for the analytics API behind the BFF.

The client authenticates as the service itself - a static Bearer credential
on every call - and never forwards the end user's session. Caller-supplied
headers are merged in before the credential header is set, so they cannot
override it.

Send makes exactly one attempt. A non-2xx status is returned as a Result so
handlers can normalize it; only a transport-level failure (refused
connection, timeout) comes back as an error:

	res, err := client.Send(ctx, upstream.Request{Path: "/portfolio"})
	if err != nil {
		// upstream unreachable -> 502/503
	}
	if !res.OK() {
		// map res.StatusCode, upstream.Detail(res.Body)
	}
*/
package upstream
