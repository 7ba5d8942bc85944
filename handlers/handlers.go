// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/stockdeck/auth"
	"github.com/danielhkuo/stockdeck/middleware"
	"github.com/danielhkuo/stockdeck/upstream"
)

// Freshness windows in seconds, per resource. These are contractual (see
// middleware.SetFreshness) - consumers may rely on data being at most this
// stale without an explicit refresh.
const (
	freshPortfolio = 30
	freshOrders    = 30
	freshProfile   = 60
	freshIdeas     = 60
	freshChart     = 300
	freshSearch    = 60
	freshWatchlist = 30
)

// requireSession runs the auth guard. On failure it writes the 401 response
// and returns ok=false; the caller must return without touching the
// upstream. Auth always precedes upstream I/O.
func requireSession(w http.ResponseWriter, r *http.Request, oracle auth.SessionOracle) (*auth.Session, bool) {
	res := auth.Check(r.Context(), oracle, r)
	if !res.Authenticated {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized - please sign in")
		return nil, false
	}
	return res.Session, true
}

// sendUpstream performs the single upstream attempt and maps transport
// failure to the resource's unreachable status (502, or 503 for the
// best-effort auxiliary endpoints). 502 bodies carry the transport error as
// detail; 503 bodies carry statusCode instead. On failure the response is
// already written and ok is false.
func sendUpstream(w http.ResponseWriter, r *http.Request, up *upstream.Client, req upstream.Request, unreachableStatus int, unreachableMsg string) (upstream.Result, bool) {
	res, err := up.Send(r.Context(), req)
	if err != nil {
		slog.Error("upstream unreachable", "path", req.Path, "error", err)
		if unreachableStatus == http.StatusBadGateway {
			middleware.ErrorResponseDetail(w, unreachableStatus, unreachableMsg, err.Error())
		} else {
			middleware.JSONResponse(w, unreachableStatus, errorBody(unreachableMsg, unreachableStatus))
		}
		return upstream.Result{}, false
	}
	return res, true
}

// errorBody builds the normalized error shape. The 503 auxiliary endpoints
// include statusCode in the body; everything else omits it.
func errorBody(msg string, status int) any {
	if status == http.StatusServiceUnavailable {
		return struct {
			Error      string `json:"error"`
			StatusCode int    `json:"statusCode"`
		}{msg, status}
	}
	return struct {
		Error string `json:"error"`
	}{msg}
}

// writeUpstreamError maps a non-2xx upstream result: same status, upstream
// detail when present, otherwise the generic message.
func writeUpstreamError(w http.ResponseWriter, res upstream.Result, generic string) {
	msg := upstream.Detail(res.Body)
	if msg == "" {
		msg = generic
	}
	middleware.ErrorResponse(w, res.StatusCode, msg)
}

// writeRaw proxies an upstream JSON body through untouched.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
