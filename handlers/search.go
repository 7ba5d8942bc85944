// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/url"

	"github.com/danielhkuo/stockdeck/auth"
	"github.com/danielhkuo/stockdeck/cliparse"
	"github.com/danielhkuo/stockdeck/middleware"
	"github.com/danielhkuo/stockdeck/models"
	"github.com/danielhkuo/stockdeck/upstream"
)

type SearchHandler struct {
	oracle auth.SessionOracle
	up     *upstream.Client
	cfg    cliparse.Config
}

func NewSearchHandler(oracle auth.SessionOracle, up *upstream.Client, cfg cliparse.Config) *SearchHandler {
	return &SearchHandler{oracle: oracle, up: up, cfg: cfg}
}

// Get handles GET /search?q=AAPL&limit=10
//
// An empty query is a valid request with an empty result, not an error, and
// it never reaches the upstream.
func (h *SearchHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r, h.oracle); !ok {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		middleware.JSONResponse(w, http.StatusOK, models.SearchResponse{
			Results: []models.SearchResult{},
			Query:   "",
			Total:   0,
		})
		return
	}

	limit := r.URL.Query().Get("limit")
	if limit == "" {
		limit = "10"
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", limit)

	res, ok := sendUpstream(w, r, h.up, upstream.Request{
		Path:       "/search",
		Query:      q,
		Revalidate: freshSearch,
	}, http.StatusServiceUnavailable, "Search service unavailable")
	if !ok {
		return
	}

	if !res.OK() {
		writeUpstreamError(w, res, "Search failed")
		return
	}

	middleware.SetFreshness(w, freshSearch)
	writeRaw(w, http.StatusOK, res.Body)
}
