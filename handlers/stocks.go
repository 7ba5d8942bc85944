// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/danielhkuo/stockdeck/auth"
	"github.com/danielhkuo/stockdeck/cliparse"
	"github.com/danielhkuo/stockdeck/middleware"
	"github.com/danielhkuo/stockdeck/upstream"
)

type StockHandler struct {
	oracle auth.SessionOracle
	up     *upstream.Client
	cfg    cliparse.Config
}

func NewStockHandler(oracle auth.SessionOracle, up *upstream.Client, cfg cliparse.Config) *StockHandler {
	return &StockHandler{oracle: oracle, up: up, cfg: cfg}
}

// GetProfile handles GET /stocks/{ticker}
func (h *StockHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r, h.oracle); !ok {
		return
	}

	ticker := strings.ToUpper(r.PathValue("ticker"))
	if ticker == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Missing required parameter: ticker")
		return
	}

	res, ok := sendUpstream(w, r, h.up, upstream.Request{
		Path:       "/stocks/" + ticker,
		Revalidate: freshProfile,
	}, http.StatusBadGateway, "Failed to connect to backend API")
	if !ok {
		return
	}

	if res.StatusCode == http.StatusNotFound {
		middleware.ErrorResponse(w, http.StatusNotFound, fmt.Sprintf("Stock %s not found", ticker))
		return
	}
	if !res.OK() {
		writeUpstreamError(w, res, "Failed to fetch stock profile")
		return
	}

	middleware.SetFreshness(w, freshProfile)
	writeRaw(w, http.StatusOK, res.Body)
}

// GetIdeas handles GET /stocks/{ticker}/ideas with optional limit and
// direction filters.
func (h *StockHandler) GetIdeas(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r, h.oracle); !ok {
		return
	}

	ticker := strings.ToUpper(r.PathValue("ticker"))
	if ticker == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Missing required parameter: ticker")
		return
	}

	limit := r.URL.Query().Get("limit")
	if limit == "" {
		limit = "20"
	}

	q := url.Values{}
	q.Set("limit", limit)
	if direction := r.URL.Query().Get("direction"); direction != "" {
		q.Set("direction", direction)
	}

	res, ok := sendUpstream(w, r, h.up, upstream.Request{
		Path:       "/stocks/" + ticker + "/ideas",
		Query:      q,
		Revalidate: freshIdeas,
	}, http.StatusBadGateway, "Failed to connect to backend API")
	if !ok {
		return
	}

	if !res.OK() {
		writeUpstreamError(w, res, "Failed to fetch ideas")
		return
	}

	middleware.SetFreshness(w, freshIdeas)
	writeRaw(w, http.StatusOK, res.Body)
}
