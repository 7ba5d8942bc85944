// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/danielhkuo/stockdeck/auth"
	"github.com/danielhkuo/stockdeck/cliparse"
	"github.com/danielhkuo/stockdeck/middleware"
	"github.com/danielhkuo/stockdeck/models"
	"github.com/danielhkuo/stockdeck/upstream"
)

type WatchlistHandler struct {
	oracle auth.SessionOracle
	up     *upstream.Client
	cfg    cliparse.Config
}

func NewWatchlistHandler(oracle auth.SessionOracle, up *upstream.Client, cfg cliparse.Config) *WatchlistHandler {
	return &WatchlistHandler{oracle: oracle, up: up, cfg: cfg}
}

// Get handles GET /watchlist?tickers=AAPL,MSFT
//
// An empty ticker list short-circuits to an empty item set with no upstream
// call.
func (h *WatchlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r, h.oracle); !ok {
		return
	}

	tickers := r.URL.Query().Get("tickers")
	if tickers == "" {
		middleware.JSONResponse(w, http.StatusOK, models.WatchlistResponse{
			Items: []models.WatchlistItem{},
		})
		return
	}

	q := url.Values{}
	q.Set("tickers", tickers)

	res, ok := sendUpstream(w, r, h.up, upstream.Request{
		Path:       "/watchlist",
		Query:      q,
		Revalidate: freshWatchlist,
	}, http.StatusServiceUnavailable, "Watchlist service unavailable")
	if !ok {
		return
	}

	if !res.OK() {
		writeUpstreamError(w, res, "Failed to fetch watchlist data")
		return
	}

	middleware.SetFreshness(w, freshWatchlist)
	writeRaw(w, http.StatusOK, res.Body)
}

// Validate handles POST /watchlist/validate with body {"ticker": "AAPL"}
func (h *WatchlistHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r, h.oracle); !ok {
		return
	}

	var req models.ValidateTickerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil || req.Ticker == "" {
		middleware.JSONResponse(w, http.StatusBadRequest, models.ErrorResponse{
			Error:      "Ticker symbol required",
			StatusCode: http.StatusBadRequest,
		})
		return
	}

	body, err := json.Marshal(models.ValidateTickerRequest{Ticker: req.Ticker})
	if err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to validate ticker")
		return
	}

	res, ok := sendUpstream(w, r, h.up, upstream.Request{
		Path:   "/watchlist/validate",
		Method: http.MethodPost,
		Body:   body,
	}, http.StatusServiceUnavailable, "Validation service unavailable")
	if !ok {
		return
	}

	if !res.OK() {
		writeUpstreamError(w, res, "Validation failed")
		return
	}

	writeRaw(w, http.StatusOK, res.Body)
}
