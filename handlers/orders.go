// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/url"

	"github.com/danielhkuo/stockdeck/auth"
	"github.com/danielhkuo/stockdeck/cliparse"
	"github.com/danielhkuo/stockdeck/middleware"
	"github.com/danielhkuo/stockdeck/upstream"
)

type OrdersHandler struct {
	oracle auth.SessionOracle
	up     *upstream.Client
	cfg    cliparse.Config
}

func NewOrdersHandler(oracle auth.SessionOracle, up *upstream.Client, cfg cliparse.Config) *OrdersHandler {
	return &OrdersHandler{oracle: oracle, up: up, cfg: cfg}
}

// Get handles GET /orders with optional limit, status, and ticker filters.
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r, h.oracle); !ok {
		return
	}

	limit := r.URL.Query().Get("limit")
	if limit == "" {
		limit = "50"
	}

	q := url.Values{}
	q.Set("limit", limit)
	if status := r.URL.Query().Get("status"); status != "" {
		q.Set("status", status)
	}
	if ticker := r.URL.Query().Get("ticker"); ticker != "" {
		q.Set("ticker", ticker)
	}

	res, ok := sendUpstream(w, r, h.up, upstream.Request{
		Path:       "/orders",
		Query:      q,
		Revalidate: freshOrders,
	}, http.StatusBadGateway, "Failed to connect to backend API")
	if !ok {
		return
	}

	if !res.OK() {
		writeUpstreamError(w, res, "Failed to fetch orders")
		return
	}

	middleware.SetFreshness(w, freshOrders)
	writeRaw(w, http.StatusOK, res.Body)
}
