// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/danielhkuo/stockdeck/auth"
	"github.com/danielhkuo/stockdeck/cliparse"
	"github.com/danielhkuo/stockdeck/middleware"
	"github.com/danielhkuo/stockdeck/upstream"
)

type PortfolioHandler struct {
	oracle auth.SessionOracle
	up     *upstream.Client
	cfg    cliparse.Config
}

func NewPortfolioHandler(oracle auth.SessionOracle, up *upstream.Client, cfg cliparse.Config) *PortfolioHandler {
	return &PortfolioHandler{oracle: oracle, up: up, cfg: cfg}
}

// Get handles GET /portfolio
func (h *PortfolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r, h.oracle); !ok {
		return
	}

	res, ok := sendUpstream(w, r, h.up, upstream.Request{
		Path:       "/portfolio",
		Revalidate: freshPortfolio,
	}, http.StatusBadGateway, "Failed to connect to backend API")
	if !ok {
		return
	}

	if !res.OK() {
		writeUpstreamError(w, res, "Failed to fetch portfolio data")
		return
	}

	middleware.SetFreshness(w, freshPortfolio)
	writeRaw(w, http.StatusOK, res.Body)
}

// Sync handles POST /portfolio/sync
func (h *PortfolioHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r, h.oracle); !ok {
		return
	}

	// Lenient body handling: absent or invalid JSON is forwarded as {}
	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 || !json.Valid(body) {
		body = []byte("{}")
	}
	defer r.Body.Close()

	res, ok := sendUpstream(w, r, h.up, upstream.Request{
		Path:   "/portfolio/sync",
		Method: http.MethodPost,
		Body:   body,
	}, http.StatusBadGateway, "Failed to connect to backend API")
	if !ok {
		return
	}

	if !res.OK() {
		writeUpstreamError(w, res, "Failed to trigger sync")
		return
	}

	writeRaw(w, http.StatusOK, res.Body)
}
