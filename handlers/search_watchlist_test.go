// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/stockdeck/models"
	"github.com/danielhkuo/stockdeck/testutil"
)

func TestSearchEmptyQueryShortCircuits(t *testing.T) {
	env := newTestEnv(t)
	h := NewSearchHandler(env.store, env.up, env.cfg)

	req := testutil.AuthedRequest(http.MethodGet, "/search?q=", nil, env.sess)
	w := httptest.NewRecorder()
	h.Get(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	body := decode[models.SearchResponse](t, w)
	if body.Total != 0 || body.Query != "" || len(body.Results) != 0 {
		t.Errorf("expected empty result, got %+v", body)
	}
	if env.stub.Calls() != 0 {
		t.Errorf("expected no upstream calls for empty query, got %d", env.stub.Calls())
	}
}

func TestSearchPassthrough(t *testing.T) {
	env := newTestEnv(t)
	env.stub.Handle("GET /search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("expected default limit 10, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.SearchResponse{
			Results: []models.SearchResult{{Symbol: "AAPL", Name: "Apple Inc."}},
			Query:   "apple",
			Total:   1,
		})
	})
	h := NewSearchHandler(env.store, env.up, env.cfg)

	req := testutil.AuthedRequest(http.MethodGet, "/search?q=apple", nil, env.sess)
	w := httptest.NewRecorder()
	h.Get(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	body := decode[models.SearchResponse](t, w)
	if body.Total != 1 || body.Results[0].Symbol != "AAPL" {
		t.Errorf("unexpected search body: %+v", body)
	}
}

func TestSearchUnreachableIs503WithStatusCode(t *testing.T) {
	env := newTestEnv(t)
	h := NewSearchHandler(env.store, unreachableUpstream(), env.cfg)

	req := testutil.AuthedRequest(http.MethodGet, "/search?q=apple", nil, env.sess)
	w := httptest.NewRecorder()
	h.Get(w, req)

	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)

	body := decode[models.ErrorResponse](t, w)
	if body.Error != "Search service unavailable" {
		t.Errorf("unexpected error message: %q", body.Error)
	}
	if body.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected statusCode 503 in body, got %d", body.StatusCode)
	}
}

func TestWatchlistEmptyTickersShortCircuits(t *testing.T) {
	env := newTestEnv(t)
	h := NewWatchlistHandler(env.store, env.up, env.cfg)

	req := testutil.AuthedRequest(http.MethodGet, "/watchlist", nil, env.sess)
	w := httptest.NewRecorder()
	h.Get(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	body := decode[models.WatchlistResponse](t, w)
	if len(body.Items) != 0 {
		t.Errorf("expected empty items, got %+v", body.Items)
	}
	if env.stub.Calls() != 0 {
		t.Errorf("expected no upstream calls for empty tickers, got %d", env.stub.Calls())
	}
}

func TestWatchlistPassthrough(t *testing.T) {
	env := newTestEnv(t)
	env.stub.Handle("GET /watchlist", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("tickers"); got != "AAPL,MSFT" {
			t.Errorf("expected tickers forwarded, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.WatchlistResponse{
			Items: []models.WatchlistItem{{Symbol: "AAPL", Price: 190.5}},
		})
	})
	h := NewWatchlistHandler(env.store, env.up, env.cfg)

	req := testutil.AuthedRequest(http.MethodGet, "/watchlist?tickers=AAPL,MSFT", nil, env.sess)
	w := httptest.NewRecorder()
	h.Get(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	if got := w.Header().Get("Cache-Control"); got != "public, s-maxage=30, stale-while-revalidate=30" {
		t.Errorf("unexpected Cache-Control: %q", got)
	}
}

func TestWatchlistUnreachableIs503(t *testing.T) {
	env := newTestEnv(t)
	h := NewWatchlistHandler(env.store, unreachableUpstream(), env.cfg)

	req := testutil.AuthedRequest(http.MethodGet, "/watchlist?tickers=AAPL", nil, env.sess)
	w := httptest.NewRecorder()
	h.Get(w, req)

	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)

	body := decode[models.ErrorResponse](t, w)
	if body.Error != "Watchlist service unavailable" {
		t.Errorf("unexpected error message: %q", body.Error)
	}
	if body.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected statusCode 503 in body, got %d", body.StatusCode)
	}
}

func TestValidateRequiresTicker(t *testing.T) {
	env := newTestEnv(t)
	h := NewWatchlistHandler(env.store, env.up, env.cfg)

	req := testutil.AuthedRequest(http.MethodPost, "/watchlist/validate",
		map[string]string{}, env.sess)
	w := httptest.NewRecorder()
	h.Validate(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)

	body := decode[models.ErrorResponse](t, w)
	if body.Error != "Ticker symbol required" {
		t.Errorf("unexpected error message: %q", body.Error)
	}
	if body.StatusCode != http.StatusBadRequest {
		t.Errorf("expected statusCode 400 in body, got %d", body.StatusCode)
	}
	if env.stub.Calls() != 0 {
		t.Errorf("expected no upstream calls, got %d", env.stub.Calls())
	}
}

func TestValidateForwardsTicker(t *testing.T) {
	env := newTestEnv(t)
	env.stub.Handle("POST /watchlist/validate", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var req models.ValidateTickerRequest
		if err := json.Unmarshal(raw, &req); err != nil || req.Ticker != "MSFT" {
			t.Errorf("unexpected validate body: %s", raw)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.ValidationResponse{Ticker: "MSFT", Valid: true})
	})
	h := NewWatchlistHandler(env.store, env.up, env.cfg)

	req := testutil.AuthedRequest(http.MethodPost, "/watchlist/validate",
		models.ValidateTickerRequest{Ticker: "MSFT"}, env.sess)
	w := httptest.NewRecorder()
	h.Validate(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	body := decode[models.ValidationResponse](t, w)
	if !body.Valid {
		t.Error("expected valid ticker")
	}
}
