// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/stockdeck/models"
	"github.com/danielhkuo/stockdeck/testutil"
)

func TestChartDataRequiresSymbol(t *testing.T) {
	env := newTestEnv(t)
	h := NewChartDataHandler(env.store, env.up, env.cfg)

	req := testutil.AuthedRequest(http.MethodGet, "/chart-data", nil, env.sess)
	w := httptest.NewRecorder()
	h.Get(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)

	body := decode[models.ErrorResponse](t, w)
	if body.Error != "Missing required parameter: symbol" {
		t.Errorf("unexpected error message: %q", body.Error)
	}
	if env.stub.Calls() != 0 {
		t.Errorf("expected no upstream calls, got %d", env.stub.Calls())
	}
}

func TestChartDataSymbolFromPath(t *testing.T) {
	env := newTestEnv(t)
	env.stub.HandleJSON("GET /stocks/AAPL/ohlcv", http.StatusOK, models.UpstreamOHLCVResponse{
		Symbol: "AAPL",
		Bars:   []models.UpstreamOHLCVBar{{Date: "2025-01-02", Close: 2}},
	})
	h := NewChartDataHandler(env.store, env.up, env.cfg)

	req := setTicker(testutil.AuthedRequest(http.MethodGet, "/stocks/aapl/ohlcv", nil, env.sess), "aapl")
	w := httptest.NewRecorder()
	h.Get(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	body := decode[models.ChartDataResponse](t, w)
	if body.S != models.ChartStatusOK || body.Symbol != "AAPL" {
		t.Errorf("unexpected chart payload: %+v", body)
	}
}

func TestChartDataSortsBarsAscending(t *testing.T) {
	env := newTestEnv(t)
	env.stub.HandleJSON("GET /stocks/AAPL/ohlcv", http.StatusOK, models.UpstreamOHLCVResponse{
		Symbol: "AAPL",
		Bars: []models.UpstreamOHLCVBar{
			{Date: "2025-01-03", Open: 3, High: 3, Low: 3, Close: 3, Volume: 300},
			{Date: "2025-01-01", Open: 1, High: 1, Low: 1, Close: 1, Volume: 100},
			{Date: "2025-01-02", Open: 2, High: 2, Low: 2, Close: 2, Volume: 200},
		},
	})
	h := NewChartDataHandler(env.store, env.up, env.cfg)

	req := testutil.AuthedRequest(http.MethodGet, "/chart-data?symbol=AAPL", nil, env.sess)
	w := httptest.NewRecorder()
	h.Get(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	body := decode[models.ChartDataResponse](t, w)
	if body.S != models.ChartStatusOK {
		t.Errorf("expected status ok, got %q", body.S)
	}
	if len(body.Bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(body.Bars))
	}
	for i := 1; i < len(body.Bars); i++ {
		if body.Bars[i].Time <= body.Bars[i-1].Time {
			t.Errorf("bars not ascending at index %d: %d then %d", i, body.Bars[i-1].Time, body.Bars[i].Time)
		}
	}
	if body.Bars[0].Close != 1 || body.Bars[2].Close != 3 {
		t.Errorf("bars reordered incorrectly: %+v", body.Bars)
	}
	if got := w.Header().Get("Cache-Control"); got != "public, s-maxage=300, stale-while-revalidate=300" {
		t.Errorf("unexpected Cache-Control: %q", got)
	}
}

func TestChartDataSourceFallback(t *testing.T) {
	env := newTestEnv(t)
	env.stub.HandleJSON("GET /stocks/TSLA/ohlcv", http.StatusOK, models.UpstreamOHLCVResponse{
		Symbol: "TSLA",
		Bars:   []models.UpstreamOHLCVBar{{Date: "2025-06-02", Close: 5}},
	})
	h := NewChartDataHandler(env.store, env.up, env.cfg)

	req := testutil.AuthedRequest(http.MethodGet, "/chart-data?symbol=tsla", nil, env.sess)
	w := httptest.NewRecorder()
	h.Get(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	body := decode[models.ChartDataResponse](t, w)
	if body.Symbol != "TSLA" {
		t.Errorf("expected symbol uppercased, got %q", body.Symbol)
	}
	if body.Meta == nil || body.Meta.Source != "databento" {
		t.Errorf("expected source fallback databento, got %+v", body.Meta)
	}
	if body.Meta.Count != 1 {
		t.Errorf("expected count 1, got %d", body.Meta.Count)
	}
}

func TestChartDataNotFoundIsEmptySeries(t *testing.T) {
	env := newTestEnv(t)
	env.stub.HandleJSON("GET /stocks/ZZZZ/ohlcv", http.StatusNotFound,
		map[string]string{"detail": "unknown symbol"})
	h := NewChartDataHandler(env.store, env.up, env.cfg)

	req := testutil.AuthedRequest(http.MethodGet, "/chart-data?symbol=ZZZZ", nil, env.sess)
	w := httptest.NewRecorder()
	h.Get(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	body := decode[models.ChartDataResponse](t, w)
	if body.S != models.ChartStatusNoData {
		t.Errorf("expected no_data, got %q", body.S)
	}
	if len(body.Bars) != 0 {
		t.Errorf("expected empty bars, got %d", len(body.Bars))
	}
}

func TestChartDataDefaultsToTrailingYear(t *testing.T) {
	env := newTestEnv(t)
	var start, end string
	env.stub.Handle("GET /stocks/AAPL/ohlcv", func(w http.ResponseWriter, r *http.Request) {
		start = r.URL.Query().Get("start")
		end = r.URL.Query().Get("end")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"AAPL","bars":[]}`))
	})
	h := NewChartDataHandler(env.store, env.up, env.cfg)

	req := testutil.AuthedRequest(http.MethodGet, "/chart-data?symbol=AAPL", nil, env.sess)
	w := httptest.NewRecorder()
	h.Get(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	endT, err := time.Parse("2006-01-02", end)
	if err != nil {
		t.Fatalf("bad end date %q: %v", end, err)
	}
	startT, err := time.Parse("2006-01-02", start)
	if err != nil {
		t.Fatalf("bad start date %q: %v", start, err)
	}
	if !startT.Equal(endT.AddDate(-1, 0, 0)) {
		t.Errorf("expected trailing year, got start=%s end=%s", start, end)
	}
}

func TestChartDataSkipsUnparseableDates(t *testing.T) {
	env := newTestEnv(t)
	env.stub.HandleJSON("GET /stocks/AAPL/ohlcv", http.StatusOK, models.UpstreamOHLCVResponse{
		Symbol: "AAPL",
		Bars: []models.UpstreamOHLCVBar{
			{Date: "2025-01-01", Close: 1},
			{Date: "bogus", Close: 2},
		},
	})
	h := NewChartDataHandler(env.store, env.up, env.cfg)

	req := testutil.AuthedRequest(http.MethodGet, "/chart-data?symbol=AAPL", nil, env.sess)
	w := httptest.NewRecorder()
	h.Get(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	body := decode[models.ChartDataResponse](t, w)
	if len(body.Bars) != 1 {
		t.Errorf("expected one valid bar, got %d", len(body.Bars))
	}
}
