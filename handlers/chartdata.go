// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/danielhkuo/stockdeck/auth"
	"github.com/danielhkuo/stockdeck/cliparse"
	"github.com/danielhkuo/stockdeck/middleware"
	"github.com/danielhkuo/stockdeck/models"
	"github.com/danielhkuo/stockdeck/upstream"
)

type ChartDataHandler struct {
	oracle auth.SessionOracle
	up     *upstream.Client
	cfg    cliparse.Config
}

func NewChartDataHandler(oracle auth.SessionOracle, up *upstream.Client, cfg cliparse.Config) *ChartDataHandler {
	return &ChartDataHandler{oracle: oracle, up: up, cfg: cfg}
}

// Get handles GET /chart-data?symbol=AAPL&from=2025-01-01&to=2026-02-05
// and its per-ticker alias GET /stocks/{ticker}/ohlcv?from=&to=.
//
// from/to default to the trailing year ending today. The response is the
// charting format: bars with Unix-second timestamps, always sorted ascending
// by time. An upstream 404 degrades to an empty "no_data" series rather than
// an error - no data yet is a steady state, not a fault.
func (h *ChartDataHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r, h.oracle); !ok {
		return
	}

	params := r.URL.Query()
	symbol := strings.ToUpper(r.PathValue("ticker"))
	if symbol == "" {
		symbol = strings.ToUpper(params.Get("symbol"))
	}
	if symbol == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Missing required parameter: symbol")
		return
	}

	resolution := params.Get("resolution")
	if resolution == "" {
		resolution = "1D"
	}

	to := parseDateOr(params.Get("to"), time.Now())
	from := parseDateOr(params.Get("from"), to.AddDate(-1, 0, 0))

	q := url.Values{}
	q.Set("start", from.Format("2006-01-02"))
	q.Set("end", to.Format("2006-01-02"))

	res, ok := sendUpstream(w, r, h.up, upstream.Request{
		Path:       "/stocks/" + symbol + "/ohlcv",
		Query:      q,
		Revalidate: freshChart,
	}, http.StatusBadGateway, "Failed to connect to backend API")
	if !ok {
		return
	}

	if res.StatusCode == http.StatusNotFound {
		middleware.SetFreshness(w, freshChart)
		middleware.JSONResponse(w, http.StatusOK, models.ChartDataResponse{
			S:      models.ChartStatusNoData,
			Symbol: symbol,
			Bars:   []models.OHLCVBar{},
		})
		return
	}
	if !res.OK() {
		writeUpstreamError(w, res, "Failed to fetch OHLCV data")
		return
	}

	var payload models.UpstreamOHLCVResponse
	if err := json.Unmarshal(res.Body, &payload); err != nil {
		slog.Error("malformed upstream OHLCV payload", "symbol", symbol, "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to fetch OHLCV data")
		return
	}

	bars := make([]models.OHLCVBar, 0, len(payload.Bars))
	for _, b := range payload.Bars {
		t, err := parseBarDate(b.Date)
		if err != nil {
			slog.Warn("skipping bar with unparseable date", "symbol", symbol, "date", b.Date)
			continue
		}
		bars = append(bars, models.OHLCVBar{
			Time:   t.Unix(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}

	// Upstream ordering is never trusted; the charting contract requires
	// ascending time.
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time < bars[j].Time })

	source := "databento"
	if payload.Meta != nil && payload.Meta.Source != "" {
		source = payload.Meta.Source
	}

	middleware.SetFreshness(w, freshChart)
	middleware.JSONResponse(w, http.StatusOK, models.ChartDataResponse{
		S:      models.ChartStatusOK,
		Symbol: symbol,
		Bars:   bars,
		Meta: &models.ChartDataMeta{
			Source:     source,
			Count:      len(bars),
			Resolution: resolution,
		},
	})
}

func parseDateOr(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return fallback
}

func parseBarDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
