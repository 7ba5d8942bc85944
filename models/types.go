package models

import "encoding/json"

// Idea direction constants
const (
	DirectionBullish = "bullish"
	DirectionBearish = "bearish"
	DirectionNeutral = "neutral"
)

// Chart series status constants
const (
	ChartStatusOK     = "ok"
	ChartStatusNoData = "no_data"
)

// ErrorResponse is the normalized error shape returned by every endpoint.
type ErrorResponse struct {
	Error      string `json:"error"`
	Detail     string `json:"detail,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
}

// Request types

type LoginRequest struct {
	Email string `json:"email"`
	Key   string `json:"key"`
}

type ValidateTickerRequest struct {
	Ticker string `json:"ticker"`
}

// Response types

type LoginResponse struct {
	Email     string `json:"email"`
	ExpiresAt string `json:"expires_at"`
}

type MeResponse struct {
	Email string `json:"email"`
}

// Passthrough payloads. The BFF does not reshape these resources, so their
// bodies stay opaque between upstream and client.

type PortfolioResponse = json.RawMessage

type OrdersResponse = json.RawMessage

type StockProfile = json.RawMessage

type IdeasResponse = json.RawMessage

// UpstreamOHLCVBar is one daily bar as the upstream API reports it.
type UpstreamOHLCVBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// UpstreamOHLCVMeta describes where the upstream bar series came from.
type UpstreamOHLCVMeta struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// UpstreamOHLCVResponse is the upstream payload for /stocks/{ticker}/ohlcv.
type UpstreamOHLCVResponse struct {
	Symbol string             `json:"symbol"`
	Bars   []UpstreamOHLCVBar `json:"bars"`
	Meta   *UpstreamOHLCVMeta `json:"meta,omitempty"`
}

// OHLCVBar is one bar in charting format. Time is Unix seconds.
type OHLCVBar struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type ChartDataMeta struct {
	Source     string `json:"source"`
	Count      int    `json:"count"`
	Resolution string `json:"resolution"`
}

// ChartDataResponse is the normalized chart payload. Bars are always sorted
// ascending by time.
type ChartDataResponse struct {
	S      string         `json:"s"`
	Symbol string         `json:"symbol"`
	Bars   []OHLCVBar     `json:"bars"`
	Meta   *ChartDataMeta `json:"meta,omitempty"`
}

type SearchResult struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
	Type   string `json:"type"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Query   string         `json:"query"`
	Total   int            `json:"total"`
}

type WatchlistItem struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        float64 `json:"volume"`
}

type WatchlistResponse struct {
	Items []WatchlistItem `json:"items"`
}

type ValidationResponse struct {
	Ticker  string `json:"ticker"`
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}
