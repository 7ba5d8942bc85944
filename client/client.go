// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/stockdeck/models"
	"github.com/danielhkuo/stockdeck/poller"
)

// APIError is a non-2xx BFF response, decoded from the normalized error
// shape.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s (%s)", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the Stockdeck BFF. The cookie jar carries the session
// cookie set by Login; alternatively a Bearer token can be set explicitly.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	dedup   *poller.Deduper
}

func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 15 * time.Second,
			Jar:     jar,
		},
		dedup: poller.NewDeduper(0),
	}
}

// WithToken sets a session token sent as a Bearer header instead of relying
// on the cookie jar.
func (c *Client) WithToken(token string) *Client {
	c.token = token
	return c
}

// Login mints a session from an allowlisted email and its login key. The
// session cookie lands in the jar and authenticates subsequent calls.
func (c *Client) Login(ctx context.Context, email, key string) (*models.LoginResponse, error) {
	var out models.LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, models.LoginRequest{Email: email, Key: key}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout destroys the current session.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

// Me returns the current session identity.
func (c *Client) Me(ctx context.Context) (*models.MeResponse, error) {
	var out models.MeResponse
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Portfolio fetches the portfolio summary.
func (c *Client) Portfolio(ctx context.Context) (models.PortfolioResponse, error) {
	return c.raw(ctx, "/portfolio", nil)
}

// TriggerSync asks the upstream to refresh its data.
func (c *Client) TriggerSync(ctx context.Context, options map[string]any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodPost, "/portfolio/sync", nil, options, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OrdersQuery filters the orders listing.
type OrdersQuery struct {
	Limit  int
	Status string
	Ticker string
}

func (q OrdersQuery) values() url.Values {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Ticker != "" {
		v.Set("ticker", q.Ticker)
	}
	return v
}

// Orders fetches recent orders.
func (c *Client) Orders(ctx context.Context, q OrdersQuery) (models.OrdersResponse, error) {
	return c.raw(ctx, "/orders", q.values())
}

// Stock fetches a ticker's profile.
func (c *Client) Stock(ctx context.Context, ticker string) (models.StockProfile, error) {
	return c.raw(ctx, "/stocks/"+strings.ToUpper(ticker), nil)
}

// IdeasQuery filters the ideas listing.
type IdeasQuery struct {
	Limit     int
	Direction string
}

func (q IdeasQuery) values() url.Values {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Direction != "" {
		v.Set("direction", q.Direction)
	}
	return v
}

// Ideas fetches trading ideas for a ticker.
func (c *Client) Ideas(ctx context.Context, ticker string, q IdeasQuery) (models.IdeasResponse, error) {
	return c.raw(ctx, "/stocks/"+strings.ToUpper(ticker)+"/ideas", q.values())
}

// ChartQuery bounds a chart-data request. Zero From/To use the server's
// trailing-year default.
type ChartQuery struct {
	From       time.Time
	To         time.Time
	Resolution string
}

// ChartData fetches the OHLCV series for a symbol.
func (c *Client) ChartData(ctx context.Context, symbol string, q ChartQuery) (*models.ChartDataResponse, error) {
	v := url.Values{}
	v.Set("symbol", strings.ToUpper(symbol))
	if !q.From.IsZero() {
		v.Set("from", q.From.Format("2006-01-02"))
	}
	if !q.To.IsZero() {
		v.Set("to", q.To.Format("2006-01-02"))
	}
	if q.Resolution != "" {
		v.Set("resolution", q.Resolution)
	}

	var out models.ChartDataResponse
	if err := c.doJSON(ctx, http.MethodGet, "/chart-data", v, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search looks tickers up by name or symbol. An empty query returns an
// empty result without error.
func (c *Client) Search(ctx context.Context, query string, limit int) (*models.SearchResponse, error) {
	v := url.Values{}
	v.Set("q", query)
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}

	var out models.SearchResponse
	if err := c.doJSON(ctx, http.MethodGet, "/search", v, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Watchlist fetches quotes for a set of tickers.
func (c *Client) Watchlist(ctx context.Context, tickers []string) (*models.WatchlistResponse, error) {
	v := url.Values{}
	v.Set("tickers", strings.Join(tickers, ","))

	var out models.WatchlistResponse
	if err := c.doJSON(ctx, http.MethodGet, "/watchlist", v, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateTicker checks a symbol before adding it to the watchlist.
func (c *Client) ValidateTicker(ctx context.Context, ticker string) (*models.ValidationResponse, error) {
	var out models.ValidationResponse
	err := c.doJSON(ctx, http.MethodPost, "/watchlist/validate", nil,
		models.ValidateTickerRequest{Ticker: ticker}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// raw fetches a passthrough resource without decoding it.
func (c *Client) raw(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, path, query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// doJSON issues one request and decodes a 2xx body into out (when non-nil).
// Non-2xx responses become *APIError.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var er models.ErrorResponse
		_ = json.Unmarshal(raw, &er)
		msg := er.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg, Detail: er.Detail}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
