// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Request describes one outbound call to the analytics API. It is built per
// handler invocation and not reused.
type Request struct {
	Path   string
	Method string
	Query  url.Values
	Body   []byte
	Header http.Header
	// Revalidate is the freshness window in seconds the response may be
	// cached for. Zero means no caching.
	Revalidate int
}

// Result is what came back from the upstream API. Non-2xx statuses are
// results, not errors; only transport failure surfaces as an error.
type Result struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the upstream answered with a 2xx status.
func (r Result) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client issues authenticated requests to the analytics API. The service
// credential is the BFF's own; caller sessions are never forwarded.
type Client struct {
	baseURL string
	key     string
	http    *http.Client
}

func NewClient(baseURL, key string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithHTTP allows tests to substitute the transport.
func NewClientWithHTTP(baseURL, key string, hc *http.Client) *Client {
	c := NewClient(baseURL, key)
	c.http = hc
	return c
}

// Send makes exactly one attempt against the upstream API. Retrying is the
// caller's business, not the client's.
func (c *Client) Send(ctx context.Context, req Request) (Result, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	hr, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build upstream request: %w", err)
	}

	// Caller headers first, credential last so nothing can override it.
	for k, vs := range req.Header {
		for _, v := range vs {
			hr.Header.Add(k, v)
		}
	}
	hr.Header.Set("Content-Type", "application/json")
	hr.Header.Set("Authorization", "Bearer "+c.key)

	resp, err := c.http.Do(hr)
	if err != nil {
		return Result{}, fmt.Errorf("upstream unreachable: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read upstream response: %w", err)
	}

	return Result{StatusCode: resp.StatusCode, Body: b}, nil
}

// Detail extracts the upstream error detail from a response body, best
// effort. The upstream contract puts it in "detail"; "error" is accepted as
// a fallback. Returns "" when neither is present or the body isn't JSON.
func Detail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Detail != "" {
		return payload.Detail
	}
	return payload.Error
}
