// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/stockdeck/auth"
	"github.com/danielhkuo/stockdeck/cliparse"
	"github.com/danielhkuo/stockdeck/db"
)

// SetupTestDB creates a fresh sqlite session database in a temp directory.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration. The upstream URL is
// a placeholder; tests that exercise the upstream swap in a stub's URL.
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		UpstreamURL:   "http://upstream.invalid",
		UpstreamKey:   "test-service-credential",
		DatabaseType:  "sqlite",
		SessionSalt:   "test-session-salt",
		SessionTTL:    time.Hour,
		AllowedEmails: []string{"tester@example.com"},
	}
}

// NewSessionStore wraps a test database in an auth.Store with a 1h TTL.
func NewSessionStore(t *testing.T, conn *sql.DB) *auth.Store {
	t.Helper()
	return auth.NewStore(conn, "sqlite", time.Hour)
}

// CreateTestSession mints a session and returns it.
func CreateTestSession(t *testing.T, store *auth.Store, email string) *auth.Session {
	t.Helper()

	sess, err := store.Create(context.Background(), email)
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return sess
}

// UpstreamStub is a fake analytics API. Each registered route counts its
// invocations so tests can assert the guard made (or skipped) upstream calls.
type UpstreamStub struct {
	Server *httptest.Server
	mux    *http.ServeMux
	calls  atomic.Int64
}

// NewUpstreamStub starts a stub upstream server. The returned stub counts
// every request it serves, across all routes.
func NewUpstreamStub(t *testing.T) *UpstreamStub {
	t.Helper()

	s := &UpstreamStub{mux: http.NewServeMux()}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		s.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Server.Close)

	return s
}

// Handle registers a route on the stub.
func (s *UpstreamStub) Handle(pattern string, h http.HandlerFunc) {
	s.mux.HandleFunc(pattern, h)
}

// HandleJSON registers a route that answers with a fixed status and JSON body.
func (s *UpstreamStub) HandleJSON(pattern string, status int, body any) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})
}

// Calls returns how many requests the stub has served.
func (s *UpstreamStub) Calls() int {
	return int(s.calls.Load())
}

// URL returns the stub's base URL.
func (s *UpstreamStub) URL() string {
	return s.Server.URL
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AuthedRequest creates a request carrying a session cookie.
func AuthedRequest(method, path string, body interface{}, sess *auth.Session) *http.Request {
	req := MakeRequest(method, path, body, nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: sess.Token})
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
