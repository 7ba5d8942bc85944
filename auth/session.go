// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/stockdeck/db"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "stockdeck_session"

// Session is an authenticated identity. A session is either fully valid or
// absent - expired rows are treated as absent.
type Session struct {
	ID        string
	Token     string
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionOracle looks up the session for a token, or reports none.
type SessionOracle interface {
	Lookup(ctx context.Context, token string) (*Session, error)
}

// Result is the outcome of a guard check. Handlers inspect Authenticated
// before doing any upstream work; there is no short-circuit by panic or
// error propagation.
type Result struct {
	Session       *Session
	Authenticated bool
}

// Store is a SQL-backed SessionOracle.
type Store struct {
	conn   *sql.DB
	dbType string
	ttl    time.Duration
}

func NewStore(conn *sql.DB, dbType string, ttl time.Duration) *Store {
	return &Store{conn: conn, dbType: dbType, ttl: ttl}
}

// Create mints a new session for an already-verified email.
func (s *Store) Create(ctx context.Context, email string) (*Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		Token:     token,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	_, err = s.conn.ExecContext(ctx, db.Rebind(s.dbType, `
		INSERT INTO session (id, token, email, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`), sess.ID, sess.Token, sess.Email, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}

	return sess, nil
}

// Lookup returns the valid session for a token, or nil when the token is
// unknown or expired. An expired row is deleted on the way out.
func (s *Store) Lookup(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}

	var sess Session
	err := s.conn.QueryRowContext(ctx, db.Rebind(s.dbType, `
		SELECT id, token, email, created_at, expires_at FROM session WHERE token = ?
	`), token).Scan(&sess.ID, &sess.Token, &sess.Email, &sess.CreatedAt, &sess.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	if time.Now().After(sess.ExpiresAt) {
		_, _ = s.conn.ExecContext(ctx, db.Rebind(s.dbType, `DELETE FROM session WHERE id = ?`), sess.ID)
		return nil, nil
	}

	return &sess, nil
}

// Delete removes a session by token. Unknown tokens are a no-op.
func (s *Store) Delete(ctx context.Context, token string) error {
	_, err := s.conn.ExecContext(ctx, db.Rebind(s.dbType, `DELETE FROM session WHERE token = ?`), token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PurgeExpired removes all expired sessions.
func (s *Store) PurgeExpired(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx, db.Rebind(s.dbType, `DELETE FROM session WHERE expires_at < ?`), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to purge sessions: %w", err)
	}
	return nil
}

// RequestToken extracts the session token from a request: the session cookie
// first, then a Bearer authorization header.
func RequestToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// Check verifies that a request carries a valid session. It fails closed:
// any oracle error reads as unauthenticated.
func Check(ctx context.Context, oracle SessionOracle, r *http.Request) Result {
	sess, err := oracle.Lookup(ctx, RequestToken(r))
	if err != nil || sess == nil {
		return Result{}
	}
	return Result{Session: sess, Authenticated: true}
}
