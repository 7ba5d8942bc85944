// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/stockdeck/auth"
	"github.com/danielhkuo/stockdeck/cliparse"
	"github.com/danielhkuo/stockdeck/middleware"
	"github.com/danielhkuo/stockdeck/models"
)

type SessionHandler struct {
	store *auth.Store
	cfg   cliparse.Config
}

func NewSessionHandler(store *auth.Store, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{store: store, cfg: cfg}
}

// Login handles POST /auth/login
//
// The caller presents an allowlisted email and its HMAC login key. Success
// mints a session and sets the session cookie.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email is required")
		return
	}
	if req.Key == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "key is required")
		return
	}

	if err := auth.CheckAllowlist(email, h.cfg.AllowedEmails); err != nil {
		slog.Warn("sign-in denied", "email", email, "reason", "not in allowlist")
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized - please sign in")
		return
	}
	if err := auth.ValidateLoginKey(email, req.Key, h.cfg.SessionSalt); err != nil {
		slog.Warn("sign-in denied", "email", email, "reason", "invalid login key")
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized - please sign in")
		return
	}

	sess, err := h.store.Create(r.Context(), email)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	slog.Info("sign-in allowed", "email", email)
	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Email:     sess.Email,
		ExpiresAt: sess.ExpiresAt.Format(time.RFC3339),
	})
}

// Logout handles POST /auth/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := auth.RequestToken(r)
	if token != "" {
		if err := h.store.Delete(r.Context(), token); err != nil {
			slog.Error("failed to delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// Me handles GET /auth/me
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r, h.store)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MeResponse{Email: sess.Email})
}
