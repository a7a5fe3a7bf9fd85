// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/greenpadconcepts/greenpad/internal/auth"
	"github.com/greenpadconcepts/greenpad/internal/render"
	"github.com/greenpadconcepts/greenpad/internal/session"
)

// Authenticator verifies operator credentials.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (auth.Identity, error)
}

// AuthHandler handles the admin login form and sign-out.
type AuthHandler struct {
	renderer *render.Renderer
	sessions *session.Manager
	auth     Authenticator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(renderer *render.Renderer, sessions *session.Manager, a Authenticator) *AuthHandler {
	return &AuthHandler{renderer: renderer, sessions: sessions, auth: a}
}

// LoginData is the login page view.
type LoginData struct {
	Email string
}

// LoginForm handles GET /admin. Signed-in operators never reach it; the
// router sends them to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, "auth/login", render.TemplateData{Title: "Admin Login", Data: LoginData{}})
}

// Login handles POST /admin.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdmin) {
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.renderLoginError(w, r, email, "Email and password are required")
		return
	}

	identity, err := h.auth.SignIn(r.Context(), email, password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) && !errors.Is(err, auth.ErrInvalidEmail) {
			slog.Error("sign in failed", "error", err)
		}
		h.renderLoginError(w, r, email, auth.ErrorMessage(err))
		return
	}

	if err := h.sessions.SignIn(r.Context(), identity.ID); err != nil {
		logAndInternalError(w, "failed to start session", "error", err, "user_id", identity.ID)
		return
	}

	slog.Info("operator signed in", "user_id", identity.ID, "email", identity.Email)
	http.Redirect(w, r, redirectDashboard, http.StatusSeeOther)
}

// Logout handles POST /admin/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(r.Context()); err != nil {
		slog.Error("failed to destroy session", "error", err)
	}
	http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
}

func (h *AuthHandler) renderLoginError(w http.ResponseWriter, r *http.Request, email, message string) {
	err := h.renderer.RenderStatus(w, r, http.StatusUnauthorized, "auth/login", render.TemplateData{
		Title:     "Admin Login",
		Flash:     message,
		FlashType: flashTypeError,
		Data:      LoginData{Email: email},
	})
	if err != nil {
		logAndInternalError(w, "failed to render template", "error", err, "template", "auth/login")
	}
}
