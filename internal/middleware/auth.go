// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for identity gating,
// security headers, and request handling.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/greenpadconcepts/greenpad/internal/auth"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request data.
const (
	ContextKeyIdentity ContextKey = "identity"
)

// SessionIdentity reads and clears the identity bound to a session.
type SessionIdentity interface {
	IdentityID(ctx context.Context) string
	SignOut(ctx context.Context) error
}

// IdentityLookup resolves a stored identity id to the signed-in operator.
type IdentityLookup interface {
	Lookup(ctx context.Context, id string) (auth.Identity, error)
}

// LoadIdentity puts the signed-in operator into the request context.
// A session pointing at an account that no longer exists is cleared.
func LoadIdentity(sessions SessionIdentity, lookup IdentityLookup, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sessions.IdentityID(r.Context())
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := lookup.Lookup(r.Context(), id)
			if err != nil {
				if errors.Is(err, auth.ErrUserNotFound) {
					_ = sessions.SignOut(r.Context())
				} else {
					logger.Error("failed to load identity", "error", err, "identity_id", id)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireIdentity redirects anonymous requests to loginPath.
// It must run after LoadIdentity.
func RequireIdentity(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetIdentity(r); !ok {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RedirectIfIdentity sends already signed-in operators to target,
// e.g. away from the login form.
func RedirectIfIdentity(target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetIdentity(r); ok {
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, identity)
}

// GetIdentity returns the signed-in operator, if any.
func GetIdentity(r *http.Request) (auth.Identity, bool) {
	identity, ok := r.Context().Value(ContextKeyIdentity).(auth.Identity)
	return identity, ok
}
