// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/greenpadconcepts/greenpad/internal/store"
)

// Sign-in errors.
var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("no account found with this email")
)

// Identity is the signed-in administrator.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// Provider verifies administrator credentials.
type Provider struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewProvider creates a Provider backed by db.
func NewProvider(db *sql.DB, logger *slog.Logger) *Provider {
	return &Provider{queries: store.New(db), logger: logger}
}

// SignIn checks email and password. Unknown emails and wrong passwords both
// return ErrInvalidCredentials so the response does not reveal which accounts
// exist.
func (p *Provider) SignIn(ctx context.Context, email, password string) (Identity, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return Identity{}, ErrInvalidEmail
	}
	if password == "" {
		return Identity{}, ErrInvalidCredentials
	}

	user, err := p.queries.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		// Hash anyway so unknown accounts take as long as known ones.
		_, _ = HashPassword(password)
		return Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return Identity{}, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := CheckPassword(password, user.PasswordHash)
	if err != nil {
		return Identity{}, fmt.Errorf("checking password: %w", err)
	}
	if !ok {
		p.logger.Warn("failed sign-in attempt", "email", email)
		return Identity{}, ErrInvalidCredentials
	}

	if err := p.queries.UpdateUserLastLogin(ctx, user.ID); err != nil {
		p.logger.Error("failed to update last login", "error", err, "user_id", user.ID)
	}

	if NeedsRehash(user.PasswordHash) {
		p.rehash(ctx, user.ID, password)
	}

	return Identity{ID: user.ID, Email: user.Email, Name: user.Name}, nil
}

// Lookup resolves a stored identity id, returning ErrUserNotFound when the
// account no longer exists.
func (p *Provider) Lookup(ctx context.Context, id string) (Identity, error) {
	user, err := p.queries.GetUserByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Identity{}, ErrUserNotFound
	}
	if err != nil {
		return Identity{}, fmt.Errorf("looking up user: %w", err)
	}
	return Identity{ID: user.ID, Email: user.Email, Name: user.Name}, nil
}

func (p *Provider) rehash(ctx context.Context, userID, password string) {
	hash, err := HashPassword(password)
	if err != nil {
		p.logger.Error("failed to rehash password", "error", err, "user_id", userID)
		return
	}
	if err := p.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{ID: userID, PasswordHash: hash}); err != nil {
		p.logger.Error("failed to store rehashed password", "error", err, "user_id", userID)
	}
}

// ErrorMessage maps sign-in errors to the text shown on the login form.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidEmail):
		return "Invalid email address"
	case errors.Is(err, ErrUserNotFound):
		return "No account found with this email"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	default:
		return "Failed to sign in. Please try again."
	}
}
