// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session keeps the admin identity, flash messages and the pending
// donation checkout in server-side sessions stored in SQLite.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys.
const (
	KeyIdentityID = "identity_id"
	KeyFlash      = "flash"
	KeyFlashType  = "flash_type"
	KeyCheckout   = "donation_checkout"
)

// Lifetime is how long a session lives without activity.
const Lifetime = 24 * time.Hour

// Manager is the application's session manager. It is created when the
// server starts and must be closed on shutdown.
type Manager struct {
	*scs.SessionManager
	store *sqlite3store.SQLite3Store
}

// New creates a session manager backed by the sessions table in db.
func New(db *sql.DB, isDev bool) *Manager {
	st := sqlite3store.New(db)

	sm := scs.New()
	sm.Store = st
	sm.Lifetime = Lifetime
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = !isDev
	if !isDev {
		sm.Cookie.Name = "__Host-session"
	}

	return &Manager{SessionManager: sm, store: st}
}

// Close stops the background cleanup of expired sessions.
func (m *Manager) Close() {
	m.store.StopCleanup()
}

// SignIn binds identityID to the session, renewing the token first.
func (m *Manager) SignIn(ctx context.Context, identityID string) error {
	if err := m.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	m.Put(ctx, KeyIdentityID, identityID)
	return nil
}

// IdentityID returns the signed-in identity, or "" when signed out.
func (m *Manager) IdentityID(ctx context.Context) string {
	return m.GetString(ctx, KeyIdentityID)
}

// SignOut destroys the session.
func (m *Manager) SignOut(ctx context.Context) error {
	return m.Destroy(ctx)
}

// SetFlash stores a one-time message shown on the next rendered page.
func (m *Manager) SetFlash(ctx context.Context, message, flashType string) {
	m.Put(ctx, KeyFlash, message)
	m.Put(ctx, KeyFlashType, flashType)
}

// PopFlash returns and clears the pending flash message.
func (m *Manager) PopFlash(ctx context.Context) (message, flashType string) {
	message = m.PopString(ctx, KeyFlash)
	flashType = m.PopString(ctx, KeyFlashType)
	if message != "" && flashType == "" {
		flashType = "info"
	}
	return message, flashType
}

// PutJSON stores v under key as JSON.
func (m *Manager) PutJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding session value %q: %w", key, err)
	}
	m.Put(ctx, key, string(data))
	return nil
}

// GetJSON decodes the value under key into v. It reports false when the key
// is absent.
func (m *Manager) GetJSON(ctx context.Context, key string, v any) (bool, error) {
	raw := m.GetString(ctx, key)
	if raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decoding session value %q: %w", key, err)
	}
	return true, nil
}
