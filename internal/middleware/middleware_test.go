// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/greenpadconcepts/greenpad/internal/auth"
)

type fakeSession struct {
	id        string
	signedOut bool
}

func (s *fakeSession) IdentityID(context.Context) string { return s.id }

func (s *fakeSession) SignOut(context.Context) error {
	s.signedOut = true
	s.id = ""
	return nil
}

type fakeLookup struct {
	identities map[string]auth.Identity
	err        error
}

func (l fakeLookup) Lookup(_ context.Context, id string) (auth.Identity, error) {
	if l.err != nil {
		return auth.Identity{}, l.err
	}
	identity, ok := l.identities[id]
	if !ok {
		return auth.Identity{}, auth.ErrUserNotFound
	}
	return identity, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestGetIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := GetIdentity(req); ok {
		t.Fatal("GetIdentity() on bare request reported an identity")
	}

	want := auth.Identity{ID: "u1", Email: "admin@example.com", Name: "Admin"}
	req = req.WithContext(WithIdentity(req.Context(), want))
	got, ok := GetIdentity(req)
	if !ok {
		t.Fatal("GetIdentity() found nothing")
	}
	if got != want {
		t.Errorf("GetIdentity() = %+v, want %+v", got, want)
	}
}

func TestLoadIdentity(t *testing.T) {
	admin := auth.Identity{ID: "u1", Email: "admin@example.com", Name: "Admin"}
	lookup := fakeLookup{identities: map[string]auth.Identity{"u1": admin}}

	tests := []struct {
		name          string
		sessionID     string
		lookup        fakeLookup
		wantIdentity  bool
		wantSignedOut bool
	}{
		{name: "anonymous", sessionID: "", lookup: lookup},
		{name: "signed in", sessionID: "u1", lookup: lookup, wantIdentity: true},
		{name: "deleted account", sessionID: "gone", lookup: lookup, wantSignedOut: true},
		{name: "lookup failure keeps session", sessionID: "u1", lookup: fakeLookup{err: errors.New("db down")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := &fakeSession{id: tt.sessionID}
			var seen bool
			h := LoadIdentity(sess, tt.lookup, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, seen = GetIdentity(r)
				w.WriteHeader(http.StatusOK)
			}))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			if seen != tt.wantIdentity {
				t.Errorf("identity present = %v, want %v", seen, tt.wantIdentity)
			}
			if sess.signedOut != tt.wantSignedOut {
				t.Errorf("signed out = %v, want %v", sess.signedOut, tt.wantSignedOut)
			}
		})
	}
}

func TestRequireIdentity(t *testing.T) {
	h := RequireIdentity("/login")(http.HandlerFunc(okHandler))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("anonymous status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(WithIdentity(req.Context(), auth.Identity{ID: "u1"}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("signed-in status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRedirectIfIdentity(t *testing.T) {
	h := RedirectIfIdentity("/admin")(http.HandlerFunc(okHandler))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("anonymous status = %d, want %d", rec.Code, http.StatusOK)
	}

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req = req.WithContext(WithIdentity(req.Context(), auth.Identity{ID: "u1"}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin" {
		t.Errorf("signed-in got %d -> %q, want 303 -> /admin", rec.Code, rec.Header().Get("Location"))
	}
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantHSTS bool
	}{
		{name: "production enables HSTS", isDev: false, wantHSTS: true},
		{name: "development disables HSTS", isDev: true, wantHSTS: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSecurityHeadersConfig(tt.isDev, "https://images.example.org")
			rec := httptest.NewRecorder()
			SecurityHeaders(cfg)(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if got := rec.Header().Get("Strict-Transport-Security") != ""; got != tt.wantHSTS {
				t.Errorf("HSTS present = %v, want %v", got, tt.wantHSTS)
			}
			if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Error("missing nosniff")
			}
			csp := rec.Header().Get("Content-Security-Policy")
			for _, want := range []string{"https://js.paystack.co", "https://checkout.paystack.com", "https://res.cloudinary.com", "https://images.example.org"} {
				if !strings.Contains(csp, want) {
					t.Errorf("CSP %q missing %q", csp, want)
				}
			}
		})
	}
}

func TestSecurityHeadersExcludePaths(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.ExcludePaths = []string{"/health"}
	rec := httptest.NewRecorder()
	SecurityHeaders(cfg)(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Header().Get("Content-Security-Policy") != "" {
		t.Error("excluded path received CSP header")
	}
}

func TestBuildCSPOrder(t *testing.T) {
	got := buildCSP(map[string]string{
		"zeta":        "x",
		"img-src":     "'self'",
		"default-src": "'none'",
	})
	want := "default-src 'none'; img-src 'self'; zeta x"
	if got != want {
		t.Errorf("buildCSP() = %q, want %q", got, want)
	}
}

func TestTimeout(t *testing.T) {
	t.Run("fast handler", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Timeout(time.Second)(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})

	t.Run("handler abandons on deadline", func(t *testing.T) {
		h := Timeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
		}
	})
}

func TestStripTrailingSlash(t *testing.T) {
	tests := []struct {
		target   string
		wantCode int
		wantLoc  string
	}{
		{target: "/", wantCode: http.StatusOK},
		{target: "/blog", wantCode: http.StatusOK},
		{target: "/blog/", wantCode: http.StatusMovedPermanently, wantLoc: "/blog"},
		{target: "/blog/?q=farm", wantCode: http.StatusMovedPermanently, wantLoc: "/blog?q=farm"},
		{target: "/blog//", wantCode: http.StatusMovedPermanently, wantLoc: "/blog"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			StripTrailingSlash(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if loc := rec.Header().Get("Location"); loc != tt.wantLoc {
				t.Errorf("Location = %q, want %q", loc, tt.wantLoc)
			}
		})
	}
}

func TestCSRFRejectsCrossSitePost(t *testing.T) {
	h := CSRF(DefaultCSRFConfig([]byte(strings.Repeat("k", 32)), false, ""), discardLogger())(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodPost, "/contact", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("cross-site POST status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	req = httptest.NewRequest(http.MethodPost, "/contact", nil)
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("same-origin POST status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestStaticCache(t *testing.T) {
	rec := httptest.NewRecorder()
	StaticCache(24*time.Hour)(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/site.css", nil))
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=86400" {
		t.Errorf("Cache-Control = %q, want %q", got, "public, max-age=86400")
	}
}
