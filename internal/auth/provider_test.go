// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/greenpadconcepts/greenpad/internal/store"
	"github.com/greenpadconcepts/greenpad/internal/testutil"
)

func newTestProvider(t *testing.T) (*Provider, store.User) {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	hash, err := HashPassword("greenpad-admin")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Email:        "admin@greenpad.test",
		PasswordHash: hash,
		Name:         "Admin",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	return NewProvider(db, testutil.TestLogger()), user
}

func TestSignIn_Success(t *testing.T) {
	p, user := newTestProvider(t)

	id, err := p.SignIn(context.Background(), "  admin@greenpad.test ", "greenpad-admin")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if id.ID != user.ID || id.Name != "Admin" {
		t.Errorf("identity = %+v, want id %s", id, user.ID)
	}

	stored, err := p.queries.GetUserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if !stored.LastLoginAt.Valid {
		t.Error("LastLoginAt should be recorded")
	}
}

func TestSignIn_Errors(t *testing.T) {
	p, _ := newTestProvider(t)

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"malformed email", "not-an-email", "greenpad-admin", ErrInvalidEmail},
		{"empty email", "", "greenpad-admin", ErrInvalidEmail},
		{"wrong password", "admin@greenpad.test", "nope", ErrInvalidCredentials},
		{"empty password", "admin@greenpad.test", "", ErrInvalidCredentials},
		{"unknown account", "ghost@greenpad.test", "greenpad-admin", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.SignIn(context.Background(), tt.email, tt.password)
			if !errors.Is(err, tt.want) {
				t.Errorf("SignIn error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	p, user := newTestProvider(t)

	id, err := p.Lookup(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if id.Email != user.Email {
		t.Errorf("Email = %q, want %q", id.Email, user.Email)
	}

	if _, err := p.Lookup(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Lookup(missing) error = %v, want ErrUserNotFound", err)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidEmail, "Invalid email address"},
		{ErrUserNotFound, "No account found with this email"},
		{ErrInvalidCredentials, "Invalid email or password"},
		{errors.New("boom"), "Failed to sign in. Please try again."},
	}

	for _, tt := range tests {
		if got := ErrorMessage(tt.err); got != tt.want {
			t.Errorf("ErrorMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
