// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// AdminSeed describes the administrator created on first start.
type AdminSeed struct {
	Email    string
	Password string
	Name     string
}

// Seed creates the initial administrator when the users table is empty.
// hash turns the plain-text password into a stored hash.
func Seed(ctx context.Context, db *sql.DB, admin AdminSeed, hash func(string) (string, error)) error {
	queries := New(db)

	count, err := queries.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		slog.Debug("users exist, skipping admin seed", "count", count)
		return nil
	}

	if admin.Email == "" || admin.Password == "" {
		return errors.New("no users exist and no admin credentials are configured")
	}

	passwordHash, err := hash(admin.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        admin.Email,
		PasswordHash: passwordHash,
		Name:         admin.Name,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created admin user", "id", user.ID, "email", user.Email)
	return nil
}
