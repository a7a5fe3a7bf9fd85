// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the application flows: blog management, the contact
// form, the donation checkout and the admin dashboard. Each flow depends on
// narrow interfaces so it can be tested without the hosted services.
package service

import (
	"errors"
	"strings"
)

// Validation and lookup errors.
var (
	ErrPostNotFound       = errors.New("blog post not found")
	ErrSubmissionNotFound = errors.New("contact submission not found")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidAmount      = errors.New("donation amount must be a positive whole number")
	ErrInvalidType        = errors.New("invalid donation type")
)

// FieldError reports missing required fields.
type FieldError struct {
	Fields []string
}

func (e *FieldError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// required returns a *FieldError naming every empty value, or nil.
func required(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &FieldError{Fields: missing}
}
