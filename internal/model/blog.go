// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model contains domain models and constants for the application.
package model

import "slices"

// Blog post categories
const (
	CategoryAgriculture  = "Agriculture"
	CategoryClimate      = "Climate"
	CategoryWater        = "Water"
	CategoryEducation    = "Education"
	CategoryConservation = "Conservation"
	CategoryEconomy      = "Economy"
)

// CategoryAll is the pseudo-category used by the public blog filter.
const CategoryAll = "All"

// DefaultCategory is preselected in the post editor.
const DefaultCategory = CategoryAgriculture

// DefaultPostListLimit caps how many posts a full listing returns.
const DefaultPostListLimit = 50

// Categories returns the fixed set of blog categories in display order.
func Categories() []string {
	return []string{
		CategoryAgriculture,
		CategoryClimate,
		CategoryWater,
		CategoryEducation,
		CategoryConservation,
		CategoryEconomy,
	}
}

// IsValidCategory checks if a category is one of the fixed blog categories.
func IsValidCategory(category string) bool {
	return slices.Contains(Categories(), category)
}

// UploadedImage is an image stored by an upload backend.
type UploadedImage struct {
	URL string `json:"url"`
	// ID identifies the image at the backend (CDN public id or object key).
	ID string `json:"id"`
}
