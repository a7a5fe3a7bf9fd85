// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/greenpadconcepts/greenpad/internal/model"
)

var printer = message.NewPrinter(language.English)

// Funcs returns the template function map.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("January 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		"money":      Money,
		"number":     Number,
		"truncate":   Truncate,
		"content":    Content,
		"categories": model.Categories,
		"presets":    model.PresetAmounts,
		"lower":      strings.ToLower,
		"add": func(a, b int) int {
			return a + b
		},
		"hasPrefix": strings.HasPrefix,
	}
}

// Number formats n with thousands separators.
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}

// Money formats a whole-currency amount, e.g. ₦1,250.
func Money(n int64) string {
	return model.CurrencySymbol + Number(n)
}

// Truncate shortens s to at most length runes, adding an ellipsis.
func Truncate(s string, length int) string {
	if utf8.RuneCountInString(s) <= length {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:length])) + "..."
}
