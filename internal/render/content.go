// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"bytes"
	"html/template"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			// Posts may contain raw HTML; it is sanitized below.
			html.WithUnsafe(),
		),
	)
	contentPolicy = bluemonday.UGCPolicy()
)

// Content renders blog post markup (Markdown with optional inline HTML) to
// sanitized HTML.
func Content(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		slog.Warn("failed to render post content", "error", err)
		return template.HTML(contentPolicy.Sanitize(template.HTMLEscapeString(src)))
	}
	return template.HTML(contentPolicy.SanitizeBytes(buf.Bytes()))
}
