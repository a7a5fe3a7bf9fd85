// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/greenpadconcepts/greenpad/internal/service"
	"github.com/greenpadconcepts/greenpad/internal/store"
)

// APIHandler exposes read-only blog data as JSON.
type APIHandler struct {
	blog *service.BlogService
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(blog *service.BlogService) *APIHandler {
	return &APIHandler{blog: blog}
}

// ListPosts handles GET /api/v1/posts with the same ?q= and ?category=
// filters as the blog page.
func (h *APIHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.List(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to list blog posts")
		return
	}

	posts = service.FilterPosts(posts, r.URL.Query().Get("q"), r.URL.Query().Get("category"))
	if posts == nil {
		posts = []store.BlogPost{}
	}
	writeJSONSuccess(w, map[string]any{"posts": posts, "count": len(posts)})
}

// GetPost handles GET /api/v1/posts/{id}.
func (h *APIHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.blog.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, service.ErrPostNotFound) {
		writeJSONError(w, http.StatusNotFound, msgPostNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to get blog post")
		return
	}
	writeJSONSuccess(w, map[string]any{"post": post})
}
