// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/greenpadconcepts/greenpad/internal/model"
	"github.com/greenpadconcepts/greenpad/internal/render"
	"github.com/greenpadconcepts/greenpad/internal/service"
	"github.com/greenpadconcepts/greenpad/internal/store"
)

// FrontendHandler serves the public informational pages and the blog.
type FrontendHandler struct {
	renderer *render.Renderer
	blog     *service.BlogService
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(renderer *render.Renderer, blog *service.BlogService) *FrontendHandler {
	return &FrontendHandler{renderer: renderer, blog: blog}
}

// HomeData is the home page view.
type HomeData struct {
	Posts []store.BlogPost
}

// BlogListData is the blog index view.
type BlogListData struct {
	Posts      []store.BlogPost
	Query      string
	Category   string
	Categories []string
	LoadFailed bool
}

// PostData is the blog post view.
type PostData struct {
	Post    store.BlogPost
	Related []store.BlogPost
}

// Home handles GET /.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	var data HomeData

	posts, err := h.blog.List(r.Context())
	if err != nil {
		// The page still renders without the stories section.
		slog.Error("failed to load recent posts", "error", err)
	} else {
		data.Posts = posts[:min(len(posts), homePostCount)]
	}

	renderPage(w, r, h.renderer, "public/home", render.TemplateData{Data: data})
}

// About handles GET /about.
func (h *FrontendHandler) About(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, "public/about", render.TemplateData{Title: "About Us"})
}

// Blog handles GET /blog with optional ?q= and ?category= filters.
func (h *FrontendHandler) Blog(w http.ResponseWriter, r *http.Request) {
	data := BlogListData{
		Query:      r.URL.Query().Get("q"),
		Category:   r.URL.Query().Get("category"),
		Categories: append([]string{model.CategoryAll}, model.Categories()...),
	}
	if data.Category == "" {
		data.Category = model.CategoryAll
	}

	posts, err := h.blog.List(r.Context())
	if err != nil {
		slog.Error("failed to list blog posts", "error", err)
		data.LoadFailed = true
	} else {
		data.Posts = service.FilterPosts(posts, data.Query, data.Category)
	}

	renderPage(w, r, h.renderer, "public/blog", render.TemplateData{Title: "Blog", Data: data})
}

// BlogPost handles GET /blog/{id}.
func (h *FrontendHandler) BlogPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	post, err := h.blog.Get(r.Context(), id)
	if errors.Is(err, service.ErrPostNotFound) {
		renderNotFound(w, r, h.renderer, "Post not found")
		return
	}
	if err != nil {
		logAndInternalError(w, "failed to get blog post", "error", err, "post_id", id)
		return
	}

	related, err := h.blog.Related(r.Context(), post, relatedPostCount)
	if err != nil {
		slog.Warn("failed to load related posts", "error", err, "post_id", id)
	}

	renderPage(w, r, h.renderer, "public/post", render.TemplateData{
		Title: post.Title,
		Data:  PostData{Post: post, Related: related},
	})
}

// NotFound renders the 404 page for unknown routes.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderNotFound(w, r, h.renderer, "")
}
