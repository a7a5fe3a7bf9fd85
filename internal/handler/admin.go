// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the HTTP handlers for the public site, the
// donation checkout, and the admin dashboard.
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

// Admin messages.
const (
	msgPostCreated       = "Blog post created successfully!"
	msgPostUpdated       = "Blog post updated successfully!"
	msgPostDeleted       = "Blog post deleted successfully!"
	msgPostSaveFailed    = "Failed to save blog post: "
	msgPostDeleteFailed  = "Failed to delete blog post: "
	msgPostNotFound      = "Blog post not found"
	msgMessageNotFound   = "Message not found"
	postFormTemplate     = "admin/post_form"
	dashboardTemplate    = "admin/dashboard"
	messageTemplate      = "admin/message"
	dashboardPageTitle   = "Dashboard"
	newPostPageTitle     = "New Post"
	editPostPageTitle    = "Edit Post"
	messageDetailPageTtl = "Message"
)

// AdminHandler serves the dashboard, the post editor and the message viewer.
type AdminHandler struct {
	renderer  *render.Renderer
	dashboard *service.DashboardService
	blog      *service.BlogService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(renderer *render.Renderer, dashboard *service.DashboardService, blog *service.BlogService) *AdminHandler {
	return &AdminHandler{renderer: renderer, dashboard: dashboard, blog: blog}
}

// DashboardData is the dashboard view.
type DashboardData struct {
	Tab      string
	Overview *service.Overview
}

// PostFormData is the post editor view.
type PostFormData struct {
	Post   store.BlogPost
	IsEdit bool
}

// MessageData is the submission detail view.
type MessageData struct {
	Submission store.ContactSubmission
}

func dashboardTab(tab string) string {
	switch tab {
	case TabPosts, TabMessages, TabDonations:
		return tab
	default:
		return TabOverview
	}
}

// Dashboard handles GET /admin/dashboard?tab=...
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	overview := h.dashboard.Load(r.Context())

	renderPage(w, r, h.renderer, dashboardTemplate, render.TemplateData{
		Title: dashboardPageTitle,
		Data: DashboardData{
			Tab:      dashboardTab(r.URL.Query().Get("tab")),
			Overview: overview,
		},
	})
}

// NewPost handles GET /admin/dashboard/posts/new.
func (h *AdminHandler) NewPost(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, postFormTemplate, render.TemplateData{
		Title: newPostPageTitle,
		Data:  PostFormData{Post: store.BlogPost{Category: model.DefaultCategory}},
	})
}

// EditPost handles GET /admin/dashboard/posts/{id}.
func (h *AdminHandler) EditPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	post, err := h.blog.Get(r.Context(), id)
	if errors.Is(err, service.ErrPostNotFound) {
		flashError(w, r, h.renderer, redirectPostsTab, msgPostNotFound)
		return
	}
	if err != nil {
		logAndInternalError(w, "failed to get blog post", "error", err, "post_id", id)
		return
	}

	renderPage(w, r, h.renderer, postFormTemplate, render.TemplateData{
		Title: editPostPageTitle,
		Data:  PostFormData{Post: post, IsEdit: true},
	})
}

// CreatePost handles POST /admin/dashboard/posts.
func (h *AdminHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectPostsTab) {
		return
	}

	input := postInputFromForm(r)
	if _, err := h.blog.Create(r.Context(), input); err != nil {
		if !isInputError(err) {
			slog.Error("failed to create blog post", "error", err)
		}
		h.renderPostForm(w, r, postFromInput("", input), false, msgPostSaveFailed+err.Error())
		return
	}

	flashSuccess(w, r, h.renderer, redirectPostsTab, msgPostCreated)
}

// UpdatePost handles POST /admin/dashboard/posts/{id}.
func (h *AdminHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !parseFormOrRedirect(w, r, h.renderer, redirectPostsTab) {
		return
	}

	input := postInputFromForm(r)
	if _, err := h.blog.Update(r.Context(), id, input); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			flashError(w, r, h.renderer, redirectPostsTab, msgPostSaveFailed+err.Error())
			return
		}
		if !isInputError(err) {
			slog.Error("failed to update blog post", "error", err, "post_id", id)
		}
		h.renderPostForm(w, r, postFromInput(id, input), true, msgPostSaveFailed+err.Error())
		return
	}

	flashSuccess(w, r, h.renderer, redirectPostsTab, msgPostUpdated)
}

// DeletePost handles POST /admin/dashboard/posts/{id}/delete.
func (h *AdminHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.blog.Delete(r.Context(), id); err != nil {
		if !errors.Is(err, service.ErrPostNotFound) {
			slog.Error("failed to delete blog post", "error", err, "post_id", id)
		}
		flashError(w, r, h.renderer, redirectPostsTab, msgPostDeleteFailed+err.Error())
		return
	}

	flashSuccess(w, r, h.renderer, redirectPostsTab, msgPostDeleted)
}

// Message handles GET /admin/dashboard/messages/{id}. Viewing does not
// change the status; closing the view does.
func (h *AdminHandler) Message(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.submission(w, r)
	if !ok {
		return
	}

	renderPage(w, r, h.renderer, messageTemplate, render.TemplateData{
		Title: messageDetailPageTtl,
		Data:  MessageData{Submission: sub},
	})
}

// CloseMessage handles POST /admin/dashboard/messages/{id}/close.
func (h *AdminHandler) CloseMessage(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.submission(w, r)
	if !ok {
		return
	}

	h.dashboard.CloseSubmission(r.Context(), &sub)
	http.Redirect(w, r, redirectMsgsTab, http.StatusSeeOther)
}

func (h *AdminHandler) submission(w http.ResponseWriter, r *http.Request) (store.ContactSubmission, bool) {
	id := chi.URLParam(r, "id")

	sub, err := h.dashboard.Submission(r.Context(), id)
	if errors.Is(err, service.ErrSubmissionNotFound) {
		flashError(w, r, h.renderer, redirectMsgsTab, msgMessageNotFound)
		return sub, false
	}
	if err != nil {
		logAndInternalError(w, "failed to get contact submission", "error", err, "submission_id", id)
		return sub, false
	}
	return sub, true
}

func (h *AdminHandler) renderPostForm(w http.ResponseWriter, r *http.Request, post store.BlogPost, isEdit bool, message string) {
	title := newPostPageTitle
	if isEdit {
		title = editPostPageTitle
	}
	err := h.renderer.RenderStatus(w, r, http.StatusUnprocessableEntity, postFormTemplate, render.TemplateData{
		Title:     title,
		Flash:     message,
		FlashType: flashTypeError,
		Data:      PostFormData{Post: post, IsEdit: isEdit},
	})
	if err != nil {
		logAndInternalError(w, "failed to render template", "error", err, "template", postFormTemplate)
	}
}

func postInputFromForm(r *http.Request) service.PostInput {
	return service.PostInput{
		Title:    r.FormValue("title"),
		Content:  r.FormValue("content"),
		Excerpt:  r.FormValue("excerpt"),
		Image:    r.FormValue("image"),
		Category: r.FormValue("category"),
		Author:   r.FormValue("author"),
		ReadTime: r.FormValue("read_time"),
	}
}

// postFromInput refills the editor after a failed save.
func postFromInput(id string, in service.PostInput) store.BlogPost {
	return store.BlogPost{
		ID:       id,
		Title:    in.Title,
		Content:  in.Content,
		Excerpt:  in.Excerpt,
		Image:    in.Image,
		Category: in.Category,
		Author:   in.Author,
		ReadTime: in.ReadTime,
	}
}

func isInputError(err error) bool {
	var fieldErr *service.FieldError
	return errors.As(err, &fieldErr) || errors.Is(err, service.ErrInvalidCategory)
}
