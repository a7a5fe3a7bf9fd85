// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/greenpadconcepts/greenpad/internal/render"
	"github.com/greenpadconcepts/greenpad/internal/service"
)

// Contact form messages.
const (
	msgContactSent     = "Thank you for your message! We'll get back to you soon."
	msgContactFailed   = "There was an error sending your message. Please try again or contact us directly."
	msgContactRequired = "Please fill in all required fields"
)

// ContactHandler serves the contact page.
type ContactHandler struct {
	renderer *render.Renderer
	contact  *service.ContactService
	inbox    string
}

// NewContactHandler creates a new ContactHandler. inbox is shown on the page.
func NewContactHandler(renderer *render.Renderer, contact *service.ContactService, inbox string) *ContactHandler {
	return &ContactHandler{renderer: renderer, contact: contact, inbox: inbox}
}

// ContactData is the contact page view.
type ContactData struct {
	Form  service.ContactInput
	Inbox string
}

// Form handles GET /contact.
func (h *ContactHandler) Form(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, "public/contact", render.TemplateData{
		Title: "Contact Us",
		Data:  ContactData{Inbox: h.inbox},
	})
}

// Submit handles POST /contact. Success is reported only when the message
// was both stored and forwarded to the inbox; otherwise the form is shown
// again with what the visitor typed.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectContact) {
		return
	}

	input := service.ContactInput{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Subject: r.FormValue("subject"),
		Message: r.FormValue("message"),
	}

	outcome, err := h.contact.Submit(r.Context(), input)
	if err != nil {
		var fieldErr *service.FieldError
		msg := msgContactFailed
		if errors.As(err, &fieldErr) {
			msg = msgContactRequired
		}
		h.renderForm(w, r, input, msg)
		return
	}

	if !outcome.Success() {
		h.renderForm(w, r, input, msgContactFailed)
		return
	}

	flashSuccess(w, r, h.renderer, redirectContact, msgContactSent)
}

func (h *ContactHandler) renderForm(w http.ResponseWriter, r *http.Request, input service.ContactInput, message string) {
	err := h.renderer.RenderStatus(w, r, http.StatusUnprocessableEntity, "public/contact", render.TemplateData{
		Title:     "Contact Us",
		Flash:     message,
		FlashType: flashTypeError,
		Data:      ContactData{Form: input, Inbox: h.inbox},
	})
	if err != nil {
		logAndInternalError(w, "failed to render template", "error", err, "template", "public/contact")
	}
}
