// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/greenpadconcepts/greenpad/internal/model"
	"github.com/greenpadconcepts/greenpad/internal/payment"
	"github.com/greenpadconcepts/greenpad/internal/render"
	"github.com/greenpadconcepts/greenpad/internal/service"
	"github.com/greenpadconcepts/greenpad/internal/session"
)

// Donation messages.
const (
	msgDonationRequired     = "Please fill in all required fields"
	msgDonationAmount       = "Please enter a valid donation amount"
	msgDonationType         = "Please choose a donation type"
	msgDonationCancelled    = "Payment cancelled"
	msgDonationNotCompleted = "Payment was not completed"
	msgDonationNotSaved     = "Payment successful but failed to save donation record. Please contact support."
	msgDonationExpired      = "Your donation session has expired. Please try again."
	msgDonationThankYouFmt  = "Thank you for your %s donation of %s! A confirmation email has been sent to %s."
	checkoutTemplate        = "public/donate_checkout"
	donateTemplate          = "public/donate"
	donatePageTitle         = "Donate"
	donateCheckoutPageTitle = "Complete your donation"
)

// DonateHandler runs the donate page and the payment widget round trip.
// The pending checkout lives in the donor's session between the two.
type DonateHandler struct {
	renderer  *render.Renderer
	sessions  *session.Manager
	donations *service.DonationService
}

// NewDonateHandler creates a new DonateHandler.
func NewDonateHandler(renderer *render.Renderer, sessions *session.Manager, donations *service.DonationService) *DonateHandler {
	return &DonateHandler{renderer: renderer, sessions: sessions, donations: donations}
}

// DonateForm is what the donor typed.
type DonateForm struct {
	Name         string
	Email        string
	CustomAmount string
	Type         string
}

// DonateData is the donate page view.
type DonateData struct {
	Presets  []model.PresetAmount
	Selected int64
	Form     DonateForm
}

// CheckoutData is the payment widget view.
type CheckoutData struct {
	Checkout     service.Checkout
	InlineScript string
}

// Form handles GET /donate.
func (h *DonateHandler) Form(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, donateTemplate, render.TemplateData{
		Title: donatePageTitle,
		Data: DonateData{
			Presets:  model.PresetAmounts(),
			Selected: model.DefaultDonationAmount,
			Form:     DonateForm{Type: model.DonationTypeOneTime},
		},
	})
}

// Begin handles POST /donate: it validates the form, keeps the checkout in
// the session and renders the payment widget.
func (h *DonateHandler) Begin(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectDonate) {
		return
	}

	preset, err := strconv.ParseInt(r.FormValue("amount"), 10, 64)
	if err != nil || preset <= 0 {
		preset = model.DefaultDonationAmount
	}
	form := DonateForm{
		Name:         r.FormValue("name"),
		Email:        r.FormValue("email"),
		CustomAmount: r.FormValue("custom_amount"),
		Type:         r.FormValue("type"),
	}

	checkout, err := h.donations.Begin(r.Context(), service.DonationInput{
		Name:         form.Name,
		Email:        form.Email,
		PresetAmount: preset,
		CustomAmount: form.CustomAmount,
		Type:         form.Type,
	})
	if err != nil {
		var fieldErr *service.FieldError
		msg := msgDonationRequired
		switch {
		case errors.As(err, &fieldErr):
		case errors.Is(err, service.ErrInvalidAmount):
			msg = msgDonationAmount
		case errors.Is(err, service.ErrInvalidType):
			msg = msgDonationType
		default:
			logAndInternalError(w, "failed to begin donation", "error", err)
			return
		}
		h.renderForm(w, r, preset, form, msg)
		return
	}

	if err := h.sessions.PutJSON(r.Context(), session.KeyCheckout, checkout); err != nil {
		logAndInternalError(w, "failed to store checkout", "error", err)
		return
	}

	renderPage(w, r, h.renderer, checkoutTemplate, render.TemplateData{
		Title: donateCheckoutPageTitle,
		Data:  CheckoutData{Checkout: checkout, InlineScript: payment.InlineScriptURL},
	})
}

// Complete handles POST /donate/complete, which the widget calls with either
// a payment reference or cancelled=1.
func (h *DonateHandler) Complete(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectDonate) {
		return
	}

	var checkout service.Checkout
	found, err := h.sessions.GetJSON(r.Context(), session.KeyCheckout, &checkout)
	if err != nil {
		slog.Error("failed to read checkout from session", "error", err)
	}
	if !found || err != nil {
		flashError(w, r, h.renderer, redirectDonate, msgDonationExpired)
		return
	}
	h.sessions.Remove(r.Context(), session.KeyCheckout)

	result := h.donations.Complete(r.Context(), checkout, service.PaymentOutcome{
		Reference: r.FormValue("reference"),
		Cancelled: r.FormValue("cancelled") == "1",
	})

	switch result.Status {
	case service.ResultCompleted:
		d := result.Donation
		flashSuccess(w, r, h.renderer, redirectDonate,
			fmt.Sprintf(msgDonationThankYouFmt, d.Type, render.Money(d.Amount), d.Email))
	case service.ResultCancelled:
		flashAndRedirect(w, r, h.renderer, redirectDonate, msgDonationCancelled, flashTypeInfo)
	case service.ResultPersistFailed:
		flashError(w, r, h.renderer, redirectDonate, msgDonationNotSaved)
	default:
		flashError(w, r, h.renderer, redirectDonate, msgDonationNotCompleted)
	}
}

func (h *DonateHandler) renderForm(w http.ResponseWriter, r *http.Request, preset int64, form DonateForm, message string) {
	err := h.renderer.RenderStatus(w, r, http.StatusUnprocessableEntity, donateTemplate, render.TemplateData{
		Title:     donatePageTitle,
		Flash:     message,
		FlashType: flashTypeError,
		Data: DonateData{
			Presets:  model.PresetAmounts(),
			Selected: preset,
			Form:     form,
		},
	})
	if err != nil {
		logAndInternalError(w, "failed to render template", "error", err, "template", donateTemplate)
	}
}
