// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/greenpadconcepts/greenpad/internal/email"
	"github.com/greenpadconcepts/greenpad/internal/model"
	"github.com/greenpadconcepts/greenpad/internal/payment"
	"github.com/greenpadconcepts/greenpad/internal/store"
)

// DonationStore persists donation records.
type DonationStore interface {
	CreateDonation(ctx context.Context, arg store.CreateDonationParams) (store.Donation, error)
}

// PaymentGateway prepares and verifies widget payments.
type PaymentGateway interface {
	Widget(email string, amount int64, reference string, meta payment.Metadata) payment.Widget
	Verify(ctx context.Context, reference string, amountMinor int64) error
	// VerifiesRemotely reports whether Verify asks the gateway. In test mode
	// any reference is accepted.
	VerifiesRemotely() bool
}

// DonationMailer sends donor receipts.
type DonationMailer interface {
	SendDonationConfirmation(ctx context.Context, d email.DonationConfirmation) error
}

// DonationInput is the donate form.
type DonationInput struct {
	Name         string
	Email        string
	PresetAmount int64
	// CustomAmount overrides PresetAmount when it parses to a positive number.
	CustomAmount string
	Type         string
}

// Checkout is a donation waiting for the payment widget. It is kept in the
// donor's session until the widget reports back.
type Checkout struct {
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Amount    int64          `json:"amount"`
	Type      string         `json:"type"`
	Reference string         `json:"reference"`
	Widget    payment.Widget `json:"widget"`
}

// PaymentOutcome is what the widget callback reported.
type PaymentOutcome struct {
	Reference string
	Cancelled bool
}

// ResultStatus classifies how a checkout ended.
type ResultStatus int

const (
	// ResultCompleted means the donation was recorded.
	ResultCompleted ResultStatus = iota
	// ResultCancelled means the donor closed the widget.
	ResultCancelled
	// ResultVerifyFailed means the gateway did not confirm the payment.
	ResultVerifyFailed
	// ResultPersistFailed means payment succeeded but the record was not saved.
	ResultPersistFailed
)

// DonationResult is the end of a checkout.
type DonationResult struct {
	Status   ResultStatus
	Donation store.Donation
	// Err is set for ResultVerifyFailed and ResultPersistFailed.
	Err error
	// EmailErr is set when the receipt could not be sent. It does not change Status.
	EmailErr error
}

// DonationService runs the donation checkout.
type DonationService struct {
	store   DonationStore
	gateway PaymentGateway
	mailer  DonationMailer
	logger  *slog.Logger
}

// NewDonationService creates a DonationService.
func NewDonationService(s DonationStore, gateway PaymentGateway, mailer DonationMailer, logger *slog.Logger) *DonationService {
	return &DonationService{store: s, gateway: gateway, mailer: mailer, logger: logger}
}

// ResolveAmount picks the custom amount when it is a positive whole number,
// otherwise the preset.
func ResolveAmount(preset int64, custom string) int64 {
	if n, err := strconv.ParseInt(strings.TrimSpace(custom), 10, 64); err == nil && n > 0 {
		return n
	}
	return preset
}

// Begin validates the form and prepares the payment widget.
func (s *DonationService) Begin(_ context.Context, in DonationInput) (Checkout, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if err := required("name", in.Name, "email", in.Email); err != nil {
		return Checkout{}, err
	}

	amount := ResolveAmount(in.PresetAmount, in.CustomAmount)
	if amount <= 0 {
		return Checkout{}, ErrInvalidAmount
	}

	if in.Type == "" {
		in.Type = model.DonationTypeOneTime
	}
	if !model.IsValidDonationType(in.Type) {
		return Checkout{}, ErrInvalidType
	}

	ref := payment.NewReference()
	return Checkout{
		Name:      in.Name,
		Email:     in.Email,
		Amount:    amount,
		Type:      in.Type,
		Reference: ref,
		Widget:    s.gateway.Widget(in.Email, amount, ref, payment.DonorMetadata(in.Name, in.Type)),
	}, nil
}

// Complete finishes a checkout after the widget callback. A successful
// payment is recorded as completed with the callback reference, then exactly
// one receipt email is attempted.
func (s *DonationService) Complete(ctx context.Context, co Checkout, out PaymentOutcome) DonationResult {
	if out.Cancelled {
		s.logger.Info("donation payment cancelled", "reference", co.Reference)
		return DonationResult{Status: ResultCancelled}
	}

	if out.Reference != co.Reference {
		if s.gateway.VerifiesRemotely() {
			s.logger.Warn("rejected payment for a different checkout",
				"checkout_reference", co.Reference,
				"callback_reference", out.Reference,
			)
			return DonationResult{Status: ResultVerifyFailed, Err: payment.ErrReferenceMismatch}
		}
		s.logger.Warn("payment reference differs from checkout",
			"checkout_reference", co.Reference,
			"callback_reference", out.Reference,
		)
	}

	if err := s.gateway.Verify(ctx, out.Reference, model.ToMinorUnits(co.Amount)); err != nil {
		s.logger.Error("payment verification failed", "error", err, "reference", out.Reference)
		return DonationResult{Status: ResultVerifyFailed, Err: err}
	}

	donation, err := s.store.CreateDonation(ctx, store.CreateDonationParams{
		Name:          co.Name,
		Email:         co.Email,
		Amount:        co.Amount,
		Type:          co.Type,
		Status:        model.DonationStatusCompleted,
		TransactionID: out.Reference,
	})
	if err != nil {
		// The payment went through; the record needs manual follow-up.
		s.logger.Error("payment succeeded but donation was not saved",
			"error", err,
			"reference", out.Reference,
			"email", co.Email,
			"amount", co.Amount,
		)
		return DonationResult{Status: ResultPersistFailed, Err: err}
	}

	result := DonationResult{Status: ResultCompleted, Donation: donation}

	if err := s.mailer.SendDonationConfirmation(ctx, email.DonationConfirmation{
		ToName:        donation.Name,
		ToEmail:       donation.Email,
		Amount:        donation.Amount,
		Type:          donation.Type,
		TransactionID: donation.TransactionID,
	}); err != nil {
		s.logger.Warn("failed to send donation confirmation email", "error", err, "donation_id", donation.ID)
		result.EmailErr = err
	}

	s.logger.Info("donation recorded", "donation_id", donation.ID, "amount", donation.Amount, "type", donation.Type)
	return result
}
