// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package payment integrates the Paystack inline widget: it prepares the
// client-side checkout configuration and verifies completed transactions.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/greenpadconcepts/greenpad/internal/model"
	"github.com/greenpadconcepts/greenpad/internal/telemetry"
)

const (
	// DefaultBaseURL is the Paystack API root.
	DefaultBaseURL = "https://api.paystack.co"
	// InlineScriptURL is loaded by the donate page.
	InlineScriptURL = "https://js.paystack.co/v1/inline.js"

	verifyTimeout = 15 * time.Second
)

// Verification errors.
var (
	ErrMissingReference     = errors.New("payment reference is empty")
	ErrPaymentNotSuccessful = errors.New("payment was not successful")
	ErrAmountMismatch       = errors.New("paid amount does not match the donation")
	ErrCurrencyMismatch     = errors.New("payment currency does not match")
	ErrReferenceMismatch    = errors.New("payment reference does not match the checkout")
)

// CustomField is one entry of the widget's metadata.custom_fields.
type CustomField struct {
	DisplayName  string `json:"display_name"`
	VariableName string `json:"variable_name"`
	Value        string `json:"value"`
}

// Metadata is attached to the transaction and shown on the Paystack dashboard.
type Metadata struct {
	CustomFields []CustomField `json:"custom_fields"`
}

// DonorMetadata builds the metadata recorded with every donation.
func DonorMetadata(donorName, donationType string) Metadata {
	return Metadata{CustomFields: []CustomField{
		{DisplayName: "Donor Name", VariableName: "donor_name", Value: donorName},
		{DisplayName: "Donation Type", VariableName: "donation_type", Value: donationType},
	}}
}

// Widget is the configuration passed to PaystackPop.setup in the browser.
type Widget struct {
	Key       string   `json:"key"`
	Email     string   `json:"email"`
	Amount    int64    `json:"amount"`
	Currency  string   `json:"currency"`
	Reference string   `json:"ref"`
	Metadata  Metadata `json:"metadata"`
}

// Config holds Paystack credentials. Without a SecretKey, Verify trusts any
// non-empty reference.
type Config struct {
	PublicKey string
	SecretKey string
	BaseURL   string
}

// Gateway talks to Paystack.
type Gateway struct {
	cfg        Config
	httpClient *http.Client
}

// NewGateway creates a Gateway. An empty BaseURL uses DefaultBaseURL.
func NewGateway(cfg Config) *Gateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Gateway{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: verifyTimeout},
	}
}

// NewReference returns a unique transaction reference.
func NewReference() string {
	return "GPD-" + uuid.NewString()
}

// Widget builds the checkout configuration. amount is in whole naira and is
// converted to kobo.
func (g *Gateway) Widget(email string, amount int64, reference string, meta Metadata) Widget {
	return Widget{
		Key:       g.cfg.PublicKey,
		Email:     email,
		Amount:    model.ToMinorUnits(amount),
		Currency:  model.CurrencyCode,
		Reference: reference,
		Metadata:  meta,
	}
}

// VerifiesRemotely reports whether Verify calls the Paystack API.
func (g *Gateway) VerifiesRemotely() bool {
	return g.cfg.SecretKey != ""
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
	} `json:"data"`
}

// Verify confirms that reference is a successful transaction for
// amountMinor kobo.
func (g *Gateway) Verify(ctx context.Context, reference string, amountMinor int64) (err error) {
	if reference == "" {
		return ErrMissingReference
	}
	if !g.VerifiesRemotely() {
		return nil
	}

	ctx, span := telemetry.StartSpan(ctx, "paystack.verify", attribute.String("paystack.reference", reference))
	defer func() { telemetry.End(span, err) }()

	endpoint := g.cfg.BaseURL + "/transaction/verify/" + url.PathEscape(reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.SecretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("verify request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to parse verify response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || !result.Status {
		return fmt.Errorf("%w: %s", ErrPaymentNotSuccessful, result.Message)
	}
	if result.Data.Status != "success" {
		return fmt.Errorf("%w: transaction status %q", ErrPaymentNotSuccessful, result.Data.Status)
	}
	if result.Data.Reference != reference {
		return fmt.Errorf("%w: verified %q, requested %q", ErrReferenceMismatch, result.Data.Reference, reference)
	}
	if result.Data.Amount != amountMinor {
		return fmt.Errorf("%w: paid %d, expected %d", ErrAmountMismatch, result.Data.Amount, amountMinor)
	}
	if result.Data.Currency != model.CurrencyCode {
		return fmt.Errorf("%w: paid in %q, expected %s", ErrCurrencyMismatch, result.Data.Currency, model.CurrencyCode)
	}

	return nil
}
