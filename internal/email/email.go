// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package email sends the contact notification and donation confirmation
// emails through the EmailJS REST API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/greenpadconcepts/greenpad/internal/telemetry"
)

const (
	// DefaultEndpoint is the EmailJS send API.
	DefaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"
	sendTimeout     = 10 * time.Second
)

// ErrTemplateNotConfigured is returned when a message has no template id.
var ErrTemplateNotConfigured = errors.New("email template not configured")

// ContactNotification tells the organisation about a contact form message.
type ContactNotification struct {
	FromName  string
	FromEmail string
	Subject   string
	Message   string
	ToEmail   string
}

// DonationConfirmation thanks a donor after a completed payment.
type DonationConfirmation struct {
	ToName        string
	ToEmail       string
	Amount        int64
	Type          string
	TransactionID string
}

// Config holds EmailJS credentials and template ids.
type Config struct {
	ServiceID          string
	ContactTemplateID  string
	DonationTemplateID string
	PublicKey          string
	PrivateKey         string
	Endpoint           string
}

// Client sends email through EmailJS.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates an EmailJS client. An empty Endpoint uses DefaultEndpoint.
func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: sendTimeout},
	}
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// SendContactNotification implements the contact template.
func (c *Client) SendContactNotification(ctx context.Context, n ContactNotification) error {
	return c.send(ctx, c.cfg.ContactTemplateID, map[string]string{
		"from_name":  n.FromName,
		"from_email": n.FromEmail,
		"subject":    n.Subject,
		"message":    n.Message,
		"to_email":   n.ToEmail,
	})
}

// SendDonationConfirmation implements the donation template.
func (c *Client) SendDonationConfirmation(ctx context.Context, d DonationConfirmation) error {
	return c.send(ctx, c.cfg.DonationTemplateID, map[string]string{
		"to_name":         d.ToName,
		"to_email":        d.ToEmail,
		"donation_amount": strconv.FormatInt(d.Amount, 10),
		"donation_type":   d.Type,
		"transaction_id":  d.TransactionID,
	})
}

func (c *Client) send(ctx context.Context, templateID string, params map[string]string) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "emailjs.send", attribute.String("emailjs.template_id", templateID))
	defer func() { telemetry.End(span, err) }()

	if templateID == "" {
		return ErrTemplateNotConfigured
	}

	body, err := json.Marshal(sendRequest{
		ServiceID:      c.cfg.ServiceID,
		TemplateID:     templateID,
		UserID:         c.cfg.PublicKey,
		AccessToken:    c.cfg.PrivateKey,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("encoding email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email API returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	return nil
}

// LogSender writes messages to the log instead of sending them. It is used
// when EmailJS is not configured.
type LogSender struct {
	Logger *slog.Logger
}

// SendContactNotification logs the notification.
func (s LogSender) SendContactNotification(_ context.Context, n ContactNotification) error {
	s.Logger.Info("email not configured, contact notification logged",
		"to", n.ToEmail,
		"from", n.FromEmail,
		"subject", n.Subject,
	)
	return nil
}

// SendDonationConfirmation logs the confirmation.
func (s LogSender) SendDonationConfirmation(_ context.Context, d DonationConfirmation) error {
	s.Logger.Info("email not configured, donation confirmation logged",
		"to", d.ToEmail,
		"amount", d.Amount,
		"transaction_id", d.TransactionID,
	)
	return nil
}
