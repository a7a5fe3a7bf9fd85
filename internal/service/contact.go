// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/greenpadconcepts/greenpad/internal/email"
	"github.com/greenpadconcepts/greenpad/internal/store"
)

// ContactStore persists contact submissions.
type ContactStore interface {
	CreateContactSubmission(ctx context.Context, arg store.CreateContactSubmissionParams) (store.ContactSubmission, error)
}

// ContactMailer notifies the organisation about a new message.
type ContactMailer interface {
	SendContactNotification(ctx context.Context, n email.ContactNotification) error
}

// ContactInput is a contact form submission.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactOutcome records both legs of a submission. The record and the
// notification are independent: either can succeed while the other fails,
// and nothing is undone.
type ContactOutcome struct {
	Submission store.ContactSubmission
	Stored     bool
	Notified   bool
	StoreErr   error
	EmailErr   error
}

// Success reports whether both the record and the notification went through.
func (o ContactOutcome) Success() bool {
	return o.Stored && o.Notified
}

// Partial reports whether exactly one leg succeeded.
func (o ContactOutcome) Partial() bool {
	return o.Stored != o.Notified
}

// ContactService handles the contact form.
type ContactService struct {
	store  ContactStore
	mailer ContactMailer
	inbox  string
	logger *slog.Logger
}

// NewContactService creates a ContactService that notifies inbox.
func NewContactService(s ContactStore, mailer ContactMailer, inbox string, logger *slog.Logger) *ContactService {
	return &ContactService{store: s, mailer: mailer, inbox: inbox, logger: logger}
}

// Submit stores the message and emails the inbox concurrently. The returned
// error is only set for missing fields; vendor failures are in the outcome.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (ContactOutcome, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)

	if err := required("name", in.Name, "email", in.Email, "subject", in.Subject, "message", in.Message); err != nil {
		return ContactOutcome{}, err
	}

	var out ContactOutcome
	var g errgroup.Group

	g.Go(func() error {
		sub, err := s.store.CreateContactSubmission(ctx, store.CreateContactSubmissionParams{
			Name:    in.Name,
			Email:   in.Email,
			Subject: in.Subject,
			Message: in.Message,
		})
		if err != nil {
			out.StoreErr = err
			return nil
		}
		out.Submission = sub
		out.Stored = true
		return nil
	})

	g.Go(func() error {
		err := s.mailer.SendContactNotification(ctx, email.ContactNotification{
			FromName:  in.Name,
			FromEmail: in.Email,
			Subject:   in.Subject,
			Message:   in.Message,
			ToEmail:   s.inbox,
		})
		if err != nil {
			out.EmailErr = err
			return nil
		}
		out.Notified = true
		return nil
	})

	_ = g.Wait()

	switch {
	case out.Success():
		s.logger.Info("contact submission received", "submission_id", out.Submission.ID)
	case out.Partial():
		s.logger.Warn("contact submission partially handled",
			"stored", out.Stored,
			"notified", out.Notified,
			"submission_id", out.Submission.ID,
			"store_error", errString(out.StoreErr),
			"email_error", errString(out.EmailErr),
		)
	default:
		s.logger.Error("contact submission failed",
			"store_error", errString(out.StoreErr),
			"email_error", errString(out.EmailErr),
		)
	}

	return out, nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
