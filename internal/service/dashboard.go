// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/greenpadconcepts/greenpad/internal/model"
	"github.com/greenpadconcepts/greenpad/internal/store"
)

// recentEventLimit is how many event log entries the overview shows.
const recentEventLimit = 10

// DashboardStore reads everything the admin dashboard shows.
type DashboardStore interface {
	ListBlogPosts(ctx context.Context, limit int64) ([]store.BlogPost, error)
	ListContactSubmissions(ctx context.Context) ([]store.ContactSubmission, error)
	ListDonations(ctx context.Context) ([]store.Donation, error)
	GetContactSubmission(ctx context.Context, id string) (store.ContactSubmission, error)
	MarkContactSubmissionRead(ctx context.Context, id string) (bool, error)
	ListRecentEvents(ctx context.Context, limit int64) ([]store.Event, error)
}

// Dashboard data sources, used as keys in Overview.Errors.
const (
	SourcePosts       = "posts"
	SourceSubmissions = "submissions"
	SourceDonations   = "donations"
	SourceEvents      = "events"
)

// Overview is everything the dashboard shows, with derived totals.
type Overview struct {
	Posts       []store.BlogPost
	Submissions []store.ContactSubmission
	Donations   []store.Donation
	Events      []store.Event

	PostCount      int
	MessageCount   int
	UnreadCount    int
	DonorCount     int
	TotalDonations int64

	// Errors holds the reads that failed; their slices stay empty.
	Errors map[string]error
}

// Failed reports whether the read for source failed.
func (o *Overview) Failed(source string) bool {
	_, ok := o.Errors[source]
	return ok
}

func (o *Overview) derive() {
	o.PostCount = len(o.Posts)
	o.MessageCount = len(o.Submissions)
	o.DonorCount = len(o.Donations)

	o.UnreadCount = 0
	for _, s := range o.Submissions {
		if s.Status == model.SubmissionStatusUnread {
			o.UnreadCount++
		}
	}

	o.TotalDonations = 0
	for _, d := range o.Donations {
		o.TotalDonations += d.Amount
	}
}

// DashboardService loads the admin overview.
type DashboardService struct {
	store  DashboardStore
	logger *slog.Logger
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(s DashboardStore, logger *slog.Logger) *DashboardService {
	return &DashboardService{store: s, logger: logger}
}

// Load reads posts, submissions, donations and recent events concurrently.
// A failed read is recorded in Overview.Errors and does not affect the others.
func (s *DashboardService) Load(ctx context.Context) *Overview {
	var (
		ov                                      Overview
		postsErr, subsErr, donationsErr, evtErr error
		g                                       errgroup.Group
	)

	g.Go(func() error {
		ov.Posts, postsErr = s.store.ListBlogPosts(ctx, model.DefaultPostListLimit)
		return nil
	})
	g.Go(func() error {
		ov.Submissions, subsErr = s.store.ListContactSubmissions(ctx)
		return nil
	})
	g.Go(func() error {
		ov.Donations, donationsErr = s.store.ListDonations(ctx)
		return nil
	})
	g.Go(func() error {
		ov.Events, evtErr = s.store.ListRecentEvents(ctx, recentEventLimit)
		return nil
	})
	_ = g.Wait()

	ov.Errors = make(map[string]error)
	for source, err := range map[string]error{
		SourcePosts:       postsErr,
		SourceSubmissions: subsErr,
		SourceDonations:   donationsErr,
		SourceEvents:      evtErr,
	} {
		if err != nil {
			ov.Errors[source] = err
			s.logger.Error("failed to load dashboard data", "source", source, "error", err)
		}
	}

	if postsErr != nil {
		ov.Posts = nil
	}
	if subsErr != nil {
		ov.Submissions = nil
	}
	if donationsErr != nil {
		ov.Donations = nil
	}
	if evtErr != nil {
		ov.Events = nil
	}

	ov.derive()
	return &ov
}

// Submission loads one submission for the detail view without changing it.
func (s *DashboardService) Submission(ctx context.Context, id string) (store.ContactSubmission, error) {
	sub, err := s.store.GetContactSubmission(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ContactSubmission{}, ErrSubmissionNotFound
	}
	if err != nil {
		return store.ContactSubmission{}, fmt.Errorf("getting contact submission: %w", err)
	}
	return sub, nil
}

// CloseSubmission marks the admin's copy of an unread submission as read,
// then writes the change. If the write fails the copy is rolled back and the
// failure is logged. A submission that is already read is left alone and
// nothing is written. It reports whether the stored status changed.
func (s *DashboardService) CloseSubmission(ctx context.Context, sub *store.ContactSubmission) bool {
	if sub.Status != model.SubmissionStatusUnread {
		return false
	}

	previous := sub.Status
	sub.Status = model.SubmissionStatusRead

	changed, err := s.store.MarkContactSubmissionRead(ctx, sub.ID)
	if err != nil {
		sub.Status = previous
		s.logger.Error("failed to mark submission as read", "error", err, "submission_id", sub.ID)
		return false
	}
	return changed
}
