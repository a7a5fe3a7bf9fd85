// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/greenpadconcepts/greenpad/internal/email"
	"github.com/greenpadconcepts/greenpad/internal/model"
	"github.com/greenpadconcepts/greenpad/internal/payment"
	"github.com/greenpadconcepts/greenpad/internal/store"
)

var errFake = errors.New("remote unavailable")

// fakeBlogStore keeps posts in memory and stamps them with a stepping clock.
type fakeBlogStore struct {
	mu    sync.Mutex
	posts []store.BlogPost
	seq   int
	clock time.Time
	err   error
}

func newFakeBlogStore() *fakeBlogStore {
	return &fakeBlogStore{clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeBlogStore) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fakeBlogStore) CreateBlogPost(_ context.Context, arg store.CreateBlogPostParams) (store.BlogPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return store.BlogPost{}, f.err
	}
	f.seq++
	now := f.tick()
	p := store.BlogPost{
		ID: "post-" + strconv.Itoa(f.seq), Title: arg.Title, Content: arg.Content, Excerpt: arg.Excerpt,
		Image: arg.Image, Category: arg.Category, Author: arg.Author, ReadTime: arg.ReadTime,
		CreatedAt: now, UpdatedAt: now,
	}
	f.posts = append(f.posts, p)
	return p, nil
}

func (f *fakeBlogStore) UpdateBlogPost(_ context.Context, arg store.UpdateBlogPostParams) (store.BlogPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.posts {
		if p.ID == arg.ID {
			p.Title, p.Content, p.Excerpt, p.Image = arg.Title, arg.Content, arg.Excerpt, arg.Image
			p.Category, p.Author, p.ReadTime = arg.Category, arg.Author, arg.ReadTime
			p.UpdatedAt = f.tick()
			f.posts[i] = p
			return p, nil
		}
	}
	return store.BlogPost{}, sql.ErrNoRows
}

func (f *fakeBlogStore) DeleteBlogPost(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.posts {
		if p.ID == id {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeBlogStore) GetBlogPost(_ context.Context, id string) (store.BlogPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return store.BlogPost{}, sql.ErrNoRows
}

func (f *fakeBlogStore) sorted(keep func(store.BlogPost) bool) []store.BlogPost {
	out := []store.BlogPost{}
	for _, p := range f.posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeBlogStore) ListBlogPosts(_ context.Context, limit int64) ([]store.BlogPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := f.sorted(func(store.BlogPost) bool { return true })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeBlogStore) ListBlogPostsByCategory(_ context.Context, category string) ([]store.BlogPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.sorted(func(p store.BlogPost) bool { return p.Category == category }), nil
}

type fakeContactStore struct {
	mu      sync.Mutex
	created []store.CreateContactSubmissionParams
	err     error
}

func (f *fakeContactStore) CreateContactSubmission(_ context.Context, arg store.CreateContactSubmissionParams) (store.ContactSubmission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return store.ContactSubmission{}, f.err
	}
	f.created = append(f.created, arg)
	return store.ContactSubmission{
		ID: "sub-" + strconv.Itoa(len(f.created)), Name: arg.Name, Email: arg.Email,
		Subject: arg.Subject, Message: arg.Message, Status: model.SubmissionStatusUnread,
	}, nil
}

// fakeMailer records every send attempt.
type fakeMailer struct {
	mu        sync.Mutex
	contacts  []email.ContactNotification
	donations []email.DonationConfirmation
	err       error
}

func (f *fakeMailer) SendContactNotification(_ context.Context, n email.ContactNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contacts = append(f.contacts, n)
	return f.err
}

func (f *fakeMailer) SendDonationConfirmation(_ context.Context, d email.DonationConfirmation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.donations = append(f.donations, d)
	return f.err
}

type fakeDonationStore struct {
	created []store.CreateDonationParams
	err     error
}

func (f *fakeDonationStore) CreateDonation(_ context.Context, arg store.CreateDonationParams) (store.Donation, error) {
	if f.err != nil {
		return store.Donation{}, f.err
	}
	f.created = append(f.created, arg)
	return store.Donation{
		ID: "don-" + strconv.Itoa(len(f.created)), Name: arg.Name, Email: arg.Email, Amount: arg.Amount,
		Type: arg.Type, Status: arg.Status, TransactionID: arg.TransactionID,
	}, nil
}

type fakeGateway struct {
	*payment.Gateway
	remote    bool
	verified  []string
	verifyErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{Gateway: payment.NewGateway(payment.Config{PublicKey: "pk_test"})}
}

func (f *fakeGateway) VerifiesRemotely() bool {
	return f.remote
}

func (f *fakeGateway) Verify(_ context.Context, reference string, _ int64) error {
	f.verified = append(f.verified, reference)
	return f.verifyErr
}

type fakeDashboardStore struct {
	posts       []store.BlogPost
	submissions []store.ContactSubmission
	donations   []store.Donation
	events      []store.Event

	postsErr, subsErr, donationsErr, eventsErr, markErr error

	markCalls int
}

func (f *fakeDashboardStore) ListBlogPosts(context.Context, int64) ([]store.BlogPost, error) {
	return f.posts, f.postsErr
}

func (f *fakeDashboardStore) ListContactSubmissions(context.Context) ([]store.ContactSubmission, error) {
	return f.submissions, f.subsErr
}

func (f *fakeDashboardStore) ListDonations(context.Context) ([]store.Donation, error) {
	return f.donations, f.donationsErr
}

func (f *fakeDashboardStore) ListRecentEvents(context.Context, int64) ([]store.Event, error) {
	return f.events, f.eventsErr
}

func (f *fakeDashboardStore) GetContactSubmission(_ context.Context, id string) (store.ContactSubmission, error) {
	for _, s := range f.submissions {
		if s.ID == id {
			return s, nil
		}
	}
	return store.ContactSubmission{}, sql.ErrNoRows
}

func (f *fakeDashboardStore) MarkContactSubmissionRead(_ context.Context, id string) (bool, error) {
	f.markCalls++
	if f.markErr != nil {
		return false, f.markErr
	}
	for i, s := range f.submissions {
		if s.ID == id && s.Status == model.SubmissionStatusUnread {
			f.submissions[i].Status = model.SubmissionStatusRead
			return true, nil
		}
	}
	return false, nil
}
