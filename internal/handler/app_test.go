// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/greenpadconcepts/greenpad/internal/auth"
	"github.com/greenpadconcepts/greenpad/internal/cache"
	"github.com/greenpadconcepts/greenpad/internal/email"
	"github.com/greenpadconcepts/greenpad/internal/imaging"
	"github.com/greenpadconcepts/greenpad/internal/middleware"
	"github.com/greenpadconcepts/greenpad/internal/model"
	"github.com/greenpadconcepts/greenpad/internal/payment"
	"github.com/greenpadconcepts/greenpad/internal/render"
	"github.com/greenpadconcepts/greenpad/internal/service"
	"github.com/greenpadconcepts/greenpad/internal/session"
	"github.com/greenpadconcepts/greenpad/internal/store"
	"github.com/greenpadconcepts/greenpad/internal/testutil"
	"github.com/greenpadconcepts/greenpad/web"
)

const (
	testAdminEmail    = "admin@greenpad.test"
	testAdminPassword = "correct-horse-battery"
	testInbox         = "hello@greenpad.test"
)

var errRemote = errors.New("remote unavailable")

type fakeMailer struct {
	mu            sync.Mutex
	err           error
	contacts      []email.ContactNotification
	confirmations []email.DonationConfirmation
}

func (m *fakeMailer) SendContactNotification(_ context.Context, n email.ContactNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.contacts = append(m.contacts, n)
	return nil
}

func (m *fakeMailer) SendDonationConfirmation(_ context.Context, d email.DonationConfirmation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.confirmations = append(m.confirmations, d)
	return nil
}

type fakeUploader struct {
	err      error
	filename string
	body     []byte
}

func (u *fakeUploader) Upload(_ context.Context, filename string, r io.Reader) (model.UploadedImage, error) {
	if u.err != nil {
		return model.UploadedImage{}, u.err
	}
	u.filename = filename
	u.body, _ = io.ReadAll(r)
	return model.UploadedImage{URL: "https://cdn.greenpad.test/" + filename, ID: "greenpad/" + filename}, nil
}

// testApp is the full router over a migrated database. Posts created with
// createPost bypass the post cache, so create them before the first request.
type testApp struct {
	server   *httptest.Server
	client   *http.Client
	db       *sql.DB
	queries  *store.Queries
	mailer   *fakeMailer
	uploader *fakeUploader
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	ctx := context.Background()
	admin := store.AdminSeed{Email: testAdminEmail, Password: testAdminPassword, Name: "Admin"}
	if err := store.Seed(ctx, db, admin, auth.HashPassword); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	logger := testutil.DiscardLogger()
	sessions := session.New(db, true)
	t.Cleanup(sessions.Close)

	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("fs.Sub: %v", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS: templates,
		Sessions:    sessions,
		Site:        render.Site{Name: "GreenPad Concepts"},
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	app := &testApp{
		db:       db,
		queries:  store.New(db),
		mailer:   &fakeMailer{},
		uploader: &fakeUploader{},
	}

	provider := auth.NewProvider(db, logger)
	gateway := payment.NewGateway(payment.Config{})
	postCache := cache.NewMemoryCache(time.Minute, 0)
	t.Cleanup(func() { _ = postCache.Close() })
	blog := service.NewBlogService(cache.NewPosts(app.queries, postCache, logger), logger)

	r := chi.NewRouter()
	r.Use(sessions.LoadAndSave)
	r.Use(middleware.LoadIdentity(sessions, provider, logger))
	RegisterRoutes(r, Handlers{
		Frontend: NewFrontendHandler(renderer, blog),
		Contact:  NewContactHandler(renderer, service.NewContactService(app.queries, app.mailer, testInbox, logger), testInbox),
		Donate:   NewDonateHandler(renderer, sessions, service.NewDonationService(app.queries, gateway, app.mailer, logger)),
		Auth:     NewAuthHandler(renderer, sessions, provider),
		Admin:    NewAdminHandler(renderer, service.NewDashboardService(app.queries, logger), blog),
		Uploads:  NewUploadHandler(app.uploader, imaging.NewProcessor(64)),
		API:      NewAPIHandler(blog),
		Health:   NewHealthHandler(db, "test"),
		SEO:      NewSEOHandler(blog, "", false),
	})

	app.server = httptest.NewServer(r)
	t.Cleanup(app.server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	app.client = &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return app
}

func (a *testApp) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp, string(body)
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, a.server.URL+path, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return a.do(t, req)
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(t, req)
}

func (a *testApp) postFile(t *testing.T, path, filename, contentType string, content []byte) (*http.Response, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	_, _ = part.Write(content)
	_ = mw.Close()

	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.do(t, req)
}

// followFlash follows a redirect and returns the page that shows the flash.
func (a *testApp) followFlash(t *testing.T, resp *http.Response) string {
	t.Helper()
	assertStatus(t, resp.StatusCode, http.StatusSeeOther)
	loc := resp.Header.Get("Location")
	if loc == "" {
		t.Fatal("redirect without Location header")
	}
	_, body := a.get(t, loc)
	return body
}

func (a *testApp) signIn(t *testing.T) {
	t.Helper()
	resp, _ := a.postForm(t, RouteAdmin, url.Values{
		"email":    {testAdminEmail},
		"password": {testAdminPassword},
	})
	assertStatus(t, resp.StatusCode, http.StatusSeeOther)
	assertLocation(t, resp, RouteDashboard)
}

func (a *testApp) createPost(t *testing.T, title, category, content string) store.BlogPost {
	t.Helper()
	post, err := a.queries.CreateBlogPost(context.Background(), store.CreateBlogPostParams{
		Title:    title,
		Content:  content,
		Excerpt:  "Excerpt for " + title,
		Category: category,
		Author:   "GreenPad Team",
		ReadTime: "4 min read",
	})
	if err != nil {
		t.Fatalf("CreateBlogPost: %v", err)
	}
	return post
}

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
}

func assertLocation(t *testing.T, resp *http.Response, want string) {
	t.Helper()
	if got := resp.Header.Get("Location"); got != want {
		t.Fatalf("Location = %q, want %q", got, want)
	}
}

func assertContains(t *testing.T, body, want string) {
	t.Helper()
	if !strings.Contains(body, want) {
		t.Errorf("body does not contain %q", want)
	}
}

func assertNotContains(t *testing.T, body, unwanted string) {
	t.Helper()
	if strings.Contains(body, unwanted) {
		t.Errorf("body unexpectedly contains %q", unwanted)
	}
}

func decodeJSON(t *testing.T, body string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		t.Fatalf("invalid JSON %q: %v", body, err)
	}
	return m
}
