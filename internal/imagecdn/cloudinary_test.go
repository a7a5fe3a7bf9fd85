// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imagecdn

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenpadconcepts/greenpad/internal/testutil"
)

func fakeCloudinary(t *testing.T, status int, response string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/greenpad/image/upload", r.URL.Path)

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		assert.Equal(t, "blog_unsigned", r.FormValue("upload_preset"))
		assert.Equal(t, "greenpad", r.FormValue("cloud_name"))

		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer func() { _ = f.Close() }()
		content, _ := io.ReadAll(f)
		assert.Equal(t, "farm.jpg", hdr.Filename)
		assert.Equal(t, "jpeg-bytes", string(content))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(baseURL string) *Client {
	return NewClient(Config{CloudName: "greenpad", UploadPreset: "blog_unsigned", BaseURL: baseURL}, testutil.DiscardLogger())
}

func TestUpload_Success(t *testing.T) {
	srv := fakeCloudinary(t, http.StatusOK,
		`{"public_id":"blog/farm_abc","secure_url":"https://res.cloudinary.com/greenpad/image/upload/v1/blog/farm_abc.jpg","url":"http://res.cloudinary.com/x"}`)

	img, err := newTestClient(srv.URL).Upload(context.Background(), "farm.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "https://res.cloudinary.com/greenpad/image/upload/v1/blog/farm_abc.jpg", img.URL)
	assert.Equal(t, "blog/farm_abc", img.ID)
}

func TestUpload_ErrorBody(t *testing.T) {
	srv := fakeCloudinary(t, http.StatusBadRequest, `{"error":{"message":"Upload preset not found"}}`)

	_, err := newTestClient(srv.URL).Upload(context.Background(), "farm.jpg", strings.NewReader("jpeg-bytes"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Upload preset not found")
}

func TestUpload_NoSecureURL(t *testing.T) {
	srv := fakeCloudinary(t, http.StatusOK, `{"public_id":"x"}`)

	_, err := newTestClient(srv.URL).Upload(context.Background(), "farm.jpg", strings.NewReader("jpeg-bytes"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 200")
}

func TestUpload_NotConfigured(t *testing.T) {
	c := NewClient(Config{}, testutil.DiscardLogger())

	_, err := c.Upload(context.Background(), "farm.jpg", strings.NewReader("x"))
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestDelete_ReportsSuccess(t *testing.T) {
	assert.NoError(t, newTestClient("").Delete(context.Background(), "blog/farm_abc"))
}
