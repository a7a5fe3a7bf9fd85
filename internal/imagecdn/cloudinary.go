// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imagecdn uploads blog images to Cloudinary using an unsigned
// upload preset.
package imagecdn

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"

	"github.com/greenpadconcepts/greenpad/internal/model"
	"github.com/greenpadconcepts/greenpad/internal/telemetry"
)

const (
	// DefaultBaseURL is the Cloudinary upload API root.
	DefaultBaseURL = "https://api.cloudinary.com/v1_1"
	uploadTimeout  = 60 * time.Second
	// maxResponseSize bounds how much of a response body is read.
	maxResponseSize = 1 << 20
)

// ErrNotConfigured is returned when no cloud name or preset is set.
var ErrNotConfigured = errors.New("image CDN not configured")

// Config holds the Cloudinary account settings.
type Config struct {
	CloudName    string
	UploadPreset string
	BaseURL      string
}

// Client uploads images to Cloudinary.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client. An empty BaseURL uses DefaultBaseURL.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: uploadTimeout},
		logger:     logger,
	}
}

func (c *Client) uploadURL() string {
	return fmt.Sprintf("%s/%s/image/upload", c.cfg.BaseURL, c.cfg.CloudName)
}

// Upload sends the file to Cloudinary. The upload succeeds only if the
// response carries a secure_url.
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader) (img model.UploadedImage, err error) {
	ctx, span := telemetry.StartSpan(ctx, "cloudinary.upload", attribute.String("upload.filename", filename))
	defer func() { telemetry.End(span, err) }()

	if c.cfg.CloudName == "" || c.cfg.UploadPreset == "" {
		return img, ErrNotConfigured
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return img, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return img, fmt.Errorf("reading upload: %w", err)
	}
	if err := mw.WriteField("upload_preset", c.cfg.UploadPreset); err != nil {
		return img, fmt.Errorf("writing form field: %w", err)
	}
	if err := mw.WriteField("cloud_name", c.cfg.CloudName); err != nil {
		return img, fmt.Errorf("writing form field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return img, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL(), &body)
	if err != nil {
		return img, fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return img, fmt.Errorf("upload request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return img, fmt.Errorf("reading upload response: %w", err)
	}

	result := gjson.ParseBytes(data)
	secureURL := result.Get("secure_url").String()
	if secureURL == "" {
		msg := result.Get("error.message").String()
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return img, fmt.Errorf("upload failed: %s", msg)
	}

	return model.UploadedImage{
		URL: secureURL,
		ID:  result.Get("public_id").String(),
	}, nil
}

// Delete is not wired to the signed destroy API; unsigned presets cannot
// delete. It logs the request and reports success.
func (c *Client) Delete(_ context.Context, publicID string) error {
	c.logger.Info("image delete requested, not supported for unsigned uploads", "public_id", publicID)
	return nil
}
