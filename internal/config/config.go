// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the server configuration from GREENPAD_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/greenpadconcepts/greenpad/internal/model"
)

// knownWeakSecrets contains example secrets that must never be used.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// MinSessionSecretLength is the minimum length of the session secret in bytes.
const MinSessionSecretLength = 32

// Upload backends.
const (
	UploadBackendCloudinary = "cloudinary"
	UploadBackendS3         = "s3"
)

// Config holds the application configuration.
type Config struct {
	DBPath        string `env:"GREENPAD_DB_PATH" envDefault:"./data/greenpad.db"`
	SessionSecret string `env:"GREENPAD_SESSION_SECRET,required"`
	ServerHost    string `env:"GREENPAD_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"GREENPAD_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"GREENPAD_ENV" envDefault:"development"`
	LogLevel      string `env:"GREENPAD_LOG_LEVEL" envDefault:"info"`
	// Public base URL for the sitemap; taken from the request host when empty
	SiteURL string `env:"GREENPAD_SITE_URL"`

	// Administrator created on first start
	AdminEmail    string `env:"GREENPAD_ADMIN_EMAIL"`
	AdminPassword string `env:"GREENPAD_ADMIN_PASSWORD"`
	AdminName     string `env:"GREENPAD_ADMIN_NAME" envDefault:"Administrator"`

	Cloudinary Cloudinary `envPrefix:"GREENPAD_CLOUDINARY_"`
	S3         S3         `envPrefix:"GREENPAD_S3_"`
	Paystack   Paystack   `envPrefix:"GREENPAD_PAYSTACK_"`
	EmailJS    EmailJS    `envPrefix:"GREENPAD_EMAILJS_"`

	UploadBackend string `env:"GREENPAD_UPLOAD_BACKEND" envDefault:"cloudinary"`
	// Wider uploads are scaled down before they leave the server
	UploadMaxWidth int `env:"GREENPAD_UPLOAD_MAX_WIDTH" envDefault:"1600"`

	// Blog post cache; Redis when a URL is set, in memory otherwise
	RedisURL string        `env:"GREENPAD_REDIS_URL"`
	CacheTTL time.Duration `env:"GREENPAD_CACHE_TTL" envDefault:"5m"`

	// Dashboard events older than this are deleted nightly
	EventRetentionDays int `env:"GREENPAD_EVENT_RETENTION_DAYS" envDefault:"30"`

	// OTLP/HTTP endpoint; tracing is off when empty
	OTelEndpoint string `env:"GREENPAD_OTEL_ENDPOINT"`
}

// Cloudinary configures unsigned image uploads.
type Cloudinary struct {
	CloudName    string `env:"CLOUD_NAME"`
	UploadPreset string `env:"UPLOAD_PRESET"`
}

// Enabled reports whether uploads to Cloudinary are possible.
func (c Cloudinary) Enabled() bool {
	return c.CloudName != "" && c.UploadPreset != ""
}

// S3 configures the object storage upload backend.
type S3 struct {
	Bucket  string `env:"BUCKET"`
	Region  string `env:"REGION" envDefault:"us-east-1"`
	BaseURL string `env:"BASE_URL"` // overrides the virtual-hosted bucket URL
	Folder  string `env:"FOLDER" envDefault:"blog-images"`
}

// Enabled reports whether a bucket is configured.
func (s S3) Enabled() bool {
	return s.Bucket != ""
}

// Paystack configures the payment widget and server-side verification.
type Paystack struct {
	PublicKey string `env:"PUBLIC_KEY"`
	SecretKey string `env:"SECRET_KEY"`
}

// Enabled reports whether the donation widget can be shown.
func (p Paystack) Enabled() bool {
	return p.PublicKey != ""
}

// EmailJS configures transactional email.
type EmailJS struct {
	ServiceID          string `env:"SERVICE_ID"`
	ContactTemplateID  string `env:"CONTACT_TEMPLATE_ID"`
	DonationTemplateID string `env:"DONATION_TEMPLATE_ID"`
	PublicKey          string `env:"PUBLIC_KEY"`
	PrivateKey         string `env:"PRIVATE_KEY"`
	ContactInbox       string `env:"CONTACT_INBOX"`
}

// Enabled reports whether email can be sent through EmailJS.
func (e EmailJS) Enabled() bool {
	return e.ServiceID != "" && e.PublicKey != ""
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// TracingEnabled reports whether spans are exported.
func (c Config) TracingEnabled() bool {
	return c.OTelEndpoint != ""
}

// Load parses environment variables and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.EmailJS.ContactInbox == "" {
		cfg.EmailJS.ContactInbox = model.DefaultContactInbox
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("GREENPAD_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("GREENPAD_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return errors.New("GREENPAD_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	switch c.UploadBackend {
	case UploadBackendCloudinary:
	case UploadBackendS3:
		if !c.S3.Enabled() {
			return errors.New("GREENPAD_UPLOAD_BACKEND=s3 requires GREENPAD_S3_BUCKET")
		}
	default:
		return fmt.Errorf("GREENPAD_UPLOAD_BACKEND must be %q or %q, got %q",
			UploadBackendCloudinary, UploadBackendS3, c.UploadBackend)
	}

	return nil
}

// hasMinimumEntropy checks that a secret mixes at least 3 character classes.
func hasMinimumEntropy(s string) bool {
	classes := []string{
		"abcdefghijklmnopqrstuvwxyz",
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		"0123456789",
		"!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\",
	}

	n := 0
	for _, class := range classes {
		if strings.ContainsAny(s, class) {
			n++
		}
	}
	return n >= 3
}
