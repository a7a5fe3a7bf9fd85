// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/greenpadconcepts/greenpad/internal/model"
)

const testSecret = "test-Secret-key-32-bytes-long!!!"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	t.Setenv(key, value)
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setEnv(t, "GREENPAD_SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/greenpad.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/greenpad.db")
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr() = %q, want localhost:8080", cfg.ServerAddr())
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development mode by default")
	}
	if cfg.UploadBackend != UploadBackendCloudinary {
		t.Errorf("UploadBackend = %q, want %q", cfg.UploadBackend, UploadBackendCloudinary)
	}
	if cfg.EmailJS.ContactInbox != model.DefaultContactInbox {
		t.Errorf("ContactInbox = %q, want %q", cfg.EmailJS.ContactInbox, model.DefaultContactInbox)
	}
	if cfg.S3.Folder != "blog-images" {
		t.Errorf("S3.Folder = %q, want blog-images", cfg.S3.Folder)
	}
	if cfg.TracingEnabled() {
		t.Error("tracing should be off without an endpoint")
	}
	if cfg.RedisURL != "" || cfg.CacheTTL != 5*time.Minute {
		t.Errorf("cache = %q/%v, want in-memory with 5m TTL", cfg.RedisURL, cfg.CacheTTL)
	}
	if cfg.UploadMaxWidth != 1600 {
		t.Errorf("UploadMaxWidth = %d, want 1600", cfg.UploadMaxWidth)
	}
	if cfg.EventRetentionDays != 30 {
		t.Errorf("EventRetentionDays = %d, want 30", cfg.EventRetentionDays)
	}
	if cfg.Paystack.Enabled() || cfg.EmailJS.Enabled() || cfg.Cloudinary.Enabled() {
		t.Error("vendor integrations should be disabled by default")
	}
}

func TestLoad_VendorSections(t *testing.T) {
	os.Clearenv()
	setEnv(t, "GREENPAD_SESSION_SECRET", testSecret)
	setEnv(t, "GREENPAD_CLOUDINARY_CLOUD_NAME", "greenpad")
	setEnv(t, "GREENPAD_CLOUDINARY_UPLOAD_PRESET", "blog")
	setEnv(t, "GREENPAD_PAYSTACK_PUBLIC_KEY", "pk_test_1")
	setEnv(t, "GREENPAD_EMAILJS_SERVICE_ID", "service_1")
	setEnv(t, "GREENPAD_EMAILJS_PUBLIC_KEY", "public_1")
	setEnv(t, "GREENPAD_EMAILJS_CONTACT_INBOX", "team@example.org")
	setEnv(t, "GREENPAD_OTEL_ENDPOINT", "http://localhost:4318")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if !cfg.Cloudinary.Enabled() {
		t.Error("Cloudinary should be enabled")
	}
	if !cfg.Paystack.Enabled() {
		t.Error("Paystack should be enabled")
	}
	if !cfg.EmailJS.Enabled() {
		t.Error("EmailJS should be enabled")
	}
	if cfg.EmailJS.ContactInbox != "team@example.org" {
		t.Errorf("ContactInbox = %q", cfg.EmailJS.ContactInbox)
	}
	if !cfg.TracingEnabled() {
		t.Error("tracing should be enabled")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing secret",
			env:     map[string]string{},
			wantErr: "GREENPAD_SESSION_SECRET",
		},
		{
			name:    "short secret",
			env:     map[string]string{"GREENPAD_SESSION_SECRET": "short"},
			wantErr: "at least 32 bytes",
		},
		{
			name:    "weak secret",
			env:     map[string]string{"GREENPAD_SESSION_SECRET": "change-me-to-32-byte-secret-key!"},
			wantErr: "known default value",
		},
		{
			name: "s3 without bucket",
			env: map[string]string{
				"GREENPAD_SESSION_SECRET": testSecret,
				"GREENPAD_UPLOAD_BACKEND": "s3",
			},
			wantErr: "GREENPAD_S3_BUCKET",
		},
		{
			name: "unknown backend",
			env: map[string]string{
				"GREENPAD_SESSION_SECRET": testSecret,
				"GREENPAD_UPLOAD_BACKEND": "ftp",
			},
			wantErr: "GREENPAD_UPLOAD_BACKEND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tt.env {
				setEnv(t, k, v)
			}

			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_S3Backend(t *testing.T) {
	os.Clearenv()
	setEnv(t, "GREENPAD_SESSION_SECRET", testSecret)
	setEnv(t, "GREENPAD_UPLOAD_BACKEND", "s3")
	setEnv(t, "GREENPAD_S3_BUCKET", "greenpad-media")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.S3.Region != "us-east-1" {
		t.Errorf("S3.Region = %q, want us-east-1", cfg.S3.Region)
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", false},
		{"abcdefABCDEFabcdefABCDEFabcdefAB", false},
		{"abcABC123abcABC123abcABC123abcAB", true},
		{"abc-123-abc-123-abc-123-abc-123!", true},
	}

	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.in); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
