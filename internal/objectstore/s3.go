// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package objectstore uploads blog images to an S3 bucket. It is the
// alternative to the image CDN backend.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/otel/attribute"

	"github.com/greenpadconcepts/greenpad/internal/model"
	"github.com/greenpadconcepts/greenpad/internal/telemetry"
)

// API is the subset of the S3 client used here.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config selects the bucket and key layout.
type Config struct {
	Bucket string
	Region string
	Folder string
	// BaseURL replaces https://{bucket}.s3.{region}.amazonaws.com in public URLs.
	BaseURL string
}

// Store puts images into S3.
type Store struct {
	cfg Config
	api API
	now func() time.Time
}

// New loads the default AWS credential chain and returns a Store.
func New(ctx context.Context, cfg Config) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return NewWithAPI(cfg, s3.NewFromConfig(awsCfg)), nil
}

// NewWithAPI returns a Store using api.
func NewWithAPI(cfg Config, api API) *Store {
	return &Store{cfg: cfg, api: api, now: time.Now}
}

// Key returns the object key for filename uploaded at t.
func (s *Store) Key(filename string, t time.Time) string {
	name := strings.ReplaceAll(path.Base(strings.ReplaceAll(filename, "\\", "/")), " ", "_")
	key := fmt.Sprintf("%d_%s", t.UnixMilli(), name)
	if s.cfg.Folder == "" {
		return key
	}
	return strings.Trim(s.cfg.Folder, "/") + "/" + key
}

// URL returns the public URL of key.
func (s *Store) URL(key string) string {
	if s.cfg.BaseURL != "" {
		return strings.TrimRight(s.cfg.BaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

// Upload stores the file and returns its public URL and key.
func (s *Store) Upload(ctx context.Context, filename string, file io.Reader) (img model.UploadedImage, err error) {
	key := s.Key(filename, s.now())

	ctx, span := telemetry.StartSpan(ctx, "s3.put_object",
		attribute.String("s3.bucket", s.cfg.Bucket),
		attribute.String("s3.key", key),
	)
	defer func() { telemetry.End(span, err) }()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return img, fmt.Errorf("putting object %s: %w", key, err)
	}

	return model.UploadedImage{URL: s.URL(key), ID: key}, nil
}
