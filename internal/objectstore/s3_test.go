// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package objectstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	put  *s3.PutObjectInput
	body string
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.put = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func newTestStore(api API, cfg Config) *Store {
	s := NewWithAPI(cfg, api)
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return s
}

func TestUpload(t *testing.T) {
	api := &fakeS3{}
	s := newTestStore(api, Config{Bucket: "greenpad-media", Region: "eu-west-1", Folder: "blog-images"})

	img, err := s.Upload(context.Background(), "river clean-up.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "blog-images/1700000000123_river_clean-up.png", img.ID)
	assert.Equal(t, "https://greenpad-media.s3.eu-west-1.amazonaws.com/blog-images/1700000000123_river_clean-up.png", img.URL)
	require.NotNil(t, api.put)
	assert.Equal(t, "greenpad-media", aws.ToString(api.put.Bucket))
	assert.Equal(t, "image/png", aws.ToString(api.put.ContentType))
	assert.Equal(t, "png-bytes", api.body)
}

func TestUpload_BaseURLAndNoFolder(t *testing.T) {
	s := newTestStore(&fakeS3{}, Config{Bucket: "b", Region: "r", BaseURL: "https://cdn.example.org/"})

	img, err := s.Upload(context.Background(), `C:\photos\tree`, strings.NewReader("x"))
	require.NoError(t, err)

	assert.Equal(t, "1700000000123_tree", img.ID)
	assert.Equal(t, "https://cdn.example.org/1700000000123_tree", img.URL)
}

func TestUpload_Error(t *testing.T) {
	s := newTestStore(&fakeS3{err: errors.New("access denied")}, Config{Bucket: "b", Region: "r"})

	_, err := s.Upload(context.Background(), "a.jpg", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}
