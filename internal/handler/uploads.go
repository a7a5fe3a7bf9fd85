// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/greenpadconcepts/greenpad/internal/imaging"
	"github.com/greenpadconcepts/greenpad/internal/model"
)

// ImageUploader stores an image and returns its public URL. Both the CDN
// client and the object store implement it.
type ImageUploader interface {
	Upload(ctx context.Context, filename string, file io.Reader) (model.UploadedImage, error)
}

// UploadHandler accepts blog images from the post editor.
type UploadHandler struct {
	uploader  ImageUploader
	processor *imaging.Processor
}

// NewUploadHandler creates a new UploadHandler. Images are normalized by
// processor before they are uploaded.
func NewUploadHandler(uploader ImageUploader, processor *imaging.Processor) *UploadHandler {
	return &UploadHandler{uploader: uploader, processor: processor}
}

// Upload handles POST /admin/dashboard/uploads. It responds with
// {"success":true,"url":...} or {"success":false,"error":...}.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSONError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	if ct := header.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		writeJSONError(w, http.StatusBadRequest, "only image files can be uploaded")
		return
	}

	processed, err := h.processor.Process(file, header.Filename)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			writeJSONError(w, http.StatusBadRequest, "only JPEG, PNG, GIF and WebP images are supported")
			return
		}
		slog.Warn("rejected unreadable image", "error", err, "filename", header.Filename)
		writeJSONError(w, http.StatusBadRequest, "the image could not be read")
		return
	}

	img, err := h.uploader.Upload(r.Context(), processed.Filename, bytes.NewReader(processed.Data))
	if err != nil {
		slog.Error("image upload failed", "error", err, "filename", processed.Filename)
		writeJSONError(w, http.StatusBadGateway, err.Error())
		return
	}

	slog.Info("image uploaded", "url", img.URL, "id", img.ID, "width", processed.Width, "height", processed.Height)
	writeJSONSuccess(w, map[string]any{
		"url":    img.URL,
		"id":     img.ID,
		"width":  processed.Width,
		"height": processed.Height,
	})
}
