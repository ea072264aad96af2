// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/olegiv/instcms/internal/middleware"
	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/service"
)

// multipartOverhead is allowed on top of the file size for headers and the
// kind field.
const multipartOverhead = 1 << 20

// Upload handles POST /api/admin/uploads: multipart field "file" with an
// optional "kind" of image or document.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	if h.uploads == nil {
		WriteError(w, http.StatusServiceUnavailable, "Uploads are not configured")
		return
	}

	maxBytes := h.uploads.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		WriteBadRequest(w, "Invalid multipart form")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteValidationError(w, map[string]string{"file": "File is required"})
		return
	}
	defer func() { _ = file.Close() }()

	kind := r.FormValue("kind")
	stored, err := h.uploads.Save(file, header.Filename, kind)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrUploadTooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	case errors.Is(err, service.ErrUploadType), errors.Is(err, service.ErrUploadEmpty):
		WriteValidationError(w, map[string]string{"file": capitalizeFirst(err.Error())})
		return
	case errors.Is(err, service.ErrUploadKind):
		WriteValidationError(w, map[string]string{"kind": capitalizeFirst(err.Error())})
		return
	default:
		h.writeInternalError(w, r, "Failed to store upload", err)
		return
	}

	h.record(r, user, service.AuditEvent{
		Category:   model.EventCategoryMedia,
		Action:     model.ActionUpload,
		EntityType: model.EntityUpload,
		Message:    "File uploaded: " + stored.OriginalName,
		Metadata: map[string]any{
			"path":      stored.Path,
			"mime_type": stored.MimeType,
			"size":      stored.Size,
		},
	})
	WriteSuccess(w, stored)
}
