// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/olegiv/instcms/internal/middleware"
	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/service"
	"github.com/olegiv/instcms/internal/store"
)

// PublicationResponse represents a circular or a NewsLine issue.
type PublicationResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Month       int64     `json:"month"`
	Year        int64     `json:"year"`
	FilePath    string    `json:"file_path"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func publicationResponse(p store.Publication) PublicationResponse {
	return PublicationResponse{
		ID:          p.ID,
		Title:       p.Title,
		Month:       p.Month,
		Year:        p.Year,
		FilePath:    p.FilePath,
		Description: p.Description,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// PublicationRequest is the body of a publication create.
type PublicationRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Month       int64  `json:"month" validate:"required,gte=1,lte=12"`
	Year        int64  `json:"year" validate:"required,gte=1900,lte=2200"`
	FilePath    string `json:"file_path" validate:"max=500,localpath"`
	Description string `json:"description" validate:"max=2000"`
	IsActive    *bool  `json:"is_active"`
}

// UpdatePublicationRequest is the body of a partial publication update.
type UpdatePublicationRequest struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=255"`
	Month       *int64  `json:"month" validate:"omitnil,gte=1,lte=12"`
	Year        *int64  `json:"year" validate:"omitnil,gte=1900,lte=2200"`
	FilePath    *string `json:"file_path" validate:"omitempty,max=500,localpath"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	IsActive    *bool   `json:"is_active"`
}

func publicationEntity(kind model.PublicationKind) string {
	if kind == model.PublicationNewsLine {
		return model.EntityNewsLine
	}
	return model.EntityCircular
}

// ListPublications serves GET /api/circulars and /api/newsline: active
// issues newest first, optionally for one ?year= and ?month=.
func (h *Handler) ListPublications(kind model.PublicationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.listPublications(w, r, kind, true)
	}
}

// AdminListPublications serves the admin listing of kind, inactive rows included.
func (h *Handler) AdminListPublications(kind model.PublicationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.listPublications(w, r, kind, false)
	}
}

func (h *Handler) listPublications(w http.ResponseWriter, r *http.Request, kind model.PublicationKind, activeOnly bool) {
	ctx := r.Context()
	page, limit, offset := h.page(r)

	f := store.PublicationFilter{
		ActiveOnly: activeOnly,
		Year:       queryInt(r, "year"),
		Month:      queryInt(r, "month"),
	}

	total, err := h.queries.CountPublications(ctx, kind, f)
	if err != nil {
		h.writeInternalError(w, r, "Failed to count "+kind.Label()+"s", err)
		return
	}
	items, err := h.queries.ListPublications(ctx, kind, f, store.Paging{Limit: int64(limit), Offset: offset})
	if err != nil {
		h.writeInternalError(w, r, "Failed to list "+kind.Label()+"s", err)
		return
	}

	data := make([]PublicationResponse, 0, len(items))
	for _, p := range items {
		data = append(data, publicationResponse(p))
	}
	WriteList(w, data, pagination(page, limit, total))
}

// PublicationArchive serves GET /api/circulars/archive and
// /api/newsline/archive: {"2024":[{"month":3,"count":1}]}.
func (h *Handler) PublicationArchive(kind model.PublicationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		archive, err := h.archive.Archive(r.Context(), kind)
		if err != nil {
			h.writeInternalError(w, r, "Failed to load archive", err)
			return
		}
		WriteSuccess(w, archive)
	}
}

// GetPublication serves a single publication by id.
func (h *Handler) GetPublication(kind model.PublicationKind, activeOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		p, err := h.queries.GetPublicationByID(r.Context(), kind, id)
		if err == nil && activeOnly && !p.IsActive {
			WriteNotFound(w, capitalizeFirst(kind.Label())+" not found")
			return
		}
		if err != nil {
			h.WriteServiceError(w, r, kind.Label(), err)
			return
		}
		WriteSuccess(w, publicationResponse(p))
	}
}

// CreatePublication serves POST on the admin collection of kind.
// A second issue for the same (year, month) is a 409.
func (h *Handler) CreatePublication(kind model.PublicationKind) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
		ctx := r.Context()

		var req PublicationRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		taken, err := h.queries.PublicationPeriodExists(ctx, kind, req.Year, req.Month, 0)
		if err != nil {
			h.WriteServiceError(w, r, kind.Label(), err)
			return
		}
		if taken {
			WriteError(w, http.StatusConflict, periodTakenMessage(kind.Label()))
			return
		}

		now := h.now()
		p, err := h.queries.CreatePublication(ctx, kind, store.CreatePublicationParams{
			Title:       service.PlainText(req.Title),
			Month:       req.Month,
			Year:        req.Year,
			FilePath:    req.FilePath,
			Description: service.PlainText(req.Description),
			IsActive:    boolOr(req.IsActive, true),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			h.WriteServiceError(w, r, kind.Label(), err)
			return
		}

		h.archive.Invalidate(ctx, kind)
		h.recordContent(r, user, model.ActionCreate, publicationEntity(kind), p.ID, p.Title)
		WriteCreated(w, p.ID, publicationResponse(p))
	}
}

// UpdatePublication serves PUT/PATCH on one admin publication of kind.
func (h *Handler) UpdatePublication(kind model.PublicationKind) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
		ctx := r.Context()

		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req UpdatePublicationRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		p, err := h.queries.GetPublicationByID(ctx, kind, id)
		if err != nil {
			h.WriteServiceError(w, r, kind.Label(), err)
			return
		}

		if req.Title != nil {
			p.Title = service.PlainText(*req.Title)
		}
		periodChanged := (req.Year != nil && *req.Year != p.Year) || (req.Month != nil && *req.Month != p.Month)
		set(&p.Year, req.Year)
		set(&p.Month, req.Month)
		set(&p.FilePath, req.FilePath)
		if req.Description != nil {
			p.Description = service.PlainText(*req.Description)
		}
		set(&p.IsActive, req.IsActive)

		if periodChanged {
			taken, err := h.queries.PublicationPeriodExists(ctx, kind, p.Year, p.Month, p.ID)
			if err != nil {
				h.WriteServiceError(w, r, kind.Label(), err)
				return
			}
			if taken {
				WriteError(w, http.StatusConflict, periodTakenMessage(kind.Label()))
				return
			}
		}

		updated, err := h.queries.UpdatePublication(ctx, kind, store.UpdatePublicationParams{
			ID:          p.ID,
			Title:       p.Title,
			Month:       p.Month,
			Year:        p.Year,
			FilePath:    p.FilePath,
			Description: p.Description,
			IsActive:    p.IsActive,
			UpdatedAt:   h.now(),
		})
		if err != nil {
			h.WriteServiceError(w, r, kind.Label(), err)
			return
		}

		h.archive.Invalidate(ctx, kind)
		h.recordContent(r, user, model.ActionUpdate, publicationEntity(kind), updated.ID, updated.Title)
		WriteSuccess(w, publicationResponse(updated))
	}
}

// DeletePublication serves DELETE on one admin publication of kind.
func (h *Handler) DeletePublication(kind model.PublicationKind) authedFunc {
	return func(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := h.queries.SoftDeletePublication(r.Context(), kind, id, h.now()); err != nil {
			h.WriteServiceError(w, r, kind.Label(), err)
			return
		}

		h.archive.Invalidate(r.Context(), kind)
		h.recordContent(r, user, model.ActionDelete, publicationEntity(kind), id, "#"+formatID(id))
		WriteMessage(w, capitalizeFirst(kind.Label())+" deleted")
	}
}
