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
	"github.com/olegiv/instcms/internal/util"
)

const galleryLabel = "gallery item"

// GalleryItemResponse represents a gallery photo.
type GalleryItemResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	Thumbnail   string     `json:"thumbnail"`
	Album       string     `json:"album"`
	SortOrder   int64      `json:"sort_order"`
	IsFeatured  bool       `json:"is_featured"`
	IsActive    bool       `json:"is_active"`
	TakenAt     *time.Time `json:"taken_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func galleryResponse(g store.GalleryItem) GalleryItemResponse {
	return GalleryItemResponse{
		ID:          g.ID,
		Title:       g.Title,
		Slug:        g.Slug,
		Description: g.Description,
		Image:       g.Image,
		Thumbnail:   g.Thumbnail,
		Album:       g.Album,
		SortOrder:   g.SortOrder,
		IsFeatured:  g.IsFeatured,
		IsActive:    g.IsActive,
		TakenAt:     util.TimePtr(g.TakenAt),
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// GalleryItemRequest is the body of a gallery create. image and thumbnail
// are paths returned by the upload endpoint.
type GalleryItemRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Slug        string  `json:"slug" validate:"omitempty,slug"`
	Description string  `json:"description" validate:"max=2000"`
	Image       string  `json:"image" validate:"required,max=500,localpath"`
	Thumbnail   string  `json:"thumbnail" validate:"max=500,localpath"`
	Album       string  `json:"album" validate:"max=100"`
	SortOrder   int64   `json:"sort_order"`
	IsFeatured  bool    `json:"is_featured"`
	IsActive    *bool   `json:"is_active"`
	TakenAt     *string `json:"taken_at"`
}

// UpdateGalleryItemRequest is the body of a partial gallery update.
type UpdateGalleryItemRequest struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=255"`
	Slug        *string `json:"slug" validate:"omitempty,slug"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Image       *string `json:"image" validate:"omitnil,min=1,max=500,localpath"`
	Thumbnail   *string `json:"thumbnail" validate:"omitempty,max=500,localpath"`
	Album       *string `json:"album" validate:"omitempty,max=100"`
	SortOrder   *int64  `json:"sort_order"`
	IsFeatured  *bool   `json:"is_featured"`
	IsActive    *bool   `json:"is_active"`
	TakenAt     *string `json:"taken_at"`
}

// ListGallery handles GET /api/gallery with optional album and featured
// filters. ?albums=1 returns the album names instead.
func (h *Handler) ListGallery(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("albums") != "" {
		albums, err := h.queries.ListGalleryAlbums(r.Context(), true)
		if err != nil {
			h.writeInternalError(w, r, "Failed to list albums", err)
			return
		}
		WriteSuccess(w, albums)
		return
	}
	h.listGallery(w, r, true)
}

// AdminListGallery handles GET /api/admin/gallery.
func (h *Handler) AdminListGallery(w http.ResponseWriter, r *http.Request) {
	h.listGallery(w, r, false)
}

func (h *Handler) listGallery(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	ctx := r.Context()
	page, limit, offset := h.page(r)
	q := r.URL.Query()

	f := store.GalleryFilter{
		ActiveOnly: activeOnly,
		Album:      q.Get("album"),
		Featured:   util.NullBoolFromQuery(q.Get("featured")),
	}

	total, err := h.queries.CountGalleryItems(ctx, f)
	if err != nil {
		h.writeInternalError(w, r, "Failed to count gallery items", err)
		return
	}
	items, err := h.queries.ListGalleryItems(ctx, f, store.Paging{Limit: int64(limit), Offset: offset})
	if err != nil {
		h.writeInternalError(w, r, "Failed to list gallery items", err)
		return
	}

	data := make([]GalleryItemResponse, 0, len(items))
	for _, g := range items {
		data = append(data, galleryResponse(g))
	}
	WriteList(w, data, pagination(page, limit, total))
}

// GetGalleryItem handles GET /api/gallery/{slug}. Inactive items are 404.
func (h *Handler) GetGalleryItem(w http.ResponseWriter, r *http.Request) {
	g, ok := h.lookupGalleryItem(w, r)
	if !ok {
		return
	}
	if !g.IsActive {
		WriteNotFound(w, "Gallery item not found")
		return
	}
	WriteSuccess(w, galleryResponse(g))
}

// AdminGetGalleryItem handles GET /api/admin/gallery/{id}.
func (h *Handler) AdminGetGalleryItem(w http.ResponseWriter, r *http.Request) {
	g, ok := h.lookupGalleryItem(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, galleryResponse(g))
}

func (h *Handler) lookupGalleryItem(w http.ResponseWriter, r *http.Request) (store.GalleryItem, bool) {
	slug, id := slugOrID(r)
	var (
		g   store.GalleryItem
		err error
	)
	switch {
	case slug != "":
		g, err = h.queries.GetGalleryItemBySlug(r.Context(), slug)
	case id > 0:
		g, err = h.queries.GetGalleryItemByID(r.Context(), id)
	default:
		WriteBadRequest(w, "Slug or ID is required")
		return g, false
	}
	if err != nil {
		h.WriteServiceError(w, r, galleryLabel, err)
		return g, false
	}
	return g, true
}

// CreateGalleryItem handles POST /api/admin/gallery.
func (h *Handler) CreateGalleryItem(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	var req GalleryItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fe := fieldErrors{}
	takenAt := nullTime(fe, "taken_at", req.TakenAt)
	if len(fe) > 0 {
		WriteValidationError(w, fe)
		return
	}

	slug, err := h.slugFor(r.Context(), galleryLabel, req.Slug, req.Title, "photo", 0, h.queries.GallerySlugExists)
	if err != nil {
		h.WriteServiceError(w, r, galleryLabel, err)
		return
	}

	now := h.now()
	g, err := h.queries.CreateGalleryItem(r.Context(), store.CreateGalleryItemParams{
		Title:       service.PlainText(req.Title),
		Slug:        slug,
		Description: service.PlainText(req.Description),
		Image:       req.Image,
		Thumbnail:   req.Thumbnail,
		Album:       service.PlainText(req.Album),
		SortOrder:   req.SortOrder,
		IsFeatured:  req.IsFeatured,
		IsActive:    boolOr(req.IsActive, true),
		TakenAt:     takenAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		h.WriteServiceError(w, r, galleryLabel, err)
		return
	}

	h.recordContent(r, user, model.ActionCreate, model.EntityGallery, g.ID, g.Title)
	WriteCreated(w, g.ID, galleryResponse(g))
}

// UpdateGalleryItem handles PUT/PATCH /api/admin/gallery/{id}.
func (h *Handler) UpdateGalleryItem(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	ctx := r.Context()

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateGalleryItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	g, err := h.queries.GetGalleryItemByID(ctx, id)
	if err != nil {
		h.WriteServiceError(w, r, galleryLabel, err)
		return
	}

	fe := fieldErrors{}
	if req.TakenAt != nil {
		g.TakenAt = nullTime(fe, "taken_at", req.TakenAt)
	}
	if len(fe) > 0 {
		WriteValidationError(w, fe)
		return
	}

	if req.Title != nil {
		g.Title = service.PlainText(*req.Title)
	}
	if req.Slug != nil && *req.Slug != g.Slug {
		taken, err := h.queries.GallerySlugExists(ctx, *req.Slug, g.ID)
		if err != nil {
			h.WriteServiceError(w, r, galleryLabel, err)
			return
		}
		if taken {
			WriteValidationError(w, map[string]string{"slug": slugTakenMessage(galleryLabel)})
			return
		}
		g.Slug = *req.Slug
	}
	if req.Description != nil {
		g.Description = service.PlainText(*req.Description)
	}
	set(&g.Image, req.Image)
	set(&g.Thumbnail, req.Thumbnail)
	if req.Album != nil {
		g.Album = service.PlainText(*req.Album)
	}
	set(&g.SortOrder, req.SortOrder)
	set(&g.IsFeatured, req.IsFeatured)
	set(&g.IsActive, req.IsActive)

	updated, err := h.queries.UpdateGalleryItem(ctx, store.UpdateGalleryItemParams{
		ID:          g.ID,
		Title:       g.Title,
		Slug:        g.Slug,
		Description: g.Description,
		Image:       g.Image,
		Thumbnail:   g.Thumbnail,
		Album:       g.Album,
		SortOrder:   g.SortOrder,
		IsFeatured:  g.IsFeatured,
		IsActive:    g.IsActive,
		TakenAt:     g.TakenAt,
		UpdatedAt:   h.now(),
	})
	if err != nil {
		h.WriteServiceError(w, r, galleryLabel, err)
		return
	}

	h.recordContent(r, user, model.ActionUpdate, model.EntityGallery, updated.ID, updated.Title)
	WriteSuccess(w, galleryResponse(updated))
}

// DeleteGalleryItem handles DELETE /api/admin/gallery/{id}.
func (h *Handler) DeleteGalleryItem(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.queries.SoftDeleteGalleryItem(r.Context(), id, h.now()); err != nil {
		h.WriteServiceError(w, r, galleryLabel, err)
		return
	}

	h.recordContent(r, user, model.ActionDelete, model.EntityGallery, id, "#"+formatID(id))
	WriteMessage(w, "Gallery item deleted")
}
