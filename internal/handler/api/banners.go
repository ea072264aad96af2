// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/instcms/internal/middleware"
	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/service"
	"github.com/olegiv/instcms/internal/store"
	"github.com/olegiv/instcms/internal/util"
)

// BannerResponse represents a banner in API responses.
type BannerResponse struct {
	ID        int64      `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Subtitle  string     `json:"subtitle"`
	Image     string     `json:"image"`
	LinkURL   string     `json:"link_url"`
	LinkText  string     `json:"link_text"`
	Content   string     `json:"content"`
	SortOrder int64      `json:"sort_order"`
	IsActive  bool       `json:"is_active"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func bannerResponse(b store.Banner) BannerResponse {
	return BannerResponse{
		ID:        b.ID,
		Type:      b.Type,
		Title:     b.Title,
		Subtitle:  b.Subtitle,
		Image:     b.Image,
		LinkURL:   b.LinkUrl,
		LinkText:  b.LinkText,
		Content:   b.Content,
		SortOrder: b.SortOrder,
		IsActive:  b.IsActive,
		StartsAt:  util.TimePtr(b.StartsAt),
		EndsAt:    util.TimePtr(b.EndsAt),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// CreateBannerRequest is the body of a banner create. hero banners need an
// image, flash_news banners need content.
type CreateBannerRequest struct {
	Type      string  `json:"type" validate:"required,bannertype"`
	Title     string  `json:"title" validate:"max=255"`
	Subtitle  string  `json:"subtitle" validate:"max=255"`
	Image     string  `json:"image" validate:"max=500,localpath"`
	LinkURL   string  `json:"link_url" validate:"max=500,localpath"`
	LinkText  string  `json:"link_text" validate:"max=100"`
	Content   string  `json:"content" validate:"max=2000"`
	SortOrder int64   `json:"sort_order"`
	IsActive  *bool   `json:"is_active"`
	StartsAt  *string `json:"starts_at"`
	EndsAt    *string `json:"ends_at"`
}

// UpdateBannerRequest is the body of a partial banner update.
type UpdateBannerRequest struct {
	Type      *string `json:"type" validate:"omitnil,bannertype"`
	Title     *string `json:"title" validate:"omitempty,max=255"`
	Subtitle  *string `json:"subtitle" validate:"omitempty,max=255"`
	Image     *string `json:"image" validate:"omitempty,max=500,localpath"`
	LinkURL   *string `json:"link_url" validate:"omitempty,max=500,localpath"`
	LinkText  *string `json:"link_text" validate:"omitempty,max=100"`
	Content   *string `json:"content" validate:"omitempty,max=2000"`
	SortOrder *int64  `json:"sort_order"`
	IsActive  *bool   `json:"is_active"`
	StartsAt  *string `json:"starts_at"`
	EndsAt    *string `json:"ends_at"`
}

// checkBanner enforces the per-type required field and the schedule order.
func checkBanner(fe fieldErrors, typ, image, content string, startsAt, endsAt sql.NullTime) {
	switch model.BannerType(typ).RequiredField() {
	case "image":
		if strings.TrimSpace(image) == "" {
			fe["image"] = "Image is required for hero banners"
		}
	case "content":
		if strings.TrimSpace(content) == "" {
			fe["content"] = "Content is required for flash news banners"
		}
	}
	if startsAt.Valid && endsAt.Valid && !endsAt.Time.After(startsAt.Time) {
		fe["ends_at"] = "Ends at must be after starts at"
	}
}

// ListBanners handles GET /api/banners?type=: active banners inside their
// schedule window.
func (h *Handler) ListBanners(w http.ResponseWriter, r *http.Request) {
	h.listBanners(w, r, true)
}

// AdminListBanners handles GET /api/admin/banners.
func (h *Handler) AdminListBanners(w http.ResponseWriter, r *http.Request) {
	h.listBanners(w, r, false)
}

func (h *Handler) listBanners(w http.ResponseWriter, r *http.Request, publicOnly bool) {
	ctx := r.Context()
	page, limit, offset := h.page(r)

	f := store.BannerFilter{Type: r.URL.Query().Get("type")}
	if f.Type != "" && !model.BannerType(f.Type).Valid() {
		WriteValidationError(w, map[string]string{"type": "Type must be hero or flash_news"})
		return
	}
	if publicOnly {
		f.ActiveAt = h.now()
	}

	total, err := h.queries.CountBanners(ctx, f)
	if err != nil {
		h.writeInternalError(w, r, "Failed to count banners", err)
		return
	}
	banners, err := h.queries.ListBanners(ctx, f, store.Paging{Limit: int64(limit), Offset: offset})
	if err != nil {
		h.writeInternalError(w, r, "Failed to list banners", err)
		return
	}

	data := make([]BannerResponse, 0, len(banners))
	for _, b := range banners {
		data = append(data, bannerResponse(b))
	}
	WriteList(w, data, pagination(page, limit, total))
}

// GetBanner serves a single banner by id. With activeOnly set, as on the
// public routes, inactive banners and banners outside their schedule window
// are reported as not found.
func (h *Handler) GetBanner(activeOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		b, err := h.queries.GetBannerByID(r.Context(), id)
		if err == nil && activeOnly && !bannerShowing(b, h.now()) {
			err = sql.ErrNoRows
		}
		if err != nil {
			h.WriteServiceError(w, r, model.EntityBanner, err)
			return
		}
		WriteSuccess(w, bannerResponse(b))
	}
}

// bannerShowing mirrors the ActiveAt filter of the public banner list.
func bannerShowing(b store.Banner, at time.Time) bool {
	if !b.IsActive {
		return false
	}
	if b.StartsAt.Valid && b.StartsAt.Time.After(at) {
		return false
	}
	return !b.EndsAt.Valid || b.EndsAt.Time.After(at)
}

// CreateBanner handles POST /api/admin/banners.
func (h *Handler) CreateBanner(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	var req CreateBannerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fe := fieldErrors{}
	startsAt := nullTime(fe, "starts_at", req.StartsAt)
	endsAt := nullTime(fe, "ends_at", req.EndsAt)
	checkBanner(fe, req.Type, req.Image, req.Content, startsAt, endsAt)
	if len(fe) > 0 {
		WriteValidationError(w, fe)
		return
	}

	now := h.now()
	b, err := h.queries.CreateBanner(r.Context(), store.CreateBannerParams{
		Type:      req.Type,
		Title:     service.PlainText(req.Title),
		Subtitle:  service.PlainText(req.Subtitle),
		Image:     req.Image,
		LinkUrl:   req.LinkURL,
		LinkText:  service.PlainText(req.LinkText),
		Content:   service.SanitizeHTML(req.Content),
		SortOrder: req.SortOrder,
		IsActive:  boolOr(req.IsActive, true),
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		h.WriteServiceError(w, r, model.EntityBanner, err)
		return
	}

	h.recordContent(r, user, model.ActionCreate, model.EntityBanner, b.ID, bannerLabel(b))
	WriteCreated(w, b.ID, bannerResponse(b))
}

// UpdateBanner handles PUT/PATCH /api/admin/banners/{id}.
func (h *Handler) UpdateBanner(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	ctx := r.Context()

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateBannerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := h.queries.GetBannerByID(ctx, id)
	if err != nil {
		h.WriteServiceError(w, r, model.EntityBanner, err)
		return
	}

	fe := fieldErrors{}
	if req.StartsAt != nil {
		b.StartsAt = nullTime(fe, "starts_at", req.StartsAt)
	}
	if req.EndsAt != nil {
		b.EndsAt = nullTime(fe, "ends_at", req.EndsAt)
	}
	set(&b.Type, req.Type)
	if req.Title != nil {
		b.Title = service.PlainText(*req.Title)
	}
	if req.Subtitle != nil {
		b.Subtitle = service.PlainText(*req.Subtitle)
	}
	set(&b.Image, req.Image)
	set(&b.LinkUrl, req.LinkURL)
	if req.LinkText != nil {
		b.LinkText = service.PlainText(*req.LinkText)
	}
	if req.Content != nil {
		b.Content = service.SanitizeHTML(*req.Content)
	}
	set(&b.SortOrder, req.SortOrder)
	set(&b.IsActive, req.IsActive)

	checkBanner(fe, b.Type, b.Image, b.Content, b.StartsAt, b.EndsAt)
	if len(fe) > 0 {
		WriteValidationError(w, fe)
		return
	}

	updated, err := h.queries.UpdateBanner(ctx, store.UpdateBannerParams{
		ID:        b.ID,
		Type:      b.Type,
		Title:     b.Title,
		Subtitle:  b.Subtitle,
		Image:     b.Image,
		LinkUrl:   b.LinkUrl,
		LinkText:  b.LinkText,
		Content:   b.Content,
		SortOrder: b.SortOrder,
		IsActive:  b.IsActive,
		StartsAt:  b.StartsAt,
		EndsAt:    b.EndsAt,
		UpdatedAt: h.now(),
	})
	if err != nil {
		h.WriteServiceError(w, r, model.EntityBanner, err)
		return
	}

	h.recordContent(r, user, model.ActionUpdate, model.EntityBanner, updated.ID, bannerLabel(updated))
	WriteSuccess(w, bannerResponse(updated))
}

// DeleteBanner handles DELETE /api/admin/banners/{id}.
func (h *Handler) DeleteBanner(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.queries.SoftDeleteBanner(r.Context(), id, h.now()); err != nil {
		h.WriteServiceError(w, r, model.EntityBanner, err)
		return
	}

	h.recordContent(r, user, model.ActionDelete, model.EntityBanner, id, "#"+formatID(id))
	WriteMessage(w, "Banner deleted")
}

func bannerLabel(b store.Banner) string {
	if b.Title != "" {
		return b.Title
	}
	return b.Type + " #" + formatID(b.ID)
}
