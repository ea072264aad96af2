// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/instcms/internal/middleware"
	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/service"
	"github.com/olegiv/instcms/internal/store"
	"github.com/olegiv/instcms/internal/util"
)

// PageResponse represents a page in API responses.
type PageResponse struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Content         string    `json:"content"`
	Excerpt         string    `json:"excerpt"`
	MetaTitle       string    `json:"meta_title"`
	MetaDescription string    `json:"meta_description"`
	FeaturedImage   string    `json:"featured_image"`
	MenuLabel       *string   `json:"menu_label"`
	MenuPosition    int64     `json:"menu_position"`
	ParentMenu      *string   `json:"parent_menu"`
	IsSubmenu       bool      `json:"is_submenu"`
	IsEnabled       bool      `json:"is_enabled"`
	IsFeatured      bool      `json:"is_featured"`
	ShowInMenu      bool      `json:"show_in_menu"`
	SortOrder       int64     `json:"sort_order"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func pageResponse(p store.Page) PageResponse {
	return PageResponse{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Content:         p.Content,
		Excerpt:         p.Excerpt,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		FeaturedImage:   p.FeaturedImage,
		MenuLabel:       util.StringPtr(p.MenuLabel),
		MenuPosition:    p.MenuPosition,
		ParentMenu:      util.StringPtr(p.ParentMenu),
		IsSubmenu:       p.IsSubmenu,
		IsEnabled:       p.IsEnabled,
		IsFeatured:      p.IsFeatured,
		ShowInMenu:      p.ShowInMenu,
		SortOrder:       p.SortOrder,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// CreatePageRequest is the body of a page create.
type CreatePageRequest struct {
	Title           string  `json:"title" validate:"required,max=255"`
	Slug            string  `json:"slug" validate:"omitempty,slug"`
	Content         string  `json:"content"`
	ContentFormat   string  `json:"content_format" validate:"omitempty,oneof=html markdown"`
	Excerpt         string  `json:"excerpt" validate:"max=1000"`
	MetaTitle       string  `json:"meta_title" validate:"max=255"`
	MetaDescription string  `json:"meta_description" validate:"max=500"`
	FeaturedImage   string  `json:"featured_image" validate:"max=500,localpath"`
	MenuLabel       *string `json:"menu_label" validate:"omitempty,max=100"`
	MenuPosition    int64   `json:"menu_position" validate:"gte=0"`
	ParentMenu      *string `json:"parent_menu" validate:"omitempty,menukey"`
	IsSubmenu       bool    `json:"is_submenu"`
	IsEnabled       *bool   `json:"is_enabled"`
	IsFeatured      bool    `json:"is_featured"`
	ShowInMenu      bool    `json:"show_in_menu"`
	SortOrder       int64   `json:"sort_order"`
}

// UpdatePageRequest is the body of a partial page update. Absent fields
// keep their stored value.
type UpdatePageRequest struct {
	Title           *string `json:"title" validate:"omitnil,min=1,max=255"`
	Slug            *string `json:"slug" validate:"omitempty,slug"`
	Content         *string `json:"content"`
	ContentFormat   string  `json:"content_format" validate:"omitempty,oneof=html markdown"`
	Excerpt         *string `json:"excerpt" validate:"omitempty,max=1000"`
	MetaTitle       *string `json:"meta_title" validate:"omitempty,max=255"`
	MetaDescription *string `json:"meta_description" validate:"omitempty,max=500"`
	FeaturedImage   *string `json:"featured_image" validate:"omitempty,max=500,localpath"`
	MenuLabel       *string `json:"menu_label" validate:"omitempty,max=100"`
	MenuPosition    *int64  `json:"menu_position" validate:"omitempty,gte=0"`
	ParentMenu      *string `json:"parent_menu" validate:"omitempty,menukey"`
	IsSubmenu       *bool   `json:"is_submenu"`
	IsEnabled       *bool   `json:"is_enabled"`
	IsFeatured      *bool   `json:"is_featured"`
	ShowInMenu      *bool   `json:"show_in_menu"`
	SortOrder       *int64  `json:"sort_order"`
}

// ListPages handles GET /api/pages. Only enabled pages are listed.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	h.listPages(w, r, true)
}

// AdminListPages handles GET /api/admin/pages, including disabled pages.
func (h *Handler) AdminListPages(w http.ResponseWriter, r *http.Request) {
	h.listPages(w, r, false)
}

func (h *Handler) listPages(w http.ResponseWriter, r *http.Request, publicOnly bool) {
	ctx := r.Context()
	page, limit, offset := h.page(r)
	q := r.URL.Query()

	f := store.PageFilter{
		EnabledOnly: publicOnly,
		Featured:    util.NullBoolFromQuery(q.Get("featured")),
		ParentMenu:  q.Get("parent_menu"),
		Search:      strings.TrimSpace(q.Get("search")),
	}

	total, err := h.queries.CountPages(ctx, f)
	if err != nil {
		h.writeInternalError(w, r, "Failed to count pages", err)
		return
	}
	pages, err := h.queries.ListPages(ctx, f, store.Paging{Limit: int64(limit), Offset: offset})
	if err != nil {
		h.writeInternalError(w, r, "Failed to list pages", err)
		return
	}

	data := make([]PageResponse, 0, len(pages))
	for _, p := range pages {
		data = append(data, pageResponse(p))
	}
	WriteList(w, data, pagination(page, limit, total))
}

// GetPage handles GET /api/pages/{slug} and /api/pages/get.php?slug=|id=.
// Disabled pages are not served publicly.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookupPage(w, r)
	if !ok {
		return
	}
	if !p.IsEnabled {
		WriteNotFound(w, "Page not found")
		return
	}
	WriteSuccess(w, pageResponse(p))
}

// AdminGetPage handles GET /api/admin/pages/{id}.
func (h *Handler) AdminGetPage(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookupPage(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, pageResponse(p))
}

func (h *Handler) lookupPage(w http.ResponseWriter, r *http.Request) (store.Page, bool) {
	slug, id := slugOrID(r)
	var (
		p   store.Page
		err error
	)
	switch {
	case slug != "":
		p, err = h.queries.GetPageBySlug(r.Context(), slug)
	case id > 0:
		p, err = h.queries.GetPageByID(r.Context(), id)
	default:
		WriteBadRequest(w, "Slug or ID is required")
		return p, false
	}
	if err != nil {
		h.WriteServiceError(w, r, model.EntityPage, err)
		return p, false
	}
	return p, true
}

// CreatePage handles POST /api/admin/pages.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	ctx := r.Context()

	var req CreatePageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	content, err := service.PrepareContent(req.Content, req.ContentFormat)
	if err != nil {
		WriteValidationError(w, map[string]string{"content": "Content could not be rendered"})
		return
	}

	slug, err := h.slugFor(r.Context(), model.EntityPage, req.Slug, req.Title, "page", 0, h.queries.PageSlugExists)
	if err != nil {
		h.WriteServiceError(w, r, model.EntityPage, err)
		return
	}

	now := h.now()
	title := service.PlainText(req.Title)
	p, err := h.queries.CreatePage(ctx, store.CreatePageParams{
		Title:           title,
		Slug:            slug,
		Content:         content,
		Excerpt:         service.Excerpt(req.Excerpt, content, 300),
		MetaTitle:       service.PlainText(req.MetaTitle),
		MetaDescription: service.PlainText(req.MetaDescription),
		FeaturedImage:   req.FeaturedImage,
		MenuLabel:       util.NullStringFromPtr(req.MenuLabel),
		MenuPosition:    req.MenuPosition,
		ParentMenu:      util.NullStringFromPtr(req.ParentMenu),
		IsSubmenu:       req.IsSubmenu,
		IsEnabled:       boolOr(req.IsEnabled, true),
		IsFeatured:      req.IsFeatured,
		ShowInMenu:      req.ShowInMenu,
		SortOrder:       req.SortOrder,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		h.WriteServiceError(w, r, model.EntityPage, err)
		return
	}

	h.menu.Invalidate(ctx)
	h.recordContent(r, user, model.ActionCreate, model.EntityPage, p.ID, p.Title)
	WriteCreated(w, p.ID, pageResponse(p))
}

// UpdatePage handles PUT/PATCH /api/admin/pages/{id}.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	ctx := r.Context()

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdatePageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.queries.GetPageByID(ctx, id)
	if err != nil {
		h.WriteServiceError(w, r, model.EntityPage, err)
		return
	}

	if req.Title != nil {
		p.Title = service.PlainText(*req.Title)
	}
	if req.Slug != nil && *req.Slug != p.Slug {
		taken, err := h.queries.PageSlugExists(ctx, *req.Slug, p.ID)
		if err != nil {
			h.WriteServiceError(w, r, model.EntityPage, err)
			return
		}
		if taken {
			WriteValidationError(w, map[string]string{"slug": slugTakenMessage(model.EntityPage)})
			return
		}
		p.Slug = *req.Slug
	}
	if req.Content != nil {
		content, err := service.PrepareContent(*req.Content, req.ContentFormat)
		if err != nil {
			WriteValidationError(w, map[string]string{"content": "Content could not be rendered"})
			return
		}
		p.Content = content
	}
	if req.Excerpt != nil {
		p.Excerpt = service.Excerpt(*req.Excerpt, p.Content, 300)
	}
	if req.MetaTitle != nil {
		p.MetaTitle = service.PlainText(*req.MetaTitle)
	}
	if req.MetaDescription != nil {
		p.MetaDescription = service.PlainText(*req.MetaDescription)
	}
	set(&p.FeaturedImage, req.FeaturedImage)
	if req.MenuLabel != nil {
		p.MenuLabel = util.NullStringFromValue(*req.MenuLabel)
	}
	set(&p.MenuPosition, req.MenuPosition)
	if req.ParentMenu != nil {
		p.ParentMenu = util.NullStringFromValue(*req.ParentMenu)
	}
	set(&p.IsSubmenu, req.IsSubmenu)
	set(&p.IsEnabled, req.IsEnabled)
	set(&p.IsFeatured, req.IsFeatured)
	set(&p.ShowInMenu, req.ShowInMenu)
	set(&p.SortOrder, req.SortOrder)

	updated, err := h.queries.UpdatePage(ctx, store.UpdatePageParams{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Content:         p.Content,
		Excerpt:         p.Excerpt,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		FeaturedImage:   p.FeaturedImage,
		MenuLabel:       p.MenuLabel,
		MenuPosition:    p.MenuPosition,
		ParentMenu:      p.ParentMenu,
		IsSubmenu:       p.IsSubmenu,
		IsEnabled:       p.IsEnabled,
		IsFeatured:      p.IsFeatured,
		ShowInMenu:      p.ShowInMenu,
		SortOrder:       p.SortOrder,
		UpdatedAt:       h.now(),
	})
	if err != nil {
		h.WriteServiceError(w, r, model.EntityPage, err)
		return
	}

	h.menu.Invalidate(ctx)
	h.recordContent(r, user, model.ActionUpdate, model.EntityPage, updated.ID, updated.Title)
	WriteSuccess(w, pageResponse(updated))
}

// DeletePage handles DELETE /api/admin/pages/{id}.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.queries.SoftDeletePage(r.Context(), id, h.now()); err != nil {
		h.WriteServiceError(w, r, model.EntityPage, err)
		return
	}

	h.menu.Invalidate(r.Context())
	h.recordContent(r, user, model.ActionDelete, model.EntityPage, id, "#"+formatID(id))
	WriteMessage(w, "Page deleted")
}
