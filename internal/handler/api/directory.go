// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/olegiv/instcms/internal/middleware"
	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/service"
	"github.com/olegiv/instcms/internal/store"
)

const (
	councilLabel    = "council member"
	provincialLabel = "provincial"
)

// CouncilMemberResponse represents a general council member.
type CouncilMemberResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Title      string    `json:"title"`
	Dimension  string    `json:"dimension"`
	Commission string    `json:"commission"`
	Photo      string    `json:"photo"`
	Email      string    `json:"email"`
	Bio        string    `json:"bio"`
	SortOrder  int64     `json:"sort_order"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func councilResponse(m store.CouncilMember) CouncilMemberResponse {
	return CouncilMemberResponse{
		ID:         m.ID,
		Name:       m.Name,
		Title:      m.Title,
		Dimension:  m.Dimension,
		Commission: m.Commission,
		Photo:      m.Photo,
		Email:      m.Email,
		Bio:        m.Bio,
		SortOrder:  m.SortOrder,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// CouncilMemberRequest is the body of a council member create.
type CouncilMemberRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Title      string `json:"title" validate:"required,counciltitle"`
	Dimension  string `json:"dimension" validate:"max=100"`
	Commission string `json:"commission" validate:"max=100"`
	Photo      string `json:"photo" validate:"max=500,localpath"`
	Email      string `json:"email" validate:"omitempty,email,max=255"`
	Bio        string `json:"bio"`
	SortOrder  int64  `json:"sort_order"`
	IsActive   *bool  `json:"is_active"`
}

// UpdateCouncilMemberRequest is the body of a partial council member update.
type UpdateCouncilMemberRequest struct {
	Name       *string `json:"name" validate:"omitnil,min=1,max=255"`
	Title      *string `json:"title" validate:"omitnil,counciltitle"`
	Dimension  *string `json:"dimension" validate:"omitempty,max=100"`
	Commission *string `json:"commission" validate:"omitempty,max=100"`
	Photo      *string `json:"photo" validate:"omitempty,max=500,localpath"`
	Email      *string `json:"email" validate:"omitempty,email,max=255"`
	Bio        *string `json:"bio"`
	SortOrder  *int64  `json:"sort_order"`
	IsActive   *bool   `json:"is_active"`
}

// ListCouncil handles GET /api/council with optional dimension,
// commission and title filters.
func (h *Handler) ListCouncil(w http.ResponseWriter, r *http.Request) {
	h.listCouncil(w, r, true)
}

// AdminListCouncil handles GET /api/admin/council.
func (h *Handler) AdminListCouncil(w http.ResponseWriter, r *http.Request) {
	h.listCouncil(w, r, false)
}

func (h *Handler) listCouncil(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	ctx := r.Context()
	page, limit, offset := h.page(r)
	q := r.URL.Query()

	f := store.CouncilFilter{
		ActiveOnly: activeOnly,
		Dimension:  q.Get("dimension"),
		Commission: q.Get("commission"),
		Title:      q.Get("title"),
	}

	total, err := h.queries.CountCouncilMembers(ctx, f)
	if err != nil {
		h.writeInternalError(w, r, "Failed to count council members", err)
		return
	}
	members, err := h.queries.ListCouncilMembers(ctx, f, store.Paging{Limit: int64(limit), Offset: offset})
	if err != nil {
		h.writeInternalError(w, r, "Failed to list council members", err)
		return
	}

	data := make([]CouncilMemberResponse, 0, len(members))
	for _, m := range members {
		data = append(data, councilResponse(m))
	}
	WriteList(w, data, pagination(page, limit, total))
}

// CouncilFacets handles GET /api/council/facets: the distinct dimensions,
// commissions and titles in use among active members.
func (h *Handler) CouncilFacets(w http.ResponseWriter, r *http.Request) {
	facets, err := h.queries.ListCouncilFacets(r.Context(), true)
	if err != nil {
		h.writeInternalError(w, r, "Failed to load council facets", err)
		return
	}
	WriteSuccess(w, map[string][]string{
		"dimensions":  facets.Dimensions,
		"commissions": facets.Commissions,
		"titles":      facets.Titles,
	})
}

// GetCouncilMember serves a single council member by id. Public routes pass
// activeOnly so inactive members stay hidden.
func (h *Handler) GetCouncilMember(activeOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		m, err := h.queries.GetCouncilMemberByID(r.Context(), id)
		if err == nil && activeOnly && !m.IsActive {
			err = sql.ErrNoRows
		}
		if err != nil {
			h.WriteServiceError(w, r, councilLabel, err)
			return
		}
		WriteSuccess(w, councilResponse(m))
	}
}

// CreateCouncilMember handles POST /api/admin/council.
func (h *Handler) CreateCouncilMember(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	var req CouncilMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	now := h.now()
	m, err := h.queries.CreateCouncilMember(r.Context(), store.CreateCouncilMemberParams{
		Name:       service.PlainText(req.Name),
		Title:      req.Title,
		Dimension:  service.PlainText(req.Dimension),
		Commission: service.PlainText(req.Commission),
		Photo:      req.Photo,
		Email:      req.Email,
		Bio:        service.SanitizeHTML(req.Bio),
		SortOrder:  req.SortOrder,
		IsActive:   boolOr(req.IsActive, true),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		h.WriteServiceError(w, r, councilLabel, err)
		return
	}

	h.recordContent(r, user, model.ActionCreate, model.EntityCouncil, m.ID, m.Name)
	WriteCreated(w, m.ID, councilResponse(m))
}

// UpdateCouncilMember handles PUT/PATCH /api/admin/council/{id}.
func (h *Handler) UpdateCouncilMember(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	ctx := r.Context()

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateCouncilMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	m, err := h.queries.GetCouncilMemberByID(ctx, id)
	if err != nil {
		h.WriteServiceError(w, r, councilLabel, err)
		return
	}

	if req.Name != nil {
		m.Name = service.PlainText(*req.Name)
	}
	set(&m.Title, req.Title)
	if req.Dimension != nil {
		m.Dimension = service.PlainText(*req.Dimension)
	}
	if req.Commission != nil {
		m.Commission = service.PlainText(*req.Commission)
	}
	set(&m.Photo, req.Photo)
	set(&m.Email, req.Email)
	if req.Bio != nil {
		m.Bio = service.SanitizeHTML(*req.Bio)
	}
	set(&m.SortOrder, req.SortOrder)
	set(&m.IsActive, req.IsActive)

	updated, err := h.queries.UpdateCouncilMember(ctx, store.UpdateCouncilMemberParams{
		ID:         m.ID,
		Name:       m.Name,
		Title:      m.Title,
		Dimension:  m.Dimension,
		Commission: m.Commission,
		Photo:      m.Photo,
		Email:      m.Email,
		Bio:        m.Bio,
		SortOrder:  m.SortOrder,
		IsActive:   m.IsActive,
		UpdatedAt:  h.now(),
	})
	if err != nil {
		h.WriteServiceError(w, r, councilLabel, err)
		return
	}

	h.recordContent(r, user, model.ActionUpdate, model.EntityCouncil, updated.ID, updated.Name)
	WriteSuccess(w, councilResponse(updated))
}

// DeleteCouncilMember handles DELETE /api/admin/council/{id}.
func (h *Handler) DeleteCouncilMember(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.queries.SoftDeleteCouncilMember(r.Context(), id, h.now()); err != nil {
		h.WriteServiceError(w, r, councilLabel, err)
		return
	}

	h.recordContent(r, user, model.ActionDelete, model.EntityCouncil, id, "#"+formatID(id))
	WriteMessage(w, "Council member deleted")
}

// ProvincialResponse represents a provincial superior or councillor.
type ProvincialResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Title     string    `json:"title"`
	Province  string    `json:"province"`
	Photo     string    `json:"photo"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Bio       string    `json:"bio"`
	SortOrder int64     `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func provincialResponse(p store.Provincial) ProvincialResponse {
	return ProvincialResponse{
		ID:        p.ID,
		Name:      p.Name,
		Title:     p.Title,
		Province:  p.Province,
		Photo:     p.Photo,
		Email:     p.Email,
		Phone:     p.Phone,
		Bio:       p.Bio,
		SortOrder: p.SortOrder,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ProvincialRequest is the body of a provincial create.
type ProvincialRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	Title     string `json:"title" validate:"required,provincialtitle"`
	Province  string `json:"province" validate:"required,max=100"`
	Photo     string `json:"photo" validate:"max=500,localpath"`
	Email     string `json:"email" validate:"omitempty,email,max=255"`
	Phone     string `json:"phone" validate:"max=50"`
	Bio       string `json:"bio"`
	SortOrder int64  `json:"sort_order"`
	IsActive  *bool  `json:"is_active"`
}

// UpdateProvincialRequest is the body of a partial provincial update.
type UpdateProvincialRequest struct {
	Name      *string `json:"name" validate:"omitnil,min=1,max=255"`
	Title     *string `json:"title" validate:"omitnil,provincialtitle"`
	Province  *string `json:"province" validate:"omitnil,min=1,max=100"`
	Photo     *string `json:"photo" validate:"omitempty,max=500,localpath"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
	Bio       *string `json:"bio"`
	SortOrder *int64  `json:"sort_order"`
	IsActive  *bool   `json:"is_active"`
}

// ListProvincials handles GET /api/provincials with optional province and
// title filters. ?provinces=1 returns the list of provinces instead.
func (h *Handler) ListProvincials(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("provinces") != "" {
		provinces, err := h.queries.ListProvinces(r.Context(), true)
		if err != nil {
			h.writeInternalError(w, r, "Failed to list provinces", err)
			return
		}
		WriteSuccess(w, provinces)
		return
	}
	h.listProvincials(w, r, true)
}

// AdminListProvincials handles GET /api/admin/provincials.
func (h *Handler) AdminListProvincials(w http.ResponseWriter, r *http.Request) {
	h.listProvincials(w, r, false)
}

func (h *Handler) listProvincials(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	ctx := r.Context()
	page, limit, offset := h.page(r)
	q := r.URL.Query()

	f := store.ProvincialFilter{
		ActiveOnly: activeOnly,
		Province:   q.Get("province"),
		Title:      q.Get("title"),
	}

	total, err := h.queries.CountProvincials(ctx, f)
	if err != nil {
		h.writeInternalError(w, r, "Failed to count provincials", err)
		return
	}
	items, err := h.queries.ListProvincials(ctx, f, store.Paging{Limit: int64(limit), Offset: offset})
	if err != nil {
		h.writeInternalError(w, r, "Failed to list provincials", err)
		return
	}

	data := make([]ProvincialResponse, 0, len(items))
	for _, p := range items {
		data = append(data, provincialResponse(p))
	}
	WriteList(w, data, pagination(page, limit, total))
}

// GetProvincial serves a single provincial officer by id, hiding inactive
// ones when activeOnly is set.
func (h *Handler) GetProvincial(activeOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		p, err := h.queries.GetProvincialByID(r.Context(), id)
		if err == nil && activeOnly && !p.IsActive {
			err = sql.ErrNoRows
		}
		if err != nil {
			h.WriteServiceError(w, r, provincialLabel, err)
			return
		}
		WriteSuccess(w, provincialResponse(p))
	}
}

// CreateProvincial handles POST /api/admin/provincials.
func (h *Handler) CreateProvincial(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	var req ProvincialRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	now := h.now()
	p, err := h.queries.CreateProvincial(r.Context(), store.CreateProvincialParams{
		Name:      service.PlainText(req.Name),
		Title:     req.Title,
		Province:  service.PlainText(req.Province),
		Photo:     req.Photo,
		Email:     req.Email,
		Phone:     service.PlainText(req.Phone),
		Bio:       service.SanitizeHTML(req.Bio),
		SortOrder: req.SortOrder,
		IsActive:  boolOr(req.IsActive, true),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		h.WriteServiceError(w, r, provincialLabel, err)
		return
	}

	h.recordContent(r, user, model.ActionCreate, model.EntityProvincial, p.ID, p.Name)
	WriteCreated(w, p.ID, provincialResponse(p))
}

// UpdateProvincial handles PUT/PATCH /api/admin/provincials/{id}.
func (h *Handler) UpdateProvincial(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	ctx := r.Context()

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateProvincialRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.queries.GetProvincialByID(ctx, id)
	if err != nil {
		h.WriteServiceError(w, r, provincialLabel, err)
		return
	}

	if req.Name != nil {
		p.Name = service.PlainText(*req.Name)
	}
	set(&p.Title, req.Title)
	if req.Province != nil {
		p.Province = service.PlainText(*req.Province)
	}
	set(&p.Photo, req.Photo)
	set(&p.Email, req.Email)
	if req.Phone != nil {
		p.Phone = service.PlainText(*req.Phone)
	}
	if req.Bio != nil {
		p.Bio = service.SanitizeHTML(*req.Bio)
	}
	set(&p.SortOrder, req.SortOrder)
	set(&p.IsActive, req.IsActive)

	updated, err := h.queries.UpdateProvincial(ctx, store.UpdateProvincialParams{
		ID:        p.ID,
		Name:      p.Name,
		Title:     p.Title,
		Province:  p.Province,
		Photo:     p.Photo,
		Email:     p.Email,
		Phone:     p.Phone,
		Bio:       p.Bio,
		SortOrder: p.SortOrder,
		IsActive:  p.IsActive,
		UpdatedAt: h.now(),
	})
	if err != nil {
		h.WriteServiceError(w, r, provincialLabel, err)
		return
	}

	h.recordContent(r, user, model.ActionUpdate, model.EntityProvincial, updated.ID, updated.Name)
	WriteSuccess(w, provincialResponse(updated))
}

// DeleteProvincial handles DELETE /api/admin/provincials/{id}.
func (h *Handler) DeleteProvincial(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.queries.SoftDeleteProvincial(r.Context(), id, h.now()); err != nil {
		h.WriteServiceError(w, r, provincialLabel, err)
		return
	}

	h.recordContent(r, user, model.ActionDelete, model.EntityProvincial, id, "#"+formatID(id))
	WriteMessage(w, "Provincial deleted")
}
