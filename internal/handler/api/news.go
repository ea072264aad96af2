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

const newsLabel = "news item"

// NewsResponse represents a news item in API responses.
type NewsResponse struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Content       string     `json:"content"`
	Excerpt       string     `json:"excerpt"`
	FeaturedImage string     `json:"featured_image"`
	EventDate     *time.Time `json:"event_date"`
	IsFeatured    bool       `json:"is_featured"`
	IsPublished   bool       `json:"is_published"`
	PublishedAt   *time.Time `json:"published_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func newsResponse(n store.News) NewsResponse {
	return NewsResponse{
		ID:            n.ID,
		Title:         n.Title,
		Slug:          n.Slug,
		Content:       n.Content,
		Excerpt:       n.Excerpt,
		FeaturedImage: n.FeaturedImage,
		EventDate:     util.TimePtr(n.EventDate),
		IsFeatured:    n.IsFeatured,
		IsPublished:   n.IsPublished,
		PublishedAt:   util.TimePtr(n.PublishedAt),
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

// CreateNewsRequest is the body of a news create.
type CreateNewsRequest struct {
	Title         string  `json:"title" validate:"required,max=255"`
	Slug          string  `json:"slug" validate:"omitempty,slug"`
	Content       string  `json:"content"`
	ContentFormat string  `json:"content_format" validate:"omitempty,oneof=html markdown"`
	Excerpt       string  `json:"excerpt" validate:"max=1000"`
	FeaturedImage string  `json:"featured_image" validate:"max=500,localpath"`
	EventDate     *string `json:"event_date"`
	IsFeatured    bool    `json:"is_featured"`
	IsPublished   bool    `json:"is_published"`
	PublishedAt   *string `json:"published_at"`
}

// UpdateNewsRequest is the body of a partial news update.
type UpdateNewsRequest struct {
	Title         *string `json:"title" validate:"omitnil,min=1,max=255"`
	Slug          *string `json:"slug" validate:"omitempty,slug"`
	Content       *string `json:"content"`
	ContentFormat string  `json:"content_format" validate:"omitempty,oneof=html markdown"`
	Excerpt       *string `json:"excerpt" validate:"omitempty,max=1000"`
	FeaturedImage *string `json:"featured_image" validate:"omitempty,max=500,localpath"`
	EventDate     *string `json:"event_date"`
	IsFeatured    *bool   `json:"is_featured"`
	IsPublished   *bool   `json:"is_published"`
	PublishedAt   *string `json:"published_at"`
}

// publishedAt decides published_at after a write. An explicit value wins.
// Otherwise the first publish stamps now and a stamp already set is kept.
// Callers pass a zero current when the request cleared the field.
func publishedAt(current sql.NullTime, explicit sql.NullTime, published bool, now time.Time) sql.NullTime {
	if explicit.Valid {
		return explicit
	}
	if current.Valid {
		return current
	}
	if published {
		return sql.NullTime{Time: now.UTC(), Valid: true}
	}
	return sql.NullTime{}
}

// ListNews handles GET /api/news: published items whose published_at has
// passed, newest first. ?year= and ?month= select an archive period.
func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	h.listNews(w, r, true)
}

// AdminListNews handles GET /api/admin/news, drafts included.
// ?status=published|draft narrows the list.
func (h *Handler) AdminListNews(w http.ResponseWriter, r *http.Request) {
	h.listNews(w, r, false)
}

func (h *Handler) listNews(w http.ResponseWriter, r *http.Request, publicOnly bool) {
	ctx := r.Context()
	page, limit, offset := h.page(r)
	q := r.URL.Query()

	f := store.NewsFilter{
		Featured: util.NullBoolFromQuery(q.Get("featured")),
		Search:   strings.TrimSpace(q.Get("search")),
	}
	if publicOnly {
		f.VisibleAt = h.now()
	} else {
		switch q.Get("status") {
		case "published":
			f.Published = sql.NullBool{Bool: true, Valid: true}
		case "draft":
			f.Published = sql.NullBool{Bool: false, Valid: true}
		}
	}
	if year := queryInt(r, "year"); year > 0 {
		f.From, f.To = periodBounds(year, queryInt(r, "month"))
	}

	total, err := h.queries.CountNews(ctx, f)
	if err != nil {
		h.writeInternalError(w, r, "Failed to count news", err)
		return
	}
	items, err := h.queries.ListNews(ctx, f, store.Paging{Limit: int64(limit), Offset: offset})
	if err != nil {
		h.writeInternalError(w, r, "Failed to list news", err)
		return
	}

	data := make([]NewsResponse, 0, len(items))
	for _, n := range items {
		data = append(data, newsResponse(n))
	}
	WriteList(w, data, pagination(page, limit, total))
}

// periodBounds returns [start, end) of a year, or of one month when month
// is in 1..12.
func periodBounds(year, month int64) (time.Time, time.Time) {
	if month >= 1 && month <= 12 {
		from := time.Date(int(year), time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0)
	}
	from := time.Date(int(year), time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}

// GetNews handles GET /api/news/{slug}. Unpublished items are 404.
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	n, ok := h.lookupNews(w, r)
	if !ok {
		return
	}
	if !n.VisibleAt(h.now()) {
		WriteNotFound(w, "News item not found")
		return
	}
	WriteSuccess(w, newsResponse(n))
}

// AdminGetNews handles GET /api/admin/news/{id}.
func (h *Handler) AdminGetNews(w http.ResponseWriter, r *http.Request) {
	n, ok := h.lookupNews(w, r)
	if !ok {
		return
	}
	WriteSuccess(w, newsResponse(n))
}

func (h *Handler) lookupNews(w http.ResponseWriter, r *http.Request) (store.News, bool) {
	slug, id := slugOrID(r)
	var (
		n   store.News
		err error
	)
	switch {
	case slug != "":
		n, err = h.queries.GetNewsBySlug(r.Context(), slug)
	case id > 0:
		n, err = h.queries.GetNewsByID(r.Context(), id)
	default:
		WriteBadRequest(w, "Slug or ID is required")
		return n, false
	}
	if err != nil {
		h.WriteServiceError(w, r, newsLabel, err)
		return n, false
	}
	return n, true
}

// CreateNews handles POST /api/admin/news.
func (h *Handler) CreateNews(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	ctx := r.Context()

	var req CreateNewsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fe := fieldErrors{}
	eventDate := nullTime(fe, "event_date", req.EventDate)
	explicitPublished := nullTime(fe, "published_at", req.PublishedAt)
	if len(fe) > 0 {
		WriteValidationError(w, fe)
		return
	}

	content, err := service.PrepareContent(req.Content, req.ContentFormat)
	if err != nil {
		WriteValidationError(w, map[string]string{"content": "Content could not be rendered"})
		return
	}

	slug, err := h.slugFor(r.Context(), newsLabel, req.Slug, req.Title, "news", 0, h.queries.NewsSlugExists)
	if err != nil {
		h.WriteServiceError(w, r, newsLabel, err)
		return
	}

	now := h.now()
	n, err := h.queries.CreateNews(ctx, store.CreateNewsParams{
		Title:         service.PlainText(req.Title),
		Slug:          slug,
		Content:       content,
		Excerpt:       service.Excerpt(req.Excerpt, content, 300),
		FeaturedImage: req.FeaturedImage,
		EventDate:     eventDate,
		IsFeatured:    req.IsFeatured,
		IsPublished:   req.IsPublished,
		PublishedAt:   publishedAt(sql.NullTime{}, explicitPublished, req.IsPublished, now),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		h.WriteServiceError(w, r, newsLabel, err)
		return
	}

	h.recordContent(r, user, model.ActionCreate, model.EntityNews, n.ID, n.Title)
	WriteCreated(w, n.ID, newsResponse(n))
}

// UpdateNews handles PUT/PATCH /api/admin/news/{id}.
func (h *Handler) UpdateNews(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	ctx := r.Context()

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateNewsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	n, err := h.queries.GetNewsByID(ctx, id)
	if err != nil {
		h.WriteServiceError(w, r, newsLabel, err)
		return
	}

	fe := fieldErrors{}
	if req.EventDate != nil {
		n.EventDate = nullTime(fe, "event_date", req.EventDate)
	}
	var explicitPublished sql.NullTime
	if req.PublishedAt != nil {
		explicitPublished = nullTime(fe, "published_at", req.PublishedAt)
		// "" drops the stored stamp; a published item is stamped again below.
		n.PublishedAt = sql.NullTime{}
	}
	if len(fe) > 0 {
		WriteValidationError(w, fe)
		return
	}

	if req.Title != nil {
		n.Title = service.PlainText(*req.Title)
	}
	if req.Slug != nil && *req.Slug != n.Slug {
		taken, err := h.queries.NewsSlugExists(ctx, *req.Slug, n.ID)
		if err != nil {
			h.WriteServiceError(w, r, newsLabel, err)
			return
		}
		if taken {
			WriteValidationError(w, map[string]string{"slug": slugTakenMessage(newsLabel)})
			return
		}
		n.Slug = *req.Slug
	}
	if req.Content != nil {
		content, err := service.PrepareContent(*req.Content, req.ContentFormat)
		if err != nil {
			WriteValidationError(w, map[string]string{"content": "Content could not be rendered"})
			return
		}
		n.Content = content
	}
	if req.Excerpt != nil {
		n.Excerpt = service.Excerpt(*req.Excerpt, n.Content, 300)
	}
	set(&n.FeaturedImage, req.FeaturedImage)
	set(&n.IsFeatured, req.IsFeatured)
	set(&n.IsPublished, req.IsPublished)

	now := h.now()
	updated, err := h.queries.UpdateNews(ctx, store.UpdateNewsParams{
		ID:            n.ID,
		Title:         n.Title,
		Slug:          n.Slug,
		Content:       n.Content,
		Excerpt:       n.Excerpt,
		FeaturedImage: n.FeaturedImage,
		EventDate:     n.EventDate,
		IsFeatured:    n.IsFeatured,
		IsPublished:   n.IsPublished,
		PublishedAt:   publishedAt(n.PublishedAt, explicitPublished, n.IsPublished, now),
		UpdatedAt:     now,
	})
	if err != nil {
		h.WriteServiceError(w, r, newsLabel, err)
		return
	}

	h.recordContent(r, user, model.ActionUpdate, model.EntityNews, updated.ID, updated.Title)
	WriteSuccess(w, newsResponse(updated))
}

// DeleteNews handles DELETE /api/admin/news/{id}.
func (h *Handler) DeleteNews(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.queries.SoftDeleteNews(r.Context(), id, h.now()); err != nil {
		h.WriteServiceError(w, r, newsLabel, err)
		return
	}

	h.recordContent(r, user, model.ActionDelete, model.EntityNews, id, "#"+formatID(id))
	WriteMessage(w, "News item deleted")
}
