// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package legacy imports content from the PHP-era MySQL database.
package legacy

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/instcms/internal/auth"
	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/service"
	"github.com/olegiv/instcms/internal/store"
	"github.com/olegiv/instcms/internal/util"
)

// Source yields legacy rows. *Reader is the MySQL implementation.
type Source interface {
	Pages(ctx context.Context) ([]Page, error)
	News(ctx context.Context) ([]News, error)
	Banners(ctx context.Context) ([]Banner, error)
	CouncilMembers(ctx context.Context) ([]CouncilMember, error)
	Provincials(ctx context.Context) ([]Provincial, error)
	Publications(ctx context.Context, kind model.PublicationKind) ([]Publication, error)
	Gallery(ctx context.Context) ([]GalleryItem, error)
	Settings(ctx context.Context) ([]Setting, error)
	Users(ctx context.Context) ([]User, error)
}

// TableResult counts the outcome for one legacy table.
type TableResult struct {
	Table    string
	Imported int
	Skipped  int
}

// Result is the outcome of an import, one entry per table in import order.
type Result struct {
	Tables []TableResult
}

// Total returns the number of imported rows across all tables.
func (r *Result) Total() int {
	n := 0
	for _, t := range r.Tables {
		n += t.Imported
	}
	return n
}

// Importer copies legacy rows into the SQLite store.
type Importer struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewImporter creates an importer writing to db.
func NewImporter(db *sql.DB, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{db: db, logger: logger, now: time.Now}
}

type tableImport func(ctx context.Context, q *store.Queries, src Source) (TableResult, error)

// Import reads every table from src and writes it in a single transaction.
// Nothing is written when any table fails.
func (im *Importer) Import(ctx context.Context, src Source) (*Result, error) {
	tx, err := im.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := store.New(im.db).WithTx(tx)
	steps := []tableImport{
		im.importUsers,
		im.importSettings,
		im.importPages,
		im.importNews,
		im.importBanners,
		im.importCouncil,
		im.importProvincials,
		im.publications(model.PublicationCircular),
		im.publications(model.PublicationNewsLine),
		im.importGallery,
	}

	res := &Result{}
	for _, step := range steps {
		tr, err := step(ctx, q, src)
		if err != nil {
			return nil, err
		}
		im.logger.Info("imported legacy table", "table", tr.Table, "imported", tr.Imported, "skipped", tr.Skipped)
		res.Tables = append(res.Tables, tr)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing import: %w", err)
	}
	return res, nil
}

func (im *Importer) skip(table string, id int64, reason string) {
	im.logger.Warn("skipping legacy row", "table", table, "legacy_id", id, "reason", reason)
}

// stamps fills zero timestamps with the import time.
func (im *Importer) stamps(created, updated time.Time) (time.Time, time.Time) {
	now := im.now()
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() {
		updated = created
	}
	return created, updated
}

type slugExists func(ctx context.Context, slug string, excludeID int64) (bool, error)

// resolveSlug keeps want when it is valid and free. Otherwise a unique slug
// is derived from want, or from title when want is unusable.
func (im *Importer) resolveSlug(ctx context.Context, want, title, fallback string, exists slugExists) (string, error) {
	taken := func(s string) (bool, error) { return exists(ctx, s, 0) }

	base := title
	if util.IsValidSlug(want) {
		ok, err := taken(want)
		if err != nil {
			return "", err
		}
		if !ok {
			return want, nil
		}
		base = want
	}
	return util.UniqueSlug(base, fallback, im.now(), taken)
}

func (im *Importer) importUsers(ctx context.Context, q *store.Queries, src Source) (TableResult, error) {
	tr := TableResult{Table: "admin_users"}
	users, err := src.Users(ctx)
	if err != nil {
		return tr, err
	}

	for _, u := range users {
		username := strings.TrimSpace(u.Username)
		if msg := auth.ValidateUsername(username); msg != "" {
			im.skip(tr.Table, u.ID, msg)
			tr.Skipped++
			continue
		}
		if !auth.IsLegacyHash(u.PasswordHash) && !strings.HasPrefix(u.PasswordHash, "$argon2id$") {
			im.skip(tr.Table, u.ID, "unsupported password hash")
			tr.Skipped++
			continue
		}
		exists, err := q.UsernameExists(ctx, username, 0)
		if err != nil {
			return tr, fmt.Errorf("checking username %q: %w", username, err)
		}
		if exists {
			im.skip(tr.Table, u.ID, "username already exists")
			tr.Skipped++
			continue
		}

		role := strings.ToLower(strings.TrimSpace(u.Role))
		if !model.IsValidRole(role) {
			role = model.RoleEditor
		}
		created, updated := im.stamps(u.CreatedAt, time.Time{})
		if _, err := q.CreateUser(ctx, store.CreateUserParams{
			Username:     username,
			PasswordHash: u.PasswordHash,
			Role:         role,
			CreatedAt:    created,
			UpdatedAt:    updated,
		}); err != nil {
			return tr, fmt.Errorf("importing user %d: %w", u.ID, err)
		}
		tr.Imported++
	}
	return tr, nil
}

func (im *Importer) importSettings(ctx context.Context, q *store.Queries, src Source) (TableResult, error) {
	tr := TableResult{Table: "settings"}
	settings, err := src.Settings(ctx)
	if err != nil {
		return tr, err
	}

	for _, s := range settings {
		key := strings.TrimSpace(s.Key)
		if key == "" {
			tr.Skipped++
			continue
		}
		if _, err := q.UpsertSetting(ctx, store.UpsertSettingParams{
			Key:       key,
			Value:     s.Value,
			IsPublic:  s.IsPublic,
			UpdatedAt: im.now(),
		}); err != nil {
			return tr, fmt.Errorf("importing setting %q: %w", key, err)
		}
		tr.Imported++
	}
	return tr, nil
}

func (im *Importer) importPages(ctx context.Context, q *store.Queries, src Source) (TableResult, error) {
	tr := TableResult{Table: "pages"}
	pages, err := src.Pages(ctx)
	if err != nil {
		return tr, err
	}

	for _, p := range pages {
		title := strings.TrimSpace(p.Title)
		if title == "" {
			im.skip(tr.Table, p.ID, "missing title")
			tr.Skipped++
			continue
		}
		slug, err := im.resolveSlug(ctx, p.Slug, title, "page", q.PageSlugExists)
		if err != nil {
			return tr, fmt.Errorf("resolving slug for page %d: %w", p.ID, err)
		}

		parent := util.NullStringFromValue(strings.TrimSpace(p.ParentMenu))
		if parent.Valid && !model.IsMenuKey(parent.String) {
			parent = sql.NullString{}
		}
		created, updated := im.stamps(p.CreatedAt, p.UpdatedAt)

		if _, err := q.CreatePage(ctx, store.CreatePageParams{
			Title:           title,
			Slug:            slug,
			Content:         service.SanitizeHTML(p.Content),
			Excerpt:         service.PlainText(p.Excerpt),
			MetaTitle:       service.PlainText(p.MetaTitle),
			MetaDescription: service.PlainText(p.MetaDescription),
			FeaturedImage:   strings.TrimSpace(p.FeaturedImage),
			MenuLabel:       util.NullStringFromValue(strings.TrimSpace(p.MenuLabel)),
			MenuPosition:    p.MenuPosition,
			ParentMenu:      parent,
			IsSubmenu:       p.IsSubmenu && parent.Valid,
			IsEnabled:       p.IsEnabled,
			IsFeatured:      p.IsFeatured,
			ShowInMenu:      p.ShowInMenu,
			SortOrder:       p.SortOrder,
			CreatedAt:       created,
			UpdatedAt:       updated,
		}); err != nil {
			return tr, fmt.Errorf("importing page %d: %w", p.ID, err)
		}
		tr.Imported++
	}
	return tr, nil
}

func (im *Importer) importNews(ctx context.Context, q *store.Queries, src Source) (TableResult, error) {
	tr := TableResult{Table: "news"}
	items, err := src.News(ctx)
	if err != nil {
		return tr, err
	}

	for _, n := range items {
		title := strings.TrimSpace(n.Title)
		if title == "" {
			im.skip(tr.Table, n.ID, "missing title")
			tr.Skipped++
			continue
		}
		slug, err := im.resolveSlug(ctx, n.Slug, title, "news", q.NewsSlugExists)
		if err != nil {
			return tr, fmt.Errorf("resolving slug for news %d: %w", n.ID, err)
		}
		created, updated := im.stamps(n.CreatedAt, n.UpdatedAt)

		// Published items always carry their first publication time.
		published := n.PublishedAt
		if n.IsPublished && !published.Valid {
			published = sql.NullTime{Time: created, Valid: true}
		}

		if _, err := q.CreateNews(ctx, store.CreateNewsParams{
			Title:         title,
			Slug:          slug,
			Content:       service.SanitizeHTML(n.Content),
			Excerpt:       service.PlainText(n.Excerpt),
			FeaturedImage: strings.TrimSpace(n.FeaturedImage),
			EventDate:     n.EventDate,
			IsFeatured:    n.IsFeatured,
			IsPublished:   n.IsPublished,
			PublishedAt:   published,
			CreatedAt:     created,
			UpdatedAt:     updated,
		}); err != nil {
			return tr, fmt.Errorf("importing news %d: %w", n.ID, err)
		}
		tr.Imported++
	}
	return tr, nil
}

func (im *Importer) importBanners(ctx context.Context, q *store.Queries, src Source) (TableResult, error) {
	tr := TableResult{Table: "banners"}
	banners, err := src.Banners(ctx)
	if err != nil {
		return tr, err
	}

	for _, b := range banners {
		kind := model.BannerType(strings.TrimSpace(b.Type))
		if !kind.Valid() {
			im.skip(tr.Table, b.ID, "unknown banner type "+b.Type)
			tr.Skipped++
			continue
		}
		content := service.SanitizeHTML(b.Content)
		image := strings.TrimSpace(b.Image)
		if (kind.RequiredField() == "image" && image == "") || (kind.RequiredField() == "content" && content == "") {
			im.skip(tr.Table, b.ID, "missing "+kind.RequiredField())
			tr.Skipped++
			continue
		}
		created, updated := im.stamps(b.CreatedAt, b.UpdatedAt)

		if _, err := q.CreateBanner(ctx, store.CreateBannerParams{
			Type:      string(kind),
			Title:     service.PlainText(b.Title),
			Subtitle:  service.PlainText(b.Subtitle),
			Image:     image,
			LinkUrl:   strings.TrimSpace(b.LinkURL),
			LinkText:  service.PlainText(b.LinkText),
			Content:   content,
			SortOrder: b.SortOrder,
			IsActive:  b.IsActive,
			StartsAt:  b.StartsAt,
			EndsAt:    b.EndsAt,
			CreatedAt: created,
			UpdatedAt: updated,
		}); err != nil {
			return tr, fmt.Errorf("importing banner %d: %w", b.ID, err)
		}
		tr.Imported++
	}
	return tr, nil
}

func (im *Importer) importCouncil(ctx context.Context, q *store.Queries, src Source) (TableResult, error) {
	tr := TableResult{Table: "council_members"}
	members, err := src.CouncilMembers(ctx)
	if err != nil {
		return tr, err
	}

	for _, m := range members {
		if strings.TrimSpace(m.Name) == "" || !model.IsCouncilTitle(m.Title) {
			im.skip(tr.Table, m.ID, "missing name or unknown title "+m.Title)
			tr.Skipped++
			continue
		}
		created, updated := im.stamps(m.CreatedAt, m.UpdatedAt)

		if _, err := q.CreateCouncilMember(ctx, store.CreateCouncilMemberParams{
			Name:       strings.TrimSpace(m.Name),
			Title:      m.Title,
			Dimension:  strings.TrimSpace(m.Dimension),
			Commission: strings.TrimSpace(m.Commission),
			Photo:      strings.TrimSpace(m.Photo),
			Email:      strings.TrimSpace(m.Email),
			Bio:        service.SanitizeHTML(m.Bio),
			SortOrder:  m.SortOrder,
			IsActive:   m.IsActive,
			CreatedAt:  created,
			UpdatedAt:  updated,
		}); err != nil {
			return tr, fmt.Errorf("importing council member %d: %w", m.ID, err)
		}
		tr.Imported++
	}
	return tr, nil
}

func (im *Importer) importProvincials(ctx context.Context, q *store.Queries, src Source) (TableResult, error) {
	tr := TableResult{Table: "provincials"}
	list, err := src.Provincials(ctx)
	if err != nil {
		return tr, err
	}

	for _, p := range list {
		if strings.TrimSpace(p.Name) == "" || !model.IsProvincialTitle(p.Title) {
			im.skip(tr.Table, p.ID, "missing name or unknown title "+p.Title)
			tr.Skipped++
			continue
		}
		created, updated := im.stamps(p.CreatedAt, p.UpdatedAt)

		if _, err := q.CreateProvincial(ctx, store.CreateProvincialParams{
			Name:      strings.TrimSpace(p.Name),
			Title:     p.Title,
			Province:  strings.TrimSpace(p.Province),
			Photo:     strings.TrimSpace(p.Photo),
			Email:     strings.TrimSpace(p.Email),
			Phone:     strings.TrimSpace(p.Phone),
			Bio:       service.SanitizeHTML(p.Bio),
			SortOrder: p.SortOrder,
			IsActive:  p.IsActive,
			CreatedAt: created,
			UpdatedAt: updated,
		}); err != nil {
			return tr, fmt.Errorf("importing provincial %d: %w", p.ID, err)
		}
		tr.Imported++
	}
	return tr, nil
}

// publications imports one publication series. A (year, month) pair that is
// already taken keeps the first row and skips the rest.
func (im *Importer) publications(kind model.PublicationKind) tableImport {
	return func(ctx context.Context, q *store.Queries, src Source) (TableResult, error) {
		tr := TableResult{Table: kind.Table()}
		list, err := src.Publications(ctx, kind)
		if err != nil {
			return tr, err
		}

		for _, p := range list {
			if p.Month < 1 || p.Month > 12 || p.Year < model.MinPublicationYear || p.Year > model.MaxPublicationYear {
				im.skip(tr.Table, p.ID, fmt.Sprintf("invalid period %d-%02d", p.Year, p.Month))
				tr.Skipped++
				continue
			}
			taken, err := q.PublicationPeriodExists(ctx, kind, p.Year, p.Month, 0)
			if err != nil {
				return tr, fmt.Errorf("checking %s period: %w", kind.Label(), err)
			}
			if taken {
				im.skip(tr.Table, p.ID, fmt.Sprintf("duplicate period %d-%02d", p.Year, p.Month))
				tr.Skipped++
				continue
			}

			title := strings.TrimSpace(p.Title)
			if title == "" {
				title = time.Month(p.Month).String() + " " + fmt.Sprint(p.Year)
			}
			created, updated := im.stamps(p.CreatedAt, p.UpdatedAt)

			if _, err := q.CreatePublication(ctx, kind, store.CreatePublicationParams{
				Title:       title,
				Month:       p.Month,
				Year:        p.Year,
				FilePath:    strings.TrimSpace(p.FilePath),
				Description: service.PlainText(p.Description),
				IsActive:    p.IsActive,
				CreatedAt:   created,
				UpdatedAt:   updated,
			}); err != nil {
				return tr, fmt.Errorf("importing %s %d: %w", kind.Label(), p.ID, err)
			}
			tr.Imported++
		}
		return tr, nil
	}
}

func (im *Importer) importGallery(ctx context.Context, q *store.Queries, src Source) (TableResult, error) {
	tr := TableResult{Table: "gallery"}
	items, err := src.Gallery(ctx)
	if err != nil {
		return tr, err
	}

	for _, g := range items {
		title := strings.TrimSpace(g.Title)
		image := strings.TrimSpace(g.Image)
		if title == "" || image == "" {
			im.skip(tr.Table, g.ID, "missing title or image")
			tr.Skipped++
			continue
		}
		slug, err := im.resolveSlug(ctx, g.Slug, title, "photo", q.GallerySlugExists)
		if err != nil {
			return tr, fmt.Errorf("resolving slug for gallery item %d: %w", g.ID, err)
		}
		created, updated := im.stamps(g.CreatedAt, g.UpdatedAt)

		if _, err := q.CreateGalleryItem(ctx, store.CreateGalleryItemParams{
			Title:       title,
			Slug:        slug,
			Description: service.PlainText(g.Description),
			Image:       image,
			Thumbnail:   strings.TrimSpace(g.Thumbnail),
			Album:       strings.TrimSpace(g.Album),
			SortOrder:   g.SortOrder,
			IsFeatured:  g.IsFeatured,
			IsActive:    g.IsActive,
			TakenAt:     g.TakenAt,
			CreatedAt:   created,
			UpdatedAt:   updated,
		}); err != nil {
			return tr, fmt.Errorf("importing gallery item %d: %w", g.ID, err)
		}
		tr.Imported++
	}
	return tr, nil
}
