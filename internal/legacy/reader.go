// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package legacy

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/go-sql-driver/mysql"

	"github.com/olegiv/instcms/internal/model"
)

// validPrefixPattern matches safe SQL table prefixes (alphanumeric + underscore, max 20 chars).
var validPrefixPattern = regexp.MustCompile(`^[a-zA-Z0-9_]{0,20}$`)

// sanitizeTablePrefix validates the table prefix to prevent SQL injection.
func sanitizeTablePrefix(prefix string) (string, error) {
	if !validPrefixPattern.MatchString(prefix) {
		return "", fmt.Errorf("invalid table prefix %q: must be alphanumeric/underscore, max 20 chars", prefix)
	}
	return prefix, nil
}

// Reader reads the legacy MySQL database. Soft-deleted rows are never
// returned.
type Reader struct {
	db     *sql.DB
	prefix string
}

// NewReader connects to the MySQL database at dsn. Time parsing is forced
// on so DATETIME columns scan into time.Time.
func NewReader(ctx context.Context, dsn, tablePrefix string) (*Reader, error) {
	prefix, err := sanitizeTablePrefix(tablePrefix)
	if err != nil {
		return nil, err
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing legacy DSN: %w", err)
	}
	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating legacy connector: %w", err)
	}
	db := sql.OpenDB(connector)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to legacy database: %w", err)
	}

	return &Reader{db: db, prefix: prefix}, nil
}

// Close closes the database connection.
func (r *Reader) Close() error {
	return r.db.Close()
}

func (r *Reader) table(name string) string {
	return "`" + r.prefix + name + "`"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func readAll[T any](ctx context.Context, r *Reader, query string, scan func(rowScanner) (T, error)) ([]T, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Pages returns live pages in menu order.
func (r *Reader) Pages(ctx context.Context) ([]Page, error) {
	q := fmt.Sprintf(`SELECT id, title, COALESCE(slug, ''), COALESCE(content, ''), COALESCE(excerpt, ''),
		COALESCE(meta_title, ''), COALESCE(meta_description, ''), COALESCE(featured_image, ''),
		COALESCE(menu_label, ''), menu_position, COALESCE(parent_menu, ''),
		is_submenu, is_enabled, is_featured, show_in_menu, sort_order, created_at, updated_at
		FROM %s WHERE deleted_at IS NULL ORDER BY id`, r.table("pages"))

	pages, err := readAll(ctx, r, q, func(s rowScanner) (Page, error) {
		var p Page
		err := s.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt,
			&p.MetaTitle, &p.MetaDescription, &p.FeaturedImage,
			&p.MenuLabel, &p.MenuPosition, &p.ParentMenu,
			&p.IsSubmenu, &p.IsEnabled, &p.IsFeatured, &p.ShowInMenu, &p.SortOrder, &p.CreatedAt, &p.UpdatedAt)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("reading pages: %w", err)
	}
	return pages, nil
}

// News returns live news items.
func (r *Reader) News(ctx context.Context) ([]News, error) {
	q := fmt.Sprintf(`SELECT id, title, COALESCE(slug, ''), COALESCE(content, ''), COALESCE(excerpt, ''),
		COALESCE(featured_image, ''), event_date, is_featured, is_published, published_at, created_at, updated_at
		FROM %s WHERE deleted_at IS NULL ORDER BY id`, r.table("news"))

	items, err := readAll(ctx, r, q, func(s rowScanner) (News, error) {
		var n News
		err := s.Scan(&n.ID, &n.Title, &n.Slug, &n.Content, &n.Excerpt,
			&n.FeaturedImage, &n.EventDate, &n.IsFeatured, &n.IsPublished, &n.PublishedAt, &n.CreatedAt, &n.UpdatedAt)
		return n, err
	})
	if err != nil {
		return nil, fmt.Errorf("reading news: %w", err)
	}
	return items, nil
}

// Banners returns live banners.
func (r *Reader) Banners(ctx context.Context) ([]Banner, error) {
	q := fmt.Sprintf(`SELECT id, type, COALESCE(title, ''), COALESCE(subtitle, ''), COALESCE(image, ''),
		COALESCE(link_url, ''), COALESCE(link_text, ''), COALESCE(content, ''), sort_order, is_active,
		starts_at, ends_at, created_at, updated_at
		FROM %s WHERE deleted_at IS NULL ORDER BY id`, r.table("banners"))

	banners, err := readAll(ctx, r, q, func(s rowScanner) (Banner, error) {
		var b Banner
		err := s.Scan(&b.ID, &b.Type, &b.Title, &b.Subtitle, &b.Image,
			&b.LinkURL, &b.LinkText, &b.Content, &b.SortOrder, &b.IsActive,
			&b.StartsAt, &b.EndsAt, &b.CreatedAt, &b.UpdatedAt)
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("reading banners: %w", err)
	}
	return banners, nil
}

// CouncilMembers returns live council members.
func (r *Reader) CouncilMembers(ctx context.Context) ([]CouncilMember, error) {
	q := fmt.Sprintf(`SELECT id, name, title, COALESCE(dimension, ''), COALESCE(commission, ''),
		COALESCE(photo, ''), COALESCE(email, ''), COALESCE(bio, ''), sort_order, is_active, created_at, updated_at
		FROM %s WHERE deleted_at IS NULL ORDER BY id`, r.table("council_members"))

	members, err := readAll(ctx, r, q, func(s rowScanner) (CouncilMember, error) {
		var m CouncilMember
		err := s.Scan(&m.ID, &m.Name, &m.Title, &m.Dimension, &m.Commission,
			&m.Photo, &m.Email, &m.Bio, &m.SortOrder, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("reading council members: %w", err)
	}
	return members, nil
}

// Provincials returns live provincial superiors.
func (r *Reader) Provincials(ctx context.Context) ([]Provincial, error) {
	q := fmt.Sprintf(`SELECT id, name, title, COALESCE(province, ''), COALESCE(photo, ''),
		COALESCE(email, ''), COALESCE(phone, ''), COALESCE(bio, ''), sort_order, is_active, created_at, updated_at
		FROM %s WHERE deleted_at IS NULL ORDER BY id`, r.table("provincials"))

	list, err := readAll(ctx, r, q, func(s rowScanner) (Provincial, error) {
		var p Provincial
		err := s.Scan(&p.ID, &p.Name, &p.Title, &p.Province, &p.Photo,
			&p.Email, &p.Phone, &p.Bio, &p.SortOrder, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("reading provincials: %w", err)
	}
	return list, nil
}

// Publications returns live rows of the table backing kind.
func (r *Reader) Publications(ctx context.Context, kind model.PublicationKind) ([]Publication, error) {
	q := fmt.Sprintf(`SELECT id, title, month, year, COALESCE(file_path, ''), COALESCE(description, ''),
		is_active, created_at, updated_at
		FROM %s WHERE deleted_at IS NULL ORDER BY year, month, id`, r.table(kind.Table()))

	list, err := readAll(ctx, r, q, func(s rowScanner) (Publication, error) {
		var p Publication
		err := s.Scan(&p.ID, &p.Title, &p.Month, &p.Year, &p.FilePath, &p.Description,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", kind.Table(), err)
	}
	return list, nil
}

// Gallery returns live gallery items.
func (r *Reader) Gallery(ctx context.Context) ([]GalleryItem, error) {
	q := fmt.Sprintf(`SELECT id, title, COALESCE(slug, ''), COALESCE(description, ''), image,
		COALESCE(thumbnail, ''), COALESCE(album, ''), sort_order, is_featured, is_active, taken_at, created_at, updated_at
		FROM %s WHERE deleted_at IS NULL ORDER BY id`, r.table("gallery"))

	items, err := readAll(ctx, r, q, func(s rowScanner) (GalleryItem, error) {
		var g GalleryItem
		err := s.Scan(&g.ID, &g.Title, &g.Slug, &g.Description, &g.Image,
			&g.Thumbnail, &g.Album, &g.SortOrder, &g.IsFeatured, &g.IsActive, &g.TakenAt, &g.CreatedAt, &g.UpdatedAt)
		return g, err
	})
	if err != nil {
		return nil, fmt.Errorf("reading gallery: %w", err)
	}
	return items, nil
}

// Settings returns all key/value settings.
func (r *Reader) Settings(ctx context.Context) ([]Setting, error) {
	q := fmt.Sprintf("SELECT setting_key, COALESCE(setting_value, ''), is_public FROM %s ORDER BY setting_key",
		r.table("settings"))

	settings, err := readAll(ctx, r, q, func(s rowScanner) (Setting, error) {
		var st Setting
		err := s.Scan(&st.Key, &st.Value, &st.IsPublic)
		return st, err
	})
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	return settings, nil
}

// Users returns live admin users.
func (r *Reader) Users(ctx context.Context) ([]User, error) {
	q := fmt.Sprintf(`SELECT id, username, password_hash, COALESCE(role, ''), created_at
		FROM %s WHERE deleted_at IS NULL ORDER BY id`, r.table("admin_users"))

	users, err := readAll(ctx, r, q, func(s rowScanner) (User, error) {
		var u User
		err := s.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
		return u, err
	})
	if err != nil {
		return nil, fmt.Errorf("reading admin users: %w", err)
	}
	return users, nil
}
