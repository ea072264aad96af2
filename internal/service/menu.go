// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"

	"github.com/olegiv/instcms/internal/cache"
	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/store"
)

// MenuEntry is one navigation link.
type MenuEntry struct {
	ID         int64   `json:"id"`
	Slug       string  `json:"slug"`
	Label      string  `json:"label"`
	ParentMenu *string `json:"parent_menu"`
	IsSubmenu  bool    `json:"is_submenu"`
}

// MenuGroup holds the entries filed under one top-level key.
type MenuGroup struct {
	Key     string      `json:"key"`
	Entries []MenuEntry `json:"entries"`
}

// Menu is the resolved navigation tree.
type Menu struct {
	TopLevel []MenuEntry `json:"top_level"`
	Groups   []MenuGroup `json:"groups"`
	// Orphans are entries whose parent_menu is not a known key. They are
	// never shown publicly.
	Orphans []MenuEntry `json:"orphans,omitempty"`
}

// Items flattens the menu in display order: top-level entries, then each
// group in key order.
func (m Menu) Items() []MenuEntry {
	out := make([]MenuEntry, 0, len(m.TopLevel))
	out = append(out, m.TopLevel...)
	for _, g := range m.Groups {
		out = append(out, g.Entries...)
	}
	return out
}

// Public returns a copy of m without orphans.
func (m Menu) Public() Menu {
	m.Orphans = nil
	return m
}

// Group returns the entries under key, or nil.
func (m Menu) Group(key string) []MenuEntry {
	for _, g := range m.Groups {
		if g.Key == key {
			return g.Entries
		}
	}
	return nil
}

// BuildMenu resolves pages into a Menu. pages are expected to be live,
// enabled and marked show_in_menu; BuildMenu does not filter them again.
// Each group is ordered by sort_order, then menu_position, then id.
func BuildMenu(pages []store.Page) Menu {
	sorted := slices.Clone(pages)
	slices.SortStableFunc(sorted, func(a, b store.Page) int {
		return cmp.Or(
			cmp.Compare(a.SortOrder, b.SortOrder),
			cmp.Compare(a.MenuPosition, b.MenuPosition),
			cmp.Compare(a.ID, b.ID),
		)
	})

	menu := Menu{TopLevel: []MenuEntry{}, Groups: []MenuGroup{}}
	grouped := make(map[string][]MenuEntry)

	for _, p := range sorted {
		entry := MenuEntry{
			ID:        p.ID,
			Slug:      p.Slug,
			Label:     p.Title,
			IsSubmenu: p.IsSubmenu,
		}
		if p.MenuLabel.Valid && p.MenuLabel.String != "" {
			entry.Label = p.MenuLabel.String
		}

		if !p.ParentMenu.Valid || p.ParentMenu.String == "" {
			menu.TopLevel = append(menu.TopLevel, entry)
			continue
		}

		parent := p.ParentMenu.String
		entry.ParentMenu = &parent
		if !model.IsMenuKey(parent) {
			menu.Orphans = append(menu.Orphans, entry)
			continue
		}
		grouped[parent] = append(grouped[parent], entry)
	}

	for _, key := range model.MenuKeys {
		if entries, ok := grouped[key]; ok {
			menu.Groups = append(menu.Groups, MenuGroup{Key: key, Entries: entries})
		}
	}

	return menu
}

// MenuService loads the menu from the store, optionally through a cache.
type MenuService struct {
	queries *store.Queries
	cache   *cache.TypedCache[Menu]
	backend cache.Cacher
}

// NewMenuService creates a MenuService. c may be nil.
func NewMenuService(db *sql.DB, c cache.Cacher, ttlSeconds int) *MenuService {
	return &MenuService{
		queries: store.New(db),
		cache:   cache.NewTypedCache[Menu](c, secondsToDuration(ttlSeconds)),
		backend: c,
	}
}

// Menu returns the full menu, orphans included. Orphans are logged at WARN
// each time the menu is rebuilt from the database.
func (s *MenuService) Menu(ctx context.Context) (Menu, error) {
	m, err := s.cache.GetOrSet(ctx, cache.KeyMenu, func() (*Menu, error) {
		pages, err := s.queries.ListMenuPages(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing menu pages: %w", err)
		}
		built := BuildMenu(pages)
		for _, o := range built.Orphans {
			slog.Warn("menu page has unknown parent_menu",
				"category", model.EventCategoryContent,
				"page_id", o.ID,
				"slug", o.Slug,
				"parent_menu", *o.ParentMenu)
		}
		return &built, nil
	})
	if err != nil {
		return Menu{}, err
	}
	return *m, nil
}

// Invalidate drops the cached menu. Call after any page write.
func (s *MenuService) Invalidate(ctx context.Context) {
	cache.Invalidate(ctx, s.backend, cache.KeyMenu)
}
