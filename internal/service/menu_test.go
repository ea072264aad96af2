// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/instcms/internal/cache"
	"github.com/olegiv/instcms/internal/store"
	"github.com/olegiv/instcms/internal/testutil"
)

func menuPage(id int64, title, parent string, sortOrder, position int64) store.Page {
	p := store.Page{
		ID:           id,
		Title:        title,
		Slug:         "page-" + title,
		SortOrder:    sortOrder,
		MenuPosition: position,
		IsEnabled:    true,
		ShowInMenu:   true,
	}
	if parent != "" {
		p.ParentMenu = sql.NullString{String: parent, Valid: true}
	}
	return p
}

func slugs(entries []MenuEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Slug
	}
	return out
}

func TestBuildMenu_SortOrderWithinGroup(t *testing.T) {
	p1 := menuPage(1, "p1", "council", 2, 0)
	p2 := menuPage(2, "p2", "council", 1, 0)

	m := BuildMenu([]store.Page{p1, p2})

	require.Len(t, m.Groups, 1)
	assert.Equal(t, "council", m.Groups[0].Key)
	assert.Equal(t, []string{"page-p2", "page-p1"}, slugs(m.Groups[0].Entries))
}

func TestBuildMenu_TieBreaks(t *testing.T) {
	pages := []store.Page{
		menuPage(5, "e", "", 1, 2),
		menuPage(4, "d", "", 1, 1),
		menuPage(3, "c", "", 1, 1),
		menuPage(1, "a", "", 0, 9),
	}

	m := BuildMenu(pages)

	assert.Equal(t, []string{"page-a", "page-c", "page-d", "page-e"}, slugs(m.TopLevel))
	assert.Empty(t, m.Groups)
}

func TestBuildMenu_LabelAndFlags(t *testing.T) {
	p := menuPage(1, "Dimension of Formation", "council", 0, 0)
	p.MenuLabel = sql.NullString{String: "Formation", Valid: true}
	p.IsSubmenu = true
	plain := menuPage(2, "About Us", "", 0, 0)

	m := BuildMenu([]store.Page{p, plain})

	entry := m.Group("council")[0]
	assert.Equal(t, "Formation", entry.Label)
	assert.True(t, entry.IsSubmenu)
	require.NotNil(t, entry.ParentMenu)
	assert.Equal(t, "council", *entry.ParentMenu)

	assert.Equal(t, "About Us", m.TopLevel[0].Label)
	assert.Nil(t, m.TopLevel[0].ParentMenu)
}

func TestBuildMenu_GroupOrderFollowsMenuKeys(t *testing.T) {
	pages := []store.Page{
		menuPage(1, "c", "contact", 0, 0),
		menuPage(2, "a", "about", 0, 0),
		menuPage(3, "m", "media", 0, 0),
	}

	m := BuildMenu(pages)

	keys := make([]string, len(m.Groups))
	for i, g := range m.Groups {
		keys[i] = g.Key
	}
	assert.Equal(t, []string{"about", "media", "contact"}, keys)
	assert.Equal(t, []string{"page-a", "page-m", "page-c"}, slugs(m.Items()))
}

func TestBuildMenu_Orphans(t *testing.T) {
	pages := []store.Page{
		menuPage(1, "ok", "about", 0, 0),
		menuPage(2, "lost", "nowhere", 0, 0),
	}

	m := BuildMenu(pages)

	assert.Equal(t, []string{"page-lost"}, slugs(m.Orphans))
	assert.Equal(t, []string{"page-ok"}, slugs(m.Items()))
	assert.Nil(t, m.Public().Orphans)
	assert.Len(t, m.Orphans, 1, "Public must not modify the receiver")
}

func TestBuildMenu_Empty(t *testing.T) {
	m := BuildMenu(nil)
	assert.NotNil(t, m.TopLevel)
	assert.NotNil(t, m.Groups)
	assert.Empty(t, m.Items())
}

func TestMenuService_FiltersAndCaches(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()
	q := store.New(db)

	mem := cache.NewMemoryCache(cache.MemoryOptions{DefaultTTL: time.Minute})
	defer func() { _ = mem.Close() }()
	svc := NewMenuService(db, mem, 60)

	now := time.Now()
	create := func(title, slug string, enabled, inMenu bool) store.Page {
		p, err := q.CreatePage(ctx, store.CreatePageParams{
			Title: title, Slug: slug, IsEnabled: enabled, ShowInMenu: inMenu,
			ParentMenu: sql.NullString{String: "about", Valid: true},
			CreatedAt:  now, UpdatedAt: now,
		})
		require.NoError(t, err)
		return p
	}
	visible := create("History", "history", true, true)
	create("Draft", "draft", false, true)
	create("Hidden", "hidden", true, false)
	deleted := create("Gone", "gone", true, true)
	require.NoError(t, q.SoftDeletePage(ctx, deleted.ID, now))

	m, err := svc.Menu(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{visible.Slug}, slugs(m.Items()))

	// A new page is not visible until the cached menu is invalidated.
	create("Mission", "mission", true, true)
	m, err = svc.Menu(ctx)
	require.NoError(t, err)
	assert.Len(t, m.Items(), 1)

	svc.Invalidate(ctx)
	m, err = svc.Menu(ctx)
	require.NoError(t, err)
	assert.Len(t, m.Items(), 2)
}
