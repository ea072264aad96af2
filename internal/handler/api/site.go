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

// SettingResponse represents a setting row on the admin side.
type SettingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	IsPublic  bool      `json:"is_public"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettingInput is one entry of a settings update. Delete removes the key.
type SettingInput struct {
	Key      string `json:"key" validate:"required,max=100,lowercase,excludesall= /"`
	Value    string `json:"value" validate:"max=10000"`
	IsPublic bool   `json:"is_public"`
	Delete   bool   `json:"delete"`
}

// UpdateSettingsRequest is the body of PUT /api/admin/settings.
type UpdateSettingsRequest struct {
	Settings []SettingInput `json:"settings" validate:"required,min=1,max=200,dive"`
}

// PublicSettings handles GET /api/settings: public keys as a flat object.
func (h *Handler) PublicSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Public(r.Context())
	if err != nil {
		h.writeInternalError(w, r, "Failed to load settings", err)
		return
	}
	WriteSuccess(w, settings)
}

// AdminSettings handles GET /api/admin/settings: every key with its
// visibility.
func (h *Handler) AdminSettings(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.ListSettings(r.Context(), false)
	if err != nil {
		h.writeInternalError(w, r, "Failed to load settings", err)
		return
	}
	WriteSuccess(w, settingResponses(rows))
}

// UpdateSettings handles PUT /api/admin/settings. Existing keys keep their
// visibility; is_public only applies to new keys.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	ctx := r.Context()

	var req UpdateSettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		h.writeInternalError(w, r, "Failed to save settings", err)
		return
	}
	defer func() { _ = tx.Rollback() }()

	qtx := h.queries.WithTx(tx)
	now := h.now()
	var changed, removed []string
	for _, s := range req.Settings {
		if s.Delete {
			if err := qtx.DeleteSetting(ctx, s.Key); err != nil {
				h.writeInternalError(w, r, "Failed to save settings", err)
				return
			}
			removed = append(removed, s.Key)
			continue
		}
		if _, err := qtx.UpsertSetting(ctx, store.UpsertSettingParams{
			Key:       s.Key,
			Value:     s.Value,
			IsPublic:  s.IsPublic,
			UpdatedAt: now,
		}); err != nil {
			h.writeInternalError(w, r, "Failed to save settings", err)
			return
		}
		changed = append(changed, s.Key)
	}
	if err := tx.Commit(); err != nil {
		h.writeInternalError(w, r, "Failed to save settings", err)
		return
	}

	h.settings.Invalidate(ctx)
	h.record(r, user, service.AuditEvent{
		Category:   model.EventCategorySettings,
		Action:     model.ActionUpdate,
		EntityType: model.EntitySetting,
		Message:    "Settings updated",
		Metadata:   map[string]any{"changed": changed, "removed": removed},
	})

	rows, err := h.queries.ListSettings(ctx, false)
	if err != nil {
		h.writeInternalError(w, r, "Failed to load settings", err)
		return
	}
	WriteSuccess(w, settingResponses(rows))
}

func settingResponses(rows []store.Setting) []SettingResponse {
	out := make([]SettingResponse, 0, len(rows))
	for _, s := range rows {
		out = append(out, SettingResponse{
			Key:       s.Key,
			Value:     s.Value,
			IsPublic:  s.IsPublic,
			UpdatedAt: s.UpdatedAt,
		})
	}
	return out
}

// PublicMenu handles GET /api/menu. Orphaned entries are left out.
func (h *Handler) PublicMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.menu.Menu(r.Context())
	if err != nil {
		h.writeInternalError(w, r, "Failed to build menu", err)
		return
	}
	WriteSuccess(w, menu.Public())
}

// AdminMenu handles GET /api/admin/menu, reporting orphaned entries whose
// parent_menu matches no known key.
func (h *Handler) AdminMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.menu.Menu(r.Context())
	if err != nil {
		h.writeInternalError(w, r, "Failed to build menu", err)
		return
	}
	orphans := menu.Orphans
	if orphans == nil {
		orphans = []service.MenuEntry{}
	}
	WriteSuccess(w, AdminMenuResponse{
		TopLevel: menu.TopLevel,
		Groups:   menu.Groups,
		Orphans:  orphans,
		Keys:     model.MenuKeys,
	})
}

// AdminMenuResponse is the admin view of the navigation menu.
type AdminMenuResponse struct {
	TopLevel []service.MenuEntry `json:"top_level"`
	Groups   []service.MenuGroup `json:"groups"`
	Orphans  []service.MenuEntry `json:"orphans"`
	Keys     []string            `json:"keys"`
}
