// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/olegiv/instcms/internal/store"
)

// AuditEntryResponse represents one audit log row.
type AuditEntryResponse struct {
	ID         int64           `json:"id"`
	Level      string          `json:"level"`
	Category   string          `json:"category"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   *int64          `json:"entity_id"`
	Message    string          `json:"message"`
	UserID     *int64          `json:"user_id"`
	IPAddress  string          `json:"ip_address"`
	RequestURL string          `json:"request_url"`
	Metadata   json.RawMessage `json:"metadata"`
	CreatedAt  time.Time       `json:"created_at"`
}

func auditResponse(e store.AuditEntry) AuditEntryResponse {
	resp := AuditEntryResponse{
		ID:         e.ID,
		Level:      e.Level,
		Category:   e.Category,
		Action:     e.Action,
		EntityType: e.EntityType,
		Message:    e.Message,
		IPAddress:  e.IpAddress,
		RequestURL: e.RequestUrl,
		Metadata:   json.RawMessage("{}"),
		CreatedAt:  e.CreatedAt,
	}
	if e.EntityID.Valid {
		resp.EntityID = &e.EntityID.Int64
	}
	if e.UserID.Valid {
		resp.UserID = &e.UserID.Int64
	}
	if json.Valid([]byte(e.Metadata)) {
		resp.Metadata = json.RawMessage(e.Metadata)
	}
	return resp
}

// ListAudit handles GET /api/admin/audit, newest first. Filters: level,
// category, entity_type, entity_id, user_id.
func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, limit, offset := h.page(r)
	q := r.URL.Query()

	f := store.AuditFilter{
		Level:      q.Get("level"),
		Category:   q.Get("category"),
		EntityType: q.Get("entity_type"),
		EntityID:   queryInt(r, "entity_id"),
		UserID:     queryInt(r, "user_id"),
	}

	total, err := h.queries.CountAuditEntries(ctx, f)
	if err != nil {
		h.writeInternalError(w, r, "Failed to count audit entries", err)
		return
	}
	entries, err := h.queries.ListAuditEntries(ctx, f, store.Paging{Limit: int64(limit), Offset: offset})
	if err != nil {
		h.writeInternalError(w, r, "Failed to list audit entries", err)
		return
	}

	data := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		data = append(data, auditResponse(e))
	}
	WriteList(w, data, pagination(page, limit, total))
}
