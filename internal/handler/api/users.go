// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/olegiv/instcms/internal/auth"
	"github.com/olegiv/instcms/internal/middleware"
	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/service"
	"github.com/olegiv/instcms/internal/store"
	"github.com/olegiv/instcms/internal/util"
)

const userLabel = "user"

// UserResponse represents an admin account. The password hash never leaves
// the store.
type UserResponse struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Role           string     `json:"role"`
	FailedAttempts int64      `json:"failed_attempts"`
	LockedUntil    *time.Time `json:"locked_until"`
	LastLoginAt    *time.Time `json:"last_login_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func userResponse(u store.AdminUser) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Role:           u.Role,
		FailedAttempts: u.FailedAttempts,
		LockedUntil:    util.TimePtr(u.LockedUntil),
		LastLoginAt:    util.TimePtr(u.LastLoginAt),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// CreateUserRequest is the body of POST /api/admin/users.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,username"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"required,role"`
}

// UpdateUserRequest is the body of PUT /api/admin/users/{id}.
type UpdateUserRequest struct {
	Role     *string `json:"role" validate:"omitnil,role"`
	Password *string `json:"password" validate:"omitnil,min=8,max=128"`
	Unlock   bool    `json:"unlock"`
}

// ListUsers handles GET /api/admin/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, limit, offset := h.page(r)

	total, err := h.queries.CountUsers(ctx)
	if err != nil {
		h.writeInternalError(w, r, "Failed to count users", err)
		return
	}
	users, err := h.queries.ListUsers(ctx, store.Paging{Limit: int64(limit), Offset: offset})
	if err != nil {
		h.writeInternalError(w, r, "Failed to list users", err)
		return
	}

	data := make([]UserResponse, 0, len(users))
	for _, u := range users {
		data = append(data, userResponse(u))
	}
	WriteList(w, data, pagination(page, limit, total))
}

// GetUser handles GET /api/admin/users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.queries.GetUserByID(r.Context(), id)
	if err != nil {
		h.WriteServiceError(w, r, userLabel, err)
		return
	}
	WriteSuccess(w, userResponse(u))
}

// CreateUser handles POST /api/admin/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	ctx := r.Context()

	var req CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	taken, err := h.queries.UsernameExists(ctx, req.Username, 0)
	if err != nil {
		h.writeInternalError(w, r, "Failed to create user", err)
		return
	}
	if taken {
		WriteValidationError(w, map[string]string{"username": "Username is already taken"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.writeInternalError(w, r, "Failed to create user", err)
		return
	}

	now := h.now()
	created, err := h.queries.CreateUser(ctx, store.CreateUserParams{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		h.WriteServiceError(w, r, userLabel, err)
		return
	}

	h.record(r, user, service.AuditEvent{
		Category:   model.EventCategoryUser,
		Action:     model.ActionCreate,
		EntityType: model.EntityUser,
		EntityID:   created.ID,
		Message:    "User created: " + created.Username,
		Metadata:   map[string]any{"role": created.Role},
	})
	WriteCreated(w, created.ID, userResponse(created))
}

// UpdateUser handles PUT/PATCH /api/admin/users/{id}: role change, password
// reset and unlock. The last admin cannot be demoted.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	ctx := r.Context()

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	target, err := h.queries.GetUserByID(ctx, id)
	if err != nil {
		h.WriteServiceError(w, r, userLabel, err)
		return
	}

	now := h.now()
	if req.Role != nil && *req.Role != target.Role {
		last, err := h.isLastAdmin(r, target)
		if err != nil {
			h.writeInternalError(w, r, "Failed to update user", err)
			return
		}
		if last {
			WriteBadRequest(w, "Cannot demote the last admin")
			return
		}
		if target, err = h.queries.UpdateRole(ctx, target.ID, *req.Role, now); err != nil {
			h.WriteServiceError(w, r, userLabel, err)
			return
		}
		h.recordUser(r, user, target, model.ActionUpdate, "Role changed to "+target.Role+": "+target.Username)
	}

	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err == nil {
			err = h.queries.UpdatePassword(ctx, target.ID, hash, now)
		}
		if err != nil {
			h.writeInternalError(w, r, "Failed to reset password", err)
			return
		}
		h.recordUser(r, user, target, model.ActionPasswordChange, "Password reset: "+target.Username)
	}

	if req.Unlock {
		if err := h.queries.UnlockUser(ctx, target.ID, now); err != nil {
			h.writeInternalError(w, r, "Failed to unlock user", err)
			return
		}
		h.recordUser(r, user, target, model.ActionUnlock, "Account unlocked: "+target.Username)
	}

	updated, err := h.queries.GetUserByID(ctx, target.ID)
	if err != nil {
		h.WriteServiceError(w, r, userLabel, err)
		return
	}
	WriteSuccess(w, userResponse(updated))
}

// DeleteUser handles DELETE /api/admin/users/{id}. Admins cannot delete
// themselves or the last admin.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	ctx := r.Context()

	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if id == user.ID {
		WriteBadRequest(w, "You cannot delete your own account")
		return
	}

	target, err := h.queries.GetUserByID(ctx, id)
	if err != nil {
		h.WriteServiceError(w, r, userLabel, err)
		return
	}
	last, err := h.isLastAdmin(r, target)
	if err != nil {
		h.writeInternalError(w, r, "Failed to delete user", err)
		return
	}
	if last {
		WriteBadRequest(w, "Cannot delete the last admin")
		return
	}

	if err := h.queries.DeleteUser(ctx, id); err != nil {
		h.WriteServiceError(w, r, userLabel, err)
		return
	}

	h.recordUser(r, user, target, model.ActionDelete, "User deleted: "+target.Username)
	WriteMessage(w, "User deleted")
}

func (h *Handler) isLastAdmin(r *http.Request, target store.AdminUser) (bool, error) {
	if target.Role != model.RoleAdmin {
		return false, nil
	}
	n, err := h.queries.CountUsersByRole(r.Context(), model.RoleAdmin)
	if err != nil {
		return false, err
	}
	return n <= 1, nil
}

func (h *Handler) recordUser(r *http.Request, user middleware.AuthenticatedUser, target store.AdminUser, action, msg string) {
	h.record(r, user, service.AuditEvent{
		Category:   model.EventCategoryUser,
		Action:     action,
		EntityType: model.EntityUser,
		EntityID:   target.ID,
		Message:    msg,
	})
}
