// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/instcms/internal/auth"
	"github.com/olegiv/instcms/internal/middleware"
	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/service"
	"github.com/olegiv/instcms/internal/session"
	"github.com/olegiv/instcms/internal/store"
)

const (
	msgInvalidCredentials = "Invalid username or password"
	msgAccountLocked      = "Account is temporarily locked due to too many failed login attempts. Please try again later."
)

// LoginRequest is the body of POST /api/admin/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=128"`
}

// SessionResponse is returned by login and /me.
type SessionResponse struct {
	User      middleware.AuthenticatedUser `json:"user"`
	CSRFToken string                       `json:"csrf_token"`
}

// CredentialsRequest is the body of PUT /api/admin/credentials. The
// username and password changes are independent and may be combined; both
// require the current password.
type CredentialsRequest struct {
	CurrentPassword string  `json:"current_password" validate:"required"`
	NewUsername     *string `json:"new_username" validate:"omitnil,username"`
	NewPassword     *string `json:"new_password" validate:"omitnil,min=8,max=128"`
	ConfirmPassword *string `json:"confirm_password"`
}

// dummyHash is verified against when the username is unknown so both
// failure paths cost one hash.
var dummyHash, _ = auth.HashPassword("instcms-timing-equalizer")

// Login handles POST /api/admin/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	username := strings.TrimSpace(req.Username)

	user, err := h.queries.GetUserByUsername(ctx, username)
	if err != nil {
		if !store.IsNotFound(err) {
			h.writeInternalError(w, r, "Failed to sign in", err)
			return
		}
		_, _ = auth.CheckPassword(req.Password, dummyHash)
		h.recordAnonymous(r, service.AuditEvent{
			Level:    model.EventLevelWarning,
			Category: model.EventCategoryAuth,
			Action:   model.ActionLoginFailed,
			Message:  "Failed login for unknown user",
			Metadata: map[string]any{"username": username},
		})
		WriteError(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	now := h.now()
	if user.LockedUntil.Valid && user.LockedUntil.Time.After(now) {
		writeLocked(w, user.LockedUntil.Time.Sub(now))
		return
	}

	ok, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil {
		slog.Warn("stored password hash is unreadable", "user_id", user.ID, "error", err)
	}
	if !ok {
		h.loginFailed(w, r, user, now)
		return
	}

	if err := h.queries.RecordLoginSuccess(ctx, user.ID, now); err != nil {
		h.writeInternalError(w, r, "Failed to sign in", err)
		return
	}
	if auth.IsLegacyHash(user.PasswordHash) || auth.NeedsRehash(user.PasswordHash) {
		h.rehash(r, user.ID, req.Password)
	}

	if err := h.sessions.RenewToken(ctx); err != nil {
		h.writeInternalError(w, r, "Failed to sign in", err)
		return
	}
	h.sessions.Put(ctx, session.KeyUserID, user.ID)
	token, err := h.csrf.Renew(ctx)
	if err != nil {
		h.writeInternalError(w, r, "Failed to sign in", err)
		return
	}

	au := middleware.AuthenticatedUser{ID: user.ID, Username: user.Username, Role: user.Role}
	h.record(r, au, service.AuditEvent{
		Category:   model.EventCategoryAuth,
		Action:     model.ActionLogin,
		EntityType: model.EntityUser,
		EntityID:   user.ID,
		Message:    "User signed in: " + user.Username,
	})
	slog.Info("user logged in", "user_id", user.ID, "username", user.Username)

	WriteSuccess(w, SessionResponse{User: au, CSRFToken: token})
}

// loginFailed counts a wrong password and locks the account when the
// failure count reaches the next threshold.
func (h *Handler) loginFailed(w http.ResponseWriter, r *http.Request, user store.AdminUser, now time.Time) {
	attempts := user.FailedAttempts + 1
	var lockedUntil sql.NullTime
	lock := auth.LockDuration(attempts)
	if lock > 0 {
		lockedUntil = sql.NullTime{Time: now.Add(lock), Valid: true}
	}
	if err := h.queries.RecordLoginFailure(r.Context(), user.ID, attempts, lockedUntil, now); err != nil {
		h.writeInternalError(w, r, "Failed to sign in", err)
		return
	}

	h.recordAnonymous(r, service.AuditEvent{
		Level:      model.EventLevelWarning,
		Category:   model.EventCategoryAuth,
		Action:     model.ActionLoginFailed,
		EntityType: model.EntityUser,
		EntityID:   user.ID,
		Message:    "Failed login for " + user.Username,
		Metadata:   map[string]any{"failed_attempts": attempts},
	})

	if lock > 0 {
		h.recordAnonymous(r, service.AuditEvent{
			Level:      model.EventLevelWarning,
			Category:   model.EventCategorySecurity,
			Action:     model.ActionLocked,
			EntityType: model.EntityUser,
			EntityID:   user.ID,
			Message:    "Account locked after repeated failed logins: " + user.Username,
			Metadata:   map[string]any{"failed_attempts": attempts, "locked_for": lock.String()},
		})
		writeLocked(w, lock)
		return
	}
	WriteError(w, http.StatusUnauthorized, msgInvalidCredentials)
}

func writeLocked(w http.ResponseWriter, remaining time.Duration) {
	secs := int(math.Ceil(remaining.Seconds()))
	w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
	WriteError(w, http.StatusUnauthorized, msgAccountLocked)
}

// rehash upgrades a bcrypt or outdated argon2 hash after a good login.
// Failure only delays the upgrade to the next login.
func (h *Handler) rehash(r *http.Request, userID int64, password string) {
	hash, err := auth.HashPassword(password)
	if err == nil {
		err = h.queries.UpdatePassword(r.Context(), userID, hash, h.now())
	}
	if err != nil {
		slog.Warn("failed to upgrade password hash", "user_id", userID, "error", err)
	}
}

// recordAnonymous writes an audit entry for a request with no signed-in user.
func (h *Handler) recordAnonymous(r *http.Request, e service.AuditEvent) {
	h.record(r, middleware.AuthenticatedUser{}, e)
}

// Logout handles POST /api/admin/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	h.record(r, user, service.AuditEvent{
		Category:   model.EventCategoryAuth,
		Action:     model.ActionLogout,
		EntityType: model.EntityUser,
		EntityID:   user.ID,
		Message:    "User signed out: " + user.Username,
	})

	if err := h.sessions.Destroy(r.Context()); err != nil {
		h.writeInternalError(w, r, "Failed to sign out", err)
		return
	}
	WriteMessage(w, "Logged out")
}

// Me handles GET /api/admin/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	token, err := h.csrf.Token(r.Context())
	if err != nil {
		h.writeInternalError(w, r, "Failed to load session", err)
		return
	}
	WriteSuccess(w, SessionResponse{User: user, CSRFToken: token})
}

// CSRFToken handles GET /api/admin/csrf. Anonymous sessions get a token too
// so the login form can send one.
func (h *Handler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.csrf.Token(r.Context())
	if err != nil {
		h.writeInternalError(w, r, "Failed to issue CSRF token", err)
		return
	}
	WriteSuccess(w, map[string]string{"csrf_token": token})
}

// UpdateCredentials handles PUT /api/admin/credentials.
func (h *Handler) UpdateCredentials(w http.ResponseWriter, r *http.Request, user middleware.AuthenticatedUser) {
	ctx := r.Context()

	var req CredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.NewUsername == nil && req.NewPassword == nil {
		WriteBadRequest(w, "Nothing to update: provide new_username or new_password")
		return
	}

	current, err := h.queries.GetUserByID(ctx, user.ID)
	if err != nil {
		h.WriteServiceError(w, r, "user", err)
		return
	}
	ok, _ := auth.CheckPassword(req.CurrentPassword, current.PasswordHash)
	if !ok {
		h.record(r, user, service.AuditEvent{
			Level:      model.EventLevelWarning,
			Category:   model.EventCategoryAuth,
			Action:     model.ActionPasswordChange,
			EntityType: model.EntityUser,
			EntityID:   user.ID,
			Message:    "Credential change rejected: wrong current password",
		})
		WriteValidationError(w, map[string]string{"current_password": "Current password is incorrect"})
		return
	}

	fe := fieldErrors{}
	var newHash string
	if req.NewPassword != nil {
		if msg := auth.ValidatePassword(*req.NewPassword); msg != "" {
			fe["new_password"] = msg
		} else if req.ConfirmPassword == nil || *req.ConfirmPassword != *req.NewPassword {
			fe["confirm_password"] = "Passwords do not match"
		}
	}
	if req.NewUsername != nil && *req.NewUsername != current.Username {
		taken, err := h.queries.UsernameExists(ctx, *req.NewUsername, user.ID)
		if err != nil {
			h.writeInternalError(w, r, "Failed to update credentials", err)
			return
		}
		if taken {
			fe["new_username"] = "Username is already taken"
		}
	}
	if len(fe) > 0 {
		WriteValidationError(w, fe)
		return
	}
	if req.NewPassword != nil {
		if newHash, err = auth.HashPassword(*req.NewPassword); err != nil {
			h.writeInternalError(w, r, "Failed to update credentials", err)
			return
		}
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		h.writeInternalError(w, r, "Failed to update credentials", err)
		return
	}
	defer func() { _ = tx.Rollback() }()
	qtx := h.queries.WithTx(tx)

	now := h.now()
	usernameChanged := req.NewUsername != nil && *req.NewUsername != current.Username
	if usernameChanged {
		if current, err = qtx.UpdateUsername(ctx, user.ID, *req.NewUsername, now); err != nil {
			h.WriteServiceError(w, r, "user", err)
			return
		}
	}
	if newHash != "" {
		if err := qtx.UpdatePassword(ctx, user.ID, newHash, now); err != nil {
			h.writeInternalError(w, r, "Failed to update credentials", err)
			return
		}
	}
	if err := tx.Commit(); err != nil {
		h.writeInternalError(w, r, "Failed to update credentials", err)
		return
	}

	if usernameChanged {
		h.record(r, user, service.AuditEvent{
			Category:   model.EventCategoryAuth,
			Action:     model.ActionUsernameChange,
			EntityType: model.EntityUser,
			EntityID:   user.ID,
			Message:    "Username changed from " + user.Username + " to " + current.Username,
		})
	}
	if newHash != "" {
		h.record(r, user, service.AuditEvent{
			Category:   model.EventCategoryAuth,
			Action:     model.ActionPasswordChange,
			EntityType: model.EntityUser,
			EntityID:   user.ID,
			Message:    "Password changed for " + current.Username,
		})
		// A new password invalidates the old session token.
		if err := h.sessions.RenewToken(ctx); err != nil {
			slog.Warn("failed to renew session after password change", "user_id", user.ID, "error", err)
		}
	}

	WriteSuccess(w, middleware.AuthenticatedUser{ID: current.ID, Username: current.Username, Role: current.Role})
}
