// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, CSRF protection and request shaping of the JSON API.
package middleware

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/session"
	"github.com/olegiv/instcms/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUser holds the AuthenticatedUser of the request.
const ContextKeyUser ContextKey = "user"

// AuthenticatedUser is the admin user attached to a request by LoadUser.
type AuthenticatedUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// HasRole reports whether u is at least minRole. Roles are hierarchical:
// admin > editor.
func (u AuthenticatedUser) HasRole(minRole string) bool {
	return model.RoleLevel(u.Role) >= model.RoleLevel(minRole)
}

// IsAdmin reports whether u has the admin role.
func (u AuthenticatedUser) IsAdmin() bool {
	return u.Role == model.RoleAdmin
}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u AuthenticatedUser) context.Context {
	return context.WithValue(ctx, ContextKeyUser, u)
}

// UserFrom returns the authenticated user stored in ctx.
func UserFrom(ctx context.Context) (AuthenticatedUser, bool) {
	u, ok := ctx.Value(ContextKeyUser).(AuthenticatedUser)
	return u, ok
}

// LoadUser creates middleware that loads the session user into the request
// context. A session pointing at a deleted user is cleared; the request then
// proceeds anonymously.
func LoadUser(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), session.KeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil {
				if !store.IsNotFound(err) {
					slog.Error("failed to load session user", "user_id", userID, "error", err)
				}
				sm.Remove(r.Context(), session.KeyUserID)
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithUser(r.Context(), AuthenticatedUser{
				ID:       user.ID,
				Username: user.Username,
				Role:     user.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests without an authenticated user with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFrom(r.Context()); !ok {
			WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole creates middleware that requires a minimum user role.
// For example, RequireRole("editor") allows both admin and editor users.
// Anonymous requests get 401, insufficient roles get 403.
func RequireRole(minRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFrom(r.Context())
			if !ok {
				WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			if !user.HasRole(minRole) {
				slog.Warn("access denied",
					"category", model.EventCategorySecurity,
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", user.ID,
					"user_role", user.Role,
					"required_role", minRole,
					"remote_addr", ClientIP(r),
				)
				WriteJSONError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is shorthand for RequireRole(model.RoleAdmin).
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(model.RoleAdmin)
}

// RequireEditor allows both admin and editor users.
func RequireEditor() func(http.Handler) http.Handler {
	return RequireRole(model.RoleEditor)
}
