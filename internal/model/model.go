// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain enumerations and small value types shared by
// the store, services and handlers: roles, menu keys, banner variants,
// publication kinds, directory roles and audit event vocabulary.
package model

import "slices"

// Roles
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// ValidRoles lists every assignable admin user role.
var ValidRoles = []string{RoleAdmin, RoleEditor}

// RoleLevel returns the privilege level of a role (higher is more privileged).
// Unknown roles have level 0.
func RoleLevel(role string) int {
	switch role {
	case RoleAdmin:
		return 2
	case RoleEditor:
		return 1
	default:
		return 0
	}
}

// IsValidRole reports whether role is assignable.
func IsValidRole(role string) bool {
	return slices.Contains(ValidRoles, role)
}
