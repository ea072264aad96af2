// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth     = "auth"
	EventCategoryContent  = "content"
	EventCategoryUser     = "user"
	EventCategorySettings = "settings"
	EventCategoryMedia    = "media"
	EventCategorySystem   = "system"
	EventCategorySecurity = "security"
)

// Audit actions
const (
	ActionCreate         = "create"
	ActionUpdate         = "update"
	ActionDelete         = "delete"
	ActionLogin          = "login"
	ActionLoginFailed    = "login_failed"
	ActionLogout         = "logout"
	ActionLocked         = "locked"
	ActionUnlock         = "unlock"
	ActionUsernameChange = "username_change"
	ActionPasswordChange = "password_change"
	ActionUpload         = "upload"
	ActionImport         = "import"
)

// Entity types recorded in the audit log.
const (
	EntityPage       = "page"
	EntityNews       = "news"
	EntityBanner     = "banner"
	EntityCouncil    = "council_member"
	EntityProvincial = "provincial"
	EntityCircular   = "circular"
	EntityNewsLine   = "newsline_issue"
	EntityGallery    = "gallery_item"
	EntitySetting    = "setting"
	EntityUser       = "admin_user"
	EntityUpload     = "upload"
)
