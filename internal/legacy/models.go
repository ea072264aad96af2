// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package legacy

import (
	"database/sql"
	"time"
)

// Rows read from the PHP-era MySQL schema. Nullable text columns are
// coalesced to "" by the reader.

// Page is a row of the legacy pages table.
type Page struct {
	ID              int64
	Title           string
	Slug            string
	Content         string
	Excerpt         string
	MetaTitle       string
	MetaDescription string
	FeaturedImage   string
	MenuLabel       string
	MenuPosition    int64
	ParentMenu      string
	IsSubmenu       bool
	IsEnabled       bool
	IsFeatured      bool
	ShowInMenu      bool
	SortOrder       int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// News is a row of the legacy news table.
type News struct {
	ID            int64
	Title         string
	Slug          string
	Content       string
	Excerpt       string
	FeaturedImage string
	EventDate     sql.NullTime
	IsFeatured    bool
	IsPublished   bool
	PublishedAt   sql.NullTime
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Banner is a row of the legacy banners table.
type Banner struct {
	ID        int64
	Type      string
	Title     string
	Subtitle  string
	Image     string
	LinkURL   string
	LinkText  string
	Content   string
	SortOrder int64
	IsActive  bool
	StartsAt  sql.NullTime
	EndsAt    sql.NullTime
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CouncilMember is a row of the legacy council_members table.
type CouncilMember struct {
	ID         int64
	Name       string
	Title      string
	Dimension  string
	Commission string
	Photo      string
	Email      string
	Bio        string
	SortOrder  int64
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Provincial is a row of the legacy provincials table.
type Provincial struct {
	ID        int64
	Name      string
	Title     string
	Province  string
	Photo     string
	Email     string
	Phone     string
	Bio       string
	SortOrder int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Publication is a row of the legacy circulars or newsline_issues table.
type Publication struct {
	ID          int64
	Title       string
	Month       int64
	Year        int64
	FilePath    string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GalleryItem is a row of the legacy gallery table.
type GalleryItem struct {
	ID          int64
	Title       string
	Slug        string
	Description string
	Image       string
	Thumbnail   string
	Album       string
	SortOrder   int64
	IsFeatured  bool
	IsActive    bool
	TakenAt     sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Setting is a row of the legacy settings table.
type Setting struct {
	Key      string
	Value    string
	IsPublic bool
}

// User is a row of the legacy admin_users table. PasswordHash is the PHP
// password_hash() output (bcrypt).
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
