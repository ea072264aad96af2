// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type AdminUser struct {
	ID             int64
	Username       string
	PasswordHash   string
	Role           string
	FailedAttempts int64
	LockedUntil    sql.NullTime
	LastLoginAt    sql.NullTime
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type AuditEntry struct {
	ID         int64
	Level      string
	Category   string
	Action     string
	EntityType string
	EntityID   sql.NullInt64
	Message    string
	UserID     sql.NullInt64
	IpAddress  string
	RequestUrl string
	Metadata   string
	CreatedAt  time.Time
}

type Setting struct {
	Key       string
	Value     string
	IsPublic  bool
	UpdatedAt time.Time
}

type Page struct {
	ID              int64
	Title           string
	Slug            string
	Content         string
	Excerpt         string
	MetaTitle       string
	MetaDescription string
	FeaturedImage   string
	MenuLabel       sql.NullString
	MenuPosition    int64
	ParentMenu      sql.NullString
	IsSubmenu       bool
	IsEnabled       bool
	IsFeatured      bool
	ShowInMenu      bool
	SortOrder       int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       sql.NullTime
}

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
	DeletedAt     sql.NullTime
}

// VisibleAt reports whether the item is publicly visible at t.
func (n News) VisibleAt(t time.Time) bool {
	return n.IsPublished && n.PublishedAt.Valid && !n.PublishedAt.Time.After(t) && !n.DeletedAt.Valid
}

type Banner struct {
	ID        int64
	Type      string
	Title     string
	Subtitle  string
	Image     string
	LinkUrl   string
	LinkText  string
	Content   string
	SortOrder int64
	IsActive  bool
	StartsAt  sql.NullTime
	EndsAt    sql.NullTime
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt sql.NullTime
}

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
	DeletedAt  sql.NullTime
}

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
	DeletedAt sql.NullTime
}

// Publication is a row of circulars or newsline_issues.
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
	DeletedAt   sql.NullTime
}

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
	DeletedAt   sql.NullTime
}

// ArchiveCount is one (year, month) bucket of a publication archive.
type ArchiveCount struct {
	Year  int64
	Month int64
	Count int64
}
