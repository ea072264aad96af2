// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// PublicationKind identifies a dated monthly publication series.
// Each kind has its own table and its own (year, month) uniqueness.
type PublicationKind string

// Publication kinds
const (
	PublicationCircular PublicationKind = "circular"
	PublicationNewsLine PublicationKind = "newsline"
)

// Table returns the table backing the publication kind.
func (k PublicationKind) Table() string {
	switch k {
	case PublicationNewsLine:
		return "newsline_issues"
	default:
		return "circulars"
	}
}

// Label returns a human readable singular name for messages.
func (k PublicationKind) Label() string {
	switch k {
	case PublicationNewsLine:
		return "NewsLine issue"
	default:
		return "circular"
	}
}

// Valid reports whether k is a known publication kind.
func (k PublicationKind) Valid() bool {
	return k == PublicationCircular || k == PublicationNewsLine
}

// Year bounds accepted for publications.
const (
	MinPublicationYear = 1900
	MaxPublicationYear = 2200
)
