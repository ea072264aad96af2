// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "slices"

// Top-level navigation keys a page may be attached to via parent_menu.
const (
	MenuAbout      = "about"
	MenuCouncil    = "council"
	MenuProvinces  = "provinces"
	MenuMinistries = "ministries"
	MenuFormation  = "formation"
	MenuResources  = "resources"
	MenuMedia      = "media"
	MenuContact    = "contact"
)

// MenuKeys is the ordered list of top-level navigation groups.
// Header groups are rendered in this order.
var MenuKeys = []string{
	MenuAbout,
	MenuCouncil,
	MenuProvinces,
	MenuMinistries,
	MenuFormation,
	MenuResources,
	MenuMedia,
	MenuContact,
}

// IsMenuKey reports whether key names a known top-level group.
func IsMenuKey(key string) bool {
	return slices.Contains(MenuKeys, key)
}
