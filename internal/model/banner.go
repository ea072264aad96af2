// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// BannerType discriminates the banner variants.
type BannerType string

// Banner variants
const (
	BannerHero      BannerType = "hero"
	BannerFlashNews BannerType = "flash_news"
)

// Valid reports whether t is a known banner variant.
func (t BannerType) Valid() bool {
	return t == BannerHero || t == BannerFlashNews
}

// RequiredField returns the JSON field a banner of this type cannot omit:
// hero banners need an image, flash news needs text content.
func (t BannerType) RequiredField() string {
	switch t {
	case BannerHero:
		return "image"
	case BannerFlashNews:
		return "content"
	default:
		return ""
	}
}
