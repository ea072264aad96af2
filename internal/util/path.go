// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"
)

// ErrPathEscape is returned when a joined path would leave its base directory.
var ErrPathEscape = errors.New("path escapes base directory")

// maxUploadNameLength bounds the client file name kept with an upload.
const maxUploadNameLength = 255

// CleanUploadName reduces a client-supplied file name to its last path
// element without control characters. Returns "" when nothing usable is left.
func CleanUploadName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	if name == "" || name == "." || name == ".." {
		return ""
	}
	if len(name) > maxUploadNameLength {
		name = strings.ToValidUTF8(name[:maxUploadNameLength], "")
	}
	return name
}

// JoinWithin joins elems onto base and fails with ErrPathEscape if the
// result is not base itself or a path below it.
func JoinWithin(base string, elems ...string) (string, error) {
	full := filepath.Join(append([]string{base}, elems...)...)

	rel, err := filepath.Rel(filepath.Clean(base), full)
	if err != nil {
		return "", ErrPathEscape
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrPathEscape
	}
	return full, nil
}
