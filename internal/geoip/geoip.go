// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip resolves client IP addresses to ISO country codes for the
// audit log, using a MaxMind GeoLite2-Country database when one is configured.
package geoip

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"
)

// CodeLocal is reported for loopback, private and link-local addresses.
const CodeLocal = "LOCAL"

// Locator looks up countries. The zero value and a Locator opened with an
// empty path are valid and return "" for public addresses.
type Locator struct {
	mu      sync.RWMutex
	reader  *maxminddb.Reader
	path    string
	modTime time.Time
}

type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// Open loads the database at path. An empty path disables lookups.
func Open(path string) (*Locator, error) {
	l := &Locator{path: path}
	if path == "" {
		return l, nil
	}
	if err := l.load(); err != nil {
		return l, err
	}
	return l, nil
}

// load must be called with mu held for writing.
func (l *Locator) load() error {
	info, err := os.Stat(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("geoip database not found: %s", l.path)
	}
	if err != nil {
		return fmt.Errorf("stat geoip database: %w", err)
	}
	if l.reader != nil && info.ModTime().Equal(l.modTime) {
		return nil
	}

	r, err := maxminddb.Open(l.path)
	if err != nil {
		return fmt.Errorf("open geoip database: %w", err)
	}
	if l.reader != nil {
		_ = l.reader.Close()
	}
	l.reader = r
	l.modTime = info.ModTime()
	return nil
}

// Reload reopens the database if the file changed since it was loaded.
func (l *Locator) Reload() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.path == "" {
		return nil
	}
	return l.load()
}

// Enabled reports whether a database is loaded.
func (l *Locator) Enabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.reader != nil
}

// Country returns the ISO code for ip, CodeLocal for non-routable
// addresses, or "" when unknown.
func (l *Locator) Country(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}
	if parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsLinkLocalUnicast() {
		return CodeLocal
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.reader == nil {
		return ""
	}
	var rec countryRecord
	if err := l.reader.Lookup(parsed, &rec); err != nil {
		return ""
	}
	return rec.Country.ISOCode
}

func (l *Locator) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.reader == nil {
		return nil
	}
	err := l.reader.Close()
	l.reader = nil
	return err
}
