// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"syscall"
	"time"

	"github.com/olegiv/instcms/internal/middleware"
	"github.com/olegiv/instcms/internal/version"
)

// Pinger is satisfied by the optional cache backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	db         *sql.DB
	cache      Pinger
	uploadsDir string
	startTime  time.Time
}

// NewHealthHandler creates a new health handler. cache may be nil.
func NewHealthHandler(db *sql.DB, cache Pinger, uploadsDir string) *HealthHandler {
	return &HealthHandler{
		db:         db,
		cache:      cache,
		uploadsDir: uploadsDir,
		startTime:  time.Now(),
	}
}

// Check statuses
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthStatusPublic is the minimal health response for anonymous callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus is the detailed response for signed-in admins.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains runtime information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
	MemSys       string `json:"mem_sys"`
}

// Health handles GET /health. Anonymous callers only see the overall
// status; admins get every check and, with ?verbose=true, runtime info.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"database": h.checkDatabase(r.Context()),
		"disk":     h.checkDiskSpace(),
	}
	if h.cache != nil {
		checks["cache"] = h.checkCache(r.Context())
	}

	overall := StatusHealthy
	for name, c := range checks {
		if c.Status == StatusHealthy {
			continue
		}
		// A failing cache degrades the service; reads fall back to the database
		if name == "cache" || c.Status == StatusDegraded {
			if overall == StatusHealthy {
				overall = StatusDegraded
			}
			continue
		}
		overall = StatusUnhealthy
	}

	status := http.StatusOK
	if overall == StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	user, ok := middleware.UserFrom(r.Context())
	if !ok || !user.IsAdmin() {
		writeHealthJSON(w, status, HealthStatusPublic{Status: overall})
		return
	}

	resp := HealthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   version.Short(),
		Checks:    checks,
	}
	if r.URL.Query().Get("verbose") == "true" {
		resp.System = systemInfo()
	}
	writeHealthJSON(w, status, resp)
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeHealthJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready: the service is ready once the
// database answers.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if c := h.checkDatabase(r.Context()); c.Status != StatusHealthy {
		writeHealthJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeHealthJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeHealthJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{Status: StatusUnhealthy, Message: err.Error(), Latency: latency.String()}
	}
	return Check{Status: StatusHealthy, Message: "Connected", Latency: latency.String()}
}

func (h *HealthHandler) checkCache(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := h.cache.Ping(ctx); err != nil {
		return Check{Status: StatusUnhealthy, Message: err.Error()}
	}
	return Check{Status: StatusHealthy, Latency: time.Since(start).String()}
}

// checkDiskSpace checks available disk space in the uploads directory.
func (h *HealthHandler) checkDiskSpace() Check {
	if _, err := os.Stat(h.uploadsDir); os.IsNotExist(err) {
		// Created on first upload
		return Check{Status: StatusHealthy, Message: "Uploads directory does not exist yet"}
	}

	var stat syscall.Statfs_t
	if err := syscall.Statfs(h.uploadsDir, &stat); err != nil {
		return Check{Status: StatusUnhealthy, Message: "Failed to check disk space: " + err.Error()}
	}

	availableBytes := stat.Bavail * uint64(stat.Bsize)
	available := formatBytes(availableBytes)

	const minSpace = 100 * 1024 * 1024
	if availableBytes < minSpace {
		return Check{Status: StatusDegraded, Message: "Low disk space: " + available + " available"}
	}
	return Check{Status: StatusHealthy, Message: available + " available"}
}

func systemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
		MemSys:       formatBytes(m.Sys),
	}
}

func formatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
