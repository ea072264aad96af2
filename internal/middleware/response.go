// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"net/http"
)

// errorBody matches the failure envelope written by the API handlers.
type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WriteJSONError writes {"success":false,"error":message} with status.
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: message})
}
