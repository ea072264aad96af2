// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"fmt"
	"regexp"
	"time"
)

// Credential rules for admin accounts.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// Lockout policy: MaxFailedAttempts failures lock the account for
// BaseLockDuration, doubling with each further block of failures.
const (
	MaxFailedAttempts = 5
	BaseLockDuration  = 15 * time.Minute
	MaxLockDuration   = 24 * time.Hour
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateUsername returns a user-facing message if username breaks the rules, or "".
func ValidateUsername(username string) string {
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return fmt.Sprintf("Username must be between %d and %d characters", MinUsernameLength, MaxUsernameLength)
	}
	if !usernamePattern.MatchString(username) {
		return "Username may contain only letters, numbers and underscores"
	}
	return ""
}

// ValidatePassword returns a user-facing message if password breaks the rules, or "".
func ValidatePassword(password string) string {
	if len(password) < MinPasswordLength {
		return fmt.Sprintf("Password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Sprintf("Password must be at most %d characters", MaxPasswordLength)
	}
	return ""
}

// LockDuration returns how long an account stays locked after its
// failedAttempts-th consecutive failure, or 0 if it should not lock.
func LockDuration(failedAttempts int64) time.Duration {
	if failedAttempts < MaxFailedAttempts {
		return 0
	}
	if failedAttempts%MaxFailedAttempts != 0 {
		return 0
	}
	d := BaseLockDuration
	for i := int64(1); i < failedAttempts/MaxFailedAttempts; i++ {
		d *= 2
		if d >= MaxLockDuration {
			return MaxLockDuration
		}
	}
	return d
}
