// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package validation wraps go-playground/validator for request structs and
// turns its errors into field-keyed, user-facing messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/olegiv/instcms/internal/auth"
	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/util"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// get returns the shared validator with the project's custom tags registered.
func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report JSON field names rather than Go field names.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		mustRegister(v, "slug", func(fl validator.FieldLevel) bool {
			return util.IsValidSlug(fl.Field().String())
		})
		mustRegister(v, "menukey", func(fl validator.FieldLevel) bool {
			return model.IsMenuKey(fl.Field().String())
		})
		mustRegister(v, "username", func(fl validator.FieldLevel) bool {
			return auth.ValidateUsername(fl.Field().String()) == ""
		})
		mustRegister(v, "role", func(fl validator.FieldLevel) bool {
			return model.IsValidRole(fl.Field().String())
		})
		mustRegister(v, "bannertype", func(fl validator.FieldLevel) bool {
			return model.BannerType(fl.Field().String()).Valid()
		})
		mustRegister(v, "counciltitle", func(fl validator.FieldLevel) bool {
			return model.IsCouncilTitle(fl.Field().String())
		})
		mustRegister(v, "provincialtitle", func(fl validator.FieldLevel) bool {
			return model.IsProvincialTitle(fl.Field().String())
		})
		mustRegister(v, "localpath", func(fl validator.FieldLevel) bool {
			return isLocalOrHTTPPath(fl.Field().String())
		})

		instance = v
	})
	return instance
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("registering validation %q: %v", tag, err))
	}
}

// isLocalOrHTTPPath accepts site-relative paths ("/uploads/...") and absolute http(s) URLs.
func isLocalOrHTTPPath(s string) bool {
	if s == "" {
		return true
	}
	if strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//") {
		return !strings.Contains(s, "..")
	}
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}

// Struct validates v and returns a map of JSON field name to message,
// or nil when v is valid.
func Struct(v any) map[string]string {
	err := get().Struct(v)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return map[string]string{"_": "Invalid input"}
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = message(fe)
	}
	return fields
}

// Var validates a single value against tag and returns a message or "".
func Var(field string, value any, tag string) string {
	err := get().Var(value, tag)
	if err == nil {
		return ""
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return strings.Replace(message(ve[0]), "This field", humanize(field), 1)
	}
	return humanize(field) + " is invalid"
}

func message(fe validator.FieldError) string {
	name := humanize(fe.Field())
	if fe.Field() == "" {
		name = "This field"
	}
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "max":
		if isNumeric(fe.Kind()) {
			return fmt.Sprintf("%s must be at most %s", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	case "min":
		if isNumeric(fe.Kind()) {
			return fmt.Sprintf("%s must be at least %s", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or greater", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return name + " must be a valid email address"
	case "url", "http_url":
		return name + " must be a valid URL"
	case "slug":
		return "Invalid slug format (use lowercase letters, numbers, and hyphens)"
	case "menukey":
		return fmt.Sprintf("%s must be one of: %s", name, strings.Join(model.MenuKeys, ", "))
	case "username":
		return auth.ValidateUsername(fmt.Sprint(fe.Value()))
	case "role":
		return fmt.Sprintf("%s must be one of: %s", name, strings.Join(model.ValidRoles, ", "))
	case "bannertype":
		return name + " must be hero or flash_news"
	case "counciltitle":
		return fmt.Sprintf("%s must be one of: %s", name, strings.Join(model.CouncilTitles, ", "))
	case "provincialtitle":
		return fmt.Sprintf("%s must be one of: %s", name, strings.Join(model.ProvincialTitles, ", "))
	case "localpath":
		return name + " must be a site path or an http(s) URL"
	case "eqfield":
		return fmt.Sprintf("%s must match %s", name, humanize(fe.Param()))
	default:
		return name + " is invalid"
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// humanize turns "meta_title" into "Meta title".
func humanize(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
