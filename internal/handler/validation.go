// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/portfoliohq/siteadmin/internal/util"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// formValidator returns the shared validator. Field errors are keyed by the
// struct's form tag so they line up with the HTML input names.
func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return util.IsValidSlug(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// validateInput checks input against its validate tags and returns a
// field→message map. The map is empty when input is valid.
func validateInput(input any) map[string]string {
	errs := make(map[string]string)

	err := formValidator().Struct(input)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		slog.Error("unexpected validation error", "error", err)
		errs["_form"] = "Invalid input"
		return errs
	}

	for _, fe := range verrs {
		if _, seen := errs[fe.Field()]; !seen {
			errs[fe.Field()] = validationMessage(fe)
		}
	}
	return errs
}

func validationMessage(fe validator.FieldError) string {
	label := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Enter a valid email address"
	case "url":
		return "Enter a valid URL (including http:// or https://)"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "oneof":
		return "Choose a valid " + strings.ToLower(label)
	case "slug":
		return "Invalid slug format (use lowercase letters, numbers, and hyphens)"
	case "eqfield":
		return label + " does not match"
	default:
		return label + " is invalid"
	}
}

// fieldLabel turns "meta_description" into "Meta description".
func fieldLabel(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return "Value"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// SlugExistsFunc reports whether a slug is already taken.
type SlugExistsFunc func() (bool, error)

// ValidateSlugWithChecker validates format and uniqueness of a non-empty slug.
// Returns an error message, or "" when the slug is acceptable.
func ValidateSlugWithChecker(slug string, checkExists SlugExistsFunc) string {
	if slug == "" {
		return "Slug is required"
	}
	if !util.IsValidSlug(slug) {
		return "Invalid slug format (use lowercase letters, numbers, and hyphens)"
	}
	exists, err := checkExists()
	if err != nil {
		slog.Error("database error checking slug", "error", err)
		return "Error checking slug"
	}
	if exists {
		return "Slug already exists"
	}
	return ""
}
