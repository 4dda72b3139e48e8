// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

// Package validation runs client-side checks on drafts before any backend
// call, using go-playground/validator struct tags.
//
// Field names in messages come from a `label` struct tag when present, then
// the json name, so a Vehicule draft failing `validate:"gt=0"` on a field
// tagged `label:"Capacité"` reports "Capacité must be greater than 0".
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError is one failed rule on one field.
type ValidationError struct {
	field   string
	tag     string
	param   string
	message string
}

func (e *ValidationError) Field() string { return e.field }
func (e *ValidationError) Tag() string   { return e.tag }
func (e *ValidationError) Param() string { return e.param }
func (e *ValidationError) Error() string { return e.message }

// RequestValidationError groups every failed rule of one draft.
type RequestValidationError struct {
	errors []ValidationError
}

// Fail builds a single-rule error with a fixed message, for checks that do
// not map onto one struct tag.
func Fail(field, tag, message string) *RequestValidationError {
	return &RequestValidationError{errors: []ValidationError{{field: field, tag: tag, message: message}}}
}

func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(ve.errors))
	for i := range ve.errors {
		messages = append(messages, ve.errors[i].message)
	}
	return strings.Join(messages, "; ")
}

// Details returns a JSON-friendly description of the failed fields.
func (ve *RequestValidationError) Details() []map[string]string {
	out := make([]map[string]string, len(ve.errors))
	for i, e := range ve.errors {
		out[i] = map[string]string{"field": e.field, "tag": e.tag, "message": e.message}
	}
	return out
}

// GetValidator returns the shared validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(fieldLabel)
	})
	return validate
}

func fieldLabel(f reflect.StructField) string {
	if label := f.Tag.Get("label"); label != "" {
		return label
	}
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// ValidateStruct returns nil when s passes every tag rule.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Fail("unknown", "unknown", err.Error())
	}

	out := make([]ValidationError, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = ValidationError{
			field:   fe.Field(),
			tag:     fe.Tag(),
			param:   fe.Param(),
			message: translateError(fe),
		}
	}
	return &RequestValidationError{errors: out}
}

// messages renders a failed rule. Rules missing here get a generic line.
var messages = map[string]func(field, param string, text bool) string{
	"required": func(f, _ string, _ bool) string { return f + " is required" },
	"email":    func(f, _ string, _ bool) string { return f + " must be a valid email address" },
	"oneof":    func(f, p string, _ bool) string { return f + " must be one of: " + p },
	"gt":       func(f, p string, _ bool) string { return f + " must be greater than " + p },
	"gte":      func(f, p string, _ bool) string { return f + " must be greater than or equal to " + p },
	"lt":       func(f, p string, _ bool) string { return f + " must be less than " + p },
	"lte":      func(f, p string, _ bool) string { return f + " must be less than or equal to " + p },
	"min":      func(f, p string, text bool) string { return f + " must be at least " + p + unit(text) },
	"max":      func(f, p string, text bool) string { return f + " must be at most " + p + unit(text) },
}

func unit(text bool) string {
	if text {
		return " characters"
	}
	return ""
}

func translateError(fe validator.FieldError) string {
	if render, ok := messages[fe.Tag()]; ok {
		return render(fe.Field(), fe.Param(), fe.Kind() == reflect.String)
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
