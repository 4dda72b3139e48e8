// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/urbanwaste/internal/client"
	"github.com/tomtom215/urbanwaste/internal/logging"
	"github.com/tomtom215/urbanwaste/internal/store"
	"github.com/tomtom215/urbanwaste/internal/validation"
	"github.com/tomtom215/urbanwaste/internal/xmlcodec"
)

// ErrAuthUnavailable is returned by login when no JWT secret is configured
// while authentication is enabled.
var ErrAuthUnavailable = errors.New("authentication is not configured")

// classify maps a store or transport error onto an HTTP status and code.
//
// Backend 4xx answers keep their status so the dashboard sees the same
// result it would get from the backend; 5xx and transport failures become
// 502, an open breaker 503.
func classify(err error) (status int, code string) {
	var verr *validation.RequestValidationError
	var apiErr *client.APIError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrCodeValidationFailed
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrUnknownEntity):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, store.ErrInvalidTransition):
		return http.StatusConflict, ErrCodeConflict
	case errors.Is(err, store.ErrMissingVehicle), errors.Is(err, store.ErrMissingEmployee),
		errors.Is(err, xmlcodec.ErrImportFailed):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, client.ErrCircuitOpen):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeBackendTimeout
	case errors.As(err, &apiErr):
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized:
			return http.StatusUnauthorized, ErrCodeUnauthorized
		case apiErr.StatusCode == http.StatusForbidden:
			return http.StatusForbidden, ErrCodeForbidden
		case apiErr.StatusCode == http.StatusNotFound:
			return http.StatusNotFound, ErrCodeNotFound
		case apiErr.StatusCode == http.StatusConflict:
			return http.StatusConflict, ErrCodeConflict
		case apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
			return http.StatusBadRequest, ErrCodeBadRequest
		}
		return http.StatusBadGateway, ErrCodeBackendFailed
	case errors.Is(err, ErrAuthUnavailable):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable
	}
	return http.StatusInternalServerError, ErrCodeInternalError
}

// respondError writes err as an API error. The message is the backend's
// own text when there is one, otherwise fallback.
func respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, code := classify(err)
	rw := NewResponseWriter(w, r)

	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		rw.ValidationError(verr.Error(), verr.Details())
		return
	}

	msg := client.Message(err, fallback)
	if status == http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().Err(err).Msg(fallback)
		msg = fallback
	}
	rw.Error(status, code, msg)
}
