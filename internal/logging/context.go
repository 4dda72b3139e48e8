// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// idKey is the context key type for the ids Ctx attaches to log lines.
// Its value doubles as the log field name.
type idKey string

const (
	correlationIDKey idKey = "correlation_id"
	requestIDKey     idKey = "request_id"
)

var ctxKeys = []idKey{correlationIDKey, requestIDKey}

// GenerateCorrelationID returns a short id: the first 8 characters of a
// random UUID.
func GenerateCorrelationID() string { return uuid.NewString()[:8] }

// GenerateRequestID returns a random UUID.
func GenerateRequestID() string { return uuid.NewString() }

func idFrom(ctx context.Context, k idKey) string {
	id, _ := ctx.Value(k).(string)
	return id
}

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// ContextWithNewCorrelationID tags ctx with a fresh correlation id. Each
// store action takes one, so the backend request lines it causes share it.
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return ContextWithCorrelationID(ctx, GenerateCorrelationID())
}

func CorrelationIDFromContext(ctx context.Context) string { return idFrom(ctx, correlationIDKey) }

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string { return idFrom(ctx, requestIDKey) }

// Ctx is the global logger plus whichever ids ctx carries.
//
//	logging.Ctx(ctx).Info().Str("id", t.ID).Msg("Route created")
func Ctx(ctx context.Context) *zerolog.Logger {
	zc := With()
	for _, k := range ctxKeys {
		if id := idFrom(ctx, k); id != "" {
			zc = zc.Str(string(k), id)
		}
	}
	l := zc.Logger()
	return &l
}
