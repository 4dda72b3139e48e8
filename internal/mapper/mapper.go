// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

// Package mapper converts between backend wire DTOs and the domain types
// held by the store. It is the only place that knows the backend's field
// names, so every fallback between alternative names and every outbound
// placeholder lives here.
//
// Inbound conversions are lenient: a field the backend has shipped under
// more than one name is read from whichever is set. Outbound conversions
// fill the fields the backend requires (mail, telephone) with deterministic
// placeholders when the local record has none.
package mapper

import (
	"math"
	"strconv"
	"strings"

	"github.com/tomtom215/urbanwaste/internal/config"
)

// Mapper holds the placeholder settings used by outbound conversions.
// Inbound conversions do not depend on them.
type Mapper struct {
	emailDomain      string
	placeholderPhone int64
}

// New creates a Mapper from the mapping configuration.
func New(cfg config.MappingConfig) *Mapper {
	m := &Mapper{
		emailDomain:      cfg.EmailDomain,
		placeholderPhone: cfg.PlaceholderPhone,
	}
	if m.emailDomain == "" {
		m.emailDomain = "wastemanagement.com"
	}
	if m.placeholderPhone == 0 {
		m.placeholderPhone = 1000000000
	}
	return m
}

// ParseID converts a string id to the backend's numeric form. Temporary
// client ids ("temp-...") and empty strings give 0.
func ParseID(id string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// FormatID converts a backend numeric id to its string form.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ClampFill rounds a backend fill level and clamps it to [0,100].
func ClampFill(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	n := int(math.Round(v))
	switch {
	case n < 0:
		return 0
	case n > 100:
		return 100
	}
	return n
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func optionalID(p *int64) string {
	if p == nil {
		return ""
	}
	return FormatID(*p)
}

func optionalNumericID(id string) *int64 {
	n := ParseID(id)
	if n == 0 {
		return nil
	}
	return &n
}

// digitsOnly keeps the ASCII digits of s.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
