// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package models

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// FlexTime decodes the date forms the backend emits for java.util.Date:
// epoch milliseconds, ISO-8601 with or without offset or fraction, or a
// bare yyyy-MM-dd. It always encodes as RFC 3339 in UTC.
type FlexTime struct {
	time.Time
}

var flexLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NewFlexTime wraps t.
func NewFlexTime(t time.Time) *FlexTime {
	return &FlexTime{Time: t}
}

// ParseFlexTime parses one of the accepted string layouts.
func ParseFlexTime(s string) (time.Time, error) {
	for _, layout := range flexLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func (f *FlexTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] != '"' {
		ms, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid epoch date %s: %w", data, err)
		}
		f.Time = time.UnixMilli(ms).UTC()
		return nil
	}
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("invalid date string %s: %w", data, err)
	}
	if s == "" {
		return nil
	}
	t, err := ParseFlexTime(s)
	if err != nil {
		return err
	}
	f.Time = t
	return nil
}

func (f FlexTime) MarshalJSON() ([]byte, error) {
	if f.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(f.UTC().Format(time.RFC3339))), nil
}

// DateString formats as yyyy-MM-dd in UTC, or "" for a nil or zero value.
func (f *FlexTime) DateString() string {
	if f == nil || f.IsZero() {
		return ""
	}
	return f.UTC().Format("2006-01-02")
}

// ISOString formats as RFC 3339 in UTC, or "" for a nil or zero value.
func (f *FlexTime) ISOString() string {
	if f == nil || f.IsZero() {
		return ""
	}
	return f.UTC().Format(time.RFC3339)
}
