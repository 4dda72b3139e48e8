// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

// Package xmlcodec generates and parses the XML export files for collection
// points, vehicles, employees, reports and routes.
//
// Each entity has a Generate/Parse pair. Parsing is lenient in the same way
// for every entity: items are found by element name anywhere in the
// document, missing fields take their defaults, and only malformed XML is an
// error (wrapping ErrImportFailed).
//
// The point format has one known asymmetry: GeneratePointsXML writes the
// waste type as a nested <type><id/><nom/></type> element, while
// ParsePointsXML reads <type> as flat text. A generated file therefore
// re-imports with the default PLASTIQUE waste type.
package xmlcodec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrImportFailed is wrapped by every parse error.
var ErrImportFailed = errors.New("import failed")

const indent = "  "

func marshal(v any) ([]byte, error) {
	out, err := xml.MarshalIndent(v, "", indent)
	if err != nil {
		return nil, fmt.Errorf("marshal xml: %w", err)
	}
	return out, nil
}

// decodeItems collects every element named item, at any depth.
func decodeItems[T any](data []byte, item string) ([]T, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	out := []T{}
	sawRoot := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrImportFailed, err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true
		if se.Name.Local != item {
			continue
		}
		var v T
		if err := dec.DecodeElement(&v, &se); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrImportFailed, item, err)
		}
		out = append(out, v)
	}
	if !sawRoot {
		return nil, fmt.Errorf("%w: no root element", ErrImportFailed)
	}
	return out, nil
}

func text(s string) string {
	return strings.TrimSpace(s)
}

func orDefault(s, def string) string {
	if s = text(s); s == "" {
		return def
	}
	return s
}

func orUUID(s string) string {
	if s = text(s); s == "" {
		return uuid.NewString()
	}
	return s
}

// parseInt is lenient: anything unparseable is 0. A fractional value is
// truncated.
func parseInt(s string) int64 {
	s = text(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(text(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseOptionalFloat(s string) *float64 {
	if text(s) == "" {
		return nil
	}
	f := parseFloat(s)
	return &f
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func splitIDs(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
