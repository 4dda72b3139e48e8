// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/urbanwaste/internal/store"
	"github.com/tomtom215/urbanwaste/internal/validation"
)

// maxImportSize bounds XML uploads.
const maxImportSize = 10 << 20

// ExportXML serves /export/{entity}.xml from local state. For tournees,
// ?source=backend downloads the backend's own export instead.
func (h *Handler) ExportXML(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	entity, ok := strings.CutSuffix(file, ".xml")
	if !ok || entity == "" {
		respondError(w, r, fmt.Errorf("%w: %q", store.ErrUnknownEntity, file), "Unknown export")
		return
	}

	var (
		data []byte
		err  error
	)
	if entity == store.EntityTournees && r.URL.Query().Get("source") == "backend" {
		data, err = h.deps.Store.ExportTourneesFromBackend(r.Context())
	} else {
		data, err = h.deps.Store.ExportXML(entity)
	}
	if err != nil {
		respondError(w, r, err, "Failed to export "+entity)
		return
	}

	NewResponseWriter(w, r).Attachment("application/xml; charset=utf-8", entity+".xml", data)
}

// ImportXML accepts either a multipart form with a "file" field or a raw
// XML body.
func (h *Handler) ImportXML(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	filename, data, err := readUpload(r, entity)
	if err != nil {
		respondError(w, r, err, "Failed to import "+entity)
		return
	}

	result, err := h.deps.Store.ImportXML(r.Context(), entity, filename, data)
	if err != nil {
		respondError(w, r, err, "Failed to import "+entity)
		return
	}
	NewResponseWriter(w, r).Success(ImportResponse{
		Entity:   entity,
		Filename: filename,
		Message:  result.Message,
		Imported: result.Imported,
		Total:    result.Total,
	})
}

func readUpload(r *http.Request, entity string) (filename string, data []byte, err error) {
	filename = entity + ".xml"

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, uploadError(err, "file", "a multipart \"file\" field is required")
		}
		defer func() { _ = file.Close() }()
		if header.Filename != "" {
			filename = header.Filename
		}
		data, err = io.ReadAll(file)
		if err != nil {
			return "", nil, uploadError(err, "file", "failed to read upload")
		}
		return filename, data, nil
	}

	data, err = io.ReadAll(r.Body)
	if err != nil {
		return "", nil, uploadError(err, "body", "failed to read body")
	}
	return filename, data, nil
}

func uploadError(err error, field, msg string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return validation.Fail(field, "max", fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
	}
	return validation.Fail(field, "required", msg)
}
