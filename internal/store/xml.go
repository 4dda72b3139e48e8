// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package store

import (
	"context"
	"fmt"

	"github.com/tomtom215/urbanwaste/internal/client"
	"github.com/tomtom215/urbanwaste/internal/xmlcodec"
)

// ExportXML renders the local list of entity as XML.
func (s *Store) ExportXML(entity string) ([]byte, error) {
	switch entity {
	case EntityPoints:
		return xmlcodec.GeneratePointsXML(s.Points())
	case EntityVehicules:
		return xmlcodec.GenerateVehiculesXML(s.Vehicules())
	case EntityEmployes:
		return xmlcodec.GenerateEmployesXML(s.Employes())
	case EntitySignalements:
		return xmlcodec.GenerateSignalementsXML(s.Signalements())
	case EntityTournees:
		return xmlcodec.GenerateTourneesXML(s.Tournees())
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
}

// ExportTourneesFromBackend downloads the backend's own route export.
func (s *Store) ExportTourneesFromBackend(ctx context.Context) ([]byte, error) {
	c := Change{Entity: EntityTournees, Action: ActionQuery}
	s.begin()
	data, err := s.api.Tournees.Export(ctx)
	if err != nil {
		return nil, s.fail(ctx, c, fmt.Errorf("export routes: %w", err), "Failed to export tournees", nil)
	}
	s.settle(c, nil)
	return data, nil
}

// ImportXML loads an XML document for entity.
//
// Employees and reports have no backend import: the parsed list replaces
// the local one. Points, vehicles and routes are checked locally, uploaded
// to the backend import endpoint, then fetched again.
func (s *Store) ImportXML(ctx context.Context, entity, filename string, data []byte) (client.ImportResult, error) {
	c := Change{Entity: entity, Action: ActionImport}
	fallback := "Failed to import " + entity + " XML"

	switch entity {
	case EntityEmployes:
		s.begin()
		parsed, err := xmlcodec.ParseEmployesXML(data)
		if err != nil {
			return client.ImportResult{}, s.fail(ctx, c, err, "Failed to import employees XML", nil)
		}
		s.settle(c, func(st *State) { st.Employes = parsed })
		return localImport(len(parsed)), nil

	case EntitySignalements:
		s.begin()
		parsed, err := xmlcodec.ParseSignalementsXML(data)
		if err != nil {
			return client.ImportResult{}, s.fail(ctx, c, err, fallback, nil)
		}
		s.settle(c, func(st *State) { st.Signalements = parsed })
		return localImport(len(parsed)), nil

	case EntityPoints:
		return s.uploadXML(ctx, c, fallback, filename, data,
			func() error { _, err := xmlcodec.ParsePointsXML(data); return err },
			s.api.Points.Import,
			func(ctx context.Context) error { _, err := s.FetchPoints(ctx); return err })

	case EntityVehicules:
		return s.uploadXML(ctx, c, fallback, filename, data,
			func() error { _, err := xmlcodec.ParseVehiculesXML(data); return err },
			s.api.Vehicules.Import,
			func(ctx context.Context) error { _, err := s.FetchVehicules(ctx); return err })

	case EntityTournees:
		return s.uploadXML(ctx, c, fallback, filename, data,
			func() error { _, err := xmlcodec.ParseTourneesXML(data); return err },
			s.api.Tournees.Import,
			func(ctx context.Context) error { _, err := s.FetchTournees(ctx); return err })
	}
	return client.ImportResult{}, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
}

func localImport(n int) client.ImportResult {
	return client.ImportResult{Message: "Import successful", Imported: n, Total: n}
}

type importFunc func(ctx context.Context, filename string, data []byte) (client.ImportResult, error)

func (s *Store) uploadXML(ctx context.Context, c Change, fallback, filename string, data []byte,
	check func() error, upload importFunc, refresh func(context.Context) error,
) (client.ImportResult, error) {
	s.begin()
	if err := check(); err != nil {
		return client.ImportResult{}, s.fail(ctx, c, err, fallback, nil)
	}
	if filename == "" {
		filename = c.Entity + ".xml"
	}
	res, err := upload(ctx, filename, data)
	if err != nil {
		return client.ImportResult{}, s.fail(ctx, c, fmt.Errorf("import %s: %w", c.Entity, err), fallback, nil)
	}
	s.settle(c, nil)
	if err := refresh(ctx); err != nil {
		return res, err
	}
	return res, nil
}
