// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

/*
Package models defines the data structures shared by the store, the backend
client, the XML codec and the gateway.

There are two families of types:

  - Domain types (Point, Vehicule, Employe, Tournee, Signalement, User,
    Notification, TechNotification) use the French field names of the
    dashboard and string IDs where the dashboard works with strings.
  - Wire types (suffix DTO) mirror the backend JSON: English or backend field
    names, numeric IDs and nested object references. Several DTO fields
    exist twice (Etat/Statut, Type/TypeVehicule) because the backend
    contract is not stable.

Conversion between the two families lives in package mapper and nowhere
else.

Drafts and patches:

	draft := models.VehiculeDraft{Immatriculation: "AB-123-CD", Type: "BENNE", Capacite: 12}
	patch := models.PointPatch{NiveauRemplissage: models.Int(0)}
*/
package models
