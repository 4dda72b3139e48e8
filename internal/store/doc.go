// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

/*
Package store is the client-side state layer of UrbanWaste.

One Store holds the points, vehicles, employees, routes, reports, accounts
and notifications known to the dashboard, together with IsLoading and the
last error message. Every action talks to the backend through the client
services, remaps the answer through the mapper and then updates the state.

# Actions

Each entity follows the same contract:

  - Fetch replaces the local list. On failure the previous list stays.
  - Add posts a draft and inserts the server record. Routes are the
    exception: AddTournee inserts a temp-<unix millis> record at once and
    replaces or removes it when the backend answers.
  - Update merges a patch into the local record, validates it, PUTs the
    full record and stores the server answer. A record missing locally
    fails with ErrNotFound without a network call.
  - Remove sends DELETE and then filters the id out locally, whether or
    not it was held.

Failures set Error to the server's "error" field, else its "message"
field, else a per-action default such as "Failed to fetch points". No
action is retried.

# Route lifecycle

UpdateTourneeStatut enforces PLANIFIEE → EN_COURS → TERMINEE, with ANNULEE
and RETARDEE as side branches. Backward moves fail with ErrInvalidTransition
before any request. Route updates always PUT the full payload rebuilt from
local vehicles, employees and points; references missing locally are left
out.

# Subscriptions

	unsubscribe := s.Subscribe(func(c store.Change) {
		log.Printf("%s %s %s", c.Entity, c.Action, c.ID)
	})
	defer unsubscribe()

Listeners run synchronously after the state lock is released.

# Thread Safety

Store is safe for concurrent use. The state lock is never held across a
network call: two concurrent actions on the same record both reach the
backend and the last answer wins.
*/
package store
