// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

/*
Package auth issues and verifies the gateway's own JWTs.

The backend hands out an opaque token at login; the gateway keeps that
token for its outbound calls and gives the dashboard a separate HS256 JWT
carrying the user id, display name and role. Every token has a unique ID
(jti) so that logout can revoke it before it expires.

Key Components:

  - JWTManager: token generation and validation
  - Middleware: resolves the caller from the Authorization header or the
    "token" cookie and rejects invalid or revoked tokens
  - Revoker: revocation list, implemented by the badger session store

Requests without credentials pass through as anonymous; deciding what an
anonymous caller may do is left to package authz.

Usage Example:

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
	    return err
	}
	mw := auth.NewMiddleware(jwtManager, sessions)
	r.Use(mw.Identify)
*/
package auth
