// Copyright (c) 2026 Maria. All rights reserved.

/*
Package auth implements accounts and the two login surfaces.

Browsers get opaque Redis-backed sessions (cookie + server-side record, see
the session package); the mobile API gets short-lived signed bearer tokens.
Both resolve to the same users.account row. Accounts are username-only, no
email, and usernames are unique case-insensitively.
*/
package auth

import "time"

// User is a registered member.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Field names for validation and response mapping.
const (
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldExpiresIn   = "expires_in"
	FieldUser        = "user"
)
