// Copyright (c) 2026 Maria. All rights reserved.

/*
Package session implements server-side browser sessions backed by Redis.

Unlike the stateless JWT tokens used by the mobile API surface, browser
sessions are opaque: the cookie carries only a random identifier, and the
authoritative session record lives in Redis under a TTL. Logging out (or an
admin deleting the record) invalidates the session immediately, with no
revocation list required.

Lifecycle:

  - Create: mints a random ID, stores the JSON record, sets the cookie.
  - Get: resolves the cookie ID back to a session record on every request.
  - Delete: removes the record and expires the cookie.
*/
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lelipitri23-dev/Maria/internal/platform/constants"
	"github.com/lelipitri23-dev/Maria/internal/platform/sec"
)

// ErrNotFound is returned when a session ID does not resolve to a live record.
var ErrNotFound = errors.New("session: not found")

// sessionIDBytes is the entropy of a session identifier (hex doubles the length).
const sessionIDBytes = 32

// Session is the server-side record behind a browser session cookie.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists sessions in Redis with a sliding expiry.
type Store struct {
	client *redis.Client
}

// NewStore creates a session store on top of an existing Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Create mints a new session for the given user and persists it.
func (store *Store) Create(ctx context.Context, userID, username string, isAdmin bool) (*Session, error) {
	id, err := sec.GenerateSecureToken(sessionIDBytes)
	if err != nil {
		return nil, err
	}

	record := &Session{
		ID:        id,
		UserID:    userID,
		Username:  username,
		IsAdmin:   isAdmin,
		CreatedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("session: failed to marshal record: %w", err)
	}

	if err := store.client.Set(ctx, redisKey(id), payload, constants.SessionTTL).Err(); err != nil {
		return nil, fmt.Errorf("session: failed to persist record: %w", err)
	}

	return record, nil
}

// Get resolves a session ID to its record.
//
// A missing key (expired or logged out) returns [ErrNotFound]; transport
// failures are returned as-is so callers can distinguish outage from logout.
func (store *Store) Get(ctx context.Context, id string) (*Session, error) {
	payload, err := store.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: failed to load record: %w", err)
	}

	record := &Session{}
	if err := json.Unmarshal(payload, record); err != nil {
		return nil, fmt.Errorf("session: corrupt record: %w", err)
	}

	// Sliding expiry: activity keeps the session alive for another full TTL.
	_ = store.client.Expire(ctx, redisKey(id), constants.SessionTTL).Err()

	return record, nil
}

// Delete removes a session record, invalidating the session immediately.
func (store *Store) Delete(ctx context.Context, id string) error {
	if err := store.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("session: failed to delete record: %w", err)
	}
	return nil
}

func redisKey(id string) string {
	return constants.RedisPrefixSession + id
}

// # Cookie Management

// SetCookie attaches the session cookie to the response.
func SetCookie(writer http.ResponseWriter, record *Session, secure bool) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    record.ID,
		Path:     "/",
		MaxAge:   int(constants.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on the client.
func ClearCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest extracts the raw session ID from the request cookie.
// Returns an empty string when the cookie is absent.
func FromRequest(request *http.Request) string {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
