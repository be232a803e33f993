// Copyright (c) 2026 Maria. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lelipitri23-dev/Maria/internal/platform/apperr"
	"github.com/lelipitri23-dev/Maria/internal/platform/constants"
	"github.com/lelipitri23-dev/Maria/internal/platform/dberr"
	"github.com/lelipitri23-dev/Maria/internal/platform/sec"
	"github.com/lelipitri23-dev/Maria/internal/platform/session"
	"github.com/lelipitri23-dev/Maria/internal/platform/validate"
	"github.com/lelipitri23-dev/Maria/pkg/uuidv7"
)

// TokenProvider defines the contract for signing API bearer tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, username string, isAdmin bool, timeToLive time.Duration) (string, error)
}

// Service implements account and login use cases for both surfaces.
type Service struct {
	users    UserRepository
	sessions *session.Store
	tokens   TokenProvider
	logger   *slog.Logger
}

func NewService(users UserRepository, sessions *session.Store, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
	}
}

// # Registration

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

/*
Register validates, hashes, and persists a new account.

The uniqueness check is advisory; the case-insensitive unique index is the
real guard, and a racing duplicate surfaces as the same conflict error.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: created account
  - err: validation, conflict, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	validator := &validate.Validator{}
	if err := validator.
		Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, 3).
		MaxLen(FieldUsername, input.Username, 30).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 6).
		Err(); err != nil {
		return nil, err
	}

	if _, err := service.users.FindByUsername(context, input.Username); err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user := &User{
		ID:           uuidv7.New(),
		Username:     input.Username,
		PasswordHash: hashedPassword,
	}
	if err := service.users.Create(context, user); err != nil {
		return nil, err
	}
	return user, nil
}

// # Login

/*
Login verifies credentials and returns the account.

Unknown username and wrong password produce the same generic error to
prevent account enumeration.

Parameters:
  - context: context.Context
  - username: string
  - password: string

Returns:
  - *User: authenticated account
  - err: Unauthorized on any credential mismatch
*/
func (service *Service) Login(context context.Context, username, password string) (*User, error) {
	user, err := service.users.FindByUsername(context, username)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}
	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}
	return user, nil
}

// StartSession opens a browser session for an authenticated account.
func (service *Service) StartSession(context context.Context, user *User) (*session.Session, error) {
	record, err := service.sessions.Create(context, user.ID, user.Username, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("auth: start session: %w", err)
	}
	return record, nil
}

// EndSession invalidates a browser session. Unknown IDs are a no-op, so
// logout is idempotent.
func (service *Service) EndSession(context context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return service.sessions.Delete(context, sessionID)
}

// APISession is the bearer-token login response for the mobile surface.
type APISession struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        *User  `json:"user"`
}

// LoginAPI verifies credentials and issues a signed bearer token.
func (service *Service) LoginAPI(context context.Context, username, password string) (*APISession, error) {
	user, err := service.Login(context, username, password)
	if err != nil {
		return nil, err
	}

	accessToken, err := service.tokens.GenerateAccessToken(user.ID, user.Username, user.IsAdmin, constants.APITokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth: sign access token: %w", err)
	}

	return &APISession{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(constants.APITokenTTL.Seconds()),
		User:        user,
	}, nil
}

// # Bootstrap

// EnsureAdmin guarantees the configured admin account exists at startup.
// An existing account gets its password re-hashed from configuration, so
// rotating ADMIN_PASSWORD takes effect on restart.
func (service *Service) EnsureAdmin(context context.Context, username, password string) error {
	hashedPassword, err := sec.HashPassword(password)
	if err != nil {
		return fmt.Errorf("auth: hash admin password: %w", err)
	}

	existing, err := service.users.FindByUsername(context, username)
	if err == nil {
		if sec.CheckPasswordHash(password, existing.PasswordHash) {
			return nil
		}
		return service.users.UpdatePassword(context, existing.ID, hashedPassword)
	}
	if !errors.Is(err, dberr.ErrNotFound) {
		return err
	}

	admin := &User{
		ID:           uuidv7.New(),
		Username:     username,
		PasswordHash: hashedPassword,
		IsAdmin:      true,
	}
	if err := service.users.Create(context, admin); err != nil {
		return err
	}

	service.logger.InfoContext(context, "admin_account_created", slog.String("username", username))
	return nil
}
