// Copyright (c) 2026 Maria. All rights reserved.

package auth_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lelipitri23-dev/Maria/internal/platform/apperr"
	"github.com/lelipitri23-dev/Maria/internal/platform/dberr"
	"github.com/lelipitri23-dev/Maria/internal/platform/sec"
	"github.com/lelipitri23-dev/Maria/internal/users/auth"
)

type fakeUserRepository struct {
	users map[string]*auth.User // keyed by lowercase username
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*auth.User)}
}

func (repo *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	key := strings.ToLower(user.Username)
	if _, exists := repo.users[key]; exists {
		return apperr.Conflict("Resource already exists")
	}
	repo.users[key] = user
	return nil
}

func (repo *fakeUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	if user, found := repo.users[strings.ToLower(username)]; found {
		return user, nil
	}
	return nil, dberr.ErrNotFound
}

func (repo *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repo *fakeUserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	for _, user := range repo.users {
		if user.ID == id {
			user.PasswordHash = passwordHash
			return nil
		}
	}
	return dberr.ErrNotFound
}

func (repo *fakeUserRepository) Count(_ context.Context) (int, error) {
	return len(repo.users), nil
}

type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _ string, _ bool, _ time.Duration) (string, error) {
	return "signed-token-for-" + userID, nil
}

func newService(repo *fakeUserRepository) *auth.Service {
	return auth.NewService(repo, nil, fakeTokenProvider{}, slog.Default())
}

func TestService_Register(t *testing.T) {
	repo := newFakeUserRepository()
	service := newService(repo)

	user, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "rin",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.False(t, user.IsAdmin)
	// The stored value is a hash, never the plain text.
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("correct-horse", user.PasswordHash))
}

func TestService_Register_DuplicateUsernameIsCaseInsensitive(t *testing.T) {
	service := newService(newFakeUserRepository())

	_, err := service.Register(context.Background(), auth.RegisterInput{Username: "rin", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = service.Register(context.Background(), auth.RegisterInput{Username: "RIN", Password: "correct-horse"})
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 409, appError.HTTPStatus)
}

func TestService_Register_Validation(t *testing.T) {
	service := newService(newFakeUserRepository())

	testCases := []struct {
		name  string
		input auth.RegisterInput
	}{
		{"empty username", auth.RegisterInput{Password: "correct-horse"}},
		{"short username", auth.RegisterInput{Username: "ab", Password: "correct-horse"}},
		{"short password", auth.RegisterInput{Username: "rin", Password: "12345"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.Register(context.Background(), testCase.input)
			require.Error(t, err)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "VALIDATION_ERROR", appError.Code)
		})
	}
}

func TestService_Login(t *testing.T) {
	repo := newFakeUserRepository()
	service := newService(repo)

	_, err := service.Register(context.Background(), auth.RegisterInput{Username: "rin", Password: "correct-horse"})
	require.NoError(t, err)

	user, err := service.Login(context.Background(), "RIN", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "rin", user.Username)
}

// Unknown user and wrong password must be indistinguishable.
func TestService_Login_GenericFailure(t *testing.T) {
	repo := newFakeUserRepository()
	service := newService(repo)

	_, err := service.Register(context.Background(), auth.RegisterInput{Username: "rin", Password: "correct-horse"})
	require.NoError(t, err)

	_, unknownErr := service.Login(context.Background(), "ghost", "correct-horse")
	_, wrongErr := service.Login(context.Background(), "rin", "wrong-password")

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, apperr.As(unknownErr).Message, apperr.As(wrongErr).Message)
}

func TestService_LoginAPI(t *testing.T) {
	repo := newFakeUserRepository()
	service := newService(repo)

	_, err := service.Register(context.Background(), auth.RegisterInput{Username: "rin", Password: "correct-horse"})
	require.NoError(t, err)

	apiSession, err := service.LoginAPI(context.Background(), "rin", "correct-horse")
	require.NoError(t, err)

	assert.Equal(t, "Bearer", apiSession.TokenType)
	assert.Contains(t, apiSession.AccessToken, "signed-token-for-")
	assert.Positive(t, apiSession.ExpiresIn)
	assert.Equal(t, "rin", apiSession.User.Username)
}

func TestService_EnsureAdmin(t *testing.T) {
	repo := newFakeUserRepository()
	service := newService(repo)

	require.NoError(t, service.EnsureAdmin(context.Background(), "admin", "initial-secret"))

	admin, err := repo.FindByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.True(t, sec.CheckPasswordHash("initial-secret", admin.PasswordHash))

	// Re-running with a rotated password updates the hash in place.
	require.NoError(t, service.EnsureAdmin(context.Background(), "admin", "rotated-secret"))
	admin, err = repo.FindByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.True(t, sec.CheckPasswordHash("rotated-secret", admin.PasswordHash))

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
