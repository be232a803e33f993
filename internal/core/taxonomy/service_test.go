// Copyright (c) 2026 Maria. All rights reserved.

package taxonomy_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lelipitri23-dev/Maria/internal/core/taxonomy"
	"github.com/lelipitri23-dev/Maria/internal/platform/apperr"
)

// fakeRepository counts how many times the source of truth is hit.
type fakeRepository struct {
	values map[taxonomy.Field][]string
	calls  int
}

func (repo *fakeRepository) DistinctValues(_ context.Context, field taxonomy.Field) ([]string, error) {
	repo.calls++
	return repo.values[field], nil
}

func newService(repo *fakeRepository, cache taxonomy.Cache) *taxonomy.Service {
	return taxonomy.NewService(repo, cache, slog.Default())
}

func TestService_Distinct_CachesWithinTTL(t *testing.T) {
	repo := &fakeRepository{values: map[taxonomy.Field][]string{
		taxonomy.FieldGenres: {"Action", "Slice of Life"},
	}}
	service := newService(repo, taxonomy.NewMemoryCache())

	first, err := service.Distinct(context.Background(), taxonomy.FieldGenres)
	require.NoError(t, err)
	second, err := service.Distinct(context.Background(), taxonomy.FieldGenres)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls, "second call within TTL must not hit the store")
}

func TestService_Distinct_RecomputesAfterExpiry(t *testing.T) {
	repo := &fakeRepository{values: map[taxonomy.Field][]string{
		taxonomy.FieldStatus: {"Ongoing"},
	}}

	currentTime := time.Now()
	cache := taxonomy.NewMemoryCache().WithClock(func() time.Time { return currentTime })
	service := newService(repo, cache)

	_, err := service.Distinct(context.Background(), taxonomy.FieldStatus)
	require.NoError(t, err)

	// A new value appears in the store and the TTL elapses.
	repo.values[taxonomy.FieldStatus] = []string{"Ongoing", "Completed"}
	currentTime = currentTime.Add(2 * time.Hour)

	values, err := service.Distinct(context.Background(), taxonomy.FieldStatus)
	require.NoError(t, err)

	assert.Equal(t, []string{"Ongoing", "Completed"}, values)
	assert.Equal(t, 2, repo.calls)
}

func TestService_ResolveSlug(t *testing.T) {
	repo := &fakeRepository{values: map[taxonomy.Field][]string{
		taxonomy.FieldGenres: {"Slice of Life", "Sci-Fi", "Écchi"},
	}}
	service := newService(repo, taxonomy.NewMemoryCache())

	testCases := []struct {
		name      string
		candidate string
		want      string
		wantErr   bool
	}{
		{"multi word", "slice-of-life", "Slice of Life", false},
		{"punctuated", "sci-fi", "Sci-Fi", false},
		{"diacritics", "ecchi", "Écchi", false},
		{"unknown", "mecha", "", true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			value, err := service.ResolveSlug(context.Background(), taxonomy.FieldGenres, testCase.candidate)
			if testCase.wantErr {
				require.Error(t, err)
				appError := apperr.As(err)
				require.NotNil(t, appError)
				assert.Equal(t, "NOT_FOUND", appError.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, value)
		})
	}
}

// Two stored values that slugify identically resolve to whichever the store
// returned first.
func TestService_ResolveSlug_FirstMatchWins(t *testing.T) {
	repo := &fakeRepository{values: map[taxonomy.Field][]string{
		taxonomy.FieldStudio: {"A-1 Pictures", "a1 pictures"},
	}}
	service := newService(repo, taxonomy.NewMemoryCache())

	value, err := service.ResolveSlug(context.Background(), taxonomy.FieldStudio, "a-1-pictures")
	require.NoError(t, err)
	assert.Equal(t, "A-1 Pictures", value)
}

func TestService_Years(t *testing.T) {
	repo := &fakeRepository{values: map[taxonomy.Field][]string{
		taxonomy.FieldReleased: {"Apr 3, 2021", "2019 to 2021", "Fall 2023", "no year here"},
	}}
	service := newService(repo, taxonomy.NewMemoryCache())

	years, err := service.Years(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"2023", "2021", "2019"}, years)
}
