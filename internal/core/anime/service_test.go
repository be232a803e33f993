// Copyright (c) 2026 Maria. All rights reserved.

package anime_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lelipitri23-dev/Maria/internal/core/anime"
	"github.com/lelipitri23-dev/Maria/internal/platform/apperr"
	"github.com/lelipitri23-dev/Maria/internal/platform/dberr"
	"github.com/lelipitri23-dev/Maria/pkg/pagination"
)

// fakeRepository is an in-memory [anime.Repository]. Mutations are guarded
// because the view counter runs on a detached goroutine.
type fakeRepository struct {
	mu         sync.Mutex
	entries    map[string]*anime.Anime // keyed by slug
	increments map[string]int
}

func newFakeRepository(entries ...*anime.Anime) *fakeRepository {
	repo := &fakeRepository{
		entries:    make(map[string]*anime.Anime),
		increments: make(map[string]int),
	}
	for _, entry := range entries {
		repo.entries[entry.Slug] = entry
	}
	return repo
}

func (repo *fakeRepository) List(_ context.Context, _ anime.Filter, limit, offset int) ([]*anime.Anime, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	all := make([]*anime.Anime, 0, len(repo.entries))
	for _, entry := range repo.entries {
		all = append(all, entry)
	}
	total := len(all)
	if offset >= total {
		return []*anime.Anime{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

// cloneEntry deep-copies the episode list so the service's in-place URL
// rewrites never touch stored state, mirroring a real row scan.
func cloneEntry(entry *anime.Anime) *anime.Anime {
	clone := *entry
	clone.Episodes = append([]anime.EpisodeRef(nil), entry.Episodes...)
	return &clone
}

func (repo *fakeRepository) FindBySlug(_ context.Context, slug string) (*anime.Anime, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if entry, found := repo.entries[slug]; found {
		return cloneEntry(entry), nil
	}
	return nil, dberr.ErrNotFound
}

func (repo *fakeRepository) FindByID(_ context.Context, id string) (*anime.Anime, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, entry := range repo.entries {
		if entry.ID == id {
			return cloneEntry(entry), nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repo *fakeRepository) FindByEpisodeURL(_ context.Context, episodeURL string) (*anime.Anime, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, entry := range repo.entries {
		for _, ref := range entry.Episodes {
			if ref.URL == episodeURL {
				return cloneEntry(entry), nil
			}
		}
	}
	return nil, dberr.ErrNotFound
}

func (repo *fakeRepository) Random(_ context.Context) (*anime.Anime, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, entry := range repo.entries {
		return cloneEntry(entry), nil
	}
	return nil, dberr.ErrNotFound
}

func (repo *fakeRepository) Create(_ context.Context, entry *anime.Anime) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, exists := repo.entries[entry.Slug]; exists {
		return apperr.Conflict("Resource already exists")
	}
	repo.entries[entry.Slug] = entry
	return nil
}

func (repo *fakeRepository) Update(_ context.Context, entry *anime.Anime) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for slug, existing := range repo.entries {
		if existing.ID == entry.ID {
			repo.entries[slug] = entry
			return nil
		}
	}
	return dberr.ErrNotFound
}

func (repo *fakeRepository) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for slug, existing := range repo.entries {
		if existing.ID == id {
			delete(repo.entries, slug)
			return nil
		}
	}
	return dberr.ErrNotFound
}

func (repo *fakeRepository) IncrementViewCount(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.increments[id]++
	return nil
}

func (repo *fakeRepository) Count(_ context.Context) (int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return len(repo.entries), nil
}

func (repo *fakeRepository) incrementsFor(id string) int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.increments[id]
}

func newService(repo *fakeRepository) *anime.Service {
	return anime.NewService(repo, slog.Default())
}

func demoEntry() *anime.Anime {
	return &anime.Anime{
		ID:    "anime-1",
		Title: "Demo Anime",
		Slug:  "demo-anime",
		Image: "https://cdn.example.com/covers/demo anime.jpg",
		Episodes: []anime.EpisodeRef{
			{Title: "Episode 1", URL: "/demo-anime/1"},
			{Title: "Episode 2", URL: "/demo-anime/2"},
		},
		ViewCount: 1234,
	}
}

func TestService_GetBySlug(t *testing.T) {
	repo := newFakeRepository(demoEntry())
	service := newService(repo)

	entry, err := service.GetBySlug(context.Background(), "demo-anime")
	require.NoError(t, err)

	// Image URL is rewritten for safe embedding, not stored mutated.
	assert.Equal(t, "https://cdn.example.com/covers/demo%20anime.jpg", entry.Image)
	assert.Equal(t, "1.2K", entry.ViewCountLabel)

	// Embedded episode refs carry browsable URLs.
	assert.Equal(t, "/anime/demo-anime/1", entry.Episodes[0].URL)
	assert.Equal(t, "/anime/demo-anime/2", entry.Episodes[1].URL)

	// The view counter increments off the request path.
	assert.Eventually(t, func() bool {
		return repo.incrementsFor("anime-1") == 1
	}, time.Second, 10*time.Millisecond)
}

func TestService_GetBySlug_NotFound(t *testing.T) {
	service := newService(newFakeRepository())

	_, err := service.GetBySlug(context.Background(), "does-not-exist")
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}

func TestService_List_Pagination(t *testing.T) {
	repo := newFakeRepository(demoEntry())
	service := newService(repo)

	entries, meta, err := service.List(context.Background(), anime.Filter{}, pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)

	assert.Len(t, entries, 1)
	assert.Equal(t, 1, meta.Total)
	assert.Equal(t, 1, meta.TotalPages)
}

func TestService_Create(t *testing.T) {
	repo := newFakeRepository()
	service := newService(repo)

	entry, err := service.Create(context.Background(), anime.Input{Title: "Re:Zero − Starting Life"})
	require.NoError(t, err)

	assert.Equal(t, "re-zero-starting-life", entry.Slug)
	assert.NotEmpty(t, entry.ID)
	assert.NotNil(t, entry.Episodes)
}

func TestService_Create_RequiresTitle(t *testing.T) {
	service := newService(newFakeRepository())

	_, err := service.Create(context.Background(), anime.Input{})
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
}

func TestService_EpisodeRefLifecycle(t *testing.T) {
	repo := newFakeRepository(demoEntry())
	service := newService(repo)

	err := service.AppendEpisodeRef(context.Background(), "demo-anime",
		anime.EpisodeRef{Title: "Episode 3", URL: "/demo-anime/3"})
	require.NoError(t, err)

	entry, err := service.Peek(context.Background(), "demo-anime")
	require.NoError(t, err)
	require.Len(t, entry.Episodes, 3)

	err = service.RemoveEpisodeRef(context.Background(), "demo-anime", "/demo-anime/2")
	require.NoError(t, err)

	entry, err = service.Peek(context.Background(), "demo-anime")
	require.NoError(t, err)
	require.Len(t, entry.Episodes, 2)
	assert.Equal(t, "/anime/demo-anime/1", entry.Episodes[0].URL)
	assert.Equal(t, "/anime/demo-anime/3", entry.Episodes[1].URL)
}

func TestBrowseURL_Idempotent(t *testing.T) {
	assert.Equal(t, "/anime/demo-anime/1", anime.BrowseURL("/demo-anime/1"))
	assert.Equal(t, "/anime/demo-anime/1", anime.BrowseURL(anime.BrowseURL("/demo-anime/1")))
	assert.Equal(t, "", anime.BrowseURL(""))
}
