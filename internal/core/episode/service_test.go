// Copyright (c) 2026 Maria. All rights reserved.

package episode_test

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lelipitri23-dev/Maria/internal/core/anime"
	"github.com/lelipitri23-dev/Maria/internal/core/episode"
	"github.com/lelipitri23-dev/Maria/internal/platform/apperr"
	"github.com/lelipitri23-dev/Maria/internal/platform/dberr"
)

// fakeRepository is an in-memory [episode.Repository] keyed by slug.
type fakeRepository struct {
	records map[string]*episode.Episode
}

func newFakeRepository(records ...*episode.Episode) *fakeRepository {
	repo := &fakeRepository{records: make(map[string]*episode.Episode)}
	for _, record := range records {
		repo.records[record.Slug] = record
	}
	return repo
}

// cloneRecord copies the link lists so in-place encoding never mutates
// stored state, mirroring a real row scan.
func cloneRecord(record *episode.Episode) *episode.Episode {
	clone := *record
	clone.Streaming = append([]episode.Mirror(nil), record.Streaming...)
	clone.Downloads = make([]episode.DownloadGroup, len(record.Downloads))
	for i, group := range record.Downloads {
		clone.Downloads[i] = group
		clone.Downloads[i].Links = append([]episode.DownloadLink(nil), group.Links...)
	}
	return &clone
}

func (repo *fakeRepository) List(_ context.Context, limit, offset int) ([]*episode.Episode, int, error) {
	all := make([]*episode.Episode, 0, len(repo.records))
	for _, record := range repo.records {
		all = append(all, cloneRecord(record))
	}
	total := len(all)
	if offset >= total {
		return []*episode.Episode{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (repo *fakeRepository) FindBySlug(_ context.Context, slug string) (*episode.Episode, error) {
	if record, found := repo.records[slug]; found {
		return cloneRecord(record), nil
	}
	return nil, dberr.ErrNotFound
}

func (repo *fakeRepository) FindByID(_ context.Context, id string) (*episode.Episode, error) {
	for _, record := range repo.records {
		if record.ID == id {
			return cloneRecord(record), nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repo *fakeRepository) Create(_ context.Context, record *episode.Episode) error {
	if _, exists := repo.records[record.Slug]; exists {
		return apperr.Conflict("Resource already exists")
	}
	repo.records[record.Slug] = record
	return nil
}

func (repo *fakeRepository) Update(_ context.Context, record *episode.Episode) error {
	for slug, existing := range repo.records {
		if existing.ID == record.ID {
			repo.records[slug] = record
			return nil
		}
	}
	return dberr.ErrNotFound
}

func (repo *fakeRepository) Delete(_ context.Context, id string) error {
	for slug, existing := range repo.records {
		if existing.ID == id {
			delete(repo.records, slug)
			return nil
		}
	}
	return dberr.ErrNotFound
}

func (repo *fakeRepository) ClearMirrors(_ context.Context, names, qualities []string) (int64, error) {
	var modified int64
	for _, record := range repo.records {
		touched := false
		kept := record.Streaming[:0]
		for _, mirror := range record.Streaming {
			if contains(names, mirror.Name) {
				touched = true
				continue
			}
			kept = append(kept, mirror)
		}
		record.Streaming = kept

		groups := record.Downloads[:0]
		for _, group := range record.Downloads {
			if contains(qualities, group.Quality) {
				touched = true
				continue
			}
			groups = append(groups, group)
		}
		record.Downloads = groups

		if touched {
			modified++
		}
	}
	return modified, nil
}

func (repo *fakeRepository) Count(_ context.Context) (int, error) {
	return len(repo.records), nil
}

func contains(values []string, candidate string) bool {
	for _, value := range values {
		if value == candidate {
			return true
		}
	}
	return false
}

// fakeCatalog is an in-memory [episode.ParentCatalog] holding one parent.
type fakeCatalog struct {
	parent      *anime.Anime
	appended    []anime.EpisodeRef
	removedURLs []string
}

func (catalog *fakeCatalog) Peek(_ context.Context, animeSlug string) (*anime.Anime, error) {
	if catalog.parent == nil || catalog.parent.Slug != animeSlug {
		return nil, dberr.ErrNotFound
	}
	return catalog.parent, nil
}

func (catalog *fakeCatalog) FindParentByEpisodeURL(_ context.Context, episodeURL string) (*anime.Anime, error) {
	if catalog.parent == nil {
		return nil, dberr.ErrNotFound
	}
	for _, ref := range catalog.parent.Episodes {
		if ref.URL == episodeURL {
			return catalog.parent, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (catalog *fakeCatalog) AppendEpisodeRef(_ context.Context, _ string, ref anime.EpisodeRef) error {
	catalog.appended = append(catalog.appended, ref)
	catalog.parent.Episodes = append(catalog.parent.Episodes, ref)
	return nil
}

func (catalog *fakeCatalog) RemoveEpisodeRef(_ context.Context, _ string, episodeURL string) error {
	catalog.removedURLs = append(catalog.removedURLs, episodeURL)
	return nil
}

func demoParent() *anime.Anime {
	return &anime.Anime{
		ID:    "anime-1",
		Title: "Demo Anime",
		Slug:  "demo-anime",
		Episodes: []anime.EpisodeRef{
			{Title: "Episode 1", URL: "/demo-anime/1"},
			{Title: "Episode 2", URL: "/demo-anime/2"},
			{Title: "Episode 3", URL: "/demo-anime/3"},
		},
	}
}

func demoEpisode(number string) *episode.Episode {
	return &episode.Episode{
		ID:         "episode-" + number,
		Title:      "Demo Anime Episode " + number,
		Slug:       "/demo-anime/" + number,
		AnimeTitle: "Demo Anime",
		AnimeSlug:  "demo-anime",
		Streaming: []episode.Mirror{
			{Name: "Mirror", URL: "https://stream.example.com/e/" + number},
			{Name: "Bonus", URL: "https://stream.example.com/bonus/" + number},
		},
		Downloads: []episode.DownloadGroup{
			{Quality: "720p", Links: []episode.DownloadLink{
				{Host: "FileHost", URL: "https://dl.example.com/" + number},
			}},
		},
	}
}

func newService(repo *fakeRepository, catalog *fakeCatalog) *episode.Service {
	return episode.NewService(repo, catalog, slog.Default())
}

func TestService_Watch_MiddleEpisode(t *testing.T) {
	service := newService(newFakeRepository(demoEpisode("2")), &fakeCatalog{parent: demoParent()})

	page, err := service.Watch(context.Background(), "/demo-anime/2")
	require.NoError(t, err)

	require.NotNil(t, page.Nav.Prev)
	require.NotNil(t, page.Nav.Next)
	require.NotNil(t, page.Nav.All)
	assert.Equal(t, "/anime/demo-anime/1", page.Nav.Prev.URL)
	assert.Equal(t, "/anime/demo-anime/3", page.Nav.Next.URL)
	assert.Equal(t, "/anime/demo-anime", page.Nav.All.URL)

	// Every outgoing link is base64-encoded and must round-trip.
	for _, mirror := range page.Episode.Streaming {
		decoded, err := episode.DecodeLinkURL(mirror.URL)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(decoded, "https://"))
	}
	decoded, err := episode.DecodeLinkURL(page.Episode.Downloads[0].Links[0].URL)
	require.NoError(t, err)
	assert.Equal(t, "https://dl.example.com/2", decoded)
}

func TestService_Watch_FirstEpisodeHasNoPrev(t *testing.T) {
	service := newService(newFakeRepository(demoEpisode("1")), &fakeCatalog{parent: demoParent()})

	page, err := service.Watch(context.Background(), "/demo-anime/1")
	require.NoError(t, err)

	assert.Nil(t, page.Nav.Prev)
	require.NotNil(t, page.Nav.Next)
	assert.Equal(t, "/anime/demo-anime/2", page.Nav.Next.URL)
}

func TestService_Watch_LastEpisodeHasNoNext(t *testing.T) {
	service := newService(newFakeRepository(demoEpisode("3")), &fakeCatalog{parent: demoParent()})

	page, err := service.Watch(context.Background(), "/demo-anime/3")
	require.NoError(t, err)

	require.NotNil(t, page.Nav.Prev)
	assert.Equal(t, "/anime/demo-anime/2", page.Nav.Prev.URL)
	assert.Nil(t, page.Nav.Next)
}

func TestService_Watch_OrphanEpisodeStillRenders(t *testing.T) {
	service := newService(newFakeRepository(demoEpisode("2")), &fakeCatalog{})

	page, err := service.Watch(context.Background(), "/demo-anime/2")
	require.NoError(t, err)

	assert.Nil(t, page.Nav.Prev)
	assert.Nil(t, page.Nav.Next)
	assert.Nil(t, page.Nav.All)
	assert.Equal(t, "Demo Anime Episode 2", page.Episode.Title)
}

func TestService_Watch_NotFound(t *testing.T) {
	service := newService(newFakeRepository(), &fakeCatalog{})

	_, err := service.Watch(context.Background(), "/demo-anime/9")
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 404, appError.HTTPStatus)
}

func TestService_WatchAPI_FiltersBonusMirrors(t *testing.T) {
	service := newService(newFakeRepository(demoEpisode("2")), &fakeCatalog{parent: demoParent()})

	page, err := service.WatchAPI(context.Background(), "/demo-anime/2")
	require.NoError(t, err)

	require.Len(t, page.Episode.Streaming, 1)
	decoded, err := episode.DecodeLinkURL(page.Episode.Streaming[0].URL)
	require.NoError(t, err)
	assert.Equal(t, "https://stream.example.com/e/2", decoded)
}

func TestService_Create(t *testing.T) {
	catalog := &fakeCatalog{parent: demoParent()}
	repo := newFakeRepository()
	service := newService(repo, catalog)

	record, err := service.Create(context.Background(), episode.Input{
		AnimeSlug: "demo-anime",
		Number:    4,
		Streaming: []episode.Mirror{{Name: "Mirror", URL: "https://stream.example.com/e/4"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "/demo-anime/4", record.Slug)
	assert.Equal(t, "Demo Anime Episode 4", record.Title)
	assert.Equal(t, "Demo Anime", record.AnimeTitle)

	// Creation appends the matching ref to the parent's ordered list.
	require.Len(t, catalog.appended, 1)
	assert.Equal(t, "/demo-anime/4", catalog.appended[0].URL)
	assert.NotEmpty(t, catalog.appended[0].Date)
}

func TestService_Create_RequiresPositiveNumber(t *testing.T) {
	service := newService(newFakeRepository(), &fakeCatalog{parent: demoParent()})

	_, err := service.Create(context.Background(), episode.Input{AnimeSlug: "demo-anime", Number: 0})
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
}

func TestService_Delete_RemovesParentRef(t *testing.T) {
	catalog := &fakeCatalog{parent: demoParent()}
	repo := newFakeRepository(demoEpisode("2"))
	service := newService(repo, catalog)

	err := service.Delete(context.Background(), "episode-2")
	require.NoError(t, err)

	assert.Equal(t, []string{"/demo-anime/2"}, catalog.removedURLs)
	_, err = repo.FindBySlug(context.Background(), "/demo-anime/2")
	require.Error(t, err)
}

func TestService_AppendMirror(t *testing.T) {
	repo := newFakeRepository(demoEpisode("2"))
	service := newService(repo, &fakeCatalog{parent: demoParent()})

	record, err := service.AppendMirror(context.Background(), "episode-2",
		episode.Mirror{Name: "Viplay", URL: "https://viplay.example.com/e/2"},
		&episode.DownloadGroup{Quality: "480p", Links: []episode.DownloadLink{
			{Host: "Viplay", URL: "https://viplay.example.com/d/2"},
		}},
	)
	require.NoError(t, err)

	assert.Len(t, record.Streaming, 3)
	assert.Len(t, record.Downloads, 2)
}

func TestService_ClearMirrors(t *testing.T) {
	repo := newFakeRepository(demoEpisode("1"), demoEpisode("2"))
	service := newService(repo, &fakeCatalog{parent: demoParent()})

	modified, err := service.ClearMirrors(context.Background(), []string{"Bonus"}, []string{"720p"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), modified)

	_, err = service.ClearMirrors(context.Background(), nil, nil)
	require.Error(t, err)
}

func TestLinkCodec_RoundTrip(t *testing.T) {
	raw := "https://stream.example.com/e/abc?token=1&expires=2"

	encoded := episode.EncodeLinkURL(raw)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte(raw)), encoded)

	decoded, err := episode.DecodeLinkURL(encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)

	_, err = episode.DecodeLinkURL("not-base64!!!")
	require.Error(t, err)
}
