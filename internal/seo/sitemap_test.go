// Copyright (c) 2026 Maria. All rights reserved.

package seo_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/lelipitri23-dev/Maria/internal/core/taxonomy"
	"github.com/lelipitri23-dev/Maria/internal/seo"
)

type fakeRepository struct {
	animeSlugs   []string
	episodeSlugs []string
	failAfter    int // fail after N anime rows when > 0
}

func (repo *fakeRepository) ForEachAnime(_ context.Context, visit func(string, time.Time) error) error {
	for i, entrySlug := range repo.animeSlugs {
		if repo.failAfter > 0 && i == repo.failAfter {
			return errors.New("connection reset")
		}
		if err := visit(entrySlug, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)); err != nil {
			return err
		}
	}
	return nil
}

func (repo *fakeRepository) ForEachEpisode(_ context.Context, visit func(string, time.Time) error) error {
	for _, episodeSlug := range repo.episodeSlugs {
		if err := visit(episodeSlug, time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)); err != nil {
			return err
		}
	}
	return nil
}

type fakeTaxonomy struct {
	values map[taxonomy.Field][]string
	years  []string
}

func (source *fakeTaxonomy) Distinct(_ context.Context, field taxonomy.Field) ([]string, error) {
	return source.values[field], nil
}

func (source *fakeTaxonomy) Years(_ context.Context) ([]string, error) {
	return source.years, nil
}

func newRouter(repo *fakeRepository, source *fakeTaxonomy) chi.Router {
	handler := seo.NewHandler("https://maria.app/", repo, source, slog.Default())
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func get(t *testing.T, router chi.Router, path string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", path, nil))
	return recorder
}

func TestRobots(t *testing.T) {
	recorder := get(t, newRouter(&fakeRepository{}, &fakeTaxonomy{}), "/robots.txt")

	assert.Equal(t, 200, recorder.Code)
	// Trailing slash on the configured site URL must not double up.
	assert.Contains(t, recorder.Body.String(), "Sitemap: https://maria.app/sitemap_index.xml")
}

func TestSitemapIndex(t *testing.T) {
	recorder := get(t, newRouter(&fakeRepository{}, &fakeTaxonomy{}), "/sitemap_index.xml")

	body := recorder.Body.String()
	assert.Contains(t, body, "<sitemapindex")
	assert.Contains(t, body, "https://maria.app/sitemap-anime.xml")
	assert.Contains(t, body, "https://maria.app/sitemap-episode.xml")
	assert.Contains(t, body, "https://maria.app/sitemap-taxonomy.xml")
	assert.Contains(t, body, "https://maria.app/sitemap-static.xml")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(body), "</sitemapindex>"))
}

func TestSitemapAnime_StreamsRows(t *testing.T) {
	repo := &fakeRepository{animeSlugs: []string{"demo-anime", "another-show"}}
	recorder := get(t, newRouter(repo, &fakeTaxonomy{}), "/sitemap-anime.xml")

	body := recorder.Body.String()
	assert.Contains(t, body, "<loc>https://maria.app/anime/demo-anime</loc>")
	assert.Contains(t, body, "<loc>https://maria.app/anime/another-show</loc>")
	assert.Contains(t, body, "<lastmod>2026-05-01</lastmod>")
}

func TestSitemapEpisode_UsesBrowsePrefix(t *testing.T) {
	repo := &fakeRepository{episodeSlugs: []string{"/demo-anime/1"}}
	recorder := get(t, newRouter(repo, &fakeTaxonomy{}), "/sitemap-episode.xml")

	assert.Contains(t, recorder.Body.String(), "<loc>https://maria.app/anime/demo-anime/1</loc>")
}

// An empty table still yields a well-formed document: header, open and
// close tags, no url elements.
func TestSitemap_EmptyBodyStaysWellFormed(t *testing.T) {
	recorder := get(t, newRouter(&fakeRepository{}, &fakeTaxonomy{}), "/sitemap-anime.xml")

	body := recorder.Body.String()
	assert.Contains(t, body, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, body, "<urlset")
	assert.Contains(t, body, "</urlset>")
	assert.NotContains(t, body, "<url>")
}

// A mid-stream failure keeps the already-flushed rows and still closes the
// document; the status cannot change after the header went out.
func TestSitemap_MidStreamErrorClosesDocument(t *testing.T) {
	repo := &fakeRepository{animeSlugs: []string{"one", "two", "three"}, failAfter: 2}
	recorder := get(t, newRouter(repo, &fakeTaxonomy{}), "/sitemap-anime.xml")

	body := recorder.Body.String()
	assert.Equal(t, 200, recorder.Code)
	assert.Contains(t, body, "https://maria.app/anime/two")
	assert.NotContains(t, body, "https://maria.app/anime/three")
	assert.Contains(t, body, "</urlset>")
}

func TestSitemapTaxonomy(t *testing.T) {
	source := &fakeTaxonomy{
		values: map[taxonomy.Field][]string{
			taxonomy.FieldGenres: {"Slice of Life"},
			taxonomy.FieldStudio: {"A-1 Pictures"},
		},
		years: []string{"2026", "2025"},
	}
	recorder := get(t, newRouter(&fakeRepository{}, source), "/sitemap-taxonomy.xml")

	body := recorder.Body.String()
	assert.Contains(t, body, "https://maria.app/genres/slice-of-life")
	assert.Contains(t, body, "https://maria.app/studio/a-1-pictures")
	assert.Contains(t, body, "https://maria.app/year/2026")
}
