// Copyright (c) 2026 Maria. All rights reserved.

/*
Package seo serves robots.txt and the sitemap family.

The anime and episode sitemaps are streamed: the XML header goes out first,
then one <url> element per database row straight off a forward-only cursor,
then the footer. Nothing is buffered beyond the row in hand, so a
full-catalogue sitemap costs constant memory. Once the header is flushed the
HTTP status is fixed; a mid-stream failure can only truncate the body, which
is logged and accepted.
*/
package seo

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lelipitri23-dev/Maria/internal/core/taxonomy"
	"github.com/lelipitri23-dev/Maria/pkg/slug"
)

const (
	xmlHeader       = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
	urlsetOpen      = `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n"
	urlsetClose     = `</urlset>` + "\n"
	indexOpen       = `<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n"
	indexClose      = `</sitemapindex>` + "\n"
	lastModLayout   = "2006-01-02"
	contentTypeXML  = "application/xml; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
)

// staticPaths are the hand-maintained browse pages worth indexing.
var staticPaths = []string{"/", "/anime-list", "/genres", "/years"}

// Repository streams slug/lastmod pairs for the two big tables.
type Repository interface {
	ForEachAnime(ctx context.Context, visit func(slug string, updatedAt time.Time) error) error
	ForEachEpisode(ctx context.Context, visit func(slug string, updatedAt time.Time) error) error
}

// TaxonomySource is the slice of the taxonomy service the taxonomy
// sitemap needs.
type TaxonomySource interface {
	Distinct(ctx context.Context, field taxonomy.Field) ([]string, error)
	Years(ctx context.Context) ([]string, error)
}

// Handler serves the SEO surface rooted at the site URL.
type Handler struct {
	siteURL  string
	repo     Repository
	taxonomy TaxonomySource
	logger   *slog.Logger
}

func NewHandler(siteURL string, repo Repository, taxonomySource TaxonomySource, logger *slog.Logger) *Handler {
	return &Handler{
		siteURL:  strings.TrimSuffix(siteURL, "/"),
		repo:     repo,
		taxonomy: taxonomySource,
		logger:   logger,
	}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/robots.txt", handler.robots)
	router.Get("/sitemap_index.xml", handler.sitemapIndex)
	router.Get("/sitemap-static.xml", handler.sitemapStatic)
	router.Get("/sitemap-anime.xml", handler.sitemapAnime)
	router.Get("/sitemap-episode.xml", handler.sitemapEpisode)
	router.Get("/sitemap-taxonomy.xml", handler.sitemapTaxonomy)
}

func (handler *Handler) robots(writer http.ResponseWriter, _ *http.Request) {
	writer.Header().Set("Content-Type", contentTypeText)
	fmt.Fprintf(writer, "User-agent: *\nDisallow: /admin\nDisallow: /api/\n\nSitemap: %s/sitemap_index.xml\n", handler.siteURL)
}

func (handler *Handler) sitemapIndex(writer http.ResponseWriter, _ *http.Request) {
	writer.Header().Set("Content-Type", contentTypeXML)
	io.WriteString(writer, xmlHeader)
	io.WriteString(writer, indexOpen)
	for _, name := range []string{"sitemap-static.xml", "sitemap-anime.xml", "sitemap-episode.xml", "sitemap-taxonomy.xml"} {
		fmt.Fprintf(writer, "<sitemap><loc>%s/%s</loc></sitemap>\n", handler.siteURL, name)
	}
	io.WriteString(writer, indexClose)
}

func (handler *Handler) sitemapStatic(writer http.ResponseWriter, _ *http.Request) {
	writer.Header().Set("Content-Type", contentTypeXML)
	io.WriteString(writer, xmlHeader)
	io.WriteString(writer, urlsetOpen)
	for _, path := range staticPaths {
		writeURL(writer, handler.siteURL+path, time.Time{})
	}
	io.WriteString(writer, urlsetClose)
}

// sitemapAnime streams one <url> per catalogue entry.
func (handler *Handler) sitemapAnime(writer http.ResponseWriter, request *http.Request) {
	handler.streamed(writer, request, "anime", func(ctx context.Context, body io.Writer) error {
		return handler.repo.ForEachAnime(ctx, func(entrySlug string, updatedAt time.Time) error {
			return writeURL(body, handler.siteURL+"/anime/"+entrySlug, updatedAt)
		})
	})
}

// sitemapEpisode streams one <url> per watch page. Episode slugs already
// carry a leading slash.
func (handler *Handler) sitemapEpisode(writer http.ResponseWriter, request *http.Request) {
	handler.streamed(writer, request, "episode", func(ctx context.Context, body io.Writer) error {
		return handler.repo.ForEachEpisode(ctx, func(episodeSlug string, updatedAt time.Time) error {
			return writeURL(body, handler.siteURL+"/anime"+episodeSlug, updatedAt)
		})
	})
}

func (handler *Handler) sitemapTaxonomy(writer http.ResponseWriter, request *http.Request) {
	handler.streamed(writer, request, "taxonomy", func(ctx context.Context, body io.Writer) error {
		routes := []struct {
			field  taxonomy.Field
			prefix string
		}{
			{taxonomy.FieldGenres, "/genres/"},
			{taxonomy.FieldStatus, "/status/"},
			{taxonomy.FieldType, "/type/"},
			{taxonomy.FieldStudio, "/studio/"},
		}
		for _, route := range routes {
			values, err := handler.taxonomy.Distinct(ctx, route.field)
			if err != nil {
				return err
			}
			for _, value := range values {
				if err := writeURL(body, handler.siteURL+route.prefix+slug.From(value), time.Time{}); err != nil {
					return err
				}
			}
		}

		years, err := handler.taxonomy.Years(ctx)
		if err != nil {
			return err
		}
		for _, year := range years {
			if err := writeURL(body, handler.siteURL+"/year/"+year, time.Time{}); err != nil {
				return err
			}
		}
		return nil
	})
}

// streamed emits header and urlset open, runs the body producer, and closes
// the urlset even when the producer fails part-way. The status code is
// already on the wire by then, so the error is only logged.
func (handler *Handler) streamed(writer http.ResponseWriter, request *http.Request, name string, produce func(ctx context.Context, body io.Writer) error) {
	writer.Header().Set("Content-Type", contentTypeXML)
	io.WriteString(writer, xmlHeader)
	io.WriteString(writer, urlsetOpen)

	if err := produce(request.Context(), writer); err != nil {
		handler.logger.ErrorContext(request.Context(), "sitemap_stream_failed",
			slog.String("sitemap", name),
			slog.String("error", err.Error()),
		)
	}

	io.WriteString(writer, urlsetClose)
}

// writeURL emits one <url> element, escaping the location.
func writeURL(writer io.Writer, location string, lastMod time.Time) error {
	var escaped strings.Builder
	if err := xml.EscapeText(&escaped, []byte(location)); err != nil {
		return err
	}

	if lastMod.IsZero() {
		_, err := fmt.Fprintf(writer, "<url><loc>%s</loc></url>\n", escaped.String())
		return err
	}
	_, err := fmt.Fprintf(writer, "<url><loc>%s</loc><lastmod>%s</lastmod></url>\n",
		escaped.String(), lastMod.Format(lastModLayout))
	return err
}
