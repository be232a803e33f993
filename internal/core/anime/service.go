// Copyright (c) 2026 Maria. All rights reserved.

package anime

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/lelipitri23-dev/Maria/internal/platform/constants"
	"github.com/lelipitri23-dev/Maria/internal/platform/validate"
	"github.com/lelipitri23-dev/Maria/pkg/format"
	"github.com/lelipitri23-dev/Maria/pkg/pagination"
	"github.com/lelipitri23-dev/Maria/pkg/slice"
	"github.com/lelipitri23-dev/Maria/pkg/slug"
	"github.com/lelipitri23-dev/Maria/pkg/uuidv7"
)

// viewCountTimeout bounds the detached view-counter write.
const viewCountTimeout = 5 * time.Second

// Service implements the catalogue use cases on top of [Repository].
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Shared Encoding Step

// EncodeImageURL normalizes an image URL for safe embedding without mutating
// the stored value. Unparseable input passes through untouched.
func EncodeImageURL(raw string) string {
	if raw == "" {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return parsed.String()
}

// Decorate applies the mandatory read-path encoding to one entry: image URL
// normalization and the compact view-count label. Every public serialization
// goes through here; skipping it on a new endpoint is a regression.
func Decorate(entry *Anime) *Anime {
	entry.Image = EncodeImageURL(entry.Image)
	entry.ViewCountLabel = format.CompactNumber(entry.ViewCount)
	return entry
}

// DecorateAll applies [Decorate] to a listing page in place.
func DecorateAll(entries []*Anime) []*Anime {
	return slice.Map(entries, Decorate)
}

// BrowseURL rewrites a stored relative episode URL into its browsable form.
func BrowseURL(storedURL string) string {
	if storedURL == "" || strings.HasPrefix(storedURL, constants.BrowsePrefix+"/") {
		return storedURL
	}
	return constants.BrowsePrefix + storedURL
}

// # Public Reads

// List runs the listing pipeline: paginated, filtered, decorated.
func (service *Service) List(context context.Context, filter Filter, params pagination.Params) ([]*Anime, pagination.Meta, error) {
	entries, total, err := service.repo.List(context, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return DecorateAll(entries), pagination.NewMeta(params.Page, params.Limit, total), nil
}

// GetBySlug returns the decorated detail view and kicks off the detached
// view-count increment.
//
// The increment runs on its own context and error channel: the page response
// never waits for it and never learns whether it failed.
func (service *Service) GetBySlug(requestContext context.Context, animeSlug string) (*Anime, error) {
	entry, err := service.repo.FindBySlug(requestContext, animeSlug)
	if err != nil {
		return nil, err
	}

	go func(id string) {
		detachedContext, cancel := context.WithTimeout(context.Background(), viewCountTimeout)
		defer cancel()

		if err := service.repo.IncrementViewCount(detachedContext, id); err != nil {
			service.logger.Warn("view_count_increment_failed",
				slog.String("anime_id", id),
				slog.String("error", err.Error()),
			)
		}
	}(entry.ID)

	return service.detail(entry), nil
}

// Peek returns the decorated detail view without touching the view counter.
// Used by admin screens and the API detail endpoint's internal callers.
func (service *Service) Peek(context context.Context, animeSlug string) (*Anime, error) {
	entry, err := service.repo.FindBySlug(context, animeSlug)
	if err != nil {
		return nil, err
	}
	return service.detail(entry), nil
}

// Random returns one uniformly picked entry, decorated.
func (service *Service) Random(context context.Context) (*Anime, error) {
	entry, err := service.repo.Random(context)
	if err != nil {
		return nil, err
	}
	return Decorate(entry), nil
}

// detail finishes a detail view: embedded episode refs get browsable URLs.
func (service *Service) detail(entry *Anime) *Anime {
	for i := range entry.Episodes {
		entry.Episodes[i].URL = BrowseURL(entry.Episodes[i].URL)
	}
	return Decorate(entry)
}

// # Admin Writes

// Input carries the admin-editable fields of a catalogue entry.
type Input struct {
	Title      string      `json:"title"`
	AltTitle   string      `json:"alt_title"`
	Synopsis   string      `json:"synopsis"`
	Image      string      `json:"image"`
	Genres     []string    `json:"genres"`
	Info       Info        `json:"info"`
	Characters []Character `json:"characters"`
}

// Create inserts a new catalogue entry. The slug derives from the title and
// is immutable afterwards; a duplicate surfaces as a 409.
func (service *Service) Create(context context.Context, input Input) (*Anime, error) {
	validator := &validate.Validator{}
	if err := validator.
		Required("title", input.Title).
		MaxLen("title", input.Title, 300).
		Err(); err != nil {
		return nil, err
	}

	entrySlug := slug.From(input.Title)
	if err := (&validate.Validator{}).Slug("title", entrySlug).Err(); err != nil {
		return nil, validate.RequiredError("title", "Title does not reduce to a usable slug")
	}

	entry := &Anime{
		ID:         uuidv7.New(),
		Title:      input.Title,
		AltTitle:   input.AltTitle,
		Slug:       entrySlug,
		Synopsis:   input.Synopsis,
		Image:      input.Image,
		Genres:     normalizeGenres(input.Genres),
		Info:       input.Info,
		Episodes:   make([]EpisodeRef, 0),
		Characters: input.Characters,
	}

	if err := service.repo.Create(context, entry); err != nil {
		return nil, err
	}
	return Decorate(entry), nil
}

// Update replaces the mutable fields. The slug never changes.
func (service *Service) Update(context context.Context, id string, input Input) (*Anime, error) {
	validator := &validate.Validator{}
	if err := validator.
		Required("title", input.Title).
		MaxLen("title", input.Title, 300).
		Err(); err != nil {
		return nil, err
	}

	entry, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	entry.Title = input.Title
	entry.AltTitle = input.AltTitle
	entry.Synopsis = input.Synopsis
	entry.Image = input.Image
	entry.Genres = normalizeGenres(input.Genres)
	entry.Info = input.Info
	entry.Characters = input.Characters

	if err := service.repo.Update(context, entry); err != nil {
		return nil, err
	}
	return Decorate(entry), nil
}

// Delete removes an entry and everything hanging off it.
func (service *Service) Delete(context context.Context, id string) error {
	return service.repo.Delete(context, id)
}

// AppendEpisodeRef adds one entry to the parent's ordered episode list.
// Called by the episode service when an episode is created.
func (service *Service) AppendEpisodeRef(context context.Context, animeSlug string, ref EpisodeRef) error {
	entry, err := service.repo.FindBySlug(context, animeSlug)
	if err != nil {
		return err
	}
	entry.Episodes = append(entry.Episodes, ref)
	return service.repo.Update(context, entry)
}

// RemoveEpisodeRef pulls an entry from the parent's ordered episode list.
func (service *Service) RemoveEpisodeRef(context context.Context, animeSlug, episodeURL string) error {
	entry, err := service.repo.FindBySlug(context, animeSlug)
	if err != nil {
		return err
	}

	kept := entry.Episodes[:0]
	for _, ref := range entry.Episodes {
		if ref.URL != episodeURL {
			kept = append(kept, ref)
		}
	}
	entry.Episodes = kept
	return service.repo.Update(context, entry)
}

// FindParentByEpisodeURL exposes the embedded-list containment lookup for
// the watch-page navigation resolver.
func (service *Service) FindParentByEpisodeURL(context context.Context, episodeURL string) (*Anime, error) {
	entry, err := service.repo.FindByEpisodeURL(context, episodeURL)
	if err != nil {
		return nil, err
	}
	return Decorate(entry), nil
}

// Count reports the catalogue size for the admin dashboard.
func (service *Service) Count(context context.Context) (int, error) {
	return service.repo.Count(context)
}

func normalizeGenres(genres []string) []string {
	cleaned := make([]string, 0, len(genres))
	for _, genre := range genres {
		if genre = strings.TrimSpace(genre); genre != "" {
			cleaned = append(cleaned, genre)
		}
	}
	return cleaned
}
