// Copyright (c) 2026 Maria. All rights reserved.

package episode

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lelipitri23-dev/Maria/internal/core/anime"
	"github.com/lelipitri23-dev/Maria/internal/platform/apperr"
	"github.com/lelipitri23-dev/Maria/internal/platform/dberr"
	"github.com/lelipitri23-dev/Maria/internal/platform/validate"
	"github.com/lelipitri23-dev/Maria/pkg/pagination"
	"github.com/lelipitri23-dev/Maria/pkg/uuidv7"
)

// bonusMirrorName marks extras that the mobile client must not list.
const bonusMirrorName = "bonus"

// refDateLayout is the display date stored on embedded episode refs.
const refDateLayout = "Jan 2, 2006"

// ParentCatalog is the slice of the anime service the episode domain needs:
// parent lookup for navigation, and embedded-list maintenance on writes.
type ParentCatalog interface {
	Peek(ctx context.Context, animeSlug string) (*anime.Anime, error)
	FindParentByEpisodeURL(ctx context.Context, episodeURL string) (*anime.Anime, error)
	AppendEpisodeRef(ctx context.Context, animeSlug string, ref anime.EpisodeRef) error
	RemoveEpisodeRef(ctx context.Context, animeSlug, episodeURL string) error
}

// Service implements watch pages and episode administration.
type Service struct {
	repo    Repository
	catalog ParentCatalog
	logger  *slog.Logger
}

func NewService(repo Repository, catalog ParentCatalog, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
	}
}

// # Link Codec

// EncodeLinkURL base64-encodes a mirror or download URL for transmission.
func EncodeLinkURL(raw string) string {
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// DecodeLinkURL reverses [EncodeLinkURL]. Mirrors what the client player does.
func DecodeLinkURL(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("episode: invalid encoded link: %w", err)
	}
	return string(raw), nil
}

// encodeLinks applies the codec to every streaming and download URL in place.
// Mandatory on every public-facing path that surfaces these fields.
func encodeLinks(record *Episode) {
	for i := range record.Streaming {
		record.Streaming[i].URL = EncodeLinkURL(record.Streaming[i].URL)
	}
	for g := range record.Downloads {
		for l := range record.Downloads[g].Links {
			record.Downloads[g].Links[l].URL = EncodeLinkURL(record.Downloads[g].Links[l].URL)
		}
	}
}

// # Watch Pages

// Watch resolves a watch page: the episode by exact slug, the parent by
// embedded-list containment, and prev/next from the list position.
//
// A missing parent degrades to all-nil navigation; the episode still
// renders. Only a missing episode is a 404.
func (service *Service) Watch(context context.Context, episodeSlug string) (*WatchPage, error) {
	record, err := service.repo.FindBySlug(context, episodeSlug)
	if err != nil {
		return nil, err
	}

	nav := service.resolveNavigation(context, record)
	encodeLinks(record)

	return &WatchPage{Episode: record, Nav: nav}, nil
}

// WatchAPI is the mobile-client variant: identical resolution, but mirrors
// named "bonus" are filtered out before encoding.
func (service *Service) WatchAPI(context context.Context, episodeSlug string) (*WatchPage, error) {
	record, err := service.repo.FindBySlug(context, episodeSlug)
	if err != nil {
		return nil, err
	}

	kept := make([]Mirror, 0, len(record.Streaming))
	for _, mirror := range record.Streaming {
		if !strings.EqualFold(mirror.Name, bonusMirrorName) {
			kept = append(kept, mirror)
		}
	}
	record.Streaming = kept

	nav := service.resolveNavigation(context, record)
	encodeLinks(record)

	return &WatchPage{Episode: record, Nav: nav}, nil
}

func (service *Service) resolveNavigation(context context.Context, record *Episode) Navigation {
	parent, err := service.catalog.FindParentByEpisodeURL(context, record.Slug)
	if err != nil {
		if !errors.Is(err, dberr.ErrNotFound) {
			service.logger.WarnContext(context, "watch_parent_lookup_failed",
				slog.String("episode_slug", record.Slug),
				slog.String("error", err.Error()),
			)
		}
		return Navigation{}
	}

	nav := Navigation{
		All: &NavLink{Title: parent.Title, URL: "/anime/" + parent.Slug},
	}

	position := -1
	for i, ref := range parent.Episodes {
		if ref.URL == record.Slug {
			position = i
			break
		}
	}
	if position < 0 {
		return nav
	}

	if position > 0 {
		previous := parent.Episodes[position-1]
		nav.Prev = &NavLink{Title: previous.Title, URL: anime.BrowseURL(previous.URL)}
	}
	if position < len(parent.Episodes)-1 {
		next := parent.Episodes[position+1]
		nav.Next = &NavLink{Title: next.Title, URL: anime.BrowseURL(next.URL)}
	}

	return nav
}

// Latest returns the newest episodes for the home feed, links encoded.
func (service *Service) Latest(context context.Context, params pagination.Params) ([]*Episode, pagination.Meta, error) {
	records, total, err := service.repo.List(context, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	for _, record := range records {
		encodeLinks(record)
	}
	return records, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// # Administration

// Input carries the admin-editable fields of an episode.
type Input struct {
	AnimeSlug string          `json:"anime_slug"`
	Number    int             `json:"number"`
	Title     string          `json:"title"`
	Thumbnail string          `json:"thumbnail"`
	Streaming []Mirror        `json:"streaming"`
	Downloads []DownloadGroup `json:"downloads"`
}

// Create inserts an episode under its parent and appends the matching ref
// to the parent's ordered list.
func (service *Service) Create(context context.Context, input Input) (*Episode, error) {
	validator := &validate.Validator{}
	if err := validator.
		Required("anime_slug", input.AnimeSlug).
		Custom("number", input.Number < 1, "Must be a positive episode number").
		Err(); err != nil {
		return nil, err
	}

	parent, err := service.catalog.Peek(context, input.AnimeSlug)
	if err != nil {
		return nil, err
	}

	title := input.Title
	if title == "" {
		title = fmt.Sprintf("%s Episode %d", parent.Title, input.Number)
	}

	record := &Episode{
		ID:         uuidv7.New(),
		Title:      title,
		Slug:       fmt.Sprintf("/%s/%d", parent.Slug, input.Number),
		AnimeTitle: parent.Title,
		AnimeSlug:  parent.Slug,
		AnimeImage: parent.Image,
		Thumbnail:  input.Thumbnail,
		Streaming:  input.Streaming,
		Downloads:  input.Downloads,
	}

	if err := service.repo.Create(context, record); err != nil {
		return nil, err
	}

	ref := anime.EpisodeRef{
		Title: record.Title,
		URL:   record.Slug,
		Date:  time.Now().Format(refDateLayout),
	}
	if err := service.catalog.AppendEpisodeRef(context, parent.Slug, ref); err != nil {
		// The episode row exists; a failed ref append only degrades
		// navigation, so surface it but keep the record.
		service.logger.ErrorContext(context, "episode_ref_append_failed",
			slog.String("episode_slug", record.Slug),
			slog.String("error", err.Error()),
		)
	}

	return record, nil
}

// Update replaces the mutable fields. Slug and parent identity never change.
func (service *Service) Update(context context.Context, id string, input Input) (*Episode, error) {
	record, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		record.Title = input.Title
	}
	record.Thumbnail = input.Thumbnail
	record.Streaming = input.Streaming
	record.Downloads = input.Downloads

	if err := service.repo.Update(context, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes the episode and pulls its ref from the parent's list.
func (service *Service) Delete(context context.Context, id string) error {
	record, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	if err := service.catalog.RemoveEpisodeRef(context, record.AnimeSlug, record.Slug); err != nil {
		if !errors.Is(err, dberr.ErrNotFound) {
			service.logger.WarnContext(context, "episode_ref_remove_failed",
				slog.String("episode_slug", record.Slug),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// AppendMirror attaches one more streaming mirror (and optionally a download
// group) to an existing episode. Used by remote mirror ingestion.
func (service *Service) AppendMirror(context context.Context, id string, mirror Mirror, download *DownloadGroup) (*Episode, error) {
	if mirror.URL == "" {
		return nil, apperr.ValidationError("Mirror URL is required")
	}

	record, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	record.Streaming = append(record.Streaming, mirror)
	if download != nil {
		record.Downloads = append(record.Downloads, *download)
	}

	if err := service.repo.Update(context, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ClearMirrors strips the named mirrors and qualities from every episode.
func (service *Service) ClearMirrors(context context.Context, names, qualities []string) (int64, error) {
	if len(names) == 0 && len(qualities) == 0 {
		return 0, apperr.ValidationError("Nothing to clear")
	}
	return service.repo.ClearMirrors(context, names, qualities)
}

// Count reports the episode total for the admin dashboard.
func (service *Service) Count(context context.Context) (int, error) {
	return service.repo.Count(context)
}
