// Copyright (c) 2026 Maria. All rights reserved.

package taxonomy

import (
	"context"
	"log/slog"
	"regexp"
	"sort"

	"github.com/lelipitri23-dev/Maria/internal/platform/apperr"
	"github.com/lelipitri23-dev/Maria/internal/platform/constants"
	"github.com/lelipitri23-dev/Maria/pkg/slug"
)

// yearPattern extracts 4-digit years from free-text release strings
// ("Apr 3, 2021" or "2021 to 2022").
var yearPattern = regexp.MustCompile(`(19|20)\d{2}`)

// Service resolves taxonomy slugs and serves distinct-value lists through
// the injected [Cache].
type Service struct {
	repo   Repository
	cache  Cache
	logger *slog.Logger
}

func NewService(repo Repository, cache Cache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// Distinct returns the distinct values of a field, cached under a fixed TTL.
//
// Cache failures degrade to a direct store read: browsing must not go down
// because Redis did.
func (service *Service) Distinct(context context.Context, field Field) ([]string, error) {
	cacheKey := string(field)

	values, found, err := service.cache.Get(context, cacheKey)
	if err != nil {
		service.logger.WarnContext(context, "taxonomy_cache_get_failed",
			slog.String("field", cacheKey),
			slog.String("error", err.Error()),
		)
	}
	if found {
		return values, nil
	}

	values, err = service.repo.DistinctValues(context, field)
	if err != nil {
		return nil, err
	}

	if err := service.cache.Set(context, cacheKey, values, constants.TaxonomyCacheTTL); err != nil {
		service.logger.WarnContext(context, "taxonomy_cache_set_failed",
			slog.String("field", cacheKey),
			slog.String("error", err.Error()),
		)
	}

	return values, nil
}

// ResolveSlug maps a URL slug back to the original stored attribute value.
//
// Linear scan, first match wins. When two distinct stored values slugify
// identically the winner is whichever the store returned first; that order
// is undefined and deliberately left so.
func (service *Service) ResolveSlug(context context.Context, field Field, candidateSlug string) (string, error) {
	values, err := service.Distinct(context, field)
	if err != nil {
		return "", err
	}

	for _, value := range values {
		if slug.From(value) == candidateSlug {
			return value, nil
		}
	}

	return "", apperr.NotFound(string(field) + " value")
}

// Years returns the distinct release years present in the catalogue,
// newest first. Release strings are free text, so years are extracted by
// pattern rather than parsed as dates.
func (service *Service) Years(context context.Context) ([]string, error) {
	released, err := service.Distinct(context, FieldReleased)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	years := make([]string, 0)
	for _, value := range released {
		for _, year := range yearPattern.FindAllString(value, -1) {
			if _, duplicate := seen[year]; !duplicate {
				seen[year] = struct{}{}
				years = append(years, year)
			}
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years, nil
}
