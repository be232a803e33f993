// Copyright (c) 2026 Maria. All rights reserved.

package bookmark

import (
	"context"

	"github.com/lelipitri23-dev/Maria/internal/core/anime"
	"github.com/lelipitri23-dev/Maria/internal/platform/apperr"
	"github.com/lelipitri23-dev/Maria/pkg/pagination"
)

// Service implements the personal list use cases.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add saves the pair. Idempotent.
func (service *Service) Add(context context.Context, userID, animeID string) error {
	if animeID == "" {
		return apperr.ValidationError("Anime ID is required")
	}
	return service.repo.Add(context, userID, animeID)
}

// Remove deletes one pair. Idempotent.
func (service *Service) Remove(context context.Context, userID, animeID string) error {
	return service.repo.Remove(context, userID, animeID)
}

// Clear empties the user's list.
func (service *Service) Clear(context context.Context, userID string) error {
	return service.repo.RemoveAll(context, userID)
}

// Status reports whether the anime is on the user's list. Detail pages use
// this to render the bookmark toggle.
func (service *Service) Status(context context.Context, userID, animeID string) (bool, error) {
	return service.repo.Exists(context, userID, animeID)
}

// List returns the user's saved anime, newest bookmark first, decorated for
// rendering.
func (service *Service) List(context context.Context, userID string, params pagination.Params) ([]*anime.Anime, pagination.Meta, error) {
	entries, total, err := service.repo.ListAnime(context, userID, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return anime.DecorateAll(entries), pagination.NewMeta(params.Page, params.Limit, total), nil
}
