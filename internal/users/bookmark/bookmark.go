// Copyright (c) 2026 Maria. All rights reserved.

/*
Package bookmark lets signed-in members keep a personal anime list.

A bookmark is a (user, anime) pair. Adding is an upsert so double-submits
are harmless, and the listing joins straight onto the catalogue so deleted
anime silently disappear from lists.
*/
package bookmark

import (
	"context"
	"time"

	"github.com/lelipitri23-dev/Maria/internal/core/anime"
)

// Bookmark is one saved (user, anime) pair.
type Bookmark struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	AnimeID   string    `json:"anime_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository defines the data access contract for bookmarks.
type Repository interface {

	/*
		Add saves the pair. Saving an already-bookmarked anime is a no-op,
		not an error.
	*/
	Add(context context.Context, userID, animeID string) error

	/*
		Remove deletes one pair. Removing an absent pair is a no-op.
	*/
	Remove(context context.Context, userID, animeID string) error

	/*
		RemoveAll clears every bookmark of the given user.
	*/
	RemoveAll(context context.Context, userID string) error

	/*
		Exists reports whether the pair is saved.
	*/
	Exists(context context.Context, userID, animeID string) (bool, error)

	/*
		ListAnime returns the user's bookmarked anime summaries, newest
		bookmark first, with the total count.
	*/
	ListAnime(context context.Context, userID string, limit, offset int) ([]*anime.Anime, int, error)
}
