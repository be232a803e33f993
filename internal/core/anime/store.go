// Copyright (c) 2026 Maria. All rights reserved.

package anime

import "context"

// Repository defines the data access contract for the anime catalogue.
type Repository interface {

	/*
		List returns a filtered, paginated slice of anime and the total count.

		Count and page fetch run concurrently without a transaction; the two
		may be inconsistent under concurrent writes, which is accepted.

		Parameters:
		  - context: context.Context
		  - filter: Filter (query, taxonomy values, sort order)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Anime: Matching catalogue entries
		  - int: Total count matching the filter
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Anime, int, error)

	/*
		FindBySlug returns the anime matching the unique public identity.
		Matching is case-insensitive.
	*/
	FindBySlug(context context.Context, slug string) (*Anime, error)

	/*
		FindByID returns the anime with the given ID.
	*/
	FindByID(context context.Context, id string) (*Anime, error)

	/*
		FindByEpisodeURL returns the anime whose embedded episode list
		contains an entry with the given relative URL.
	*/
	FindByEpisodeURL(context context.Context, episodeURL string) (*Anime, error)

	/*
		Random returns one uniformly picked anime.
	*/
	Random(context context.Context) (*Anime, error)

	/*
		Create persists a new catalogue entry. A duplicate slug surfaces as
		a conflict.
	*/
	Create(context context.Context, entry *Anime) error

	/*
		Update persists changes to an existing entry's mutable fields.
	*/
	Update(context context.Context, entry *Anime) error

	/*
		Delete removes the entry and cascades to its episodes and any reports
		referencing their watch pages, in one transaction.
	*/
	Delete(context context.Context, id string) error

	/*
		IncrementViewCount bumps the denormalized view counter by one.
	*/
	IncrementViewCount(context context.Context, id string) error

	/*
		Count returns the total number of catalogue entries.
	*/
	Count(context context.Context) (int, error)
}
