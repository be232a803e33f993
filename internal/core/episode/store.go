// Copyright (c) 2026 Maria. All rights reserved.

package episode

import "context"

// Repository defines the data access contract for episode records.
type Repository interface {

	/*
		List returns the newest episodes first, with the total count.
		Count and page fetch run concurrently without a transaction.
	*/
	List(context context.Context, limit, offset int) ([]*Episode, int, error)

	/*
		FindBySlug returns the episode with the exact slug.
		Matching is case-insensitive.
	*/
	FindBySlug(context context.Context, slug string) (*Episode, error)

	/*
		FindByID returns the episode with the given ID.
	*/
	FindByID(context context.Context, id string) (*Episode, error)

	/*
		Create persists a new episode. A duplicate slug surfaces as a conflict.
	*/
	Create(context context.Context, episode *Episode) error

	/*
		Update persists changes to an existing episode's mutable fields.
	*/
	Update(context context.Context, episode *Episode) error

	/*
		Delete removes the episode row.
	*/
	Delete(context context.Context, id string) error

	/*
		ClearMirrors strips every streaming mirror whose name is in names and
		every download group whose quality is in qualities, across all
		episodes. Returns the number of modified rows.
	*/
	ClearMirrors(context context.Context, names, qualities []string) (int64, error)

	/*
		Count returns the total number of episode records.
	*/
	Count(context context.Context) (int, error)
}
