// Copyright (c) 2026 Maria. All rights reserved.

/*
Package anime defines the catalogue's central aggregate and its listing
pipeline.

An Anime row carries the document-shaped sub-records of the original
catalogue: a free-text info block (no enum validation), a genre tag array,
and an ordered embedded episode list whose order defines previous/next
adjacency on watch pages.

Public serialization always passes through the shared encoding step
([Service] applies it on every read path): image URLs are normalized for
safe embedding and embedded episode URLs get the browsable /anime prefix.
*/
package anime

import (
	"time"
)

// Anime is the central aggregate of the Maria catalogue.
type Anime struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	AltTitle string `json:"alt_title,omitempty"`

	// Slug is the immutable public identity ("/anime/<slug>").
	Slug     string `json:"slug"`
	Synopsis string `json:"synopsis,omitempty"`
	Image    string `json:"image,omitempty"`

	Genres []string `json:"genres"`
	Info   Info     `json:"info"`

	// Episodes is the ordered embedded list; its order defines prev/next
	// adjacency on watch pages.
	Episodes   []EpisodeRef `json:"episodes"`
	Characters []Character  `json:"characters,omitempty"`

	ViewCount int64 `json:"view_count"`
	// ViewCountLabel is the compact display form ("1.2K"), derived on read.
	ViewCountLabel string `json:"view_count_label,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Info is the free-text display attribute block. Values are whatever the
// admin typed; taxonomy browsing derives its value sets from the data.
type Info struct {
	Japanese  string `json:"japanese,omitempty"`
	Status    string `json:"status,omitempty"`
	Type      string `json:"type,omitempty"`
	Studio    string `json:"studio,omitempty"`
	Released  string `json:"released,omitempty"`
	Season    string `json:"season,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Censor    string `json:"censor,omitempty"`
	Producers string `json:"producers,omitempty"`
	Episodes  string `json:"episodes,omitempty"`
}

// EpisodeRef is one entry of the embedded ordered episode list.
type EpisodeRef struct {
	Title string `json:"title"`
	// URL is the stored relative episode identity ("/<slug>/<n>").
	URL  string `json:"url"`
	Date string `json:"date,omitempty"`
}

// Character is a cast entry displayed on the detail page.
type Character struct {
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Image string `json:"image,omitempty"`
}

// # Listing Filters

// Order selects the listing sort.
type Order int

const (
	// OrderLatest sorts by internal identifier descending (insertion order,
	// newest first). The default for every listing.
	OrderLatest Order = iota
	// OrderOldest sorts ascending; used by the legacy full-catalogue listing.
	OrderOldest
	// OrderPopular sorts by view count descending.
	OrderPopular
)

// Filter carries the listing pipeline's criteria. Zero values mean
// "no constraint".
type Filter struct {
	// Query is a case-insensitive title substring.
	Query string
	// Genre is an exact stored genre value (resolve slugs via taxonomy first).
	Genre string
	// Status/Type/Studio are case-insensitive exact matches on info fields.
	Status string
	Type   string
	Studio string
	// ReleasedYear is a case-insensitive substring of the release string.
	ReleasedYear string

	Order Order
}
