// Copyright (c) 2026 Maria. All rights reserved.

/*
Package episode serves watch pages and manages the episode records behind
them.

An episode's identity is its slug, pattern "/<animeSlug>/<number>". The
parent anime's embedded episode list refers to the same relative URL, which
is how the navigation resolver finds the parent and computes previous/next
adjacency. Parent identity is also denormalized onto the episode row so a
watch page still renders when the parent lookup finds nothing.

Streaming and download URLs are base64-encoded on every public path. That is
obfuscation for the client-side player, not encryption; the codec must stay
a plain reversible std-encoding round trip.
*/
package episode

import (
	"time"
)

// Mirror is one externally hosted streaming source.
type Mirror struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DownloadLink is one host link inside a quality group.
type DownloadLink struct {
	Host string `json:"host"`
	URL  string `json:"url"`
}

// DownloadGroup bundles the download links for one quality.
type DownloadGroup struct {
	Quality string         `json:"quality"`
	Links   []DownloadLink `json:"links"`
}

// Episode is a watchable record.
type Episode struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	// Slug is the canonical identity, pattern "/<animeSlug>/<number>".
	Slug string `json:"slug"`

	// Denormalized parent identity for independent rendering.
	AnimeTitle string `json:"anime_title,omitempty"`
	AnimeSlug  string `json:"anime_slug,omitempty"`
	AnimeImage string `json:"anime_image,omitempty"`
	Thumbnail  string `json:"thumbnail,omitempty"`

	Streaming []Mirror        `json:"streaming"`
	Downloads []DownloadGroup `json:"downloads"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NavLink points at an adjacent episode or the parent detail page.
type NavLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Navigation is the prev/next/all block of a watch page. Nil members mean
// "no such neighbor" (first/last episode, or parent not found).
type Navigation struct {
	Prev *NavLink `json:"prev"`
	Next *NavLink `json:"next"`
	All  *NavLink `json:"all"`
}

// WatchPage is everything a watch view needs in one document.
type WatchPage struct {
	Episode *Episode   `json:"episode"`
	Nav     Navigation `json:"nav"`
}
