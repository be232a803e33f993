// Copyright (c) 2026 Maria. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, cache lifetimes, and cross-cutting
keys that are shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Sessions & Cache: Cookie names, Redis key prefixes, and TTLs.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "maria-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	// Streamed endpoints (sitemaps, backup export) stay inside this window on
	// realistic catalogue sizes; raising it is the knob if they ever do not.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// RemoteUploadTimeout is the extended deadline for the admin remote-upload
	// endpoint, which proxies a slow third-party video host API.
	RemoteUploadTimeout = 120 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication & Sessions

const (
	// AuthIssuer is the standard 'iss' claim in API access tokens.
	AuthIssuer = "maria.app"

	// SessionCookieName is the browser cookie carrying the server-side session ID.
	SessionCookieName = "maria_session"

	// SessionTTL is the server-side session lifetime.
	SessionTTL = 14 * 24 * time.Hour

	// APITokenTTL is the lifetime of JWT access tokens issued to the mobile client.
	APITokenTTL = 24 * time.Hour
)

// # Cache Lifetimes

const (
	// TaxonomyCacheTTL bounds the staleness window of the distinct-value cache.
	// A taxonomy value introduced by an admin write is invisible to slug
	// resolution until the entry expires and is repopulated.
	TaxonomyCacheTTL = 1 * time.Hour
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderReferer       = "Referer"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession  = "auth:session:"
	RedisPrefixTaxonomy = "taxonomy:distinct:"
)

// # URL Prefixes

const (
	// BrowsePrefix is prepended to stored relative episode URLs to form
	// browsable watch-page paths ("/demo-anime/1" -> "/anime/demo-anime/1").
	BrowsePrefix = "/anime"

	// UploadWebPath is the public URL prefix for locally stored images.
	UploadWebPath = "/images"
)
