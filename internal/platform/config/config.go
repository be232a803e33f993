// Copyright (c) 2026 Maria. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, storage) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/lelipitri23-dev/Maria/pkg/query"
)

// # Configuration Schema

// Config holds all runtime configuration for the Maria API server.
type Config struct {

	// Site identity
	SiteName string `env:"SITE_NAME" envDefault:"Maria"`
	SiteURL  string `env:"SITE_URL"  envDefault:"http://localhost:8080"`

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL). The process refuses to start without it.
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache & Session Store (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// SessionSecret signs API access tokens and must be long-lived and private.
	SessionSecret string `env:"SESSION_SECRET,required"`

	// Bootstrap operator credentials for the admin back office.
	AdminUsername string `env:"ADMIN_USERNAME,required"`
	AdminPassword string `env:"ADMIN_PASSWORD,required"`

	// Third-party video host (remote mirror ingestion). Optional: the
	// remote-upload endpoint returns an upstream error when the key is unset.
	DoodAPIKey string `env:"DOOD_API_KEY"`
	DoodAPIURL string `env:"DOOD_API_URL" envDefault:"https://doodapi.co"`

	// Object Storage (Cloudflare R2 / S3-compatible). When unset, uploaded
	// images fall back to the local disk path below.
	S3Bucket       string `env:"R2_BUCKET_NAME"`
	S3Region       string `env:"R2_REGION"   envDefault:"auto"`
	S3Endpoint     string `env:"R2_ENDPOINT"`
	S3AccessKey    string `env:"R2_ACCESS_KEY_ID"`
	S3SecretKey    string `env:"R2_SECRET_ACCESS_KEY"`
	S3PublicDomain string `env:"R2_PUBLIC_DOMAIN"`

	// Local image upload directory, served under /images.
	UploadDiskPath string `env:"UPLOAD_DISK_PATH" envDefault:"./public/images"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// AllowedOrigins returns the set of origins trusted for cross-origin requests:
// the site's own URL plus any comma-separated EXTRA_ORIGINS entries.
func (c *Config) AllowedOrigins() []string {
	origins := []string{strings.TrimRight(c.SiteURL, "/")}
	for _, extra := range query.StringSlice(c.ExtraOrigins) {
		origins = append(origins, strings.TrimRight(extra, "/"))
	}
	return origins
}

// HasObjectStorage reports whether R2 object storage is fully configured.
func (c *Config) HasObjectStorage() bool {
	return c.S3Bucket != "" && c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
