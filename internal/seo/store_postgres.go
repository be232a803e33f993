// Copyright (c) 2026 Maria. All rights reserved.

package seo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lelipitri23-dev/Maria/internal/platform/database/schema"
	"github.com/lelipitri23-dev/Maria/internal/platform/dberr"
)

// PostgresRepository streams slug/lastmod pairs straight off pgx row
// cursors, so a full-table sitemap never materializes in memory.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ForEachAnime(context context.Context, visit func(slug string, updatedAt time.Time) error) error {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s ORDER BY %s`,
		schema.CatalogAnime.Slug, schema.CatalogAnime.UpdatedAt,
		schema.CatalogAnime.Table, schema.CatalogAnime.ID)
	return repository.forEach(context, query, "stream_anime_sitemap", visit)
}

func (repository *PostgresRepository) ForEachEpisode(context context.Context, visit func(slug string, updatedAt time.Time) error) error {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s ORDER BY %s`,
		schema.CatalogEpisode.Slug, schema.CatalogEpisode.UpdatedAt,
		schema.CatalogEpisode.Table, schema.CatalogEpisode.ID)
	return repository.forEach(context, query, "stream_episode_sitemap", visit)
}

func (repository *PostgresRepository) forEach(context context.Context, query, action string, visit func(slug string, updatedAt time.Time) error) error {
	rows, err := repository.db.Query(context, query)
	if err != nil {
		return dberr.Wrap(err, action)
	}
	defer rows.Close()

	for rows.Next() {
		var slug string
		var updatedAt time.Time
		if err := rows.Scan(&slug, &updatedAt); err != nil {
			return dberr.Wrap(err, action)
		}
		if err := visit(slug, updatedAt); err != nil {
			return err
		}
	}
	return dberr.Wrap(rows.Err(), action)
}
