// Copyright (c) 2026 Maria. All rights reserved.

package bookmark

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/lelipitri23-dev/Maria/internal/core/anime"
	"github.com/lelipitri23-dev/Maria/internal/platform/database/schema"
	"github.com/lelipitri23-dev/Maria/internal/platform/dberr"
	"github.com/lelipitri23-dev/Maria/pkg/uuidv7"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Add(context context.Context, userID, animeID string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (%s, %s) DO NOTHING`,
		schema.UsersBookmark.Table,
		schema.UsersBookmark.ID, schema.UsersBookmark.UserID,
		schema.UsersBookmark.AnimeID, schema.UsersBookmark.CreatedAt,
		schema.UsersBookmark.UserID, schema.UsersBookmark.AnimeID,
	)

	_, err := repository.db.Exec(context, query, uuidv7.New(), userID, animeID)
	return dberr.Wrap(err, "add_bookmark")
}

func (repository *PostgresRepository) Remove(context context.Context, userID, animeID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.UsersBookmark.Table, schema.UsersBookmark.UserID, schema.UsersBookmark.AnimeID)

	_, err := repository.db.Exec(context, query, userID, animeID)
	return dberr.Wrap(err, "remove_bookmark")
}

func (repository *PostgresRepository) RemoveAll(context context.Context, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.UsersBookmark.Table, schema.UsersBookmark.UserID)

	_, err := repository.db.Exec(context, query, userID)
	return dberr.Wrap(err, "remove_all_bookmarks")
}

func (repository *PostgresRepository) Exists(context context.Context, userID, animeID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.UsersBookmark.Table, schema.UsersBookmark.UserID, schema.UsersBookmark.AnimeID)

	var exists bool
	if err := repository.db.QueryRow(context, query, userID, animeID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check_bookmark")
	}
	return exists, nil
}

// ListAnime joins onto the catalogue and returns summaries only; the heavy
// JSONB columns stay out of the listing.
func (repository *PostgresRepository) ListAnime(context context.Context, userID string, limit, offset int) ([]*anime.Anime, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.UsersBookmark.Table, schema.UsersBookmark.UserID)

	pageQuery := fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s, a.%s, a.%s, a.%s, a.%s
		FROM %s b
		JOIN %s a ON a.%s = b.%s
		WHERE b.%s = $1
		ORDER BY b.%s DESC
		LIMIT %d OFFSET %d`,
		schema.CatalogAnime.ID, schema.CatalogAnime.Title, schema.CatalogAnime.AltTitle,
		schema.CatalogAnime.Slug, schema.CatalogAnime.Image, schema.CatalogAnime.Genres,
		schema.CatalogAnime.ViewCount,
		schema.UsersBookmark.Table, schema.CatalogAnime.Table,
		schema.CatalogAnime.ID, schema.UsersBookmark.AnimeID,
		schema.UsersBookmark.UserID, schema.UsersBookmark.CreatedAt,
		limit, offset,
	)

	var entries []*anime.Anime
	var total int

	group, groupCtx := errgroup.WithContext(context)

	group.Go(func() error {
		return repository.db.QueryRow(groupCtx, countQuery, userID).Scan(&total)
	})

	group.Go(func() error {
		rows, err := repository.db.Query(groupCtx, pageQuery, userID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			entry := &anime.Anime{}
			err := rows.Scan(
				&entry.ID, &entry.Title, &entry.AltTitle, &entry.Slug,
				&entry.Image, &entry.Genres, &entry.ViewCount,
			)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return rows.Err()
	})

	if err := group.Wait(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_bookmarked_anime")
	}

	if entries == nil {
		entries = make([]*anime.Anime, 0)
	}
	return entries, total, nil
}
