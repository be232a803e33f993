// Copyright (c) 2026 Maria. All rights reserved.

package episode

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/lelipitri23-dev/Maria/internal/platform/database/schema"
	"github.com/lelipitri23-dev/Maria/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func episodeColumns() string {
	return strings.Join(schema.CatalogEpisode.Columns(), ", ")
}

func scanEpisode(row pgx.Row) (*Episode, error) {
	record := &Episode{}
	var streamingRaw, downloadsRaw []byte

	err := row.Scan(
		&record.ID, &record.Title, &record.Slug, &record.AnimeTitle,
		&record.AnimeSlug, &record.AnimeImage, &record.Thumbnail,
		&streamingRaw, &downloadsRaw, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(streamingRaw, &record.Streaming); err != nil {
		return nil, fmt.Errorf("episode: corrupt streaming list: %w", err)
	}
	if err := json.Unmarshal(downloadsRaw, &record.Downloads); err != nil {
		return nil, fmt.Errorf("episode: corrupt download list: %w", err)
	}
	return record, nil
}

// List runs the count and the page fetch concurrently, newest first.
func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Episode, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.CatalogEpisode.Table)
	pageQuery := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s DESC LIMIT %d OFFSET %d`,
		episodeColumns(), schema.CatalogEpisode.Table, schema.CatalogEpisode.ID, limit, offset)

	var records []*Episode
	var total int

	group, groupCtx := errgroup.WithContext(context)

	group.Go(func() error {
		return repository.db.QueryRow(groupCtx, countQuery).Scan(&total)
	})

	group.Go(func() error {
		rows, err := repository.db.Query(groupCtx, pageQuery)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			record, err := scanEpisode(rows)
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return rows.Err()
	})

	if err := group.Wait(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_episodes")
	}

	if records == nil {
		records = make([]*Episode, 0)
	}
	return records, total, nil
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Episode, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE lower(%s) = lower($1)`,
		episodeColumns(), schema.CatalogEpisode.Table, schema.CatalogEpisode.Slug)

	record, err := scanEpisode(repository.db.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "find_episode_by_slug")
	}
	return record, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Episode, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		episodeColumns(), schema.CatalogEpisode.Table, schema.CatalogEpisode.ID)

	record, err := scanEpisode(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_episode_by_id")
	}
	return record, nil
}

func (repository *PostgresRepository) Create(context context.Context, record *Episode) error {
	streamingRaw, downloadsRaw, err := marshalLinkLists(record)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())`,
		schema.CatalogEpisode.Table, episodeColumns())

	_, err = repository.db.Exec(context, query,
		record.ID, record.Title, record.Slug, record.AnimeTitle,
		record.AnimeSlug, record.AnimeImage, record.Thumbnail,
		streamingRaw, downloadsRaw,
	)
	return dberr.Wrap(err, "create_episode")
}

func (repository *PostgresRepository) Update(context context.Context, record *Episode) error {
	streamingRaw, downloadsRaw, err := marshalLinkLists(record)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = now()
		WHERE %s = $1`,
		schema.CatalogEpisode.Table,
		schema.CatalogEpisode.Title, schema.CatalogEpisode.Thumbnail,
		schema.CatalogEpisode.Streaming, schema.CatalogEpisode.Downloads,
		schema.CatalogEpisode.UpdatedAt, schema.CatalogEpisode.ID,
	)

	tag, err := repository.db.Exec(context, query,
		record.ID, record.Title, record.Thumbnail, streamingRaw, downloadsRaw,
	)
	if err != nil {
		return dberr.Wrap(err, "update_episode")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CatalogEpisode.Table, schema.CatalogEpisode.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_episode")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// ClearMirrors rebuilds the JSONB link lists without the named mirrors and
// qualities. Only rows that actually carry one of them are touched, so the
// affected-row count reports real modifications.
func (repository *PostgresRepository) ClearMirrors(context context.Context, names, qualities []string) (int64, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = COALESCE((
				SELECT jsonb_agg(m) FROM jsonb_array_elements(%s) m
				WHERE NOT (m ->> 'name' = ANY($1))
			), '[]'::jsonb),
			%s = COALESCE((
				SELECT jsonb_agg(g) FROM jsonb_array_elements(%s) g
				WHERE NOT (g ->> 'quality' = ANY($2))
			), '[]'::jsonb),
			%s = now()
		WHERE EXISTS (
				SELECT 1 FROM jsonb_array_elements(%s) m WHERE m ->> 'name' = ANY($1)
			)
			OR EXISTS (
				SELECT 1 FROM jsonb_array_elements(%s) g WHERE g ->> 'quality' = ANY($2)
			)`,
		schema.CatalogEpisode.Table,
		schema.CatalogEpisode.Streaming, schema.CatalogEpisode.Streaming,
		schema.CatalogEpisode.Downloads, schema.CatalogEpisode.Downloads,
		schema.CatalogEpisode.UpdatedAt,
		schema.CatalogEpisode.Streaming, schema.CatalogEpisode.Downloads,
	)

	tag, err := repository.db.Exec(context, query, names, qualities)
	if err != nil {
		return 0, dberr.Wrap(err, "clear_mirrors")
	}
	return tag.RowsAffected(), nil
}

func (repository *PostgresRepository) Count(context context.Context) (int, error) {
	var total int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.CatalogEpisode.Table)
	if err := repository.db.QueryRow(context, query).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_episodes")
	}
	return total, nil
}

func marshalLinkLists(record *Episode) (streaming, downloads []byte, err error) {
	if record.Streaming == nil {
		record.Streaming = make([]Mirror, 0)
	}
	if streaming, err = json.Marshal(record.Streaming); err != nil {
		return nil, nil, fmt.Errorf("episode: marshal streaming: %w", err)
	}
	if record.Downloads == nil {
		record.Downloads = make([]DownloadGroup, 0)
	}
	if downloads, err = json.Marshal(record.Downloads); err != nil {
		return nil, nil, fmt.Errorf("episode: marshal downloads: %w", err)
	}
	return streaming, downloads, nil
}
