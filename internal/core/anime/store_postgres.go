// Copyright (c) 2026 Maria. All rights reserved.

package anime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/lelipitri23-dev/Maria/internal/platform/constants"
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

// animeColumns is the canonical select list, matching scanAnime.
func animeColumns() string {
	return strings.Join(schema.CatalogAnime.Columns(), ", ")
}

// scanAnime hydrates one row produced by animeColumns.
func scanAnime(row pgx.Row) (*Anime, error) {
	entry := &Anime{}
	var titleLower string
	var infoRaw, episodesRaw, charactersRaw []byte

	err := row.Scan(
		&entry.ID, &entry.Title, &titleLower, &entry.AltTitle, &entry.Slug,
		&entry.Synopsis, &entry.Image, &entry.Genres, &infoRaw, &episodesRaw,
		&charactersRaw, &entry.ViewCount, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(infoRaw, &entry.Info); err != nil {
		return nil, fmt.Errorf("anime: corrupt info record: %w", err)
	}
	if err := json.Unmarshal(episodesRaw, &entry.Episodes); err != nil {
		return nil, fmt.Errorf("anime: corrupt episode list: %w", err)
	}
	if err := json.Unmarshal(charactersRaw, &entry.Characters); err != nil {
		return nil, fmt.Errorf("anime: corrupt character list: %w", err)
	}

	return entry, nil
}

// buildWhere constructs the dynamic WHERE clause for a filter.
//
// Taxonomy values arrive already resolved to stored originals, so matching
// is a normalized lower() comparison rather than a regex scan.
func buildWhere(filter Filter) (string, []any) {
	var conditions []string
	var args []any
	argID := 1

	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf("%s LIKE '%%' || lower($%d) || '%%'",
			schema.CatalogAnime.TitleLower, argID))
		args = append(args, filter.Query)
		argID++
	}
	if filter.Genre != "" {
		conditions = append(conditions, fmt.Sprintf("%s @> ARRAY[$%d]::text[]",
			schema.CatalogAnime.Genres, argID))
		args = append(args, filter.Genre)
		argID++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("lower(%s ->> 'status') = lower($%d)",
			schema.CatalogAnime.Info, argID))
		args = append(args, filter.Status)
		argID++
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("lower(%s ->> 'type') = lower($%d)",
			schema.CatalogAnime.Info, argID))
		args = append(args, filter.Type)
		argID++
	}
	if filter.Studio != "" {
		conditions = append(conditions, fmt.Sprintf("lower(%s ->> 'studio') = lower($%d)",
			schema.CatalogAnime.Info, argID))
		args = append(args, filter.Studio)
		argID++
	}
	if filter.ReleasedYear != "" {
		conditions = append(conditions, fmt.Sprintf("lower(%s ->> 'released') LIKE '%%' || lower($%d) || '%%'",
			schema.CatalogAnime.Info, argID))
		args = append(args, filter.ReleasedYear)
		argID++
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// orderClause maps the sort selector to SQL. IDs are time-ordered UUIDs, so
// ordering by id follows insertion order.
func orderClause(order Order) string {
	switch order {
	case OrderOldest:
		return fmt.Sprintf(" ORDER BY %s ASC", schema.CatalogAnime.ID)
	case OrderPopular:
		return fmt.Sprintf(" ORDER BY %s DESC, %s DESC", schema.CatalogAnime.ViewCount, schema.CatalogAnime.ID)
	default:
		return fmt.Sprintf(" ORDER BY %s DESC", schema.CatalogAnime.ID)
	}
}

// List runs the count and the page fetch concurrently. No transaction spans
// the two, so the count and the page may disagree under concurrent writes.
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Anime, int, error) {
	whereClause, args := buildWhere(filter)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, schema.CatalogAnime.Table, whereClause)
	pageQuery := fmt.Sprintf(`SELECT %s FROM %s%s%s LIMIT %d OFFSET %d`,
		animeColumns(), schema.CatalogAnime.Table, whereClause, orderClause(filter.Order), limit, offset)

	var entries []*Anime
	var total int

	group, groupCtx := errgroup.WithContext(context)

	group.Go(func() error {
		return repository.db.QueryRow(groupCtx, countQuery, args...).Scan(&total)
	})

	group.Go(func() error {
		rows, err := repository.db.Query(groupCtx, pageQuery, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			entry, err := scanAnime(rows)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return rows.Err()
	})

	if err := group.Wait(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_anime")
	}

	if entries == nil {
		entries = make([]*Anime, 0)
	}
	return entries, total, nil
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Anime, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE lower(%s) = lower($1)`,
		animeColumns(), schema.CatalogAnime.Table, schema.CatalogAnime.Slug)

	entry, err := scanAnime(repository.db.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "find_anime_by_slug")
	}
	return entry, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Anime, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		animeColumns(), schema.CatalogAnime.Table, schema.CatalogAnime.ID)

	entry, err := scanAnime(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_anime_by_id")
	}
	return entry, nil
}

// FindByEpisodeURL locates the parent of a watch page through JSONB
// containment on the embedded episode list (backed by a GIN index).
func (repository *PostgresRepository) FindByEpisodeURL(context context.Context, episodeURL string) (*Anime, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s @> jsonb_build_array(jsonb_build_object('url', $1::text)) LIMIT 1`,
		animeColumns(), schema.CatalogAnime.Table, schema.CatalogAnime.EpisodeList)

	entry, err := scanAnime(repository.db.QueryRow(context, query, episodeURL))
	if err != nil {
		return nil, dberr.Wrap(err, "find_anime_by_episode_url")
	}
	return entry, nil
}

func (repository *PostgresRepository) Random(context context.Context) (*Anime, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY random() LIMIT 1`,
		animeColumns(), schema.CatalogAnime.Table)

	entry, err := scanAnime(repository.db.QueryRow(context, query))
	if err != nil {
		return nil, dberr.Wrap(err, "random_anime")
	}
	return entry, nil
}

func (repository *PostgresRepository) Create(context context.Context, entry *Anime) error {
	infoRaw, episodesRaw, charactersRaw, err := marshalSubRecords(entry)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, lower($2), $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())`,
		schema.CatalogAnime.Table, animeColumns())

	_, err = repository.db.Exec(context, query,
		entry.ID, entry.Title, entry.AltTitle, entry.Slug, entry.Synopsis,
		entry.Image, entry.Genres, infoRaw, episodesRaw, charactersRaw,
		entry.ViewCount,
	)
	return dberr.Wrap(err, "create_anime")
}

func (repository *PostgresRepository) Update(context context.Context, entry *Anime) error {
	infoRaw, episodesRaw, charactersRaw, err := marshalSubRecords(entry)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = lower($2), %s = $3, %s = $4, %s = $5,
			%s = $6, %s = $7, %s = $8, %s = $9, %s = now()
		WHERE %s = $1`,
		schema.CatalogAnime.Table,
		schema.CatalogAnime.Title, schema.CatalogAnime.TitleLower,
		schema.CatalogAnime.AltTitle, schema.CatalogAnime.Synopsis,
		schema.CatalogAnime.Image, schema.CatalogAnime.Genres,
		schema.CatalogAnime.Info, schema.CatalogAnime.EpisodeList,
		schema.CatalogAnime.Characters, schema.CatalogAnime.UpdatedAt,
		schema.CatalogAnime.ID,
	)

	tag, err := repository.db.Exec(context, query,
		entry.ID, entry.Title, entry.AltTitle, entry.Synopsis, entry.Image,
		entry.Genres, infoRaw, episodesRaw, charactersRaw,
	)
	if err != nil {
		return dberr.Wrap(err, "update_anime")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// Delete removes the entry with cascade: its episodes, and reports filed
// against those episodes' watch pages, all in one transaction.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_delete_anime")
	}
	defer tx.Rollback(context)

	var slug string
	slugQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.CatalogAnime.Slug, schema.CatalogAnime.Table, schema.CatalogAnime.ID)
	if err := tx.QueryRow(context, slugQuery, id).Scan(&slug); err != nil {
		return dberr.Wrap(err, "find_anime_for_delete")
	}

	// Reports reference watch pages by the stored episode slug or its
	// browsable form.
	reportQuery := fmt.Sprintf(`
		DELETE FROM %s r USING %s e
		WHERE e.%s = $1 AND r.%s IN (e.%s, '%s' || e.%s)`,
		schema.SystemReport.Table, schema.CatalogEpisode.Table,
		schema.CatalogEpisode.AnimeSlug, schema.SystemReport.PageURL,
		schema.CatalogEpisode.Slug, constants.BrowsePrefix, schema.CatalogEpisode.Slug,
	)
	if _, err := tx.Exec(context, reportQuery, slug); err != nil {
		return dberr.Wrap(err, "delete_anime_reports")
	}

	episodeQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CatalogEpisode.Table, schema.CatalogEpisode.AnimeSlug)
	if _, err := tx.Exec(context, episodeQuery, slug); err != nil {
		return dberr.Wrap(err, "delete_anime_episodes")
	}

	animeQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.CatalogAnime.Table, schema.CatalogAnime.ID)
	if _, err := tx.Exec(context, animeQuery, id); err != nil {
		return dberr.Wrap(err, "delete_anime")
	}

	return dberr.Wrap(tx.Commit(context), "commit_delete_anime")
}

// IncrementViewCount relies on the database's per-row atomicity; no
// read-modify-write cycle.
func (repository *PostgresRepository) IncrementViewCount(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1`,
		schema.CatalogAnime.Table, schema.CatalogAnime.ViewCount,
		schema.CatalogAnime.ViewCount, schema.CatalogAnime.ID)

	_, err := repository.db.Exec(context, query, id)
	return dberr.Wrap(err, "increment_view_count")
}

func (repository *PostgresRepository) Count(context context.Context) (int, error) {
	var total int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.CatalogAnime.Table)
	if err := repository.db.QueryRow(context, query).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_anime")
	}
	return total, nil
}

func marshalSubRecords(entry *Anime) (info, episodes, characters []byte, err error) {
	if info, err = json.Marshal(entry.Info); err != nil {
		return nil, nil, nil, fmt.Errorf("anime: marshal info: %w", err)
	}
	if entry.Episodes == nil {
		entry.Episodes = make([]EpisodeRef, 0)
	}
	if episodes, err = json.Marshal(entry.Episodes); err != nil {
		return nil, nil, nil, fmt.Errorf("anime: marshal episodes: %w", err)
	}
	if entry.Characters == nil {
		entry.Characters = make([]Character, 0)
	}
	if characters, err = json.Marshal(entry.Characters); err != nil {
		return nil, nil, nil, fmt.Errorf("anime: marshal characters: %w", err)
	}
	return info, episodes, characters, nil
}
