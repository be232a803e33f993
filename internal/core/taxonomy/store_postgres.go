// Copyright (c) 2026 Maria. All rights reserved.

package taxonomy

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lelipitri23-dev/Maria/internal/platform/database/schema"
	"github.com/lelipitri23-dev/Maria/internal/platform/dberr"
)

// PostgresRepository reads distinct attribute values from the catalogue table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// DistinctValues returns every distinct non-empty value of the field.
//
// Genres live in a text[] column and are unnested; the other fields are keys
// of the info JSONB sub-record. Result order is whatever the store returns.
func (repository *PostgresRepository) DistinctValues(context context.Context, field Field) ([]string, error) {
	var query string

	switch field {
	case FieldGenres:
		// Empty array elements are excluded, mirroring the info-field branch.
		query = fmt.Sprintf(`SELECT DISTINCT v FROM %s, unnest(%s) AS v WHERE v <> ''`,
			schema.CatalogAnime.Table, schema.CatalogAnime.Genres)
	case FieldStatus, FieldType, FieldStudio, FieldReleased:
		query = fmt.Sprintf(`SELECT DISTINCT %s ->> '%s' AS v FROM %s WHERE COALESCE(%s ->> '%s', '') <> ''`,
			schema.CatalogAnime.Info, field, schema.CatalogAnime.Table,
			schema.CatalogAnime.Info, field)
	default:
		return nil, fmt.Errorf("taxonomy: unknown field %q", field)
	}

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "distinct_"+string(field))
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, dberr.Wrap(err, "scan_distinct_"+string(field))
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_distinct_"+string(field))
	}

	return values, nil
}
