// Copyright (c) 2026 Maria. All rights reserved.

package report

import (
	"context"
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

func reportColumns() string {
	return strings.Join(schema.SystemReport.Columns(), ", ")
}

func scanReport(row pgx.Row) (*Report, error) {
	record := &Report{}
	err := row.Scan(
		&record.ID, &record.PageURL, &record.Message, &record.Reporter,
		&record.Status, &record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (repository *PostgresRepository) Create(context context.Context, record *Report) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, now())`,
		schema.SystemReport.Table, reportColumns())

	_, err := repository.db.Exec(context, query,
		record.ID, record.PageURL, record.Message, record.Reporter, record.Status,
	)
	return dberr.Wrap(err, "create_report")
}

func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Report, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.SystemReport.Table)
	pageQuery := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s DESC LIMIT %d OFFSET %d`,
		reportColumns(), schema.SystemReport.Table, schema.SystemReport.ID, limit, offset)

	var records []*Report
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
			record, err := scanReport(rows)
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return rows.Err()
	})

	if err := group.Wait(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_reports")
	}

	if records == nil {
		records = make([]*Report, 0)
	}
	return records, total, nil
}

func (repository *PostgresRepository) UpdateStatus(context context.Context, id, status string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.SystemReport.Table, schema.SystemReport.Status, schema.SystemReport.ID)

	tag, err := repository.db.Exec(context, query, id, status)
	if err != nil {
		return dberr.Wrap(err, "update_report_status")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.SystemReport.Table, schema.SystemReport.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_report")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Count(context context.Context) (int, error) {
	var total int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.SystemReport.Table)
	if err := repository.db.QueryRow(context, query).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_reports")
	}
	return total, nil
}
