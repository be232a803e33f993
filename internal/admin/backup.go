// Copyright (c) 2026 Maria. All rights reserved.

package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lelipitri23-dev/Maria/internal/platform/apperr"
	"github.com/lelipitri23-dev/Maria/internal/platform/database/schema"
	"github.com/lelipitri23-dev/Maria/internal/platform/dberr"
)

// backupCollections maps document keys to tables, in a fixed order so
// exports are diffable and imports satisfy foreign keys (accounts and
// anime before bookmarks).
var backupCollections = []struct {
	Key   string
	Table string
}{
	{"accounts", schema.UsersAccount.Table},
	{"anime", schema.CatalogAnime.Table},
	{"episodes", schema.CatalogEpisode.Table},
	{"bookmarks", schema.UsersBookmark.Table},
	{"reports", schema.SystemReport.Table},
}

// BackupStore streams full-database exports and performs destructive
// imports. Rows travel as row_to_json documents keyed by column name, so
// an export re-imports byte-exactly via jsonb_populate_recordset without
// per-table scan code.
type BackupStore struct {
	db *pgxpool.Pool
}

func NewBackupStore(db *pgxpool.Pool) *BackupStore {
	return &BackupStore{db: db}
}

/*
ExportTo streams every collection as one JSON document.

Rows come off forward-only cursors and go straight to the writer; memory
use is bounded by the largest single row. Once bytes are flushed the HTTP
status is fixed, so a mid-stream failure truncates the document and is
returned for logging only.
*/
func (store *BackupStore) ExportTo(context context.Context, writer io.Writer) error {
	if _, err := io.WriteString(writer, "{"); err != nil {
		return err
	}

	for i, collection := range backupCollections {
		if i > 0 {
			if _, err := io.WriteString(writer, ","); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(writer, "%q:[", collection.Key); err != nil {
			return err
		}
		if err := store.streamTable(context, writer, collection.Table); err != nil {
			return err
		}
		if _, err := io.WriteString(writer, "]"); err != nil {
			return err
		}
	}

	_, err := io.WriteString(writer, "}\n")
	return err
}

func (store *BackupStore) streamTable(context context.Context, writer io.Writer, table string) error {
	query := fmt.Sprintf(`SELECT row_to_json(t) FROM %s t ORDER BY t.id`, table)

	rows, err := store.db.Query(context, query)
	if err != nil {
		return dberr.Wrap(err, "export_backup")
	}
	defer rows.Close()

	first := true
	for rows.Next() {
		var document []byte
		if err := rows.Scan(&document); err != nil {
			return dberr.Wrap(err, "export_backup")
		}
		if !first {
			if _, err := io.WriteString(writer, ","); err != nil {
				return err
			}
		}
		first = false
		if _, err := writer.Write(document); err != nil {
			return err
		}
	}
	return dberr.Wrap(rows.Err(), "export_backup")
}

/*
Import replaces the entire database content with the given document.

The whole replacement runs in one transaction: either every collection is
swapped or nothing changes. Unknown document keys are rejected before any
row is touched.
*/
func (store *BackupStore) Import(context context.Context, document map[string]json.RawMessage) error {
	for key := range document {
		if !knownCollection(key) {
			return apperr.ValidationError(fmt.Sprintf("Unknown collection %q in backup document", key))
		}
	}

	transaction, err := store.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "import_backup")
	}
	defer transaction.Rollback(context)

	for _, collection := range backupCollections {
		if err := importCollection(context, transaction, collection.Table, document[collection.Key]); err != nil {
			return err
		}
	}

	return dberr.Wrap(transaction.Commit(context), "import_backup")
}

func importCollection(context context.Context, transaction pgx.Tx, table string, payload json.RawMessage) error {
	if _, err := transaction.Exec(context, fmt.Sprintf(`TRUNCATE %s CASCADE`, table)); err != nil {
		return dberr.Wrap(err, "import_backup")
	}
	if len(payload) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s SELECT * FROM jsonb_populate_recordset(NULL::%s, $1::jsonb)`,
		table, table)
	if _, err := transaction.Exec(context, query, []byte(payload)); err != nil {
		return dberr.Wrap(err, "import_backup")
	}
	return nil
}

func knownCollection(key string) bool {
	for _, collection := range backupCollections {
		if collection.Key == key {
			return true
		}
	}
	return false
}
