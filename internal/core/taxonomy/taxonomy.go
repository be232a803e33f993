// Copyright (c) 2026 Maria. All rights reserved.

/*
Package taxonomy implements faceted browsing over the catalogue's free-text
attributes (genre, status, type, studio, release string).

The catalogue stores these attributes without enum validation, so the set of
browsable values is whatever exists in the data. This package maintains a
distinct-value cache per field and resolves URL slugs back to the original
stored values, which the listing pipeline then filters on.

Staleness model: entries carry a fixed TTL and are populated lazily on first
miss. Catalogue writes do not invalidate them, so a newly introduced value is
invisible to slug resolution until the entry expires. Concurrent misses may
each repopulate independently; the underlying query is read-only and
idempotent, so the worst case is redundant work.
*/
package taxonomy

import "context"

// Field names the catalogue attributes available for faceted browsing.
type Field string

const (
	FieldGenres   Field = "genres"
	FieldStatus   Field = "status"
	FieldType     Field = "type"
	FieldStudio   Field = "studio"
	FieldReleased Field = "released"
)

// Fields lists every browsable field, in sitemap order.
var Fields = []Field{FieldGenres, FieldStatus, FieldType, FieldStudio, FieldReleased}

// Repository is the source of truth for distinct attribute values.
type Repository interface {

	/*
		DistinctValues returns every distinct non-empty value of the field.

		Parameters:
		  - context: context.Context
		  - field: Field

		Returns:
		  - []string: Distinct values in store order (no defined ordering)
		  - error: Database retrieval failures
	*/
	DistinctValues(context context.Context, field Field) ([]string, error)
}
