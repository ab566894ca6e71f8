// Package sqlsource reads worksheet records from SQL queries.
package sqlsource

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Querier is satisfied by *sqlx.DB, *sqlx.Tx and *sqlx.Conn.
type Querier = sqlx.QueryerContext

// ScanFunc reads the current row into a record.
type ScanFunc[T any] func(rows *sqlx.Rows) (T, error)

// Collect runs query and scans every row with scan. The rows are always
// closed.
func Collect[T any](ctx context.Context, q Querier, scan ScanFunc[T], query string, args ...interface{}) ([]T, error) {
	rows, err := q.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(out)+1, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// CollectQuery validates query and runs it through Collect.
func CollectQuery[T any](ctx context.Context, q Querier, scan ScanFunc[T], query *Query) ([]T, error) {
	text, args, err := query.BuildSafe()
	if err != nil {
		return nil, err
	}
	return Collect(ctx, q, scan, text, args...)
}

// CollectStructs validates query and scans every row into T, which is a
// struct, a pointer to one, or a scalar for single-column results. Columns
// map onto fields by their db tag, else the lower-cased field name. A result
// column with no field is an error unless q is an Unsafe sqlx handle.
func CollectStructs[T any](ctx context.Context, q Querier, query *Query) ([]T, error) {
	text, args, err := query.BuildSafe()
	if err != nil {
		return nil, err
	}
	var out []T
	if err := sqlx.SelectContext(ctx, q, &out, text, args...); err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	return out, nil
}
