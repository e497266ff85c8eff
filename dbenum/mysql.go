package dbenum

import (
	"context"
	"database/sql"
	"io"

	"github.com/everyday-items/iterio/enum"
	"github.com/everyday-items/iterio/infra/db/mysql"
)

// DefaultBatchSize is a rows-per-chunk value callers can pass as
// batchSize to EnumMySQLRows and its siblings. The enumerators do not
// fall back to it themselves: PageRows treats a non-positive size as 1.
const DefaultBatchSize = 500

func sqlRowsNext(rows *sql.Rows) (RowFunc, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	return func() (Row, error) {
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			row[c] = vals[i]
		}
		return row, nil
	}, nil
}

// EnumMySQLRows runs query over db (the teacher's own infra/db/mysql
// connection wrapper, embedding *sql.DB) and pages the result set into
// Rows chunks, batchSize rows at a time, via enum.Bracket around the
// *sql.Rows cursor — acquire opens it, release closes it, and a
// failure opening the cursor itself is reported as an EnumOFail
// without ever touching PageRows.
func EnumMySQLRows[A any](ctx context.Context, db *mysql.DB, batchSize int, query string, args ...any) enum.Onum[Rows, A] {
	return enum.Bracket[Rows, A, *sql.Rows](
		func() (*sql.Rows, error) { return db.QueryContext(ctx, query, args...) },
		func(rows *sql.Rows) error { return rows.Close() },
		func(rows *sql.Rows) enum.Onum[Rows, A] {
			next, err := sqlRowsNext(rows)
			if err != nil {
				return failOnum[Rows, A](err)
			}
			return enum.BuildOnum[Rows, A](PageRows(next, batchSize))
		},
	)
}
