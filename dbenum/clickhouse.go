package dbenum

import (
	"context"
	"io"

	chdriver "github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/everyday-items/iterio/enum"
	"github.com/everyday-items/iterio/infra/db/clickhouse"
)

func clickhouseRowsNext(rows chdriver.Rows) RowFunc {
	cols := rows.Columns()
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
	}
}

// EnumClickHouseRows runs query over client (the teacher's own
// infra/db/clickhouse connection wrapper) and pages the result set into
// Rows chunks, batchSize rows at a time.
func EnumClickHouseRows[A any](ctx context.Context, client *clickhouse.Client, batchSize int, query string, args ...any) enum.Onum[Rows, A] {
	return enum.Bracket[Rows, A, chdriver.Rows](
		func() (chdriver.Rows, error) { return client.Query(ctx, query, args...) },
		func(rows chdriver.Rows) error { return rows.Close() },
		func(rows chdriver.Rows) enum.Onum[Rows, A] {
			return enum.BuildOnum[Rows, A](PageRows(clickhouseRowsNext(rows), batchSize))
		},
	)
}
