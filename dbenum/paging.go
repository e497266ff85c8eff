package dbenum

import (
	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/enum"
	"github.com/everyday-items/iterio/iter"
)

// RowFunc pulls one decoded row from a cursor-like source, returning
// io.EOF once the cursor is exhausted — the same "quiet termination"
// contract ioenum.EnumReader uses for an io.Reader.
type RowFunc func() (Row, error)

// PageRows adapts a one-row-at-a-time RowFunc into the SourceFunc
// enum.BuildOnum expects, batching up to batchSize rows into a single
// Rows chunk per pull. A row-read error that arrives after some rows
// were already collected is stashed and delivered on the following
// pull, so a partial batch is never silently dropped.
func PageRows(next RowFunc, batchSize int) enum.SourceFunc[Rows] {
	if batchSize <= 0 {
		batchSize = 1
	}
	var pending error
	return func() (Rows, bool, error) {
		if pending != nil {
			err := pending
			pending = nil
			return nil, false, err
		}
		batch := make(Rows, 0, batchSize)
		for len(batch) < batchSize {
			row, err := next()
			if err != nil {
				if len(batch) == 0 {
					return nil, false, err
				}
				pending = err
				return batch, false, nil
			}
			batch = append(batch, row)
		}
		return batch, false, nil
	}
}

// failOnum builds an Onum that immediately reports err as an
// EnumOFail, for the case where a cursor can't even be prepared (e.g.
// a query fails before its first row is fetched).
func failOnum[T chunk.Data[T], A any](err error) enum.Onum[T, A] {
	return func(it iter.Iter[T, A]) iter.Iter[T, A] {
		return iter.WrapEnumOFail(err, it)
	}
}
