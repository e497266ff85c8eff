package parse

import (
	"golang.org/x/sync/errgroup"

	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/ierrors"
	"github.com/everyday-items/iterio/iter"
)

// MultiParse runs a and b in lock-step on every arriving chunk,
// committing to a's outcome the moment it settles into Done or a
// failure that isn't an ierrors.IterNoParse (a real error, not a
// backtrackable parse failure); if a instead fails with a parse
// error, the whole thing falls back to whatever b has produced by
// driving it alongside the same input.
//
// b must be free of observable effects: it is stepped on every chunk
// regardless of whether a eventually wins, so any side effect in b
// would run even when its result is discarded. Each round steps a and
// b concurrently via errgroup — there is no shared mutable state
// between the two closures, so this is safe, and it keeps memory
// bounded: b is driven incrementally rather than buffered and replayed.
func MultiParse[T chunk.Data[T], A any](a, b iter.Iter[T, A]) iter.Iter[T, A] {
	return multiStep(a, b)
}

func multiStep[T chunk.Data[T], A any](a, b iter.Iter[T, A]) iter.Iter[T, A] {
	if a.Kind() == iter.KindDone {
		return a
	}
	if a.IsFailure() {
		if ierrors.IsNoParse(a.Err()) {
			return b
		}
		return a
	}
	return iter.NeedInput(func(c chunk.Chunk[T]) iter.Iter[T, A] {
		var sa, sb iter.Iter[T, A]
		var g errgroup.Group
		g.Go(func() error {
			sa = iter.Step(a, c)
			return nil
		})
		g.Go(func() error {
			if b.Kind() == iter.KindNeedInput {
				sb = iter.Step(b, c)
			} else {
				sb = b
			}
			return nil
		})
		_ = g.Wait()
		return multiStep(sa, sb)
	})
}
