// Package parse implements C7: backtracking parse combinators built on
// top of iter's core monad — tryI/tryBI/ifParse, plus the lock-step
// concurrent alternative multiParse (in multi.go).
package parse

import (
	"errors"

	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/ierrors"
	"github.com/everyday-items/iterio/iter"
)

// Result reifies tryI/tryBI's Either: Ok carries the successful value,
// !Ok carries the matched exception. Failing is only populated by TryI
// (tryBI never returns a failing iter — resuming after a backtrack
// makes no sense).
type Result[T chunk.Data[T], A any, E error] struct {
	Ok      bool
	Value   A
	Err     E
	Failing iter.Iter[T, A]
}

// TryI runs it and reifies the first failure whose error matches E
// (via errors.As) as a Left-shaped Result carrying the still-live
// failing Iter. A non-matching failure re-raises unchanged.
func TryI[T chunk.Data[T], A any, E error](it iter.Iter[T, A]) iter.Iter[T, Result[T, A, E]] {
	switch it.Kind() {
	case iter.KindNeedInput:
		captured := it
		return iter.NeedInput(func(c chunk.Chunk[T]) iter.Iter[T, Result[T, A, E]] {
			return TryI[T, A, E](iter.Step(captured, c))
		})
	case iter.KindDone:
		return iter.DoneWith[T, Result[T, A, E]](Result[T, A, E]{Ok: true, Value: it.Value()}, it.Residual())
	default:
		var target E
		if errors.As(it.Err(), &target) {
			return iter.Return[T, Result[T, A, E]](Result[T, A, E]{Err: target, Failing: it})
		}
		return iter.Throw[T, Result[T, A, E]](it.Err())
	}
}

// TryBI is TryI plus input copying: every chunk fed while it is still
// running is accumulated, and on a matching failure the ENTIRE
// accumulated input is handed back as the Result's residual (a full
// rewind) instead of returning the failing Iter. Memory cost is
// proportional to the input consumed before the failure — the
// documented backtracking-memory contract (§9).
func TryBI[T chunk.Data[T], A any, E error](it iter.Iter[T, A]) iter.Iter[T, Result[T, A, E]] {
	return tryBI[T, A, E](it, chunk.Empty[T]())
}

func tryBI[T chunk.Data[T], A any, E error](it iter.Iter[T, A], saved chunk.Chunk[T]) iter.Iter[T, Result[T, A, E]] {
	switch it.Kind() {
	case iter.KindNeedInput:
		captured := it
		return iter.NeedInput(func(c chunk.Chunk[T]) iter.Iter[T, Result[T, A, E]] {
			return tryBI[T, A, E](iter.Step(captured, c), chunk.Append(saved, c))
		})
	case iter.KindDone:
		return iter.DoneWith[T, Result[T, A, E]](Result[T, A, E]{Ok: true, Value: it.Value()}, it.Residual())
	default:
		var target E
		if errors.As(it.Err(), &target) {
			return iter.DoneWith[T, Result[T, A, E]](Result[T, A, E]{Err: target}, saved)
		}
		return iter.Throw[T, Result[T, A, E]](it.Err())
	}
}

// IfParse runs tryBI(it): on success, kOk continues with the
// unrewound residual; on a backtrackable failure (ierrors.IsNoParse),
// kFail runs against the fully rewound input. A failure that isn't a
// parse failure — a genuine I/O or host error — is re-raised instead
// of being treated as "try the other alternative", matching
// MultiParse's own IsNoParse gate (multi.go). If kFail's own outcome
// fails with an *ierrors.Expected and the original failure was also
// one, their token sets are merged — producing "expected one of
// {x, y, z}" diagnostics that span both alternatives.
func IfParse[T chunk.Data[T], A, B any](it iter.Iter[T, A], kOk func(A) iter.Iter[T, B], kFail func() iter.Iter[T, B]) iter.Iter[T, B] {
	tried := TryBI[T, A, error](it)
	return iter.Bind(tried, func(r Result[T, A, error]) iter.Iter[T, B] {
		if r.Ok {
			return kOk(r.Value)
		}
		if !ierrors.IsNoParse(r.Err) {
			return iter.Throw[T, B](r.Err)
		}
		return iter.MapException(kFail(), func(err error) error {
			return mergeExpected(r.Err, err)
		})
	})
}

// Alt runs a; on a backtrackable parse failure (ierrors.IsNoParse) it
// rewinds (via IfParse/TryBI) and runs b against the same input
// instead, and any other failure of a is returned unchanged. The deterministic sibling of
// MultiParse's concurrent race — only one alternative ever runs to
// completion.
func Alt[T chunk.Data[T], A any](a, b iter.Iter[T, A]) iter.Iter[T, A] {
	return IfParse[T, A, A](a, func(v A) iter.Iter[T, A] {
		return iter.Return[T, A](v)
	}, func() iter.Iter[T, A] {
		return b
	})
}

func mergeExpected(original, next error) error {
	var eOrig, eNext *ierrors.Expected
	if errors.As(original, &eOrig) && errors.As(next, &eNext) {
		return eOrig.Merge(eNext)
	}
	return next
}
