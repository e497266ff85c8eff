package iter

import (
	"errors"

	"github.com/everyday-items/iterio/chunk"
)

// DiagSink is the narrow interface VerboseResume reports to before
// resuming. Concrete sinks (e.g. diag.Logger, built on the teacher's
// log/slog wrapper) live outside this package so the core never imports
// an ambient logging stack.
type DiagSink interface {
	Report(err error)
}

// CatchI wraps it so that when it settles into a failure state whose
// error is castable to E (via errors.As), handler runs with both the
// typed exception and the failing Iter — letting the handler tell an
// enumerator failure from an iteratee failure apart, and for the
// former, pull the still-live inner Iter back out via Inner().
// Non-matching failures, and NeedInput that never fails, pass through
// untouched.
func CatchI[T chunk.Data[T], A any, E error](it Iter[T, A], handler func(e E, failing Iter[T, A]) Iter[T, A]) Iter[T, A] {
	switch it.kind {
	case KindNeedInput:
		captured := it
		return NeedInput(func(c chunk.Chunk[T]) Iter[T, A] {
			return CatchI(Step(captured, c), handler)
		})
	case KindIterFail, KindEnumOFail, KindEnumIFail:
		var target E
		if errors.As(it.err, &target) {
			return handler(target, it)
		}
		return it
	default:
		return it
	}
}

// CatchBI additionally records every chunk fed to it. On a matching
// failure, the failing Iter itself is discarded (resuming after a
// backtrack makes no sense) and the saved input is replayed into
// handler's Iter before further input continues to flow — equivalent to
// `Bind(Done((), saved), func(_) { return handler(e) })`. Memory cost is
// proportional to the data consumed before the failure.
func CatchBI[T chunk.Data[T], A any, E error](it Iter[T, A], handler func(e E) Iter[T, A]) Iter[T, A] {
	return catchBI(it, handler, chunk.Empty[T]())
}

func catchBI[T chunk.Data[T], A any, E error](it Iter[T, A], handler func(e E) Iter[T, A], saved chunk.Chunk[T]) Iter[T, A] {
	switch it.kind {
	case KindNeedInput:
		captured := it
		return NeedInput(func(c chunk.Chunk[T]) Iter[T, A] {
			return catchBI(Step(captured, c), handler, chunk.Append(saved, c))
		})
	case KindIterFail, KindEnumOFail, KindEnumIFail:
		var target E
		if errors.As(it.err, &target) {
			return Step(handler(target), saved)
		}
		return it
	default:
		return it
	}
}

// Resume implements resumeI: an EnumOFail/EnumIFail hands back its still
// -live inner Iter so that a fresh enumerator may continue feeding it;
// any other state is returned unchanged.
func Resume[T chunk.Data[T], A any](it Iter[T, A]) Iter[T, A] {
	if (it.kind == KindEnumOFail || it.kind == KindEnumIFail) && it.inner != nil {
		return *it.inner
	}
	return it
}

// VerboseResume is Resume, but first reports the error to sink — the
// diagnostic line verboseResumeI writes before continuing execution with
// the surviving iteratee (§7).
func VerboseResume[T chunk.Data[T], A any](it Iter[T, A], sink DiagSink) Iter[T, A] {
	if (it.kind == KindEnumOFail || it.kind == KindEnumIFail) && sink != nil {
		sink.Report(it.err)
	}
	return Resume(it)
}

// MapException rewrites the error carried by a failure state with f,
// leaving every other state untouched. Used by the parse package to
// merge accumulated IterExpected token sets (mapExceptionI in §4.6).
func MapException[T chunk.Data[T], A any](it Iter[T, A], f func(error) error) Iter[T, A] {
	switch it.kind {
	case KindIterFail:
		return Iter[T, A]{kind: KindIterFail, err: f(it.err)}
	case KindEnumOFail:
		return Iter[T, A]{kind: KindEnumOFail, err: f(it.err), inner: it.inner}
	case KindEnumIFail:
		return Iter[T, A]{kind: KindEnumIFail, err: f(it.err), inner: it.inner}
	default:
		return it
	}
}
