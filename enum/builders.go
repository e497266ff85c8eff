package enum

import (
	"errors"
	"io"

	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/iter"
)

// SourceFunc pulls the next unit of data from a backing source (a file,
// an HTTP body, a cursor page...). Returning io.EOF with the zero value
// of T tells the builder to stop quietly, handing the iteratee back
// untouched — exactly the "source exhausted" case an Onum must leave
// for a subsequent enumerator. done=true marks data as the LAST unit
// this source has: the builder feeds it as an ordinary (non-EOF) chunk
// and then simply stops calling src again — an Onum never decides on
// its own that the overall stream has ended; only Run's own final
// feeding loop does that, which is what lets Cat hand off to a second
// Onum after the first one runs dry.
//
// This is a Go-idiomatic stand-in for the three-way Continue/End/Empty
// codec result: (data, false, nil) is Continue, (data, true, nil) is
// End, and (zero, _, io.EOF) is Empty/terminate-quiet (see DESIGN.md).
type SourceFunc[T chunk.Data[T]] func() (data T, done bool, err error)

// BuildOnum is the generic outer-enumerator builder (enumO): it loops,
// pulling from src and feeding the iteratee, until the iteratee is no
// longer NeedInput or src reports EOF.
func BuildOnum[T chunk.Data[T], A any](src SourceFunc[T]) Onum[T, A] {
	return func(it iter.Iter[T, A]) iter.Iter[T, A] {
		return runSource(it, src)
	}
}

func runSource[T chunk.Data[T], A any](it iter.Iter[T, A], src SourceFunc[T]) iter.Iter[T, A] {
	for it.Kind() == iter.KindNeedInput {
		data, done, err := src()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return it
			}
			return iter.WrapEnumOFail(err, it)
		}
		it = iter.Step(it, chunk.Of(data))
		if done {
			return it
		}
	}
	return it
}

// Bracket is the generic bracketed enumerator (enum_bracket): acquire
// runs once, produce(resource) is driven as the Onum body, and release
// always runs afterward regardless of outcome. A release error is
// masked by a produce failure — the produce-side failure is what the
// caller needs to see — and only surfaces on its own when produce
// itself succeeded.
func Bracket[T chunk.Data[T], A any, R any](acquire func() (R, error), release func(R) error, produce func(R) Onum[T, A]) Onum[T, A] {
	return func(it iter.Iter[T, A]) iter.Iter[T, A] {
		res, err := acquire()
		if err != nil {
			return iter.WrapEnumOFail(err, it)
		}
		result := produce(res)(it)
		relErr := release(res)
		if result.IsFailure() {
			return result
		}
		if relErr != nil {
			return iter.WrapEnumOFail(relErr, result)
		}
		return result
	}
}

// TranscodeFunc translates one incoming chunk of In-data into (at most)
// one chunk of Out-data. It is called exactly once for the terminal EOF
// chunk, which lets stateful codecs (gzip, checksum) flush. Returning a
// Null() Out value means "nothing to emit this round" — the downstream
// iteratee is not stepped.
type TranscodeFunc[In chunk.Data[In], Out chunk.Data[Out]] func(chunk.Chunk[In]) (Out, error)

// BuildInum is the generic inner-enumerator builder (enumI): it drives
// the downstream iteratee by translating each incoming In-chunk through
// step, stopping (and popping the downstream Iter back out) the moment
// downstream is no longer NeedInput or the In-side hits EOF.
func BuildInum[In chunk.Data[In], Out chunk.Data[Out], A any](step TranscodeFunc[In, Out]) Inum[In, Out, A] {
	return func(downstream iter.Iter[Out, A]) iter.Iter[In, iter.Iter[Out, A]] {
		return driveInum[In, Out, A](downstream, step)
	}
}

func driveInum[In chunk.Data[In], Out chunk.Data[Out], A any](downstream iter.Iter[Out, A], step TranscodeFunc[In, Out]) iter.Iter[In, iter.Iter[Out, A]] {
	if downstream.Kind() != iter.KindNeedInput {
		return iter.DoneWith[In, iter.Iter[Out, A]](downstream, chunk.Empty[In]())
	}
	return iter.NeedInput(func(c chunk.Chunk[In]) iter.Iter[In, iter.Iter[Out, A]] {
		out, err := step(c)
		if err != nil {
			return iter.WrapEnumIFail[In, iter.Iter[Out, A]](err, iter.DoneWith[In, iter.Iter[Out, A]](downstream, chunk.Empty[In]()))
		}
		next := downstream
		switch {
		case c.EOF:
			// flush: feed the last translated unit (even if empty) as the
			// downstream's own EOF chunk, forcing it to resolve.
			next = iter.Step(downstream, chunk.OfEOF(out))
		case !out.Null():
			next = iter.Step(downstream, chunk.Of(out))
		}
		if next.Kind() != iter.KindNeedInput || c.EOF {
			return iter.DoneWith[In, iter.Iter[Out, A]](next, chunk.Empty[In]())
		}
		return driveInum[In, Out, A](next, step)
	})
}
