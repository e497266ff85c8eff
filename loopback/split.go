package loopback

import (
	"context"
	"sync"

	"github.com/bytedance/gopkg/util/gopool"

	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/enum"
	"github.com/everyday-items/iterio/iter"
)

// Finalizer guards a completion callback so it fires exactly once no
// matter which of two concurrent sides settles last — the "idempotent
// single-shot flag" a tee needs once both halves of a Split have run.
type Finalizer[T any] struct {
	once sync.Once
	fn   func(T)
}

// NewFinalizer wraps fn so Fire only ever invokes it on the first call.
func NewFinalizer[T any](fn func(T)) *Finalizer[T] {
	return &Finalizer[T]{fn: fn}
}

// Fire runs the wrapped callback with v, exactly once.
func (f *Finalizer[T]) Fire(v T) { f.once.Do(func() { f.fn(v) }) }

// Split builds an Inum that tees every chunk it is fed to `other` —
// driven on its own goroutine via gopool.CtxGo so the tee never slows
// down the primary downstream Iter — while passing each chunk through
// to downstream unchanged (Out == In). `other`'s final state is handed
// to onOther exactly once, via Finalizer, before Split's own Inum
// settles, so a caller inspecting onOther's result after the Inum
// returns is guaranteed to see it.
//
// other is driven by a single goroutine reading off a private channel,
// so there is no shared mutable state between it and the caller's
// stepping of downstream — safe without further locking.
func Split[T chunk.Data[T], A, B any](ctx context.Context, other iter.Iter[T, B], onOther *Finalizer[iter.Iter[T, B]]) enum.Inum[T, T, A] {
	return func(downstream iter.Iter[T, A]) iter.Iter[T, iter.Iter[T, A]] {
		feed := make(chan chunk.Chunk[T], 16)
		done := make(chan struct{})
		gopool.CtxGo(ctx, func() {
			state := other
			settled := false
			// keep draining feed until the caller closes it even after
			// other settles — otherwise driveSplit's sends on a full
			// buffer would block forever with nothing left reading.
			for c := range feed {
				if settled {
					continue
				}
				state = iter.Step(state, c)
				if state.Kind() != iter.KindNeedInput {
					settled = true
				}
			}
			onOther.Fire(state)
			close(done)
		})
		return driveSplit[T, A, B](downstream, feed, done)
	}
}

func driveSplit[T chunk.Data[T], A, B any](downstream iter.Iter[T, A], feed chan chunk.Chunk[T], done <-chan struct{}) iter.Iter[T, iter.Iter[T, A]] {
	if downstream.Kind() != iter.KindNeedInput {
		close(feed)
		<-done
		return iter.DoneWith[T, iter.Iter[T, A]](downstream, chunk.Empty[T]())
	}
	return iter.NeedInput(func(c chunk.Chunk[T]) iter.Iter[T, iter.Iter[T, A]] {
		feed <- c
		next := iter.Step(downstream, c)
		if c.EOF || next.Kind() != iter.KindNeedInput {
			close(feed)
			<-done
			return iter.DoneWith[T, iter.Iter[T, A]](next, chunk.Empty[T]())
		}
		return driveSplit[T, A, B](next, feed, done)
	})
}
