// Package loopback implements the concurrency seam from §4.4: iter_loop
// bridges push-style producers to pull-style Onum consumers over a
// channel, and Split tees one stream of chunks to two independent
// consumers running concurrently.
package loopback

import (
	"io"

	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/enum"
	"github.com/everyday-items/iterio/iter"
)

// NewLoop returns a paired (feed Iter, Onum): stepping chunks into the
// feed Iter relays them, in order, over a buffered channel to whatever
// runs the paired Onum — the bridge between something that wants to
// push chunks (a callback-style producer, another goroutine) and the
// pull-style Onum/Iter world everything else in this module lives in.
//
// Feeding the Iter a genuine EOF chunk closes the channel; the Onum
// then reports its source exhausted and hands its iteratee back
// untouched, per the same "an Onum never decides the stream is truly
// over" contract BuildOnum follows.
func NewLoop[T chunk.Data[T], A any](buffer int) (iter.Iter[T, struct{}], enum.Onum[T, A]) {
	ch := make(chan chunk.Chunk[T], buffer)
	src := enum.SourceFunc[T](func() (T, bool, error) {
		c, ok := <-ch
		if !ok {
			var zero T
			return zero, false, io.EOF
		}
		return c.Data, c.EOF, nil
	})
	return loopFeeder[T](ch), enum.BuildOnum[T, A](src)
}

func loopFeeder[T chunk.Data[T]](ch chan chunk.Chunk[T]) iter.Iter[T, struct{}] {
	return iter.NeedInput(func(c chunk.Chunk[T]) iter.Iter[T, struct{}] {
		ch <- c
		if c.EOF {
			close(ch)
			return iter.Return[T, struct{}](struct{}{})
		}
		return loopFeeder[T](ch)
	})
}
