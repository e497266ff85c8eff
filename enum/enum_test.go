package enum

import (
	"errors"
	"io"
	"testing"

	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/iter"
)

// collectAll is a tiny terminal iteratee: it swallows every chunk and
// returns the concatenated bytes once fed EOF.
func collectAll() iter.Iter[chunk.Bytes, chunk.Bytes] {
	return loop(chunk.Bytes{})
}

func loop(acc chunk.Bytes) iter.Iter[chunk.Bytes, chunk.Bytes] {
	return iter.NeedInput(func(c chunk.Chunk[chunk.Bytes]) iter.Iter[chunk.Bytes, chunk.Bytes] {
		next := acc.Append(c.Data)
		if c.EOF {
			return iter.DoneWith[chunk.Bytes, chunk.Bytes](next, chunk.EOFChunk[chunk.Bytes]())
		}
		return loop(next)
	})
}

func sourceOf(parts ...string) SourceFunc[chunk.Bytes] {
	i := 0
	return func() (chunk.Bytes, bool, error) {
		if i >= len(parts) {
			return nil, false, io.EOF
		}
		p := parts[i]
		i++
		return chunk.Bytes(p), i == len(parts), nil
	}
}

func TestBuildOnumFeedsUntilDone(t *testing.T) {
	src := sourceOf("ab", "cd", "ef")
	o := BuildOnum[chunk.Bytes, chunk.Bytes](src)
	got, err := Run(o, collectAll())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "abcdef" {
		t.Fatalf("got %q", got)
	}
}

func TestCatHandsOffWhenFirstRunsDry(t *testing.T) {
	a := BuildOnum[chunk.Bytes, chunk.Bytes](sourceOf("ab"))
	b := BuildOnum[chunk.Bytes, chunk.Bytes](sourceOf("cd"))
	combined := Cat(a, b)
	got, err := Run(combined, collectAll())
	if err != nil || string(got) != "abcd" {
		t.Fatalf("got %q err %v", got, err)
	}
}

func TestCatDoesNotRunBIfAFinishesIteratee(t *testing.T) {
	a := BuildOnum[chunk.Bytes, chunk.Bytes](sourceOf("ab"))
	// an iteratee that completes after the very first chunk
	first := iter.NeedInput(func(c chunk.Chunk[chunk.Bytes]) iter.Iter[chunk.Bytes, chunk.Bytes] {
		return iter.DoneWith[chunk.Bytes, chunk.Bytes](c.Data, chunk.Empty[chunk.Bytes]())
	})
	bCalled := false
	b := Onum[chunk.Bytes, chunk.Bytes](func(it iter.Iter[chunk.Bytes, chunk.Bytes]) iter.Iter[chunk.Bytes, chunk.Bytes] {
		bCalled = true
		return it
	})
	combined := Cat(a, b)
	got, err := Run(combined, first)
	if err != nil || string(got) != "ab" {
		t.Fatalf("got %q err %v", got, err)
	}
	if bCalled {
		t.Fatal("b must not run once a's iteratee is already Done (S2)")
	}
}

func TestRunWrapsDownstreamEnumFailAsIterFail(t *testing.T) {
	boom := errors.New("downstream producer exploded")
	downstream := iter.WrapEnumOFail[chunk.Bytes, chunk.Bytes](boom, iter.Return[chunk.Bytes, chunk.Bytes](chunk.Bytes("ok")))
	o := BuildOnum[chunk.Bytes, chunk.Bytes](sourceOf("x"))
	_, err := Run(o, downstream)
	if err == nil || err.Error() != boom.Error() {
		t.Fatalf("expected downstream EnumFail surfaced as IterFail, got %v", err)
	}
}

func TestBracketReleaseRunsEvenOnProduceFailure(t *testing.T) {
	released := false
	boom := errors.New("produce failed")
	b := Bracket[chunk.Bytes, chunk.Bytes, string](
		func() (string, error) { return "handle", nil },
		func(string) error { released = true; return nil },
		func(string) Onum[chunk.Bytes, chunk.Bytes] {
			return func(it iter.Iter[chunk.Bytes, chunk.Bytes]) iter.Iter[chunk.Bytes, chunk.Bytes] {
				return iter.WrapEnumOFail(boom, it)
			}
		},
	)
	_, err := Run(b, collectAll())
	if !released {
		t.Fatal("release must run even when produce fails")
	}
	if err == nil || err.Error() != boom.Error() {
		t.Fatalf("produce failure must win over a (nil) release outcome, got %v", err)
	}
}

func TestBracketProduceFailureMasksReleaseError(t *testing.T) {
	produceErr := errors.New("produce failed")
	releaseErr := errors.New("release failed too")
	b := Bracket[chunk.Bytes, chunk.Bytes, string](
		func() (string, error) { return "h", nil },
		func(string) error { return releaseErr },
		func(string) Onum[chunk.Bytes, chunk.Bytes] {
			return func(it iter.Iter[chunk.Bytes, chunk.Bytes]) iter.Iter[chunk.Bytes, chunk.Bytes] {
				return iter.WrapEnumOFail(produceErr, it)
			}
		},
	)
	_, err := Run(b, collectAll())
	if err == nil || err.Error() != produceErr.Error() {
		t.Fatalf("release error must be masked by produce failure, got %v", err)
	}
}

func upperInumStep(c chunk.Chunk[chunk.Bytes]) (chunk.Bytes, error) {
	out := make(chunk.Bytes, len(c.Data))
	for i, b := range c.Data {
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		out[i] = b
	}
	return out, nil
}

func TestBuildInumTranslatesChunkByChunk(t *testing.T) {
	inum := BuildInum[chunk.Bytes, chunk.Bytes, chunk.Bytes](upperInumStep)
	o := BuildOnum[chunk.Bytes, chunk.Bytes](sourceOf("ab", "cd"))
	fused := FuseInnerIter(inum, nil, collectAll(), nil)
	got, err := Run(o, fused)
	if err != nil || string(got) != "ABCD" {
		t.Fatalf("got %q err %v", got, err)
	}
}

// TestFlattenReportsExhaustionWhenPoppedStillNeedsInput exercises
// Flatten's "ran dry" branch directly: a hand-built Inum (one that
// doesn't route its flush through iter.Step, unlike BuildInum) that
// gives up while the popped downstream iteratee is still NeedInput.
func TestFlattenReportsExhaustionWhenPoppedStillNeedsInput(t *testing.T) {
	stillWaiting := iter.NeedInput(func(chunk.Chunk[chunk.Bytes]) iter.Iter[chunk.Bytes, chunk.Bytes] {
		return iter.Return[chunk.Bytes, chunk.Bytes](nil)
	})
	giveUp := Inum[chunk.Bytes, chunk.Bytes, chunk.Bytes](func(iter.Iter[chunk.Bytes, chunk.Bytes]) iter.Iter[chunk.Bytes, iter.Iter[chunk.Bytes, chunk.Bytes]] {
		return iter.DoneWith[chunk.Bytes, iter.Iter[chunk.Bytes, chunk.Bytes]](stillWaiting, chunk.EOFChunk[chunk.Bytes]())
	})
	_, err := iter.Run(FuseInnerIter(giveUp, nil, collectAll(), nil))
	if err == nil {
		t.Fatal("expected an error when the popped iteratee is still NeedInput")
	}
	if !errors.Is(err, ErrInnerExhausted) {
		t.Fatalf("expected ErrInnerExhausted, got %v", err)
	}
}
