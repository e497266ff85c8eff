package codec

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/ctl"
	"github.com/everyday-items/iterio/enum"
	"github.com/everyday-items/iterio/iter"
)

func collectBytes() iter.Iter[chunk.Bytes, chunk.Bytes] {
	return loopBytes(chunk.Bytes(""))
}

func loopBytes(acc chunk.Bytes) iter.Iter[chunk.Bytes, chunk.Bytes] {
	return iter.NeedInput(func(c chunk.Chunk[chunk.Bytes]) iter.Iter[chunk.Bytes, chunk.Bytes] {
		next := acc.Append(c.Data)
		if c.EOF {
			return iter.DoneWith[chunk.Bytes, chunk.Bytes](next, chunk.Empty[chunk.Bytes]())
		}
		return loopBytes(next)
	})
}

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return buf.Bytes()
}

func TestGzipInumDecompressesWholeStream(t *testing.T) {
	raw := gzipBytes(t, "hello, streaming iteratees")
	var gzipChain, chain ctl.Chain
	fused := enum.FuseInnerIter[chunk.Bytes, chunk.Bytes, chunk.Bytes](GzipInum[chunk.Bytes](&gzipChain), &gzipChain, collectBytes(), &chain)

	src := enum.BuildOnum[chunk.Bytes, chunk.Bytes](sourceOf(t, raw))
	got, err := enum.Run(src, fused)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "hello, streaming iteratees" {
		t.Fatalf("got %q", got)
	}
	// A Tell{} dispatched against the fused chain must reach gzipChain's
	// own handler, proving the control request travelled outward
	// through the fusion the way §4.7 requires.
	pos, ok := chain.Dispatch(ctl.Tell{})
	if !ok || pos.(int64) != int64(len("hello, streaming iteratees")) {
		t.Fatalf("expected forwarded Tell to report final length, got %v ok=%v", pos, ok)
	}
}

func sourceOf(t *testing.T, data []byte) enum.SourceFunc[chunk.Bytes] {
	t.Helper()
	sent := false
	return func() (chunk.Bytes, bool, error) {
		if sent {
			var zero chunk.Bytes
			return zero, false, io.EOF
		}
		sent = true
		return chunk.Bytes(data), true, nil
	}
}

func TestChecksumInumPassesThroughAndReportsDigest(t *testing.T) {
	var digest [32]byte
	var got bool
	var chain ctl.Chain
	inum := ChecksumInum[chunk.Bytes](func(d [32]byte) { digest = d; got = true }, &chain)

	popped := inum(collectBytes())
	popped = iter.Step(popped, chunk.Of(chunk.Bytes("ab")))
	popped = iter.Step(popped, chunk.OfEOF(chunk.Bytes("cd")))
	if popped.Kind() != iter.KindDone {
		t.Fatalf("expected Done, got %s", popped.Kind())
	}
	passthrough, err := iter.Run(popped.Value())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(passthrough) != "abcd" {
		t.Fatalf("got %q", passthrough)
	}
	if !got {
		t.Fatal("onDigest was never called")
	}
	var zero [32]byte
	if digest == zero {
		t.Fatal("digest was never written")
	}
	if pos, ok := chain.Dispatch(ctl.Tell{}); !ok || pos.(int64) != 4 {
		t.Fatalf("expected Tell to report 4 bytes hashed, got %v ok=%v", pos, ok)
	}
}

func TestJSONLinesInumNormalizesAndSkipsBlankLines(t *testing.T) {
	inum := JSONLinesInum[chunk.Strs]()
	collect := collectStrs()
	popped := inum(collect)
	popped = iter.Step(popped, chunk.Of(chunk.Bytes("{\"a\":  1}\n\n")))
	popped = iter.Step(popped, chunk.OfEOF(chunk.Bytes("{\"b\":2}")))
	if popped.Kind() != iter.KindDone {
		t.Fatalf("expected Done, got %s", popped.Kind())
	}
	got, err := iter.Run(popped.Value())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := chunk.Strs{`{"a":1}`, `{"b":2}`}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestJSONLinesInumFailsOnMalformedLine(t *testing.T) {
	inum := JSONLinesInum[chunk.Strs]()
	popped := inum(collectStrs())
	popped = iter.Step(popped, chunk.OfEOF(chunk.Bytes("not json")))
	if popped.Kind() != iter.KindEnumIFail {
		t.Fatalf("expected EnumIFail on a malformed line, got %s", popped.Kind())
	}
}

func collectStrs() iter.Iter[chunk.Strs, chunk.Strs] {
	return loopStrs(nil)
}

func loopStrs(acc chunk.Strs) iter.Iter[chunk.Strs, chunk.Strs] {
	return iter.NeedInput(func(c chunk.Chunk[chunk.Strs]) iter.Iter[chunk.Strs, chunk.Strs] {
		next := acc.Append(c.Data)
		if c.EOF {
			return iter.DoneWith[chunk.Strs, chunk.Strs](next, chunk.Empty[chunk.Strs]())
		}
		return loopStrs(next)
	})
}
