package lineio

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/iter"
)

func feedString(it iter.Iter[chunk.Bytes, chunk.Bytes], s string) iter.Iter[chunk.Bytes, chunk.Bytes] {
	return iter.Step(it, chunk.Of(chunk.Bytes(s)))
}

func TestLineIterSplitsOnNewlineAndLeavesResidual(t *testing.T) {
	stepped := feedString(LineIter(), "first\nsecond")
	if stepped.Kind() != iter.KindDone {
		t.Fatalf("expected Done once a newline arrives, got %s", stepped.Kind())
	}
	if string(stepped.Value()) != "first" {
		t.Fatalf("got line %q", stepped.Value())
	}
	if string(stepped.Residual().Data) != "second" {
		t.Fatalf("got residual %q", stepped.Residual().Data)
	}
}

func TestLineIterAcrossMultipleChunks(t *testing.T) {
	it := LineIter()
	it = iter.Step(it, chunk.Of(chunk.Bytes("par")))
	it = iter.Step(it, chunk.Of(chunk.Bytes("tial\nrest")))
	if it.Kind() != iter.KindDone || string(it.Value()) != "partial" {
		t.Fatalf("got %s %q", it.Kind(), it.Value())
	}
}

func TestLineIterReturnsFinalUnterminatedLineAtEOF(t *testing.T) {
	it := iter.Step(LineIter(), chunk.OfEOF(chunk.Bytes("no newline here")))
	if it.Kind() != iter.KindDone || string(it.Value()) != "no newline here" {
		t.Fatalf("got %s %q", it.Kind(), it.Value())
	}
}

func TestLineIterFailsWithEOFWhenNothingAccumulated(t *testing.T) {
	_, err := iter.Run(LineIter())
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestAllLinesCollectsEveryLine(t *testing.T) {
	got, err := iter.Run(iter.Step(AllLines(), chunk.OfEOF(chunk.Bytes("a\nb\nc"))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := chunk.Strs{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestWriterIterWritesAndSumsBytes(t *testing.T) {
	var sb strings.Builder
	it := WriterIter(&sb)
	it = iter.Step(it, chunk.Of(chunk.Bytes("ab")))
	it = iter.Step(it, chunk.OfEOF(chunk.Bytes("cde")))
	if it.Kind() != iter.KindDone {
		t.Fatalf("expected Done, got %s", it.Kind())
	}
	if it.Value() != 5 {
		t.Fatalf("got total %d", it.Value())
	}
	if sb.String() != "abcde" {
		t.Fatalf("got %q", sb.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestWriterIterFailsOnWriteError(t *testing.T) {
	_, err := iter.Run(iter.Step(WriterIter(failingWriter{}), chunk.Of(chunk.Bytes("x"))))
	if err == nil || err.Error() != "disk full" {
		t.Fatalf("expected write error, got %v", err)
	}
}
