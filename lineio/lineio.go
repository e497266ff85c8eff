// Package lineio adapts the byte-stream core to line-oriented text and
// to plain io.Writer sinks — the two iteratees most pipelines terminate
// with.
package lineio

import (
	"bytes"
	"io"

	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/ierrors"
	"github.com/everyday-items/iterio/iter"
)

// LineIter consumes bytes up to and including the next '\n', resolving
// to the line with the trailing newline stripped; everything after the
// newline is left as residual input for whatever runs next (so a
// caller can Bind LineIter repeatedly to walk a stream line by line).
// At EOF with no newline seen, whatever was accumulated becomes the
// final line; at EOF with nothing accumulated, it fails with
// ierrors.EOF — there is no next line.
func LineIter() iter.Iter[chunk.Bytes, chunk.Bytes] {
	return lineIter(chunk.Bytes(nil))
}

func lineIter(acc chunk.Bytes) iter.Iter[chunk.Bytes, chunk.Bytes] {
	return iter.NeedInput(func(c chunk.Chunk[chunk.Bytes]) iter.Iter[chunk.Bytes, chunk.Bytes] {
		next := acc.Append(c.Data)
		if i := bytes.IndexByte(next, '\n'); i >= 0 {
			return iter.DoneWith[chunk.Bytes, chunk.Bytes](next[:i], chunk.Chunk[chunk.Bytes]{Data: append(chunk.Bytes(nil), next[i+1:]...)})
		}
		if c.EOF {
			if len(next) == 0 {
				return iter.Throw[chunk.Bytes, chunk.Bytes](ierrors.WrapEOF(io.EOF))
			}
			return iter.DoneWith[chunk.Bytes, chunk.Bytes](next, chunk.Empty[chunk.Bytes]())
		}
		return lineIter(next)
	})
}

// AllLines drives LineIter repeatedly until it fails with ierrors.EOF,
// collecting every line. A non-EOF failure propagates unchanged.
func AllLines() iter.Iter[chunk.Bytes, chunk.Strs] {
	return allLines(nil)
}

func allLines(acc chunk.Strs) iter.Iter[chunk.Bytes, chunk.Strs] {
	return iter.Bind(asResult(LineIter()), func(r lineResult) iter.Iter[chunk.Bytes, chunk.Strs] {
		if r.err != nil {
			if ierrors.IsEOFErr(r.err) {
				return iter.Return[chunk.Bytes, chunk.Strs](acc)
			}
			return iter.Throw[chunk.Bytes, chunk.Strs](r.err)
		}
		return allLines(append(acc, string(r.line)))
	})
}

type lineResult struct {
	line chunk.Bytes
	err  error
}

// asResult reifies LineIter's failure into a value so allLines can Bind
// through it without Bind itself special-casing EOF-vs-real-failure.
func asResult(it iter.Iter[chunk.Bytes, chunk.Bytes]) iter.Iter[chunk.Bytes, lineResult] {
	switch it.Kind() {
	case iter.KindNeedInput:
		captured := it
		return iter.NeedInput(func(c chunk.Chunk[chunk.Bytes]) iter.Iter[chunk.Bytes, lineResult] {
			return asResult(iter.Step(captured, c))
		})
	case iter.KindDone:
		return iter.DoneWith[chunk.Bytes, lineResult](lineResult{line: it.Value()}, it.Residual())
	default:
		return iter.Return[chunk.Bytes, lineResult](lineResult{err: it.Err()})
	}
}

// WriterIter writes every incoming chunk to w and resolves, on EOF, to
// the total number of bytes written. A write error fails the iteratee
// immediately (the classic "handleI" wrap — the failure belongs to
// this iteratee, not to whatever enumerator is feeding it).
func WriterIter(w io.Writer) iter.Iter[chunk.Bytes, int64] {
	return writerIter(w, 0)
}

func writerIter(w io.Writer, total int64) iter.Iter[chunk.Bytes, int64] {
	return iter.NeedInput(func(c chunk.Chunk[chunk.Bytes]) iter.Iter[chunk.Bytes, int64] {
		n := total
		if len(c.Data) > 0 {
			written, err := w.Write(c.Data)
			n += int64(written)
			if err != nil {
				return iter.Throw[chunk.Bytes, int64](err)
			}
		}
		if c.EOF {
			return iter.DoneWith[chunk.Bytes, int64](n, chunk.Empty[chunk.Bytes]())
		}
		return writerIter(w, n)
	})
}
