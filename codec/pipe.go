// Package codec adapts the domain stack's third-party codec libraries
// (compression, checksums, line-delimited JSON) into Inum transcoders
// that plug straight into enum.BuildInum's chunk-at-a-time model.
package codec

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/ctl"
	"github.com/everyday-items/iterio/enum"
)

// NewDecoder constructs a streaming io.Reader decoder around an
// upstream io.Reader — the shape gzip.NewReader, zlib.NewReader,
// brotli.NewReader, snappy.NewReader and lz4.NewReader all share.
type NewDecoder func(io.Reader) (io.Reader, error)

// PipeInum bridges a pull-style NewDecoder into a push-style Inum: raw
// bytes fed to the Inum are written into an io.Pipe, and a background
// goroutine runs the real decoder against the pipe's read side,
// translating decoded output back into the chunks BuildInum's
// TranscodeFunc expects. This is the standard way to turn a library
// built for io.Reader into something that can be driven chunk by
// chunk, instead of re-implementing each codec's framing by hand.
//
// If chain is non-nil, it is registered with a Tell handler reporting
// the number of decoded output bytes produced so far — the position a
// request travelling outward from a terminal iteratee would see at
// this stage of a fused pipeline, per §4.7.
func PipeInum[A any](newDecoder NewDecoder, outBuf int, chain *ctl.Chain) enum.Inum[chunk.Bytes, chunk.Bytes, A] {
	pr, pw := io.Pipe()
	var tellPos atomic.Int64
	if chain != nil {
		chain.Register(ctl.HandleTell(func() int64 { return tellPos.Load() }))
	}

	type result struct {
		data []byte
		err  error
	}
	out := make(chan result, 4)

	var once sync.Once
	start := func() {
		once.Do(func() {
			go func() {
				dec, err := newDecoder(pr)
				if err != nil {
					out <- result{err: err}
					close(out)
					_ = pr.CloseWithError(err)
					return
				}
				buf := make([]byte, outBuf)
				for {
					n, err := dec.Read(buf)
					if n > 0 {
						cp := make([]byte, n)
						copy(cp, buf[:n])
						out <- result{data: cp}
					}
					if err != nil {
						if err != io.EOF {
							out <- result{err: err}
						}
						close(out)
						return
					}
				}
			}()
		})
	}

	step := func(c chunk.Chunk[chunk.Bytes]) (chunk.Bytes, error) {
		start()
		if len(c.Data) > 0 {
			if _, err := pw.Write(c.Data); err != nil {
				return nil, err
			}
		}
		if c.EOF {
			_ = pw.Close()
		}
		var produced chunk.Bytes
		for {
			select {
			case r, ok := <-out:
				if !ok {
					return produced, nil
				}
				if r.err != nil {
					return nil, r.err
				}
				produced = produced.Append(r.data)
				tellPos.Add(int64(len(r.data)))
				// keep draining: out is bounded (cap 4), so returning
				// after a single item can leave the decoder goroutine
				// blocked mid-send, which deadlocks the next Write.
			default:
				if !c.EOF {
					return produced, nil
				}
				// EOF was already signaled to the pipe; block for the
				// decoder goroutine to finish draining its output.
				r, ok := <-out
				if !ok {
					return produced, nil
				}
				if r.err != nil {
					return nil, r.err
				}
				produced = produced.Append(r.data)
				tellPos.Add(int64(len(r.data)))
			}
		}
	}

	return enum.BuildInum[chunk.Bytes, chunk.Bytes, A](step)
}
