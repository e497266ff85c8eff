// Package ioenum wires the core Onum/Inum algebra to concrete file and
// reader sources (§4.1's "Onum of a file" example, generalized): it
// turns an io.Reader into an Onum of chunk.Bytes, and a file path into
// a Bracket-managed Onum that also answers the ctl channel's Size,
// Seek, and Tell requests (GetSocket is passed on unanswered).
package ioenum

import (
	"errors"
	"io"
	"os"

	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/ctl"
	"github.com/everyday-items/iterio/enum"
	"github.com/everyday-items/iterio/iter"
)

// DefaultChunkSize is how much EnumReader reads per underlying Read
// call when no size is given.
const DefaultChunkSize = 32 * 1024

// EnumReader builds an Onum that pulls chunkSize-sized reads from r
// until io.EOF. A non-EOF read error is reported as an EnumOFail
// (§4.2: the enumerator's own source failed, not the iteratee).
func EnumReader[A any](r io.Reader, chunkSize int) enum.Onum[chunk.Bytes, A] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	var pending error
	src := enum.SourceFunc[chunk.Bytes](func() (chunk.Bytes, bool, error) {
		if pending != nil {
			err := pending
			pending = nil
			if errors.Is(err, io.EOF) {
				return chunk.Bytes(""), false, io.EOF
			}
			return chunk.Bytes(""), false, err
		}
		buf := make([]byte, chunkSize)
		n, err := r.Read(buf)
		if n > 0 {
			// io.Reader may legally return (n>0, err) in the same call;
			// the bytes already read are real and must be delivered, so
			// stash err and surface it on the next call instead.
			pending = err
			return chunk.Bytes(buf[:n]), false, nil
		}
		if errors.Is(err, io.EOF) {
			return chunk.Bytes(""), false, io.EOF
		}
		return chunk.Bytes(""), false, err
	})
	return enum.BuildOnum[chunk.Bytes, A](src)
}

// CtlFile pairs ctl handlers with an *os.File: Size (via Stat), Tell
// and Seek (via the file's own offset), and GetSocket (always passes
// through — a plain file is not a socket).
func CtlFile(f *os.File) *ctl.Chain {
	var c ctl.Chain
	c.Register(func(req ctl.Request) (ctl.Response, bool) {
		if _, ok := req.(ctl.Size); !ok {
			return nil, false
		}
		info, err := f.Stat()
		if err != nil {
			return nil, false
		}
		return info.Size(), true
	})
	c.Register(ctl.HandleTell(func() int64 {
		pos, err := f.Seek(0, io.SeekCurrent)
		if err != nil {
			return -1
		}
		return pos
	}))
	c.Register(ctl.HandleSeek(func() {}, func(offset int64) error {
		_, err := f.Seek(offset, io.SeekStart)
		return err
	}))
	return &c
}

// EnumFile opens path, builds an Onum of chunk.Bytes over it via
// EnumReader, and wraps the whole thing in enum.Bracket so the file is
// always closed — on success, on iteratee failure, and on a source
// read failure alike. chain, if non-nil, is populated with ctl
// handlers bound to the opened file once it is available.
func EnumFile[A any](path string, chunkSize int, chain *ctl.Chain) enum.Onum[chunk.Bytes, A] {
	return enum.Bracket[chunk.Bytes, A, *os.File](
		func() (*os.File, error) { return os.Open(path) },
		func(f *os.File) error { return f.Close() },
		func(f *os.File) enum.Onum[chunk.Bytes, A] {
			if chain != nil {
				*chain = *CtlFile(f)
			}
			return EnumReader[A](f, chunkSize)
		},
	)
}

// RunFile is the common case: open path, drive it, with the default
// iteratee it.
func RunFile[A any](path string, it iter.Iter[chunk.Bytes, A]) (A, error) {
	return enum.Run(EnumFile[A](path, DefaultChunkSize, nil), it)
}
