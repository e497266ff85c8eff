package codec

import (
	"io"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/pierrec/lz4/v4"

	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/ctl"
	"github.com/everyday-items/iterio/enum"
)

const defaultOutBuf = 32 * 1024

// GzipInum decompresses a gzip byte stream. Per the note in enum's
// DESIGN entry on Go's lack of rank-2 polymorphism, this — like every
// codec constructor here — is a generic function instantiated at each
// fusion call site, not a value stored already polymorphic in A. chain
// may be nil; if not, it's populated the way PipeInum documents.
func GzipInum[A any](chain *ctl.Chain) enum.Inum[chunk.Bytes, chunk.Bytes, A] {
	return PipeInum[A](func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) }, defaultOutBuf, chain)
}

// ZlibInum decompresses a zlib byte stream.
func ZlibInum[A any](chain *ctl.Chain) enum.Inum[chunk.Bytes, chunk.Bytes, A] {
	return PipeInum[A](func(r io.Reader) (io.Reader, error) { return zlib.NewReader(r) }, defaultOutBuf, chain)
}

// BrotliInum decompresses a brotli byte stream.
func BrotliInum[A any](chain *ctl.Chain) enum.Inum[chunk.Bytes, chunk.Bytes, A] {
	return PipeInum[A](func(r io.Reader) (io.Reader, error) { return brotli.NewReader(r), nil }, defaultOutBuf, chain)
}

// SnappyInum decompresses a snappy-framed byte stream.
func SnappyInum[A any](chain *ctl.Chain) enum.Inum[chunk.Bytes, chunk.Bytes, A] {
	return PipeInum[A](func(r io.Reader) (io.Reader, error) { return snappy.NewReader(r), nil }, defaultOutBuf, chain)
}

// LZ4Inum decompresses an lz4-framed byte stream.
func LZ4Inum[A any](chain *ctl.Chain) enum.Inum[chunk.Bytes, chunk.Bytes, A] {
	return PipeInum[A](func(r io.Reader) (io.Reader, error) { return lz4.NewReader(r), nil }, defaultOutBuf, chain)
}
