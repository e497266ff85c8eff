package codec

import (
	"hash"

	"golang.org/x/crypto/blake2b"

	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/ctl"
	"github.com/everyday-items/iterio/enum"
)

// ChecksumInum passes every byte straight through unchanged while
// feeding it into a running blake2b-256 hash; onDigest is called
// exactly once, with the final digest, the moment the terminal EOF
// chunk is transcoded — before that chunk is flushed downstream. If
// chain is non-nil, it's registered with a Tell handler reporting the
// number of bytes hashed (== passed through) so far, the same §4.7
// propagation contract PipeInum documents.
func ChecksumInum[A any](onDigest func(digest [32]byte), chain *ctl.Chain) enum.Inum[chunk.Bytes, chunk.Bytes, A] {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only fails for a bad key length, and nil is
		// always a valid (keyless) key.
		panic("iterio/codec: blake2b.New256(nil) unexpectedly failed: " + err.Error())
	}
	var tellPos int64
	if chain != nil {
		chain.Register(ctl.HandleTell(func() int64 { return tellPos }))
	}
	return enum.BuildInum[chunk.Bytes, chunk.Bytes, A](checksumStep(h, onDigest, &tellPos))
}

func checksumStep(h hash.Hash, onDigest func(digest [32]byte), tellPos *int64) func(chunk.Chunk[chunk.Bytes]) (chunk.Bytes, error) {
	return func(c chunk.Chunk[chunk.Bytes]) (chunk.Bytes, error) {
		if len(c.Data) > 0 {
			h.Write(c.Data)
			*tellPos += int64(len(c.Data))
		}
		if c.EOF {
			var digest [32]byte
			copy(digest[:], h.Sum(nil))
			onDigest(digest)
		}
		return c.Data, nil
	}
}
