// Command iterio-demo wires the library's pieces into one small
// pipeline: it enumerates a file (gunzipping it first if the name
// ends in .gz), counts its lines and bytes, and reports a BLAKE2b
// checksum of the decompressed content — exercising ioenum, codec,
// lineio, ctl, and diag together the way a real caller would.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/codec"
	"github.com/everyday-items/iterio/ctl"
	"github.com/everyday-items/iterio/diag"
	"github.com/everyday-items/iterio/enum"
	"github.com/everyday-items/iterio/ierrors"
	"github.com/everyday-items/iterio/ioenum"
	"github.com/everyday-items/iterio/iter"
	"github.com/everyday-items/iterio/lineio"
	"github.com/everyday-items/iterio/util/logger"
)

func main() {
	flag.Parse()
	path := flag.Arg(0)
	if path == "" {
		fmt.Fprintln(os.Stderr, "usage: iterio-demo <path>")
		os.Exit(2)
	}

	report := diag.New(logger.Default()).WithContext(context.Background()).WithStage("demo")

	if err := run(path, report); err != nil {
		fmt.Fprintln(os.Stderr, "iterio-demo:", err)
		os.Exit(1)
	}
}

func run(path string, report *diag.Logger) error {
	var fileChain, chain ctl.Chain
	var digest [32]byte

	source := ioenum.EnumFile[countResult](path, ioenum.DefaultChunkSize, &fileChain)
	terminal := fuseCodecs(path, countingIter(), &digest, &chain)
	chain.Forward(&fileChain)

	result, err := enum.Run(source, terminal)
	if err != nil {
		report.Report(err)
		return err
	}

	if size, ok := chain.Dispatch(ctl.Size{}); ok {
		fmt.Printf("source size: %v bytes\n", size)
	}
	if pos, ok := chain.Dispatch(ctl.Tell{}); ok {
		fmt.Printf("decoded position: %v bytes\n", pos)
	}
	fmt.Printf("lines: %d\n", result.lines)
	fmt.Printf("bytes: %d\n", result.bytes)
	fmt.Printf("blake2b-256: %x\n", digest)
	return nil
}

// fuseCodecs builds the Iter[chunk.Bytes, countResult] EnumFile actually
// drives: a checksum pass over the raw bytes, gunzipping first when the
// path says the source is compressed. Each codec stage's own control
// chain is registered into chain in outward order — checksum (nearest
// the terminal iteratee) before gzip — matching §4.7's "travels
// outward through any number of enumerators" rule; the caller chains
// the file's own chain in last, after every codec stage.
func fuseCodecs(path string, terminal iter.Iter[chunk.Bytes, countResult], digest *[32]byte, chain *ctl.Chain) iter.Iter[chunk.Bytes, countResult] {
	var checksumChain ctl.Chain
	checksummed := enum.FuseInnerIter(
		codec.ChecksumInum[countResult](func(d [32]byte) { *digest = d }, &checksumChain), &checksumChain,
		terminal, chain,
	)
	if !strings.HasSuffix(path, ".gz") {
		return checksummed
	}
	var gzipChain ctl.Chain
	return enum.FuseInnerIter(codec.GzipInum[countResult](&gzipChain), &gzipChain, checksummed, chain)
}

type countResult struct {
	lines int
	bytes int64
}

// countingIter drains the byte stream one line at a time via
// lineio.LineIter, tallying lines and bytes: each line counts its own
// length plus one newline byte, including a final line that had no
// newline.
func countingIter() iter.Iter[chunk.Bytes, countResult] {
	return countLoop(countResult{})
}

func countLoop(acc countResult) iter.Iter[chunk.Bytes, countResult] {
	return iter.Bind(asLineResult(lineio.LineIter()), func(r lineAttempt) iter.Iter[chunk.Bytes, countResult] {
		if r.err != nil {
			if ierrors.IsEOFErr(r.err) {
				return iter.Return[chunk.Bytes, countResult](acc)
			}
			return iter.Throw[chunk.Bytes, countResult](r.err)
		}
		acc.lines++
		acc.bytes += int64(len(r.line)) + 1
		return countLoop(acc)
	})
}

type lineAttempt struct {
	line chunk.Bytes
	err  error
}

func asLineResult(it iter.Iter[chunk.Bytes, chunk.Bytes]) iter.Iter[chunk.Bytes, lineAttempt] {
	switch it.Kind() {
	case iter.KindNeedInput:
		captured := it
		return iter.NeedInput(func(c chunk.Chunk[chunk.Bytes]) iter.Iter[chunk.Bytes, lineAttempt] {
			return asLineResult(iter.Step(captured, c))
		})
	case iter.KindDone:
		return iter.DoneWith[chunk.Bytes, lineAttempt](lineAttempt{line: it.Value()}, it.Residual())
	default:
		return iter.Return[chunk.Bytes, lineAttempt](lineAttempt{err: it.Err()})
	}
}
