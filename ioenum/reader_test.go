package ioenum

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/ctl"
	"github.com/everyday-items/iterio/enum"
	"github.com/everyday-items/iterio/iter"
)

func collectAll() iter.Iter[chunk.Bytes, chunk.Bytes] {
	return loop(chunk.Bytes(""))
}

func loop(acc chunk.Bytes) iter.Iter[chunk.Bytes, chunk.Bytes] {
	return iter.NeedInput(func(c chunk.Chunk[chunk.Bytes]) iter.Iter[chunk.Bytes, chunk.Bytes] {
		next := acc.Append(c.Data)
		if c.EOF {
			return iter.DoneWith[chunk.Bytes, chunk.Bytes](next, chunk.Empty[chunk.Bytes]())
		}
		return loop(next)
	})
}

func TestEnumReaderReadsInChunks(t *testing.T) {
	r := strings.NewReader("hello, iterio")
	onum := EnumReader[chunk.Bytes](r, 4)
	got, err := enum.Run(onum, collectAll())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "hello, iterio" {
		t.Fatalf("got %q", got)
	}
}

func TestEnumFileReadsAndClosesOnSuccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(path, []byte("file contents"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	got, err := enum.Run(EnumFile[chunk.Bytes](path, 5, nil), collectAll())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "file contents" {
		t.Fatalf("got %q", got)
	}
}

func TestCtlFileAnswersSizeAndTellWhileOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(path, []byte("file contents"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer f.Close()

	chain := CtlFile(f)
	resp, ok := chain.Dispatch(ctl.Size{})
	if !ok || resp.(int64) != int64(len("file contents")) {
		t.Fatalf("expected Size to answer with file length, got %v %v", resp, ok)
	}

	if _, err := f.Seek(3, io.SeekStart); err != nil {
		t.Fatalf("setup: %v", err)
	}
	resp, ok = chain.Dispatch(ctl.Tell{})
	if !ok || resp.(int64) != 3 {
		t.Fatalf("expected Tell to report offset 3, got %v %v", resp, ok)
	}
}

func TestEnumFileFailsCleanlyOnMissingPath(t *testing.T) {
	_, err := RunFile[chunk.Bytes](filepath.Join(t.TempDir(), "missing.txt"), collectAll())
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
