package codec

import (
	"bytes"
	"encoding/json"

	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/enum"
)

// JSONLinesInum validates and re-normalizes a newline-delimited JSON
// stream: each complete line is decoded and re-marshaled compactly
// (dropping insignificant whitespace), blank lines are skipped — the
// same "skip empty lines" leniency as the teacher's own NDJSONDecoder —
// and a malformed line fails the Inum outright.
func JSONLinesInum[A any]() enum.Inum[chunk.Bytes, chunk.Strs, A] {
	var pending []byte
	return enum.BuildInum[chunk.Bytes, chunk.Strs, A](func(c chunk.Chunk[chunk.Bytes]) (chunk.Strs, error) {
		pending = append(pending, c.Data...)
		var out chunk.Strs
		for {
			i := bytes.IndexByte(pending, '\n')
			if i < 0 {
				break
			}
			line := pending[:i]
			pending = pending[i+1:]
			if s, ok, err := normalizeLine(line); err != nil {
				return nil, err
			} else if ok {
				out = append(out, s)
			}
		}
		if c.EOF {
			if s, ok, err := normalizeLine(pending); err != nil {
				return nil, err
			} else if ok {
				out = append(out, s)
			}
			pending = nil
		}
		return out, nil
	})
}

func normalizeLine(line []byte) (string, bool, error) {
	if len(bytes.TrimSpace(line)) == 0 {
		return "", false, nil
	}
	var v any
	if err := json.Unmarshal(line, &v); err != nil {
		return "", false, err
	}
	normalized, err := json.Marshal(v)
	if err != nil {
		return "", false, err
	}
	return string(normalized), true, nil
}
