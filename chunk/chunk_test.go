package chunk

import "testing"

func TestAppendNonEOF(t *testing.T) {
	a := Of[Bytes]([]byte("ab"))
	b := Of[Bytes]([]byte("cd"))
	got := Append(a, b)
	if string(got.Data) != "abcd" || got.EOF {
		t.Fatalf("got %+v", got)
	}
}

func TestAppendAdoptsRightEOF(t *testing.T) {
	a := Of[Bytes]([]byte("ab"))
	b := OfEOF[Bytes]([]byte("cd"))
	got := Append(a, b)
	if string(got.Data) != "abcd" || !got.EOF {
		t.Fatalf("got %+v", got)
	}
}

func TestAppendPureEOFAbsorbs(t *testing.T) {
	a := EOFChunk[Bytes]()
	b := Of[Bytes]([]byte("more"))
	got := Append(a, b)
	if !got.Data.Null() || !got.EOF {
		t.Fatalf("expected pure EOF chunk to absorb, got %+v", got)
	}
}

func TestAppendEmptyAfterTerminalIsNoop(t *testing.T) {
	a := OfEOF[Bytes]([]byte("tail"))
	b := Empty[Bytes]()
	got := Append(a, b)
	if string(got.Data) != "tail" || !got.EOF {
		t.Fatalf("got %+v", got)
	}
}

func TestAppendNonEmptyAfterTerminalPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic appending non-empty data after terminal EOF chunk")
		}
	}()
	a := OfEOF[Bytes]([]byte("tail"))
	b := Of[Bytes]([]byte("oops"))
	Append(a, b)
}

func TestEOFIdempotence(t *testing.T) {
	a := Of[Bytes]([]byte("x"))
	once := Append(a, EOFChunk[Bytes]())
	twice := Append(once, EOFChunk[Bytes]())
	if string(once.Data) != string(twice.Data) || once.EOF != twice.EOF {
		t.Fatalf("EOF is not idempotent: %+v vs %+v", once, twice)
	}
}
