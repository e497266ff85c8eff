package iter

import (
	"errors"
	"testing"

	"github.com/everyday-items/iterio/chunk"
)

func TestLawReturnBind(t *testing.T) {
	k := func(a int) Iter[chunk.Bytes, int] { return Return[chunk.Bytes, int](a + 1) }
	lhs := Bind(Return[chunk.Bytes, int](41), k)
	got, err := Run(lhs)
	if err != nil || got != 42 {
		t.Fatalf("return a >>= k != k a: got=%d err=%v", got, err)
	}
}

func TestLawBindReturn(t *testing.T) {
	base := Return[chunk.Bytes, int](7)
	bound := Bind(base, func(a int) Iter[chunk.Bytes, int] { return Return[chunk.Bytes, int](a) })
	got, err := Run(bound)
	if err != nil || got != 7 {
		t.Fatalf("i >>= return != i: got=%d err=%v", got, err)
	}
}

func TestLawAssociativity(t *testing.T) {
	f := func(a int) Iter[chunk.Bytes, int] { return Return[chunk.Bytes, int](a * 2) }
	g := func(a int) Iter[chunk.Bytes, int] { return Return[chunk.Bytes, int](a + 3) }

	lhs := Bind(Bind(Return[chunk.Bytes, int](5), f), g)
	rhs := Bind(Return[chunk.Bytes, int](5), func(a int) Iter[chunk.Bytes, int] { return Bind(f(a), g) })

	l, _ := Run(lhs)
	r, _ := Run(rhs)
	if l != r {
		t.Fatalf("bind is not associative: %d vs %d", l, r)
	}
}

func TestStepDoneAppendsResidual(t *testing.T) {
	d := DoneWith[chunk.Bytes, int](1, chunk.Of[chunk.Bytes]([]byte("a")))
	stepped := Step(d, chunk.Of[chunk.Bytes]([]byte("b")))
	if string(stepped.Residual().Data) != "ab" {
		t.Fatalf("got residual %q", stepped.Residual().Data)
	}
}

func TestStepFailureIsNoop(t *testing.T) {
	f := Throw[chunk.Bytes, int](errors.New("boom"))
	stepped := Step(f, chunk.Of[chunk.Bytes]([]byte("x")))
	if stepped.Kind() != KindIterFail || stepped.Err().Error() != "boom" {
		t.Fatalf("stepping a failure must be a no-op, got %+v", stepped)
	}
}

func TestEOFIdempotenceOnDone(t *testing.T) {
	d := DoneWith[chunk.Bytes, int](1, chunk.Of[chunk.Bytes]([]byte("x")))
	once := Step(d, chunk.EOFChunk[chunk.Bytes]())
	twice := Step(once, chunk.EOFChunk[chunk.Bytes]())
	if string(once.Residual().Data) != string(twice.Residual().Data) || once.Residual().EOF != twice.Residual().EOF {
		t.Fatalf("EOF not idempotent: %+v vs %+v", once.Residual(), twice.Residual())
	}
}

func TestNeedInputMustNotPersistAfterEOF(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic: NeedInput persisting after EOF chunk")
		}
	}()
	bad := NeedInput(func(chunk.Chunk[chunk.Bytes]) Iter[chunk.Bytes, int] {
		return NeedInput(func(chunk.Chunk[chunk.Bytes]) Iter[chunk.Bytes, int] { return Return[chunk.Bytes, int](0) })
	})
	Step(bad, chunk.EOFChunk[chunk.Bytes]())
}

func TestCatchIRecoversEnumOFail(t *testing.T) {
	sentinel := errors.New("producer down")
	live := NeedInput(func(chunk.Chunk[chunk.Bytes]) Iter[chunk.Bytes, int] { return Return[chunk.Bytes, int](99) })
	failing := WrapEnumOFail(sentinel, live)

	caught := CatchI(failing, func(e error, f Iter[chunk.Bytes, int]) Iter[chunk.Bytes, int] {
		if f.Kind() != KindEnumOFail {
			t.Fatalf("handler expected EnumOFail, got %s", f.Kind())
		}
		return *f.Inner()
	})
	got, err := Run(caught)
	if err != nil || got != 99 {
		t.Fatalf("catchI did not recover inner iter: got=%d err=%v", got, err)
	}
}

func TestResumeHandsBackInner(t *testing.T) {
	live := Return[chunk.Bytes, int](5)
	failing := WrapEnumIFail[chunk.Bytes, int](errors.New("x"), live)
	resumed := Resume(failing)
	if resumed.Kind() != KindDone {
		t.Fatalf("resume should hand back the live inner iter, got %s", resumed.Kind())
	}
}

type recordingSink struct{ reported []error }

func (s *recordingSink) Report(err error) { s.reported = append(s.reported, err) }

func TestVerboseResumeReportsThenResumes(t *testing.T) {
	sink := &recordingSink{}
	failing := WrapEnumOFail[chunk.Bytes, int](errors.New("oops"), Return[chunk.Bytes, int](1))
	resumed := VerboseResume(failing, sink)
	if len(sink.reported) != 1 {
		t.Fatalf("expected exactly one diagnostic report, got %d", len(sink.reported))
	}
	if resumed.Kind() != KindDone {
		t.Fatalf("expected resumed iter to be Done, got %s", resumed.Kind())
	}
}
