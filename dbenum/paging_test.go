package dbenum

import (
	"errors"
	"io"
	"testing"
)

func fakeRowFunc(rows []Row, finalErr error) RowFunc {
	i := 0
	return func() (Row, error) {
		if i >= len(rows) {
			if finalErr != nil {
				return nil, finalErr
			}
			return nil, io.EOF
		}
		r := rows[i]
		i++
		return r, nil
	}
}

func TestPageRowsBatchesUpToBatchSize(t *testing.T) {
	rows := []Row{{"id": 1}, {"id": 2}, {"id": 3}, {"id": 4}, {"id": 5}}
	src := PageRows(fakeRowFunc(rows, nil), 2)

	var got Rows
	for {
		batch, _, err := src()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatalf("unexpected error: %v", err)
		}
		got = got.Append(batch)
	}
	if len(got) != 5 {
		t.Fatalf("got %d rows, want 5", len(got))
	}
	for i, r := range got {
		if r["id"] != i+1 {
			t.Fatalf("row %d: got %v", i, r)
		}
	}
}

func TestPageRowsDeliversPartialBatchBeforeSurfacingError(t *testing.T) {
	boom := errors.New("boom")
	rows := []Row{{"id": 1}, {"id": 2}}
	src := PageRows(fakeRowFunc(rows, boom), 5)

	batch, done, err := src()
	if err != nil {
		t.Fatalf("unexpected error on first pull: %v", err)
	}
	if done {
		t.Fatal("did not expect done on a partial batch")
	}
	if len(batch) != 2 {
		t.Fatalf("got %d rows, want 2", len(batch))
	}

	if _, _, err := src(); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestPageRowsSurfacesImmediateErrorWithEmptyBatch(t *testing.T) {
	boom := errors.New("boom")
	src := PageRows(fakeRowFunc(nil, boom), 5)

	if _, _, err := src(); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestPageRowsReturnsEOFWhenSourceIsEmpty(t *testing.T) {
	src := PageRows(fakeRowFunc(nil, nil), 5)
	if _, _, err := src(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestPageRowsDefaultsNonPositiveBatchSizeToOne(t *testing.T) {
	rows := []Row{{"id": 1}, {"id": 2}}
	src := PageRows(fakeRowFunc(rows, nil), 0)

	batch, _, err := src()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("expected a single-row batch, got %d", len(batch))
	}
}

func TestRowsAppendConcatenatesWithoutMutatingReceiver(t *testing.T) {
	var r Rows
	if !r.Null() {
		t.Fatal("expected zero-value Rows to be Null")
	}
	r = r.Append(Rows{{"a": 1}})
	if r.Null() {
		t.Fatal("expected non-empty Rows to not be Null")
	}
	r2 := r.Append(Rows{{"b": 2}})
	if len(r2) != 2 {
		t.Fatalf("got %d", len(r2))
	}
	if len(r) != 1 {
		t.Fatal("Append must not mutate its receiver")
	}
}
