package taskenum

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"

	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/iter"
)

type fakeEnqueuer struct {
	enqueued []string
	failOn   int
	err      error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.failOn >= 0 && len(f.enqueued) == f.failOn {
		return nil, f.err
	}
	f.enqueued = append(f.enqueued, string(task.Payload()))
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func TestAsynqSinkEnqueuesOneTaskPerLine(t *testing.T) {
	client := &fakeEnqueuer{failOn: -1}
	it := AllTasks(context.Background(), client, "demo:line")

	it = iter.Step(it, chunk.Of(chunk.Bytes("one\ntwo\n")))
	it = iter.Step(it, chunk.OfEOF(chunk.Bytes("three")))

	infos, err := iter.Run(it)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("got %d task infos, want 3", len(infos))
	}
	if len(client.enqueued) != 3 || client.enqueued[0] != "one" || client.enqueued[1] != "two" || client.enqueued[2] != "three" {
		t.Fatalf("got %v", client.enqueued)
	}
}

func TestAsynqSinkFailsWhenEnqueueErrors(t *testing.T) {
	boom := errors.New("broker unreachable")
	client := &fakeEnqueuer{failOn: 1, err: boom}
	it := AllTasks(context.Background(), client, "demo:line")

	it = iter.Step(it, chunk.OfEOF(chunk.Bytes("one\ntwo")))

	_, err := iter.Run(it)
	if !errors.Is(err, boom) {
		t.Fatalf("expected broker error, got %v", err)
	}
	if len(client.enqueued) != 1 {
		t.Fatalf("expected exactly one task enqueued before the failure, got %d", len(client.enqueued))
	}
}

func TestAsynqSinkSucceedsOnEmptyStream(t *testing.T) {
	client := &fakeEnqueuer{failOn: -1}
	it := AllTasks(context.Background(), client, "demo:line")
	it = iter.Step(it, chunk.EOFChunk[chunk.Bytes]())

	infos, err := iter.Run(it)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("got %d task infos, want 0", len(infos))
	}
}
