// Package taskenum adapts a byte stream into an Asynq task queue. It
// is the spec's "concrete byte-level iteratees" idea aimed at a
// message queue instead of a file: each newline-delimited record
// becomes one enqueued task.
package taskenum

import (
	"bytes"
	"context"

	"github.com/hibiken/asynq"

	"github.com/everyday-items/iterio/chunk"
	"github.com/everyday-items/iterio/ierrors"
	"github.com/everyday-items/iterio/iter"
	"github.com/everyday-items/iterio/util/idgen"
)

// DedupOption returns an asynq.Option that assigns a task a random ID
// via the teacher's own util/idgen UUID generator. The ID is drawn once,
// when DedupOption is called, so every task enqueued with the returned
// option carries that same ID; asynq rejects an enqueue under an ID
// while an earlier task with that ID is still in the queue.
func DedupOption() asynq.Option {
	return asynq.TaskID(idgen.UUID())
}

// Enqueuer is the subset of *asynq.Client that AsynqSink needs, so
// tests can substitute a fake instead of dialing a real broker.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqSink enqueues one task per newline-delimited line of the
// incoming byte stream, under taskType with the line as the task's
// payload. Each Done immediately yields the enqueued task's
// *asynq.TaskInfo and hands back the rest of the stream as residual —
// the same "one unit, then residual" shape as lineio.LineIter — so a
// producer failure upstream can resume feeding this same sink with a
// fresh source and pick up where it left off.
func AsynqSink(ctx context.Context, client Enqueuer, taskType string, opts ...asynq.Option) iter.Iter[chunk.Bytes, *asynq.TaskInfo] {
	return sinkLine(ctx, client, taskType, opts, chunk.Bytes(nil))
}

func sinkLine(ctx context.Context, client Enqueuer, taskType string, opts []asynq.Option, acc chunk.Bytes) iter.Iter[chunk.Bytes, *asynq.TaskInfo] {
	return iter.NeedInput(func(c chunk.Chunk[chunk.Bytes]) iter.Iter[chunk.Bytes, *asynq.TaskInfo] {
		next := acc.Append(c.Data)
		if i := bytes.IndexByte(next, '\n'); i >= 0 {
			residual := chunk.Chunk[chunk.Bytes]{Data: append(chunk.Bytes(nil), next[i+1:]...)}
			return enqueueAndDone(ctx, client, taskType, opts, next[:i], residual)
		}
		if c.EOF {
			if len(next) == 0 {
				return iter.Throw[chunk.Bytes, *asynq.TaskInfo](ierrors.WrapEOF(nil))
			}
			return enqueueAndDone(ctx, client, taskType, opts, next, chunk.Empty[chunk.Bytes]())
		}
		return sinkLine(ctx, client, taskType, opts, next)
	})
}

func enqueueAndDone(ctx context.Context, client Enqueuer, taskType string, opts []asynq.Option, payload chunk.Bytes, residual chunk.Chunk[chunk.Bytes]) iter.Iter[chunk.Bytes, *asynq.TaskInfo] {
	info, err := client.EnqueueContext(ctx, asynq.NewTask(taskType, payload, opts...))
	if err != nil {
		return iter.Throw[chunk.Bytes, *asynq.TaskInfo](err)
	}
	return iter.DoneWith[chunk.Bytes, *asynq.TaskInfo](info, residual)
}

type taskResult struct {
	info *asynq.TaskInfo
	err  error
}

func asTaskResult(it iter.Iter[chunk.Bytes, *asynq.TaskInfo]) iter.Iter[chunk.Bytes, taskResult] {
	switch it.Kind() {
	case iter.KindNeedInput:
		captured := it
		return iter.NeedInput(func(c chunk.Chunk[chunk.Bytes]) iter.Iter[chunk.Bytes, taskResult] {
			return asTaskResult(iter.Step(captured, c))
		})
	case iter.KindDone:
		return iter.DoneWith[chunk.Bytes, taskResult](taskResult{info: it.Value()}, it.Residual())
	default:
		return iter.Return[chunk.Bytes, taskResult](taskResult{err: it.Err()})
	}
}

// AllTasks drives AsynqSink to completion, enqueuing every line as a
// separate task and collecting every resulting *asynq.TaskInfo.
func AllTasks(ctx context.Context, client Enqueuer, taskType string, opts ...asynq.Option) iter.Iter[chunk.Bytes, []*asynq.TaskInfo] {
	return allTasks(ctx, client, taskType, opts, nil)
}

func allTasks(ctx context.Context, client Enqueuer, taskType string, opts []asynq.Option, acc []*asynq.TaskInfo) iter.Iter[chunk.Bytes, []*asynq.TaskInfo] {
	return iter.Bind(asTaskResult(AsynqSink(ctx, client, taskType, opts...)), func(r taskResult) iter.Iter[chunk.Bytes, []*asynq.TaskInfo] {
		if r.err != nil {
			if ierrors.IsEOFErr(r.err) {
				return iter.Return[chunk.Bytes, []*asynq.TaskInfo](acc)
			}
			return iter.Throw[chunk.Bytes, []*asynq.TaskInfo](r.err)
		}
		return allTasks(ctx, client, taskType, opts, append(acc, r.info))
	})
}
