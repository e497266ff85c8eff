// Package diag implements the ambient diagnostic sink verboseResumeI
// reports to before resuming (§7): a thin log/slog wrapper in the
// teacher's own util/logger idiom, scoped down to the one method iter.
// DiagSink needs.
package diag

import (
	"context"
	"log/slog"

	"github.com/everyday-items/iterio/util/logger"
)

// Logger adapts *logger.Logger to iter.DiagSink, logging each resumed
// failure at warn level with the error text and, when one was set via
// WithStage, a pipeline stage tag for correlating which enumerator's failure was
// swallowed.
type Logger struct {
	l   *logger.Logger
	ctx context.Context
	tag string
}

// New wraps l as a DiagSink. A nil l falls back to logger.Default().
func New(l *logger.Logger) *Logger {
	if l == nil {
		l = logger.Default()
	}
	return &Logger{l: l, ctx: context.Background()}
}

// WithContext returns a copy of d that logs via ctx (propagating
// trace/request-scoped slog attributes the way *logger.Logger.
// *Context methods already support).
func (d *Logger) WithContext(ctx context.Context) *Logger {
	return &Logger{l: d.l, ctx: ctx, tag: d.tag}
}

// WithStage tags subsequent Report calls with a pipeline stage name,
// e.g. the Inum that failed.
func (d *Logger) WithStage(tag string) *Logger {
	return &Logger{l: d.l, ctx: d.ctx, tag: tag}
}

// Report logs err at warn level — VerboseResume calls this immediately
// before discarding the failure and resuming with the surviving Iter.
func (d *Logger) Report(err error) {
	if err == nil {
		return
	}
	if d.tag != "" {
		d.l.WarnContext(d.ctx, "iterio: resuming after enumerator failure", slog.String("stage", d.tag), slog.Any("error", err))
		return
	}
	d.l.WarnContext(d.ctx, "iterio: resuming after enumerator failure", slog.Any("error", err))
}
