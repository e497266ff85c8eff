package diag

import (
	"errors"
	"testing"
)

func TestReportSkipsNilError(t *testing.T) {
	sink := New(nil)
	sink.Report(nil) // must not panic or log anything
}

func TestReportWithErrorDoesNotPanic(t *testing.T) {
	sink := New(nil)
	sink.Report(errors.New("boom"))
}

func TestWithStageTagsSubsequentReports(t *testing.T) {
	sink := New(nil).WithStage("gzip-inum")
	if sink.tag != "gzip-inum" {
		t.Fatalf("expected tag to be set, got %q", sink.tag)
	}
	base := New(nil)
	if base.tag != "" {
		t.Fatalf("New must not set a stage tag by default")
	}
}

func TestWithContextPreservesLoggerAndTag(t *testing.T) {
	sink := New(nil).WithStage("s3-source")
	withCtx := sink.WithContext(sink.ctx)
	if withCtx.tag != "s3-source" {
		t.Fatalf("WithContext must preserve the stage tag, got %q", withCtx.tag)
	}
	if withCtx.l != sink.l {
		t.Fatal("WithContext must preserve the underlying logger")
	}
}
