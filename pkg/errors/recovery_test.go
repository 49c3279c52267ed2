package errors

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestRecover_ReportDirFallback(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())
	var out bytes.Buffer
	r := NewRecoverer(&out, true)

	err := New(ErrReportWrite, "cannot save report").WithContext("dir", "/proc/nope")
	if rec := r.Recover(err); rec != nil {
		t.Fatalf("expected recovery to succeed, got %v", rec)
	}
	dir := err.Context["fallback_dir"]
	if dir == "" {
		t.Fatal("expected fallback_dir in context")
	}
	if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
		t.Fatalf("fallback directory not created: %v", statErr)
	}
	if !strings.Contains(out.String(), "Recovery successful") {
		t.Errorf("expected progress output, got %q", out.String())
	}

	// A second failure with the fallback already in use is not recoverable.
	if rec := r.Recover(err); rec == nil {
		t.Fatal("expected recovery to be refused once the fallback was used")
	}
}

func TestRecover_NotRecoverable(t *testing.T) {
	r := NewRecoverer(&bytes.Buffer{}, false)
	err := New(ErrInvalidConfig, "bad config")
	if rec := r.Recover(err); rec != err {
		t.Fatalf("expected original error, got %v", rec)
	}
}
