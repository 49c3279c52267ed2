package cli

import (
	"bytes"
	stdErrors "errors"
	"strings"
	"testing"

	e "clearcrash/pkg/errors"
)

func TestErrorHandler_DisplayError(t *testing.T) {
	var out bytes.Buffer
	h := NewErrorHandler(&out, true, false) // verbose
	err := e.New(e.ErrNoException, "No exception found").
		WithDetails("the input had 3 lines").
		WithSuggestion("Pipe the output of adb logcat").
		WithContext("source", "crash.txt")

	if code := h.Handle(err); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	got := out.String()
	if !strings.Contains(got, "No exception found") || !strings.Contains(got, "the input had 3 lines") {
		t.Fatalf("unexpected output: %s", got)
	}
	if !strings.Contains(got, "source: crash.txt") || !strings.Contains(got, "adb logcat") {
		t.Fatalf("missing context/suggestion: %s", got)
	}
	if strings.Contains(got, "--verbose") {
		t.Fatalf("verbose hint shown in verbose mode: %s", got)
	}
}

func TestErrorHandler_QuietHidesDetails(t *testing.T) {
	var out bytes.Buffer
	h := NewErrorHandler(&out, false, false)
	h.Handle(e.New(e.ErrTraceNotFound, "Trace file not found").
		WithDetails("hidden details").
		WithCause(stdErrors.New("open x: no such file")))

	got := out.String()
	if strings.Contains(got, "hidden details") || strings.Contains(got, "no such file") {
		t.Fatalf("details leaked without --verbose: %s", got)
	}
	if !strings.Contains(got, "Run with --verbose for more details") {
		t.Fatalf("missing verbose hint: %s", got)
	}
}

func TestErrorHandler_WrapsPlainErrors(t *testing.T) {
	var out bytes.Buffer
	h := NewErrorHandler(&out, true, true)
	if code := h.Handle(stdErrors.New("disk on fire")); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	got := out.String()
	for _, want := range []string{"❓ An unexpected error occurred", "Caused by:", "• disk on fire", "Stack trace:"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestErrorHandler_NilError(t *testing.T) {
	var out bytes.Buffer
	if code := NewErrorHandler(&out, false, false).Handle(nil); code != 0 || out.Len() != 0 {
		t.Fatalf("nil error: code %d, output %q", code, out.String())
	}
}

func TestErrorHandler_FormatStackFrame(t *testing.T) {
	h := NewErrorHandler(&bytes.Buffer{}, false, false)
	got := h.formatStackFrame(e.StackFrame{
		Function: "clearcrash/internal/cli.(*CLI).Run",
		File:     "/home/dev/src/clearcrash/internal/cli/cli.go",
		Line:     42,
	})
	if got != ".../clearcrash/internal/cli/cli.go:42 Run()" {
		t.Errorf("formatStackFrame = %q", got)
	}
}
