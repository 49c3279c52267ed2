package crash

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRead_JSON(t *testing.T) {
	in := `
	{"kind": "NullRef", "message": "boom", "stack": [{"type": "Main", "function": "onCreate", "line": 42}]}`
	got, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := RawException{
		Kind:    "NullRef",
		Message: "boom",
		Stack:   []StackFrame{{Type: "Main", Function: "onCreate", Line: 42}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Read mismatch (-want +got):\n%s", diff)
	}
}

func TestRead_Trace(t *testing.T) {
	in := "java.lang.IllegalStateException: not ready\n\tat com.example.Main.run(Main.java:7)\n"
	got, err := ReadBytes([]byte(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Kind != "java.lang.IllegalStateException" || got.Message != "not ready" || len(got.Stack) != 1 {
		t.Errorf("unexpected exception %+v", got)
	}
}

func TestRead_Errors(t *testing.T) {
	if _, err := Read(strings.NewReader("  \n ")); !errors.Is(err, ErrNoException) {
		t.Errorf("blank input: err = %v", err)
	}
	if _, err := Read(strings.NewReader(`{"message": "no kind"}`)); !errors.Is(err, ErrInvalidException) {
		t.Errorf("kindless JSON: err = %v", err)
	}
	if _, err := Read(strings.NewReader(`{"kind": `)); err == nil || !strings.Contains(err.Error(), "decode exception JSON") {
		t.Errorf("truncated JSON: err = %v", err)
	}
}
