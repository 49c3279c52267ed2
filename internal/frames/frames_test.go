package frames

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"clearcrash/pkg/crash"
)

func frame(typ, fn string) crash.StackFrame {
	return crash.StackFrame{Type: typ, Function: fn, Line: 1}
}

func TestDefaultFilter_IsUserCode(t *testing.T) {
	f := Default()
	cases := map[string]bool{
		"com.example.app.MainActivity":       true,
		"Main":                               true,
		"android.app.Activity":               false,
		"androidx.fragment.app.Fragment":     false,
		"java.lang.String":                   false,
		"kotlin.collections.CollectionsKt":   false,
		"com.android.internal.os.ZygoteInit": false,
		"com.google.android.material.Button": false,
		"com.google.gson.Gson":               true,
		"runtime":                            false,
		"runtime.(*Func)":                    false,
		"runtimefoo.Bar":                     true,
		"clearcrash/internal/cli":            true,
	}
	for typ, want := range cases {
		if got := f.IsUserCode(frame(typ, "m")); got != want {
			t.Errorf("IsUserCode(%q) = %v, want %v", typ, got, want)
		}
	}
}

func TestFirstUserFrame(t *testing.T) {
	stack := []crash.StackFrame{
		frame("java.lang.String", "length"),
		frame("com.example.Main", "onCreate"),
		frame("android.app.Activity", "performCreate"),
		frame("com.example.Helper", "load"),
	}
	got := Default().FirstUserFrame(stack)
	if got == nil || got.Type != "com.example.Main" {
		t.Fatalf("FirstUserFrame = %+v", got)
	}
	got.Function = "mutated"
	if stack[1].Function != "onCreate" {
		t.Error("FirstUserFrame must return a copy")
	}

	all := Default().AllUserFrames(stack)
	want := []crash.StackFrame{stack[1], stack[3]}
	if diff := cmp.Diff(want, all); diff != "" {
		t.Errorf("AllUserFrames mismatch (-want +got):\n%s", diff)
	}
}

func TestFirstUserFrame_None(t *testing.T) {
	stack := []crash.StackFrame{
		frame("android.os.Looper", "loop"),
		frame("java.lang.Thread", "run"),
	}
	if got := Default().FirstUserFrame(stack); got != nil {
		t.Fatalf("expected no user frame, got %+v", got)
	}
	if got := Default().FirstUserFrame(nil); got != nil {
		t.Fatalf("expected nil for empty stack, got %+v", got)
	}
	if got := Default().AllUserFrames(stack); len(got) != 0 {
		t.Fatalf("expected no user frames, got %+v", got)
	}
}

func TestRules_GlobAndNegation(t *testing.T) {
	r := DefaultRules()
	if err := r.AddPatterns("com.*.generated.**", "io.reactivex.", "!android.app.MyHostActivity"); err != nil {
		t.Fatalf("AddPatterns: %v", err)
	}
	f := r.Filter()

	cases := map[string]bool{
		"com.example.generated.Binding":     false,
		"com.example.generated.deep.Binder": false,
		"com.example.ui.Main":               true,
		"io.reactivex.Observable":           false,
		"android.app.MyHostActivity":        true,
		"android.app.Activity":              false,
	}
	for typ, want := range cases {
		if got := f.IsUserCode(frame(typ, "m")); got != want {
			t.Errorf("IsUserCode(%q) = %v, want %v", typ, got, want)
		}
	}
}

func TestRules_FilterIsSnapshot(t *testing.T) {
	r := NewRules()
	f := r.Filter()
	if err := r.AddPattern("com.example."); err != nil {
		t.Fatal(err)
	}
	if !f.IsUserCode(frame("com.example.Main", "run")) {
		t.Error("filter must not observe rules added after freezing")
	}
	if r.Filter().IsUserCode(frame("com.example.Main", "run")) {
		t.Error("new filter should observe the added rule")
	}
}

func TestRules_LoadFromReader(t *testing.T) {
	src := "# vendor code\ncom.squareup.\n\n!com.squareup.myfork.\ncom.{a,b}.gen.*\n"
	r := NewRules()
	if err := r.LoadFromReader(strings.NewReader(src)); err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	want := []string{"com.squareup.", "!com.squareup.myfork.", "com.{a,b}.gen.*"}
	if diff := cmp.Diff(want, r.Filter().Patterns()); diff != "" {
		t.Errorf("patterns mismatch (-want +got):\n%s", diff)
	}

	f := r.Filter()
	if f.IsUserCode(frame("com.squareup.okhttp3.Call", "execute")) {
		t.Error("okhttp should be denied")
	}
	if !f.IsUserCode(frame("com.squareup.myfork.Call", "execute")) {
		t.Error("negated namespace should be user code")
	}
	if f.IsUserCode(frame("com.b.gen.Mapper", "map")) {
		t.Error("brace glob should deny com.b.gen")
	}
}

func TestRules_InvalidPattern(t *testing.T) {
	r := NewRules()
	if err := r.LoadFromReader(strings.NewReader("com.ok.\n!\n")); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line-numbered error, got %v", err)
	}
	if err := r.AddPattern("!"); err == nil {
		t.Fatal("expected error for bare negation")
	}
}

func TestNewFilter_PrefixesOnly(t *testing.T) {
	f := NewFilter("org.acme.", " ")
	if f.IsUserCode(frame("org.acme.Engine", "run")) {
		t.Error("org.acme should be denied")
	}
	if !f.IsUserCode(frame("android.app.Activity", "onCreate")) {
		t.Error("custom filter should not carry default prefixes")
	}
	var nilFilter *Filter
	if nilFilter.IsUserCode(frame("android.app.Activity", "onCreate")) {
		t.Error("nil filter should behave like Default")
	}
}
