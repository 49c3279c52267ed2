package lifecycle

import (
	"testing"

	"clearcrash/pkg/crash"
)

func fn(name string) *crash.StackFrame {
	return &crash.StackFrame{Type: "com.example.Main", Function: name, Line: 10}
}

func TestPhaseOf(t *testing.T) {
	cases := []struct {
		function string
		want     Phase
		ok       bool
	}{
		{"onCreate", Creation, true},
		{"onCreate$lambda$0", Creation, true},
		{"onStart", Start, true},
		{"onResume", Resume, true},
		{"onPause", Pause, true},
		{"onStop", Stop, true},
		{"onDestroy", Destroy, true},
		{"onCreateView", ViewCreation, true},
		{"onViewCreated", ViewReady, true},
		{"onDestroyView", ViewTeardown, true},
		{"loadUser", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := PhaseOf(fn(tc.function))
		if got != tc.want || ok != tc.ok {
			t.Errorf("PhaseOf(%q) = (%v, %v), want (%v, %v)", tc.function, got, ok, tc.want, tc.ok)
		}
	}

	if _, ok := PhaseOf(nil); ok {
		t.Error("PhaseOf(nil) should report no phase")
	}
}

func TestLifecyclePredicates(t *testing.T) {
	if !IsInLifecycleCallback(fn("onResume")) {
		t.Error("onResume should be a lifecycle callback")
	}
	if IsInLifecycleCallback(fn("render")) || IsInLifecycleCallback(nil) {
		t.Error("render and nil are not lifecycle callbacks")
	}
	if !IsInFragmentLifecycle(fn("onViewCreated")) {
		t.Error("onViewCreated is a fragment view callback")
	}
	if IsInFragmentLifecycle(fn("onCreate")) {
		t.Error("onCreate is not a fragment view callback")
	}
}

func TestIsInClickHandler(t *testing.T) {
	cases := map[string]bool{
		"onClick":                 true,
		"onItemClick":             true,
		"onLongClick":             true,
		"setupViews$lambda$click": true,
		"handleTap":               false,
	}
	for name, want := range cases {
		if got := IsInClickHandler(fn(name)); got != want {
			t.Errorf("IsInClickHandler(%q) = %v, want %v", name, got, want)
		}
	}
	if IsInClickHandler(nil) {
		t.Error("nil frame is not a click handler")
	}
}

func TestPhaseString(t *testing.T) {
	if got := ViewTeardown.String(); got != "view-teardown" {
		t.Errorf("String() = %q", got)
	}
	if got := Phase(42).String(); got != "unknown" {
		t.Errorf("String() = %q", got)
	}
}
