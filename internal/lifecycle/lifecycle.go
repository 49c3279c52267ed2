// Package lifecycle infers where in a component's lifecycle a frame was
// executing, using nothing but the frame's function name.
package lifecycle

import (
	"strings"

	"clearcrash/pkg/crash"
)

// Phase is a component lifecycle phase.
type Phase int

const (
	Creation Phase = iota
	Start
	Resume
	Pause
	Stop
	Destroy
	ViewCreation
	ViewReady
	ViewTeardown
)

var phaseNames = [...]string{
	Creation:     "creation",
	Start:        "start",
	Resume:       "resume",
	Pause:        "pause",
	Stop:         "stop",
	Destroy:      "destroy",
	ViewCreation: "view-creation",
	ViewReady:    "view-ready",
	ViewTeardown: "view-teardown",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// IsView reports whether p belongs to a hosted view's lifecycle rather than
// its owning component's.
func (p Phase) IsView() bool {
	return p == ViewCreation || p == ViewReady || p == ViewTeardown
}

type keyword struct {
	substr string
	phase  Phase
}

// "onCreateView" contains "onCreate" and "onDestroyView" contains
// "onDestroy", so the view keywords have to be tried first.
var phaseKeywords = []keyword{
	{"onCreateView", ViewCreation},
	{"onViewCreated", ViewReady},
	{"onDestroyView", ViewTeardown},
	{"onCreate", Creation},
	{"onStart", Start},
	{"onResume", Resume},
	{"onPause", Pause},
	{"onStop", Stop},
	{"onDestroy", Destroy},
}

var clickKeywords = []string{
	"onClick",
	"click",
	"onItemClick",
	"onLongClick",
}

// PhaseOf returns the lifecycle phase whose callback name appears in the
// frame's function name. A nil frame has no phase.
func PhaseOf(frame *crash.StackFrame) (Phase, bool) {
	if frame == nil {
		return 0, false
	}
	for _, k := range phaseKeywords {
		if strings.Contains(frame.Function, k.substr) {
			return k.phase, true
		}
	}
	return 0, false
}

// IsInLifecycleCallback reports whether the frame runs inside any lifecycle
// callback, component or view.
func IsInLifecycleCallback(frame *crash.StackFrame) bool {
	_, ok := PhaseOf(frame)
	return ok
}

// IsInFragmentLifecycle reports whether the frame runs inside a view
// lifecycle callback of a fragment-like component.
func IsInFragmentLifecycle(frame *crash.StackFrame) bool {
	p, ok := PhaseOf(frame)
	return ok && p.IsView()
}

// IsInClickHandler reports whether the frame looks like a UI event handler.
func IsInClickHandler(frame *crash.StackFrame) bool {
	if frame == nil {
		return false
	}
	for _, k := range clickKeywords {
		if strings.Contains(frame.Function, k) {
			return true
		}
	}
	return false
}
