// Package crash defines the raw exception model consumed by the diagnostic
// engine, plus the adapters that produce it: recovered Go panics
// (FromPanic) and JVM / Android logcat stack trace text (ParseTrace).
//
// Values in this package are plain data. Once captured they are treated as
// immutable: nothing in clearcrash mutates a RawException it was handed.
package crash

import (
	"strconv"
	"strings"
)

// Kind identifies the class of a raw exception. Hosts are free to use their
// own identifiers ("java.lang.NullPointerException"); the constants below
// are the host-neutral tags the engine registers its analyzers under.
type Kind = string

const (
	KindNullRef          Kind = "NullRef"
	KindIndexOutOfBounds Kind = "IndexOutOfBounds"
	KindClassCast        Kind = "ClassCast"
)

// StackFrame is one entry of a captured call stack.
type StackFrame struct {
	File     string `json:"file,omitempty" yaml:"file,omitempty" msgpack:"file,omitempty"`
	Line     int    `json:"line,omitempty" yaml:"line,omitempty" msgpack:"line,omitempty"`
	Function string `json:"function" yaml:"function" msgpack:"function"`
	Type     string `json:"type" yaml:"type" msgpack:"type"`
}

// RawException is an exception exactly as the host runtime reported it.
// Stack is kept in capture order, the frame nearest the raise point first.
type RawException struct {
	Kind    Kind           `json:"kind" yaml:"kind" msgpack:"kind"`
	Message string         `json:"message,omitempty" yaml:"message,omitempty" msgpack:"message,omitempty"`
	Causes  []RawException `json:"causes,omitempty" yaml:"causes,omitempty" msgpack:"causes,omitempty"`
	Stack   []StackFrame   `json:"stack,omitempty" yaml:"stack,omitempty" msgpack:"stack,omitempty"`
}

// HasMessage reports whether the runtime supplied any message text.
func (e RawException) HasMessage() bool {
	return e.Message != ""
}

// HasLine reports whether the frame carries a usable line number.
func (f StackFrame) HasLine() bool {
	return f.Line > 0
}

// SimpleType returns the last dot-separated segment of the declaring type.
func (f StackFrame) SimpleType() string {
	if i := strings.LastIndex(f.Type, "."); i >= 0 {
		return f.Type[i+1:]
	}
	return f.Type
}

// Source returns the frame's file, falling back to the declaring type's
// simple name when the runtime did not record one.
func (f StackFrame) Source() string {
	if f.File != "" {
		return f.File
	}
	if s := f.SimpleType(); s != "" {
		return s
	}
	return "Unknown Source"
}

// String renders the frame as "<file>:<line> in <function>()".
func (f StackFrame) String() string {
	var sb strings.Builder
	sb.WriteString(f.Source())
	if f.HasLine() {
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(f.Line))
	}
	sb.WriteString(" in ")
	sb.WriteString(f.Function)
	sb.WriteString("()")
	return sb.String()
}
