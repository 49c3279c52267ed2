// Package analyzer turns raw exceptions into diagnoses.
//
// Each supported exception kind has an Analyzer that answers the same six
// questions about a crash. Diagnose wires an Analyzer to the frame filter
// and assembles its answers; Engine picks the Analyzer for a kind and falls
// back to a generic explanation for everything else.
package analyzer

import (
	"clearcrash/internal/diagnosis"
	"clearcrash/internal/frames"
	"clearcrash/internal/message"
	"clearcrash/pkg/crash"
)

// Analyzer explains one family of exceptions. msg is the normalized
// exception message, empty when the runtime supplied none. loc is the first
// frame of user code, or nil. Implementations must be safe for concurrent
// use and must not retain loc.
type Analyzer interface {
	Title() string
	Subtitle() string
	WhatHappened(msg string, loc *crash.StackFrame) string
	WhyItHappened(msg string, loc *crash.StackFrame) []string
	HowToFix(msg string, loc *crash.StackFrame) []string
	// AdditionalInfo returns "" when there is nothing to add.
	AdditionalInfo(msg string, loc *crash.StackFrame) string
}

// Diagnose runs a over exc. A nil filter means frames.Default.
func Diagnose(a Analyzer, exc crash.RawException, filter *frames.Filter) diagnosis.Diagnosis {
	msg := message.Normalize(exc.Message)
	loc := filter.FirstUserFrame(exc.Stack)

	return diagnosis.Diagnosis{
		Title:          a.Title(),
		Subtitle:       a.Subtitle(),
		WhatHappened:   a.WhatHappened(msg, loc),
		WhyItHappened:  a.WhyItHappened(msg, loc),
		HowToFix:       a.HowToFix(msg, loc),
		Location:       loc,
		AdditionalInfo: a.AdditionalInfo(msg, loc),
	}
}
