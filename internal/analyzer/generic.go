package analyzer

import (
	"fmt"

	"clearcrash/pkg/crash"
)

// DefaultReportURL is where users are invited to report kinds that have no
// dedicated analyzer.
const DefaultReportURL = "https://github.com/RaulCatalinas/ClearCrash/issues"

// Generic describes any exception by its kind and message alone. Unlike the
// dedicated analyzers it is bound to a single exception.
type Generic struct {
	Kind      string
	Message   string
	ReportURL string
}

var _ Analyzer = Generic{}

// NewGeneric returns the fallback analyzer for exc.
func NewGeneric(exc crash.RawException, reportURL string) Generic {
	return Generic{Kind: exc.Kind, Message: exc.Message, ReportURL: reportURL}
}

func (g Generic) Title() string {
	if g.Kind == "" {
		return "Unknown error"
	}
	return g.Kind
}

func (g Generic) Subtitle() string {
	if g.Message == "" {
		return "No error details available"
	}
	return g.Message
}

func (g Generic) WhatHappened(string, *crash.StackFrame) string {
	if g.Kind == "" {
		return "The program stopped because of an error of unknown type"
	}
	return fmt.Sprintf("The program stopped because of a %s", g.Kind)
}

func (Generic) WhyItHappened(string, *crash.StackFrame) []string { return nil }

func (Generic) HowToFix(string, *crash.StackFrame) []string { return nil }

func (g Generic) AdditionalInfo(string, *crash.StackFrame) string {
	if g.ReportURL == "" {
		return "This error type isn't specifically handled yet."
	}
	return "This error type isn't specifically handled yet.\nHelp us improve: " + g.ReportURL
}
