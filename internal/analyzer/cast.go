package analyzer

import (
	"fmt"
	"strings"

	"clearcrash/internal/message"
	"clearcrash/pkg/crash"
)

// ClassCast explains failed type conversions.
type ClassCast struct{}

var _ Analyzer = ClassCast{}

var numericTypes = map[string]bool{
	"Integer": true, "Int": true, "Long": true, "Short": true, "Byte": true,
	"Double": true, "Float": true, "Number": true,
	"int": true, "int64": true, "float64": true,
}

func isViewType(name string) bool {
	return strings.HasSuffix(name, "View") || strings.HasSuffix(name, "Button") ||
		strings.HasSuffix(name, "Layout") || strings.HasSuffix(name, "Text")
}

func (ClassCast) Title() string { return "ClassCastException" }

func (ClassCast) Subtitle() string { return "You treated a value as a type it isn't" }

func (ClassCast) WhatHappened(msg string, _ *crash.StackFrame) string {
	if from, to, ok := message.ExtractClassCastTypes(msg); ok {
		return fmt.Sprintf("Tried to treat a %s as a %s", from, to)
	}
	if strings.TrimSpace(msg) == "" {
		return "Tried to convert a value to a type it isn't"
	}
	return "Tried to convert a value to a type it isn't\nDetails: " + msg
}

func (ClassCast) WhyItHappened(msg string, _ *crash.StackFrame) []string {
	var reasons []string
	from, to, ok := message.ExtractClassCastTypes(msg)
	if ok && (isViewType(from) || isViewType(to)) {
		reasons = append(reasons, "findViewById() used an id that belongs to a different kind of view")
	}
	if ok && from == "String" && numericTypes[to] {
		reasons = append(reasons, "A number was stored as text and read back without converting it")
	}
	return append(reasons,
		"A value stored in a Bundle or Intent has a different type than the code expects",
		"Deserialized data produced a different type than the one declared",
		"A collection holds elements of more than one type",
	)
}

func (ClassCast) HowToFix(msg string, _ *crash.StackFrame) []string {
	target := "TargetType"
	if _, to, ok := message.ExtractClassCastTypes(msg); ok {
		target = to
	}
	return []string{
		fmt.Sprintf("Use a safe cast: value as? %s ?: defaultValue", target),
		fmt.Sprintf("Check the type first: if (value is %s) { ... }", target),
		fmt.Sprintf("Fix the code that produces the value so it really is a %s", target),
	}
}

func (ClassCast) AdditionalInfo(msg string, _ *crash.StackFrame) string {
	from, to, ok := message.ExtractClassCastTypes(msg)
	switch {
	case !ok:
		return ""
	case isViewType(from) || isViewType(to):
		return "TIP: View Binding gives you correctly typed views without any casts"
	case from == "String" && numericTypes[to]:
		return "TIP: Convert text explicitly with toIntOrNull() or toDoubleOrNull() instead of casting"
	}
	return ""
}
