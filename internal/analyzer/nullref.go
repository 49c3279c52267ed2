package analyzer

import (
	"fmt"
	"strings"

	"clearcrash/internal/lifecycle"
	"clearcrash/internal/message"
	"clearcrash/pkg/crash"
)

// nullRule is one case of the null-reference explanation table. Rules are
// tried in order and the first whose match reports true answers every
// question for the message.
type nullRule struct {
	name  string
	match func(msg string) bool
	what  func(msg string) string
	// lead is added only when the location supplied no context causes.
	lead   string
	causes []string
	fixes  func(msg string) []string
}

func contains(substrs ...string) func(string) bool {
	return func(msg string) bool {
		for _, s := range substrs {
			if strings.Contains(msg, s) {
				return true
			}
		}
		return false
	}
}

var nullRules = []nullRule{
	{
		name:  "method-call",
		match: contains("invoke virtual method", "invoke interface method"),
		what: func(msg string) string {
			if name, ok := message.ExtractMethodName(msg); ok {
				return fmt.Sprintf("Called .%s() on something that is null", name)
			}
			return "Tried to call a method on something that is null"
		},
		lead: "The object wasn't initialized before calling the method",
		causes: []string{
			"A function might have returned null unexpectedly",
			"An optional value wasn't checked before use",
		},
		fixes: func(msg string) []string {
			var fixes []string
			if name, ok := message.ExtractMethodName(msg); ok {
				fixes = append(fixes,
					fmt.Sprintf("Use safe call: variable?.%s()", name),
					fmt.Sprintf("Check for null first: if (variable != null) { variable.%s() }", name),
				)
			} else {
				fixes = append(fixes,
					"Use safe call operator: variable?.method()",
					"Check for null: if (variable != null) { ... }",
				)
			}
			return append(fixes,
				"Use Elvis operator for default: variable?.method() ?: defaultValue",
				"Ensure the object is initialized before use",
			)
		},
	},
	{
		name:  "field-read",
		match: contains("read from field"),
		what: func(msg string) string {
			if name, ok := message.ExtractFieldName(msg); ok {
				return fmt.Sprintf("Tried to access property '%s' on something that is null", name)
			}
			return "Tried to access a property on something that is null"
		},
		causes: []string{
			"The object containing this property is null",
			"The property wasn't initialized",
		},
		fixes: func(msg string) []string {
			var fixes []string
			if name, ok := message.ExtractFieldName(msg); ok {
				fixes = append(fixes,
					fmt.Sprintf("Use safe access: object?.%s", name),
					fmt.Sprintf("Provide default: object?.%s ?: defaultValue", name),
				)
			} else {
				fixes = append(fixes,
					"Use safe property access: object?.property",
					"Check if object is null before accessing properties",
				)
			}
			return append(fixes, "Initialize the object before accessing its properties")
		},
	},
	{
		name:  "field-write",
		match: contains("write to field"),
		what: func(msg string) string {
			if name, ok := message.ExtractFieldName(msg); ok {
				return fmt.Sprintf("Tried to set property '%s' on something that is null", name)
			}
			return "Tried to set a property on something that is null"
		},
		causes: []string{
			"The object containing this property is null",
			"The property wasn't initialized",
		},
		fixes: func(msg string) []string {
			if name, ok := message.ExtractFieldName(msg); ok {
				return []string{
					"Make sure the object is initialized before setting properties",
					fmt.Sprintf("Check for null: if (object != null) { object.%s = value }", name),
					fmt.Sprintf("Use apply: object?.apply { %s = value }", name),
				}
			}
			return []string{
				"Make sure the object is initialized before setting properties",
				"Check for null: if (object != null) { object.property = value }",
				"Use apply or let: object?.apply { property = value }",
			}
		},
	},
	{
		name:  "array-length",
		match: contains("length of null array"),
		what:  func(string) string { return "Tried to get the length of an array that is null" },
		fixes: func(string) []string {
			return []string{
				"Check if array is null: if (array != null) { array.size }",
				"Use safe call: array?.size ?: 0",
				"Initialize the array before use",
			}
		},
	},
	{
		name:  "no-message",
		match: func(msg string) bool { return strings.TrimSpace(msg) == "" },
		what:  func(string) string { return "Tried to use a variable or object that is null" },
		fixes: genericNullFixes,
	},
	{
		name:  "verbatim",
		match: func(string) bool { return true },
		what: func(msg string) string {
			return "Tried to use something that is null\nDetails: " + msg
		},
		fixes: genericNullFixes,
	},
}

func genericNullFixes(string) []string {
	return []string{
		"Use Kotlin's safe call operator: variable?.method()",
		"Check for null explicitly: if (variable != null) { ... }",
		"Provide a default value: variable ?: defaultValue",
		"Make sure the variable is initialized before use",
	}
}

var genericNullCauses = []string{
	"Variable wasn't initialized before use",
	"A function returned null when you expected a value",
	"An object reference became null unexpectedly",
}

var phaseNullCauses = map[lifecycle.Phase][]string{
	lifecycle.Creation: {
		"Variable wasn't initialized before use in onCreate()",
		"View might not exist yet (called before setContentView?)",
		"Intent extra or Bundle value might be missing",
	},
	lifecycle.ViewCreation: {
		"Views were looked up before the layout was inflated",
		"Fragment arguments might be missing",
	},
	lifecycle.ViewReady: {
		"View reference might not be set up properly",
		"Fragment's view might be null",
	},
	lifecycle.ViewTeardown: {
		"The view binding was already cleared",
	},
	lifecycle.Destroy: {
		"The object was released before this code ran",
	},
}

var clickNullCauses = []string{
	"The clicked view's associated data might be null",
	"A reference needed by the click handler wasn't initialized",
}

const (
	viewTip     = "TIP: If working with Views, make sure you call findViewById() AFTER setContentView()"
	intentTip   = "TIP: When getting Intent extras, always provide a default value or check for null"
	fragmentTip = "TIP: Fragment views can be null. Use viewLifecycleOwner and check lifecycle state"
	activityTip = "TIP: Make sure you're not accessing Activity/Context after it's been destroyed"
)

type nullTip struct {
	match func(msg string) bool
	tip   string
}

var nullTips = []nullTip{
	{contains("findViewById", "View"), viewTip},
	{contains("Intent"), intentTip},
	{contains("Fragment"), fragmentTip},
	{func(msg string) bool {
		return strings.Contains(msg, "Activity") && strings.Contains(msg, "null")
	}, activityTip},
}

// NullRef explains null dereferences.
type NullRef struct{}

var _ Analyzer = NullRef{}

func (NullRef) rule(msg string) nullRule {
	for _, r := range nullRules {
		if r.match(msg) {
			return r
		}
	}
	return nullRules[len(nullRules)-1]
}

func (NullRef) Title() string { return "NullPointerException" }

func (NullRef) Subtitle() string { return "You tried to use something that doesn't exist (is null)" }

func (n NullRef) WhatHappened(msg string, _ *crash.StackFrame) string {
	return n.rule(msg).what(msg)
}

func (n NullRef) WhyItHappened(msg string, loc *crash.StackFrame) []string {
	var reasons []string
	if phase, ok := lifecycle.PhaseOf(loc); ok && len(phaseNullCauses[phase]) > 0 {
		reasons = append(reasons, phaseNullCauses[phase]...)
	} else if lifecycle.IsInClickHandler(loc) {
		reasons = append(reasons, clickNullCauses...)
	}

	r := n.rule(msg)
	if r.lead != "" && len(reasons) == 0 {
		reasons = append(reasons, r.lead)
	}
	reasons = append(reasons, r.causes...)

	if len(reasons) == 0 {
		reasons = append(reasons, genericNullCauses...)
	}
	return reasons
}

func (n NullRef) HowToFix(msg string, _ *crash.StackFrame) []string {
	return n.rule(msg).fixes(msg)
}

func (NullRef) AdditionalInfo(msg string, loc *crash.StackFrame) string {
	for _, t := range nullTips {
		if t.match(msg) {
			return t.tip
		}
	}
	if loc != nil {
		switch owner := loc.SimpleType(); {
		case strings.HasSuffix(owner, "Fragment"):
			return fragmentTip
		case strings.HasSuffix(owner, "Activity"):
			return activityTip
		}
	}
	return ""
}
