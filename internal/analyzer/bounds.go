package analyzer

import (
	"fmt"
	"strings"

	"clearcrash/internal/lifecycle"
	"clearcrash/internal/message"
	"clearcrash/pkg/crash"
)

// IndexOutOfBounds explains accesses past either end of a list, array or
// string.
type IndexOutOfBounds struct{}

var _ Analyzer = IndexOutOfBounds{}

func (IndexOutOfBounds) Title() string { return "IndexOutOfBoundsException" }

func (IndexOutOfBounds) Subtitle() string {
	return "You tried to access a position that doesn't exist"
}

func (IndexOutOfBounds) WhatHappened(msg string, _ *crash.StackFrame) string {
	index, size, ok := message.ExtractIndexAndSize(msg)
	switch {
	case ok && index < 0:
		return fmt.Sprintf("Tried to access index %d, but indices can't be negative", index)
	case ok && size == 0:
		return fmt.Sprintf("Tried to access index %d, but the collection is empty", index)
	case ok:
		return fmt.Sprintf("Tried to access index %d, but the collection only has %s (valid indices are 0 to %d)",
			index, elements(size), size-1)
	case strings.TrimSpace(msg) == "":
		return "Tried to access a position outside the collection's bounds"
	default:
		return "Tried to access a position outside the collection's bounds\nDetails: " + msg
	}
}

func elements(n int) string {
	if n == 1 {
		return "1 element"
	}
	return fmt.Sprintf("%d elements", n)
}

func (IndexOutOfBounds) WhyItHappened(msg string, loc *crash.StackFrame) []string {
	var reasons []string
	if lifecycle.IsInClickHandler(loc) {
		reasons = append(reasons, "The clicked item's position no longer matches the adapter's data")
	}

	index, size, ok := message.ExtractIndexAndSize(msg)
	switch {
	case ok && index < 0:
		reasons = append(reasons, "A lookup like indexOf() returned -1 and the result was used directly")
	case ok && size == 0:
		reasons = append(reasons, "The list was empty when it was accessed (data not loaded yet?)")
	case ok && index == size:
		reasons = append(reasons, fmt.Sprintf("Off-by-one error: the last valid index is %d, not %d", size-1, size))
	case !ok:
		reasons = append(reasons,
			"Off-by-one error: a loop or index went one past the last element",
			"The list was empty when it was accessed",
		)
	}
	return append(reasons, "The collection was modified after the index was calculated")
}

func (IndexOutOfBounds) HowToFix(msg string, _ *crash.StackFrame) []string {
	var fixes []string
	if index, _, ok := message.ExtractIndexAndSize(msg); ok && index < 0 {
		fixes = append(fixes, "Check the result of indexOf() before using it: if (i != -1) { list[i] }")
	}
	return append(fixes,
		"Check the index first: if (index in list.indices) { list[index] }",
		"Use a safe accessor: list.getOrNull(index) ?: defaultValue",
		"Use list.lastIndex instead of list.size when you need the last element",
	)
}

func (IndexOutOfBounds) AdditionalInfo(_ string, loc *crash.StackFrame) string {
	if lifecycle.IsInClickHandler(loc) {
		return "TIP: In RecyclerView adapters read holder.bindingAdapterPosition and compare it with RecyclerView.NO_POSITION before indexing"
	}
	return ""
}
