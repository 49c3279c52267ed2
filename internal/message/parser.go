// Package message extracts structured facts from runtime-generated exception
// messages.
//
// Every extractor is a pure function over one or more pinned grammars. A
// grammar is a single regular expression documented with the literal sample
// it was written against; when a host runtime changes its wording only that
// grammar stops matching and callers fall back to quoting the message
// verbatim. Extractors report a miss with ok == false and never panic.
package message

import (
	"regexp"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// grammar is one versioned pattern for a runtime message format.
type grammar struct {
	name    string
	sample  string
	pattern *regexp.Regexp
}

var (
	// ART / HotSpot helpful NPE:
	//   invoke virtual method 'int java.lang.String.length()' on a null object reference
	methodGrammar = grammar{
		name:    "quoted-method-signature",
		sample:  "invoke virtual method 'int java.lang.String.length()'",
		pattern: regexp.MustCompile(`'[^']*\.(\w+)\([^)]*\)'`),
	}

	//   Attempt to read from field 'java.lang.String Main.userName' on a null object reference
	fieldGrammar = grammar{
		name:    "quoted-field-reference",
		sample:  "read from field 'java.lang.String Main.userName'",
		pattern: regexp.MustCompile(`field '[\w.$\[\]]+ [\w.$]+\.(\w+)'`),
	}

	castGrammars = []grammar{
		{
			name:    "jdk8-cast",
			sample:  "java.lang.String cannot be cast to java.lang.Integer",
			pattern: regexp.MustCompile(`(?:class\s+)?([\w.$]+)\s+cannot be cast to\s+(?:class\s+)?([\w.$]+)`),
		},
		{
			name:    "go-interface-conversion",
			sample:  "interface conversion: interface {} is string, not int",
			pattern: regexp.MustCompile(`interface conversion: .* is ([\w.*\[\]]+), not ([\w.*\[\]]+)`),
		},
	}

	indexGrammars = []grammar{
		{
			name:    "index-size",
			sample:  "Index: 5, Size: 3",
			pattern: regexp.MustCompile(`(?i)index:?\s*(-?\d+)\b.*?\bsize:?\s*(\d+)`),
		},
		{
			name:    "jdk9-out-of-bounds",
			sample:  "Index 10 out of bounds for length 5",
			pattern: regexp.MustCompile(`(?i)index\s+(-?\d+)\s+out of bounds for length\s+(\d+)`),
		},
		{
			name:    "android-length-index",
			sample:  "length=3; index=5",
			pattern: regexp.MustCompile(`(?i)length=(\d+);\s*index=(-?\d+)`),
		},
		{
			name:    "go-index-out-of-range",
			sample:  "runtime error: index out of range [5] with length 3",
			pattern: regexp.MustCompile(`index out of range \[(-?\d+)\] with length (\d+)`),
		},
	}
)

// ExtractMethodName returns the bare method identifier from a quoted
// fully-qualified signature, e.g. "length" from
// "invoke virtual method 'int java.lang.String.length()'".
func ExtractMethodName(msg string) (string, bool) {
	m := methodGrammar.pattern.FindStringSubmatch(msg)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractFieldName returns <name> from a quoted "'<type> <owner>.<name>'"
// field reference.
func ExtractFieldName(msg string) (string, bool) {
	m := fieldGrammar.pattern.FindStringSubmatch(msg)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractClassCastTypes returns the simple names of the source and target
// types of a failed cast.
func ExtractClassCastTypes(msg string) (from, to string, ok bool) {
	for _, g := range castGrammars {
		if m := g.pattern.FindStringSubmatch(msg); m != nil {
			return SimplifyTypeName(m[1]), SimplifyTypeName(m[2]), true
		}
	}
	return "", "", false
}

// ExtractIndexAndSize returns the offending index and the collection size.
// Numbers that do not fit an int are treated as a miss.
func ExtractIndexAndSize(msg string) (index, size int, ok bool) {
	for _, g := range indexGrammars {
		m := g.pattern.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		first, second := m[1], m[2]
		if g.name == "android-length-index" {
			first, second = second, first
		}
		i, err := parseInt(first)
		if err != nil {
			return 0, 0, false
		}
		n, err := parseInt(second)
		if err != nil {
			return 0, 0, false
		}
		return i, n, true
	}
	return 0, 0, false
}

// SimplifyTypeName returns the last dot-separated segment of a qualified
// type name.
func SimplifyTypeName(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

func parseInt(s string) (int, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return safecast.Conv[int](v)
}
