// Package frames decides which stack frames belong to the caller's own code.
//
// A frame is user code unless its declaring type falls under a denied
// namespace. The denylist is data: prefix entries ("android.") and glob
// entries ("com.*.generated.**", compiled with '.' as the separator) are
// evaluated in order, last match wins, and a leading "!" re-includes types a
// broader entry denied. Rules are built with Rules and frozen into a Filter;
// a Filter is immutable and safe for concurrent use.
package frames

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gobwas/glob"

	"clearcrash/pkg/crash"
)

// JVMPrefixes are the framework, runtime and platform namespaces of JVM and
// Android hosts.
var JVMPrefixes = []string{
	"android.",
	"androidx.",
	"java.",
	"javax.",
	"kotlin.",
	"kotlinx.",
	"dalvik.",
	"com.android.",
	"sun.",
	"com.google.android.",
}

// GoPrefixes cover frames captured from recovered Go panics.
var GoPrefixes = []string{
	"runtime.",
	"reflect.",
	"testing.",
}

var defaultFilter = DefaultRules().Filter()

// Default returns the filter built from JVMPrefixes and GoPrefixes.
func Default() *Filter { return defaultFilter }

type rule struct {
	pattern string
	glob    glob.Glob
	negate  bool
}

func (r rule) matches(typ string) bool {
	if r.glob != nil {
		return r.glob.Match(typ)
	}
	if strings.HasPrefix(typ, r.pattern) {
		return true
	}
	// "runtime." also denies frames whose qualifier is exactly "runtime".
	return strings.HasSuffix(r.pattern, ".") && typ == strings.TrimSuffix(r.pattern, ".")
}

func (r rule) String() string {
	if r.negate {
		return "!" + r.pattern
	}
	return r.pattern
}

// Rules accumulates denylist entries. It is not safe for concurrent use;
// freeze it with Filter before sharing.
type Rules struct {
	rules []rule
}

// NewRules returns an empty rule set: every frame is user code.
func NewRules() *Rules {
	return &Rules{}
}

// DefaultRules returns a rule set preloaded with JVMPrefixes and GoPrefixes.
func DefaultRules() *Rules {
	r := NewRules()
	for _, p := range JVMPrefixes {
		_ = r.AddPattern(p) // prefixes never fail to compile
	}
	for _, p := range GoPrefixes {
		_ = r.AddPattern(p)
	}
	return r
}

// AddPattern appends a single entry.
func (r *Rules) AddPattern(pattern string) error {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil
	}
	negate := strings.HasPrefix(pattern, "!")
	if negate {
		pattern = strings.TrimSpace(pattern[1:])
		if pattern == "" {
			return fmt.Errorf("empty negated pattern")
		}
	}

	entry := rule{pattern: pattern, negate: negate}
	if strings.ContainsAny(pattern, "*?[{") {
		g, err := glob.Compile(pattern, '.')
		if err != nil {
			return fmt.Errorf("failed to compile pattern '%s': %w", pattern, err)
		}
		entry.glob = g
	}
	r.rules = append(r.rules, entry)
	return nil
}

// AddPatterns appends entries in order, stopping at the first invalid one.
func (r *Rules) AddPatterns(patterns ...string) error {
	for _, p := range patterns {
		if err := r.AddPattern(p); err != nil {
			return err
		}
	}
	return nil
}

// LoadFromFile appends entries from a rules file. A missing file is not an
// error.
func (r *Rules) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open frame rules %s: %w", filename, err)
	}
	defer file.Close()

	return r.LoadFromReader(file)
}

// LoadFromReader appends one entry per line; blank lines and lines starting
// with '#' are skipped.
func (r *Rules) LoadFromReader(reader io.Reader) error {
	scanner := bufio.NewScanner(reader)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := r.AddPattern(line); err != nil {
			return fmt.Errorf("invalid pattern on line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading frame rules: %w", err)
	}
	return nil
}

// Filter freezes the current entries.
func (r *Rules) Filter() *Filter {
	return &Filter{rules: append([]rule(nil), r.rules...)}
}

// Filter classifies frames. The zero value treats every frame as user code;
// a nil *Filter behaves like Default.
type Filter struct {
	rules []rule
}

// NewFilter builds a filter from plain namespace prefixes.
func NewFilter(prefixes ...string) *Filter {
	rules := make([]rule, 0, len(prefixes))
	for _, p := range prefixes {
		if p = strings.TrimSpace(p); p != "" {
			rules = append(rules, rule{pattern: p})
		}
	}
	return &Filter{rules: rules}
}

// IsUserCode reports whether frame belongs to the caller's code.
func (f *Filter) IsUserCode(frame crash.StackFrame) bool {
	if f == nil {
		f = defaultFilter
	}
	denied := false
	for _, r := range f.rules {
		if r.matches(frame.Type) {
			denied = !r.negate
		}
	}
	return !denied
}

// FirstUserFrame returns a copy of the first user frame in capture order, or
// nil when the stack has none.
func (f *Filter) FirstUserFrame(stack []crash.StackFrame) *crash.StackFrame {
	for i := range stack {
		if f.IsUserCode(stack[i]) {
			frame := stack[i]
			return &frame
		}
	}
	return nil
}

// AllUserFrames returns every user frame, preserving capture order.
func (f *Filter) AllUserFrames(stack []crash.StackFrame) []crash.StackFrame {
	var out []crash.StackFrame
	for _, frame := range stack {
		if f.IsUserCode(frame) {
			out = append(out, frame)
		}
	}
	return out
}

// Patterns lists the filter's entries in evaluation order.
func (f *Filter) Patterns() []string {
	if f == nil {
		f = defaultFilter
	}
	out := make([]string, 0, len(f.rules))
	for _, r := range f.rules {
		out = append(out, r.String())
	}
	return out
}
