package crash

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoException is returned by ParseTrace when the input holds no
// recognizable exception header.
var ErrNoException = errors.New("no exception found in trace")

const maxTraceLine = 1 << 20

var (
	// 10-19 12:00:01.123  1234  1234 E AndroidRuntime: ...
	// E/AndroidRuntime( 1234): ...
	logcatPrefix = regexp.MustCompile(`^(?:\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}\.\d+\s+\d+\s+\d+\s+[VDIWEF]\s+[^:]+: ?|[VDIWEF]/[^(:]+(?:\(\s*\d+\))?: ?)`)
	threadPrefix = regexp.MustCompile(`^Exception in thread "[^"]*"\s+`)
	headerLine   = regexp.MustCompile(`^([A-Za-z_$][\w$]*(?:\.[A-Za-z_$][\w$]*)*)(?::\s?(.*))?$`)
	frameLine    = regexp.MustCompile(`^\s*at\s+(?:[^\s/()]*/)*([^\s/()]+)\.([^\s.()]+)\(([^)]*)\)\s*$`)
	moreLine     = regexp.MustCompile(`^\s*\.\.\.\s*\d+\s+(?:more|common frames omitted)\s*$`)
	causedBy     = regexp.MustCompile(`^Caused by:\s*(.*)$`)
	suppressed   = regexp.MustCompile(`^\s*Suppressed:\s*`)
)

// ParseTrace reads the first JVM-style stack trace from r. Android logcat
// prefixes, "Exception in thread" banners, "Caused by:" sections and
// "... N more" elisions are understood; "Suppressed:" blocks are skipped.
// Causes are returned flattened, outermost first.
func ParseTrace(r io.Reader) (RawException, error) {
	p := traceParser{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxTraceLine)
	for scanner.Scan() {
		if done := p.line(scanner.Text()); done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return RawException{}, fmt.Errorf("read trace: %w", err)
	}
	return p.result()
}

// ParseTraceString is ParseTrace over an in-memory string.
func ParseTraceString(s string) (RawException, error) {
	return ParseTrace(strings.NewReader(s))
}

type traceParser struct {
	root     *RawException
	causes   []RawException
	current  *RawException
	inFrames bool
	skipping bool
}

func (p *traceParser) line(raw string) bool {
	text := strings.TrimRight(logcatPrefix.ReplaceAllString(raw, ""), "\r")
	if strings.TrimSpace(text) == "" {
		return false
	}

	if p.root == nil {
		text = threadPrefix.ReplaceAllString(text, "")
		if exc, ok := parseHeader(text); ok {
			p.root = &exc
			p.current = p.root
		}
		return false
	}

	if m := causedBy.FindStringSubmatch(text); m != nil {
		if exc, ok := parseHeader(m[1]); ok {
			p.causes = append(p.causes, exc)
			p.current = &p.causes[len(p.causes)-1]
			p.inFrames = false
			p.skipping = false
		}
		return false
	}
	if suppressed.MatchString(text) {
		p.skipping = true
		return false
	}
	if p.skipping || moreLine.MatchString(text) {
		return false
	}
	if m := frameLine.FindStringSubmatch(text); m != nil {
		p.current.Stack = append(p.current.Stack, parseFrame(m[1], m[2], m[3]))
		p.inFrames = true
		return false
	}
	if p.inFrames {
		// A new top-level header after frames starts another trace.
		_, isHeader := parseHeader(text)
		return isHeader
	}
	if p.current.Message == "" {
		p.current.Message = text
	} else {
		p.current.Message += "\n" + text
	}
	return false
}

func (p *traceParser) result() (RawException, error) {
	if p.root == nil {
		return RawException{}, ErrNoException
	}
	exc := *p.root
	if len(p.causes) > 0 {
		exc.Causes = append([]RawException(nil), p.causes...)
	}
	return exc, nil
}

func parseHeader(text string) (RawException, bool) {
	m := headerLine.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		if i := strings.Index(text, ": "); i > 0 {
			// Messages may contain anything; only the kind must be clean.
			if hm := headerLine.FindStringSubmatch(text[:i]); hm != nil && looksLikeKind(hm[1]) {
				return RawException{Kind: hm[1], Message: strings.TrimSpace(text[i+2:])}, true
			}
		}
		return RawException{}, false
	}
	if !looksLikeKind(m[1]) {
		return RawException{}, false
	}
	return RawException{Kind: m[1], Message: strings.TrimSpace(m[2])}, true
}

func looksLikeKind(name string) bool {
	simple := name
	if i := strings.LastIndex(name, "."); i >= 0 {
		simple = name[i+1:]
	}
	for _, suffix := range []string{"Exception", "Error", "Throwable"} {
		if strings.HasSuffix(simple, suffix) {
			return true
		}
	}
	return false
}

func parseFrame(typ, fn, loc string) StackFrame {
	frame := StackFrame{Type: typ, Function: fn}
	switch loc {
	case "", "Native Method", "Unknown Source":
		return frame
	}
	if i := strings.LastIndex(loc, ":"); i >= 0 {
		if n, err := strconv.Atoi(loc[i+1:]); err == nil {
			frame.Line = n
			loc = loc[:i]
		}
	}
	if loc != "Unknown Source" {
		frame.File = loc
	}
	return frame
}
