// Package cli: Central error handling for CLI
// Provides consistent error presentation and suggestions
package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	e "clearcrash/pkg/errors"
	"clearcrash/pkg/terminal"
)

// ErrorHandler handles errors consistently across the CLI
type ErrorHandler struct {
	out     io.Writer
	verbose bool
	debug   bool
}

// NewErrorHandler creates an error handler writing to out
func NewErrorHandler(out io.Writer, verbose, debug bool) *ErrorHandler {
	return &ErrorHandler{
		out:     out,
		verbose: verbose,
		debug:   debug,
	}
}

// Handle displays err and returns the process exit code for it.
func (h *ErrorHandler) Handle(err error) int {
	if err == nil {
		return 0
	}

	var ccErr *e.ClearCrashError
	if !errors.As(err, &ccErr) {
		ccErr = e.Wrap(err, e.ErrUnknown, "An unexpected error occurred")
	}
	h.display(ccErr)
	return 1
}

func (h *ErrorHandler) display(err *e.ClearCrashError) {
	w := h.out
	fmt.Fprintln(w)
	icon := h.getErrorIcon(err.Code)
	fmt.Fprintf(w, "%s %s\n", icon, h.style(terminal.Bold, err.Message))

	if err.Details != "" && h.verbose {
		fmt.Fprintf(w, "\n%s\n", h.style(terminal.Dim, err.Details))
	}

	if len(err.Context) > 0 && h.verbose {
		fmt.Fprintln(w, "\nContext:")
		keys := make([]string, 0, len(err.Context))
		for k := range err.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %s\n", k, err.Context[k])
		}
	}

	if err.Suggestion != "" {
		fmt.Fprintf(w, "\n💡 %s\n", h.style(terminal.Yellow, err.Suggestion))
	}

	if err.Cause != nil && h.verbose {
		fmt.Fprintf(w, "\n%s\n", h.style(terminal.Dim, "Caused by:"))
		h.displayCauseChain(err.Cause, 1)
	}

	if h.debug && len(err.Stack) > 0 {
		fmt.Fprintf(w, "\n%s\n", h.style(terminal.Dim, "Stack trace:"))
		for _, f := range err.Stack {
			fmt.Fprintf(w, "  %s\n", h.formatStackFrame(f))
		}
	}

	fmt.Fprintln(w)
	if !h.verbose {
		fmt.Fprintln(w, h.style(terminal.Dim, "Run with --verbose for more details"))
	}
	if !h.debug && err.Code == e.ErrUnknown {
		fmt.Fprintln(w, h.style(terminal.Dim, "Run with --debug for stack trace"))
	}
}

func (h *ErrorHandler) style(code, text string) string {
	return styled(h.out, code, text)
}

// styled wraps text in an escape code when w takes colour.
func styled(w io.Writer, code, text string) string {
	if !terminal.ColorEnabled(w) {
		return text
	}
	return code + text + terminal.Reset
}

func (h *ErrorHandler) displayCauseChain(err error, depth int) {
	indent := strings.Repeat("  ", depth)
	var ccErr *e.ClearCrashError
	if errors.As(err, &ccErr) {
		fmt.Fprintf(h.out, "%s• %s\n", indent, ccErr.Message)
		if ccErr.Cause != nil {
			h.displayCauseChain(ccErr.Cause, depth+1)
		}
		return
	}
	fmt.Fprintf(h.out, "%s• %s\n", indent, err.Error())
}

func (h *ErrorHandler) formatStackFrame(frame e.StackFrame) string {
	file := frame.File
	if idx := strings.LastIndex(file, "/clearcrash/"); idx >= 0 {
		file = "..." + file[idx:]
	}
	fn := frame.Function
	if idx := strings.LastIndex(fn, "."); idx >= 0 {
		fn = fn[idx+1:]
	}
	return fmt.Sprintf("%s:%d %s()", file, frame.Line, fn)
}

func (h *ErrorHandler) getErrorIcon(code e.ErrorCode) string {
	icons := map[e.ErrorCode]string{
		e.ErrTraceNotFound:   "🔍",
		e.ErrTraceUnreadable: "🔒",
		e.ErrNoException:     "🤷",
		e.ErrInvalidTrace:    "📄",
		e.ErrInvalidFormat:   "📄",
		e.ErrReportWrite:     "💾",
		e.ErrWatchFailed:     "👀",
		e.ErrInvalidConfig:   "⚙️",
		e.ErrInvalidRules:    "⚙️",
		e.ErrUsage:           "❔",
		e.ErrUnknown:         "❓",
	}
	if ic, ok := icons[code]; ok {
		return ic
	}
	return "❌"
}
