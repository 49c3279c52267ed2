// Package errors provides enhanced error types with context and recovery
// metadata for clearcrash. These errors carry suggestions, context map, and
// lightweight stack traces to improve user diagnostics and recovery.
package errors

import (
	"runtime"
	"strings"
)

// ErrorCode categorizes errors for handling
type ErrorCode string

const (
	// Input errors
	ErrTraceNotFound   ErrorCode = "TRACE_NOT_FOUND"
	ErrTraceUnreadable ErrorCode = "TRACE_UNREADABLE"
	ErrNoException     ErrorCode = "NO_EXCEPTION"
	ErrInvalidTrace    ErrorCode = "INVALID_TRACE"

	// Output errors
	ErrInvalidFormat ErrorCode = "INVALID_FORMAT"
	ErrReportWrite   ErrorCode = "REPORT_WRITE_FAILED"

	// Watch errors
	ErrWatchFailed ErrorCode = "WATCH_FAILED"

	// Configuration errors
	ErrInvalidConfig ErrorCode = "INVALID_CONFIG"
	ErrInvalidRules  ErrorCode = "INVALID_FRAME_RULES"

	// Usage errors
	ErrUsage ErrorCode = "USAGE"

	// Unknown errors
	ErrUnknown ErrorCode = "UNKNOWN"
)

// StackFrame represents a single stack frame
type StackFrame struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

// ClearCrashError is the base error type with rich context
type ClearCrashError struct {
	Code        ErrorCode         `json:"code"`
	Message     string            `json:"message"`
	Details     string            `json:"details,omitempty"`
	Suggestion  string            `json:"suggestion,omitempty"`
	Cause       error             `json:"-"`
	Context     map[string]string `json:"context,omitempty"`
	Recoverable bool              `json:"recoverable"`
	Stack       []StackFrame      `json:"stack,omitempty"`
}

// Error implements the error interface
func (e *ClearCrashError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Details != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Details)
	}
	if e.Cause != nil {
		sb.WriteString("\nCaused by: ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the wrapped cause
func (e *ClearCrashError) Unwrap() error {
	return e.Cause
}

// WithSuggestion adds a suggestion for fixing the error
func (e *ClearCrashError) WithSuggestion(suggestion string) *ClearCrashError {
	e.Suggestion = suggestion
	return e
}

// WithContext adds contextual information
func (e *ClearCrashError) WithContext(key, value string) *ClearCrashError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithCause wraps another error
func (e *ClearCrashError) WithCause(cause error) *ClearCrashError {
	e.Cause = cause
	return e
}

// WithDetails adds detailed information
func (e *ClearCrashError) WithDetails(details string) *ClearCrashError {
	e.Details = details
	return e
}

// New creates a new ClearCrashError
func New(code ErrorCode, message string) *ClearCrashError {
	err := &ClearCrashError{
		Code:        code,
		Message:     message,
		Recoverable: isRecoverable(code),
		Context:     make(map[string]string),
	}
	err.captureStack()
	err.Suggestion = getDefaultSuggestion(code)
	return err
}

// Wrap wraps a standard error with ClearCrashError
func Wrap(err error, code ErrorCode, message string) *ClearCrashError {
	if err == nil {
		return nil
	}
	if ccErr, ok := err.(*ClearCrashError); ok {
		// Prepend message context
		if message != "" {
			ccErr.Message = message + ": " + ccErr.Message
		}
		return ccErr
	}
	return New(code, message).WithCause(err)
}

// captureStack captures the current stack trace
func (e *ClearCrashError) captureStack() {
	const maxFrames = 10
	pc := make([]uintptr, maxFrames)
	n := runtime.Callers(3, pc) // Skip runtime.Callers, captureStack, New/Wrap
	frames := runtime.CallersFrames(pc[:n])
	for {
		frame, more := frames.Next()
		if strings.Contains(frame.File, "runtime/") || strings.Contains(frame.File, "testing/") {
			if !more {
				break
			}
			continue
		}
		e.Stack = append(e.Stack, StackFrame{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		})
		if !more {
			break
		}
	}
}

// isRecoverable determines if an error can be automatically recovered
func isRecoverable(code ErrorCode) bool {
	switch code {
	case ErrReportWrite:
		return true
	default:
		return false
	}
}

// getDefaultSuggestion provides default fix suggestions
func getDefaultSuggestion(code ErrorCode) string {
	suggestions := map[ErrorCode]string{
		ErrTraceNotFound:   "Check the path, or pipe the trace on stdin: adb logcat -d | clearcrash analyze",
		ErrTraceUnreadable: "Check file permissions",
		ErrNoException:     "The input needs an exception header such as 'java.lang.NullPointerException: ...'",
		ErrInvalidTrace:    "JSON input needs at least a \"kind\" field, see: clearcrash analyze --help",
		ErrInvalidFormat:   "Use one of: text, json, yaml, msgpack",
		ErrReportWrite:     "Make the report directory writable or set CLEARCRASH_REPORT_DIR",
		ErrWatchFailed:     "Check that the directory exists and that inotify limits are not exhausted",
		ErrInvalidConfig:   "Fix the config file or remove it to use defaults",
		ErrInvalidRules:    "Each rule is a namespace prefix or glob; prefix it with ! to re-include",
		ErrUsage:           "Run 'clearcrash --help' for usage",
	}
	if s, ok := suggestions[code]; ok {
		return s
	}
	return "Run with --debug for details"
}
