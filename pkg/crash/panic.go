package crash

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	maxFrames     = 64
	maxCauseDepth = 16
)

// FromPanic converts a value obtained from recover() into a RawException.
// It must be called from the deferred function that recovered, so that the
// captured stack still contains the frames that panicked.
func FromPanic(r any) RawException {
	exc := RawException{
		Kind:    panicKind(r),
		Message: panicMessage(r),
		Stack:   trimRecovery(Capture(1)),
	}
	if err, ok := r.(error); ok {
		exc.Causes = causesOf(err)
	}
	return exc
}

// Capture returns the calling goroutine's stack, skipping skip frames above
// the caller of Capture.
func Capture(skip int) []StackFrame {
	pc := make([]uintptr, maxFrames)
	n := runtime.Callers(skip+2, pc) // runtime.Callers, Capture
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pc[:n])
	out := make([]StackFrame, 0, n)
	for {
		frame, more := frames.Next()
		if frame.Function != "" {
			out = append(out, frameOf(frame))
		}
		if !more {
			break
		}
	}
	return out
}

// trimRecovery drops the deferred recovery frames, which sit above
// runtime.gopanic, so that the stack starts where the panic was raised.
func trimRecovery(stack []StackFrame) []StackFrame {
	for i, f := range stack {
		if f.Type == "runtime" && f.Function == "gopanic" {
			return stack[i+1:]
		}
	}
	return stack
}

func frameOf(f runtime.Frame) StackFrame {
	typ, fn := splitFunction(f.Function)
	sf := StackFrame{
		Line:     f.Line,
		Function: fn,
		Type:     typ,
	}
	if f.File != "" {
		sf.File = filepath.Base(f.File)
	}
	return sf
}

// splitFunction splits a Go symbol such as
// "example.com/app/store.(*DB).Get" into its qualifier
// ("example.com/app/store.(*DB)") and bare name ("Get").
func splitFunction(symbol string) (qualifier, name string) {
	slash := strings.LastIndex(symbol, "/")
	dot := strings.LastIndex(symbol[slash+1:], ".")
	if dot < 0 {
		return "", symbol
	}
	dot += slash + 1
	return symbol[:dot], symbol[dot+1:]
}

func panicKind(r any) Kind {
	switch v := r.(type) {
	case runtime.Error:
		msg := v.Error()
		switch {
		case strings.Contains(msg, "nil pointer dereference"), strings.Contains(msg, "nil map"):
			return KindNullRef
		case strings.Contains(msg, "index out of range"), strings.Contains(msg, "slice bounds out of range"):
			return KindIndexOutOfBounds
		case strings.Contains(msg, "interface conversion"):
			return KindClassCast
		}
		return "runtime.Error"
	case string:
		return "panic"
	case nil:
		return "panic"
	default:
		return fmt.Sprintf("%T", r)
	}
}

func panicMessage(r any) string {
	switch v := r.(type) {
	case nil:
		return ""
	case string:
		return v
	case error:
		return v.Error()
	default:
		return fmt.Sprintf("%v", r)
	}
}

func causesOf(err error) []RawException {
	var causes []RawException
	for cause := errors.Unwrap(err); cause != nil && len(causes) < maxCauseDepth; cause = errors.Unwrap(cause) {
		causes = append(causes, RawException{
			Kind:    fmt.Sprintf("%T", cause),
			Message: cause.Error(),
		})
	}
	return causes
}
