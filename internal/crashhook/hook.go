// Package crashhook connects the diagnostic engine to a process's crash
// path.
//
// A Hook is installed at most once. Installing records the handler that was
// in charge before, and every crash the hook handles is forwarded to that
// prior handler exactly once after the diagnosis has been emitted, even if
// the analysis itself fails.
package crashhook

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"clearcrash/internal/analyzer"
	"clearcrash/internal/diagnosis"
	"clearcrash/pkg/crash"
)

// Handler receives a crash. It is typically the host's previous crash
// handler: the one that prints the default report and ends the process.
type Handler func(exc crash.RawException)

// Engine produces diagnoses. *analyzer.Engine implements it.
type Engine interface {
	Diagnose(exc crash.RawException) diagnosis.Diagnosis
	Render(d diagnosis.Diagnosis) string
}

// Recorder persists handled crashes.
type Recorder interface {
	Record(exc crash.RawException, d diagnosis.Diagnosis, text string) error
}

// Option configures a Hook.
type Option func(*Hook)

// WithLogger sets the hook's logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Hook) {
		if l != nil {
			h.log = l
		}
	}
}

// WithRecorder saves every handled crash to r.
func WithRecorder(r Recorder) Option {
	return func(h *Hook) { h.recorder = r }
}

type installation struct {
	prior Handler
	sink  Sink
}

// Hook is the install-once crash interceptor.
type Hook struct {
	engine   Engine
	log      *zap.Logger
	recorder Recorder

	installed atomic.Pointer[installation]
}

// New returns an uninstalled hook around engine.
func New(engine Engine, opts ...Option) *Hook {
	h := &Hook{
		engine: engine,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// TryInstall records prior and sink. Only the first call has any effect;
// later calls return false and leave the recorded prior handler untouched.
// A nil sink writes to standard error.
func (h *Hook) TryInstall(prior Handler, sink Sink) bool {
	if sink == nil {
		sink = StderrSink()
	}
	ok := h.installed.CompareAndSwap(nil, &installation{prior: prior, sink: sink})
	if ok {
		h.log.Debug("crash hook installed", zap.Bool("forwards_to_prior", prior != nil))
	}
	return ok
}

// Installed reports whether TryInstall has succeeded.
func (h *Hook) Installed() bool {
	return h.installed.Load() != nil
}

// Prior returns the handler recorded by the first TryInstall, or nil.
func (h *Hook) Prior() Handler {
	if in := h.installed.Load(); in != nil {
		return in.prior
	}
	return nil
}

// Handle analyzes exc, emits the diagnosis to the sink, records it and
// then forwards exc to the prior handler. A hook that was never installed
// emits to standard error and forwards nowhere.
func (h *Hook) Handle(exc crash.RawException) {
	in := h.installed.Load()
	if in == nil {
		in = &installation{sink: StderrSink()}
	}

	// Deferred calls run last-in first-out: the recovery below runs before
	// the prior handler is invoked.
	defer func() {
		if in.prior != nil {
			in.prior(exc)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("crash analysis failed",
				zap.String("kind", exc.Kind),
				zap.String("panic", fmt.Sprint(r)),
			)
			emit(in.sink, fallbackText(exc))
		}
	}()

	d := h.engine.Diagnose(exc)
	text := h.engine.Render(d)
	emit(in.sink, text)

	if h.recorder != nil {
		if err := h.recorder.Record(exc, d, text); err != nil {
			h.log.Warn("failed to record crash", zap.Error(err))
		}
	}
}

// Recover is meant to be deferred. It converts a panic into a crash and
// handles it; whether the process then dies is up to the prior handler.
func (h *Hook) Recover() {
	if r := recover(); r != nil {
		h.Handle(crash.FromPanic(r))
	}
}

func emit(s Sink, text string) {
	defer func() { _ = recover() }()
	s.Emit(text)
}

func fallbackText(exc crash.RawException) string {
	if exc.Message == "" {
		return exc.Kind + "\n"
	}
	return exc.Kind + ": " + exc.Message + "\n"
}

var (
	defaultHook     *Hook
	defaultHookOnce sync.Once
)

// Default returns the process-wide hook, built on the default engine the
// first time it is requested.
func Default() *Hook {
	defaultHookOnce.Do(func() {
		defaultHook = New(analyzer.NewEngine())
	})
	return defaultHook
}

// Install installs the process-wide hook. It is idempotent.
func Install(prior Handler, sink Sink) bool {
	return Default().TryInstall(prior, sink)
}
