package crashhook

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
)

// Sink is where rendered diagnoses go. Sinks never influence analysis.
type Sink interface {
	Emit(text string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(text string)

func (f SinkFunc) Emit(text string) { f(text) }

type writerSink struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *writerSink) Emit(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.w, text)
}

// WriterSink writes each diagnosis to w. Concurrent crashes are serialized
// so that their texts do not interleave.
func WriterSink(w io.Writer) Sink {
	return &writerSink{w: w}
}

var stderrSink = WriterSink(os.Stderr)

// StderrSink writes to the process's standard error.
func StderrSink() Sink { return stderrSink }

type zapSink struct {
	l *zap.Logger
}

func (s zapSink) Emit(text string) {
	s.l.Error(text)
	_ = s.l.Sync()
}

// ZapSink logs each diagnosis at error level.
func ZapSink(l *zap.Logger) Sink {
	return zapSink{l: l}
}
