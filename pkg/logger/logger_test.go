package logger

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// observe swaps the global logger for one recording at level.
func observe(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	old := defaultLogger
	defaultLogger = newLogger(zap.New(core), level)
	t.Cleanup(func() { defaultLogger = old })
	return logs
}

func messages(logs *observer.ObservedLogs) []string {
	var out []string
	for _, e := range logs.All() {
		out = append(out, e.Message)
	}
	return out
}

func TestLogger_VerboseLevel(t *testing.T) {
	logs := observe(t, VerboseLevel)

	Info("info message")
	Verbosef("verbose %d", 1)
	Debug("debug message - should be suppressed")
	StartTimer("op1")
	time.Sleep(5 * time.Millisecond)
	EndTimer("op1")
	EndTimer("never-started")

	got := strings.Join(messages(logs), "\n")
	for _, want := range []string{"info message", "verbose 1", "Starting: op1", "Completed op1 in"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "debug message") || strings.Contains(got, "never-started") {
		t.Errorf("unexpected output:\n%s", got)
	}
}

func TestLogger_DebugLevel(t *testing.T) {
	logs := observe(t, DebugLevel)

	Debugf("debug %s", "enabled")
	Warn("warn message")
	Errorf("error %d", 2)

	all := logs.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %v", messages(logs))
	}
	if all[0].Level != DebugLevel || all[1].Level != zapcore.WarnLevel || all[2].Level != zapcore.ErrorLevel {
		t.Errorf("unexpected levels: %v %v %v", all[0].Level, all[1].Level, all[2].Level)
	}
}

func TestLogger_InfoLevelSkipsTimers(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)
	StartTimer("op")
	EndTimer("op")
	Verbose("hidden")
	if logs.Len() != 0 {
		t.Errorf("expected no output, got %v", messages(logs))
	}
}

func TestL(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)
	L().Info("structured", zap.String("k", "v"))
	entries := logs.FilterMessage("structured").All()
	if len(entries) != 1 || entries[0].ContextMap()["k"] != "v" {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	old := defaultLogger
	defaultLogger = nil
	defer func() { defaultLogger = old }()
	L().Info("dropped")
	Info("dropped")
}

func TestLevelEncoder(t *testing.T) {
	enc := &arrayEncoder{}
	levelEncoder(false)(VerboseLevel, enc)
	levelEncoder(false)(DebugLevel, enc)
	levelEncoder(true)(zapcore.WarnLevel, enc)
	if enc.items[0] != "VERBOSE:" || enc.items[1] != "DEBUG:" {
		t.Errorf("unexpected prefixes: %q", enc.items)
	}
	if !strings.Contains(enc.items[2], "\033[33mWARN") {
		t.Errorf("expected coloured WARN, got %q", enc.items[2])
	}
}

type arrayEncoder struct {
	zapcore.PrimitiveArrayEncoder
	items []string
}

func (a *arrayEncoder) AppendString(s string) { a.items = append(a.items, s) }
