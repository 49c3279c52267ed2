package analyzer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"clearcrash/internal/diagnosis"
	"clearcrash/internal/frames"
	"clearcrash/pkg/crash"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type panicky struct{ NullRef }

func (panicky) WhatHappened(string, *crash.StackFrame) string { panic("analyzer bug") }

type blank struct{ NullRef }

func (blank) Title() string { return "" }

func TestEngine_EndToEndNullRef(t *testing.T) {
	exc := crash.RawException{
		Kind:    crash.KindNullRef,
		Message: "invoke virtual method 'int java.lang.String.length()'",
		Stack:   []crash.StackFrame{{Type: "Main", Function: "onCreate", Line: 42}},
	}
	out := NewEngine().Analyze(exc)

	require.Contains(t, out, "length(")
	require.Contains(t, out, "WHY IT HAPPENED:")
	require.Contains(t, out, "HOW TO FIX:")
	require.Contains(t, out, "📍 IN YOUR CODE:\nMain:42 in onCreate()\n")
}

func TestEngine_KindAliases(t *testing.T) {
	e := NewEngine()
	for kind, want := range map[string]string{
		"java.lang.NullPointerException":           "NullPointerException",
		"kotlin.KotlinNullPointerException":        "NullPointerException",
		"java.lang.ArrayIndexOutOfBoundsException": "IndexOutOfBoundsException",
		"IndexOutOfBounds":                         "IndexOutOfBoundsException",
		"java.lang.ClassCastException":             "ClassCastException",
	} {
		d := e.Diagnose(crash.RawException{Kind: kind})
		require.Equal(t, want, d.Title, "kind %s", kind)
	}
}

func TestEngine_UnknownKindUsesGeneric(t *testing.T) {
	e := NewEngine()
	exc := crash.RawException{
		Kind:    "java.lang.IllegalStateException",
		Message: "Fragment not attached to a context.",
		Stack: []crash.StackFrame{
			{Type: "androidx.fragment.app.Fragment", Function: "requireContext"},
			{Type: "com.example.SettingsFragment", Function: "onResume", File: "SettingsFragment.kt", Line: 31},
		},
	}
	out := e.Analyze(exc)

	require.True(t, strings.HasPrefix(out, "🔴 java.lang.IllegalStateException\nFragment not attached to a context.\n"))
	require.Contains(t, out, "SettingsFragment.kt:31 in onResume()")
	require.Contains(t, out, DefaultReportURL)
	require.NotContains(t, out, "WHY IT HAPPENED")
}

func TestEngine_NeverEmpty(t *testing.T) {
	e := NewEngine()
	for _, exc := range []crash.RawException{
		{},
		{Kind: crash.KindNullRef},
		{Kind: crash.KindIndexOutOfBounds},
		{Kind: crash.KindClassCast},
		{Kind: "Whatever"},
	} {
		out := e.Analyze(exc)
		require.NotEmpty(t, out)
		require.NotContains(t, out, "IN YOUR CODE", "no stack means no location")
	}

	d := e.Diagnose(crash.RawException{})
	require.Equal(t, "Unknown error", d.Title)
	require.Equal(t, "No error details available", d.Subtitle)
}

func TestEngine_FrameworkOnlyStackHasNoLocation(t *testing.T) {
	exc := crash.RawException{
		Kind:    crash.KindNullRef,
		Message: "boom",
		Stack: []crash.StackFrame{
			{Type: "android.os.Handler", Function: "dispatchMessage", Line: 10},
			{Type: "java.lang.reflect.Method", Function: "invoke"},
		},
	}
	require.NotContains(t, NewEngine().Analyze(exc), "IN YOUR CODE")
}

func TestEngine_RecoversFromAnalyzerPanic(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := NewEngine(WithLogger(zap.New(core)))
	e.Register(panicky{}, "Boom")

	exc := crash.RawException{Kind: "Boom", Message: "kaput"}
	var out string
	require.NotPanics(t, func() { out = e.Analyze(exc) })
	require.True(t, strings.HasPrefix(out, "🔴 Boom\nkaput\n"))

	entries := logs.FilterMessage("analyzer panicked, using generic diagnosis").All()
	require.Len(t, entries, 1)
	require.Equal(t, "Boom", entries[0].ContextMap()["kind"])
	require.Equal(t, "analyzer bug", entries[0].ContextMap()["panic"])
}

func TestEngine_IncompleteDiagnosisFallsBack(t *testing.T) {
	e := NewEngine()
	e.Register(blank{}, "Blank")
	d := e.Diagnose(crash.RawException{Kind: "Blank", Message: "m"})
	require.Equal(t, "Blank", d.Title)
}

func TestEngine_RegisterAndKinds(t *testing.T) {
	e := NewEngine(WithoutDefaults())
	require.Empty(t, e.Kinds())

	e.Register(ClassCast{}, "b", "a")
	require.Equal(t, []string{"a", "b"}, e.Kinds())

	a, ok := e.Lookup("a")
	require.True(t, ok)
	require.Equal(t, "ClassCastException", a.Title())

	_, ok = e.Lookup(crash.KindNullRef)
	require.False(t, ok)
}

func TestEngine_Options(t *testing.T) {
	rules := frames.DefaultRules()
	require.NoError(t, rules.AddPattern("com.example.vendor."))

	e := NewEngine(
		WithFilter(rules.Filter()),
		WithReportURL(""),
		WithRenderOptions(diagnosis.Options{Markers: diagnosis.ASCIIMarkers}),
	)
	exc := crash.RawException{
		Kind: "Custom",
		Stack: []crash.StackFrame{
			{Type: "com.example.vendor.Lib", Function: "call", Line: 1},
			{Type: "com.example.App", Function: "main", Line: 7},
		},
	}
	out := e.Analyze(exc)
	require.True(t, strings.HasPrefix(out, "[x] Custom\n"))
	require.Contains(t, out, "[@] IN YOUR CODE:\nApp:7 in main()\n")
	require.NotContains(t, out, "Help us improve")
}

func TestEngine_Deterministic(t *testing.T) {
	e := NewEngine()
	exc := crash.RawException{
		Kind:    "java.lang.NullPointerException",
		Message: "Attempt to read from field 'int com.example.Item.id' on a null object reference",
		Stack:   []crash.StackFrame{{Type: "com.example.ItemAdapter", Function: "onClick", Line: 88}},
	}
	require.Equal(t, e.Analyze(exc), e.Analyze(exc))
}

func TestEngine_AnalyzeAll(t *testing.T) {
	e := NewEngine()
	excs := make([]crash.RawException, 50)
	for i := range excs {
		excs[i] = crash.RawException{Kind: fmt.Sprintf("Kind%d", i)}
	}

	out, err := e.AnalyzeAll(context.Background(), excs)
	require.NoError(t, err)
	require.Len(t, out, len(excs))
	for i, text := range out {
		require.True(t, strings.HasPrefix(text, fmt.Sprintf("🔴 Kind%d\n", i)), "result %d out of order", i)
	}
}

func TestEngine_AnalyzeAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine().AnalyzeAll(ctx, make([]crash.RawException, 3))
	require.ErrorIs(t, err, context.Canceled)
}

func TestEngine_DiagnoseAllKeepsOrder(t *testing.T) {
	e := NewEngine()
	excs := []crash.RawException{
		{Kind: "NullPointerException"},
		{Kind: "java.lang.ArrayIndexOutOfBoundsException", Message: "Index: 5, Size: 3"},
		{Kind: "SomethingElse"},
	}

	ds, err := e.DiagnoseAll(context.Background(), excs)
	require.NoError(t, err)
	require.Len(t, ds, 3)
	require.Equal(t, "NullPointerException", ds[0].Title)
	require.Equal(t, "IndexOutOfBoundsException", ds[1].Title)
	require.Equal(t, "SomethingElse", ds[2].Title)
}
