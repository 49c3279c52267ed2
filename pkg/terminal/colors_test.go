package terminal

import (
	"bytes"
	"strings"
	"testing"
)

func withMode(t *testing.T, m ColorMode) {
	t.Helper()
	old := Mode()
	SetColorMode(m)
	t.Cleanup(func() { SetColorMode(old) })
}

func TestColorize_NoColorEnv(t *testing.T) {
	withMode(t, ColorAuto)
	t.Setenv("NO_COLOR", "1")

	txt := "hello"
	if got := Colorize(Red, txt); got != txt {
		t.Errorf("expected no colorization when NO_COLOR=1; got %q", got)
	}
	if got := BoldText(txt); got != txt {
		t.Errorf("expected no bold when NO_COLOR=1; got %q", got)
	}
}

func TestColorize_Modes(t *testing.T) {
	withMode(t, ColorAlways)
	t.Setenv("NO_COLOR", "1")
	if got := Error("x"); got != Red+"x"+Reset {
		t.Errorf("always mode should colorize, got %q", got)
	}

	SetColorMode(ColorNever)
	if got := Success("x"); got != "x" {
		t.Errorf("never mode should not colorize, got %q", got)
	}
}

func TestParseColorMode(t *testing.T) {
	cases := map[string]ColorMode{
		"":       ColorAuto,
		"auto":   ColorAuto,
		"ALWAYS": ColorAlways,
		"on":     ColorAlways,
		"never":  ColorNever,
		"off":    ColorNever,
	}
	for in, want := range cases {
		got, err := ParseColorMode(in)
		if err != nil || got != want {
			t.Errorf("ParseColorMode(%q) = (%v, %v), want %v", in, got, err, want)
		}
	}
	if _, err := ParseColorMode("sometimes"); err == nil {
		t.Error("expected error for invalid mode")
	}
	if ColorNever.String() != "never" || ColorAuto.String() != "auto" {
		t.Error("unexpected String() output")
	}
}

func TestIsTerminalWriter_Buffer(t *testing.T) {
	withMode(t, ColorAuto)
	var buf bytes.Buffer
	if IsTerminalWriter(&buf) || ColorEnabled(&buf) {
		t.Error("a buffer is not a terminal")
	}
}

func TestStyler(t *testing.T) {
	var buf bytes.Buffer

	withMode(t, ColorNever)
	plain := NewStyler(&buf)
	if plain.Enabled() || plain.Title("Boom") != "Boom" || plain.Heading("WHAT HAPPENED:") != "WHAT HAPPENED:" {
		t.Error("disabled styler must return text unchanged")
	}

	SetColorMode(ColorAlways)
	styled := NewStyler(&buf)
	got := styled.Title("Boom")
	if !styled.Enabled() || !strings.Contains(got, "Boom") || got == "Boom" {
		t.Errorf("enabled styler should wrap text, got %q", got)
	}
}
