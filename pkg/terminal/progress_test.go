package terminal

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressBar_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressBar(&buf, 3, "test")
	p.Update(1)
	p.Increment()
	p.Finish()
	if buf.Len() != 0 {
		t.Errorf("expected no output for a non-terminal, got %q", buf.String())
	}
}

func TestProgressBar_Line(t *testing.T) {
	p := NewProgressBar(&bytes.Buffer{}, 4, "analyzing")
	p.current = 2
	line := p.line()
	if !strings.HasPrefix(line, "\ranalyzing [") || !strings.Contains(line, "] 2/4 (") {
		t.Errorf("unexpected line %q", line)
	}
	if strings.Count(line, "█") != 20 {
		t.Errorf("expected half-filled bar, got %q", line)
	}

	p.current = 9
	if !strings.Contains(p.line(), "] 4/4 (") {
		t.Error("progress must be clamped to total")
	}
}
