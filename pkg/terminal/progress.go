package terminal

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ProgressBar represents a terminal progress bar
type ProgressBar struct {
	out     io.Writer
	enabled bool
	total   int
	current int
	width   int
	prefix  string
	start   time.Time
}

// NewProgressBar creates a progress bar drawn on out. Nothing is drawn
// when out is not a terminal.
func NewProgressBar(out io.Writer, total int, prefix string) *ProgressBar {
	return &ProgressBar{
		out:     out,
		enabled: IsTerminalWriter(out),
		total:   total,
		width:   40,
		prefix:  prefix,
		start:   time.Now(),
	}
}

// Update updates the progress bar
func (p *ProgressBar) Update(current int) {
	p.current = current
	p.render()
}

// Increment increments the progress by 1
func (p *ProgressBar) Increment() {
	p.current++
	p.render()
}

// Finish completes the progress bar and clears its line
func (p *ProgressBar) Finish() {
	p.current = p.total
	p.render()
	if p.enabled {
		fmt.Fprint(p.out, "\r\033[K")
	}
}

func (p *ProgressBar) render() {
	if !p.enabled || p.total <= 0 {
		return
	}
	fmt.Fprint(p.out, p.line())
}

func (p *ProgressBar) line() string {
	current := min(max(p.current, 0), p.total)
	filled := current * p.width / p.total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)

	rate := 0.0
	if elapsed := time.Since(p.start).Seconds(); elapsed > 0 {
		rate = float64(current) / elapsed
	}
	return fmt.Sprintf("\r%s [%s] %d/%d (%.0f/s)", p.prefix, bar, current, p.total, rate)
}
