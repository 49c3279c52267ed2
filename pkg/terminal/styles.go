package terminal

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styler renders headline text for one output stream.
type Styler struct {
	renderer *lipgloss.Renderer
	title    lipgloss.Style
	heading  lipgloss.Style
}

// NewStyler returns a styler for w. Colour is decided once, from the current
// colour mode and w itself.
func NewStyler(w io.Writer) *Styler {
	r := lipgloss.NewRenderer(w)
	// The renderer re-detects its profile from the writer; pin it so the
	// colour mode is authoritative.
	if ColorEnabled(w) {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Styler{
		renderer: r,
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		heading:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
	}
}

// Title styles a diagnosis header line.
func (s *Styler) Title(text string) string { return s.title.Render(text) }

// Heading styles a section heading.
func (s *Styler) Heading(text string) string { return s.heading.Render(text) }

// Enabled reports whether the styler emits escape sequences.
func (s *Styler) Enabled() bool {
	return s.renderer.ColorProfile() != termenv.Ascii
}
