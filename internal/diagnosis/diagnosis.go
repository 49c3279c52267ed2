// Package diagnosis holds the structured result of analyzing a crash and
// renders it as the fixed, sectioned text shown to developers.
package diagnosis

import (
	"strconv"
	"strings"

	"clearcrash/pkg/crash"
)

// Diagnosis is the explanation produced for one exception. A Diagnosis is
// built once by an analyzer and never mutated afterwards.
type Diagnosis struct {
	Title          string            `json:"title" yaml:"title" msgpack:"title"`
	Subtitle       string            `json:"subtitle,omitempty" yaml:"subtitle,omitempty" msgpack:"subtitle,omitempty"`
	WhatHappened   string            `json:"what_happened" yaml:"what_happened" msgpack:"what_happened"`
	WhyItHappened  []string          `json:"why_it_happened,omitempty" yaml:"why_it_happened,omitempty" msgpack:"why_it_happened,omitempty"`
	HowToFix       []string          `json:"how_to_fix,omitempty" yaml:"how_to_fix,omitempty" msgpack:"how_to_fix,omitempty"`
	Location       *crash.StackFrame `json:"location,omitempty" yaml:"location,omitempty" msgpack:"location,omitempty"`
	AdditionalInfo string            `json:"additional_info,omitempty" yaml:"additional_info,omitempty" msgpack:"additional_info,omitempty"`
}

// Valid reports whether the mandatory fields are populated.
func (d Diagnosis) Valid() bool {
	return strings.TrimSpace(d.Title) != "" && strings.TrimSpace(d.WhatHappened) != ""
}

// Markers are the symbols placed in front of each section heading.
type Markers struct {
	Header   string
	What     string
	Why      string
	Fix      string
	Info     string
	Location string
}

var (
	// EmojiMarkers is the default marker set.
	EmojiMarkers = Markers{
		Header:   "🔴",
		What:     "📋",
		Why:      "🔍",
		Fix:      "💡",
		Info:     "ℹ️",
		Location: "📍",
	}

	// ASCIIMarkers is for sinks that cannot display emoji.
	ASCIIMarkers = Markers{
		Header:   "[x]",
		What:     "[>]",
		Why:      "[?]",
		Fix:      "[+]",
		Info:     "[i]",
		Location: "[@]",
	}
)

// Options control presentation only. Style hooks wrap text in escape
// sequences and must not alter the text itself.
type Options struct {
	Markers Markers
	// Title styles the header line.
	Title func(string) string
	// Heading styles each section heading.
	Heading func(string) string
}

// Render formats d with the emoji markers and no styling.
func Render(d Diagnosis) string {
	return RenderWith(d, Options{})
}

// RenderWith formats d. Sections appear in a fixed order, absent sections
// are omitted together with their heading, sections are separated by one
// blank line and the result ends with a newline.
func RenderWith(d Diagnosis, opts Options) string {
	m := opts.Markers
	if m == (Markers{}) {
		m = EmojiMarkers
	}
	title := opts.Title
	if title == nil {
		title = identity
	}
	heading := opts.Heading
	if heading == nil {
		heading = identity
	}

	sections := make([]string, 0, 6)

	header := title(m.Header + " " + d.Title)
	if d.Subtitle != "" {
		header += "\n" + d.Subtitle
	}
	sections = append(sections, header)

	section := func(marker, name, body string) {
		sections = append(sections, heading(marker+" "+name+":")+"\n"+body)
	}

	section(m.What, "WHAT HAPPENED", d.WhatHappened)

	if len(d.WhyItHappened) > 0 {
		var sb strings.Builder
		for i, reason := range d.WhyItHappened {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString("• ")
			sb.WriteString(reason)
		}
		section(m.Why, "WHY IT HAPPENED", sb.String())
	}

	if len(d.HowToFix) > 0 {
		var sb strings.Builder
		for i, fix := range d.HowToFix {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(strconv.Itoa(i + 1))
			sb.WriteString(". ")
			sb.WriteString(fix)
		}
		section(m.Fix, "HOW TO FIX", sb.String())
	}

	if d.AdditionalInfo != "" {
		section(m.Info, "ADDITIONAL INFO", d.AdditionalInfo)
	}

	if d.Location != nil {
		section(m.Location, "IN YOUR CODE", d.Location.String())
	}

	return strings.Join(sections, "\n\n") + "\n"
}

func identity(s string) string { return s }
