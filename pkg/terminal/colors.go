// Package terminal provides terminal output utilities.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"golang.org/x/term"
)

// Color codes for terminal output
const (
	Reset  = "\033[0m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"
	White  = "\033[37m"
	Bold   = "\033[1m"
)

// ColorMode selects when escape sequences are emitted.
type ColorMode int32

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

func (m ColorMode) String() string {
	switch m {
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return "auto"
	}
}

// ParseColorMode accepts auto, always/on and never/off.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always", "on", "true":
		return ColorAlways, nil
	case "never", "off", "false":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

var mode atomic.Int32

// SetColorMode sets the process-wide colour mode.
func SetColorMode(m ColorMode) { mode.Store(int32(m)) }

// Mode returns the process-wide colour mode.
func Mode() ColorMode { return ColorMode(mode.Load()) }

// IsTerminal checks if output is to a terminal
func IsTerminal() bool {
	return IsTerminalWriter(os.Stdout)
}

// IsTerminalWriter reports whether w is a terminal file.
func IsTerminalWriter(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// ColorEnabled reports whether output to w should carry colour under the
// current mode. NO_COLOR disables colour unless the mode is ColorAlways.
func ColorEnabled(w io.Writer) bool {
	switch Mode() {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return os.Getenv("NO_COLOR") == "" && IsTerminalWriter(w)
}

// Colorize returns text with color codes if stdout supports it
func Colorize(color, text string) string {
	if !ColorEnabled(os.Stdout) {
		return text
	}
	return color + text + Reset
}

// Success prints green text
func Success(text string) string {
	return Colorize(Green, text)
}

// Error prints red text
func Error(text string) string {
	return Colorize(Red, text)
}

// Warning prints yellow text
func Warning(text string) string {
	return Colorize(Yellow, text)
}

// Info prints cyan text
func Info(text string) string {
	return Colorize(Cyan, text)
}

// DimText returns dimmed text
func DimText(text string) string {
	return Colorize(Dim, text)
}

// BoldText returns bold text
func BoldText(text string) string {
	return Colorize(Bold, text)
}
