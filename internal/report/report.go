// Package report persists analyzed crashes.
//
// A Report bundles the raw exception with its diagnosis and a stable
// fingerprint. Crashes that share a kind and the same user frames share a
// fingerprint, which lets the Store count how often each one recurs.
package report

import (
	"encoding/hex"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"clearcrash/internal/diagnosis"
	"clearcrash/internal/frames"
	"clearcrash/pkg/crash"
	"clearcrash/pkg/version"
)

// testable time wrapper
var timeNow = time.Now

// fingerprintFrames bounds how much of the stack identifies a crash.
const fingerprintFrames = 8

// Host describes the process that produced the report.
type Host struct {
	OS        string `json:"os" yaml:"os" msgpack:"os"`
	Arch      string `json:"arch" yaml:"arch" msgpack:"arch"`
	GoVersion string `json:"go_version" yaml:"go_version" msgpack:"go_version"`
	Version   string `json:"version" yaml:"version" msgpack:"version"`
}

// Report is one analyzed crash.
type Report struct {
	ID          string               `json:"id" yaml:"id" msgpack:"id"`
	Fingerprint string               `json:"fingerprint" yaml:"fingerprint" msgpack:"fingerprint"`
	CreatedAt   time.Time            `json:"created_at" yaml:"created_at" msgpack:"created_at"`
	Occurrence  int                  `json:"occurrence,omitempty" yaml:"occurrence,omitempty" msgpack:"occurrence,omitempty"`
	Kind        string               `json:"kind" yaml:"kind" msgpack:"kind"`
	Message     string               `json:"message,omitempty" yaml:"message,omitempty" msgpack:"message,omitempty"`
	Causes      []crash.RawException `json:"causes,omitempty" yaml:"causes,omitempty" msgpack:"causes,omitempty"`
	Stack       []crash.StackFrame   `json:"stack,omitempty" yaml:"stack,omitempty" msgpack:"stack,omitempty"`
	Diagnosis   diagnosis.Diagnosis  `json:"diagnosis" yaml:"diagnosis" msgpack:"diagnosis"`
	Text        string               `json:"text" yaml:"text" msgpack:"text"`
	Host        Host                 `json:"host" yaml:"host" msgpack:"host"`
}

// New builds a report for exc. filter selects the frames that feed the
// fingerprint; nil means frames.Default.
func New(exc crash.RawException, d diagnosis.Diagnosis, text string, filter *frames.Filter) Report {
	return Report{
		ID:          uuid.NewString(),
		Fingerprint: Fingerprint(exc, filter),
		CreatedAt:   timeNow().UTC(),
		Kind:        exc.Kind,
		Message:     exc.Message,
		Causes:      exc.Causes,
		Stack:       exc.Stack,
		Diagnosis:   d,
		Text:        text,
		Host: Host{
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			GoVersion: runtime.Version(),
			Version:   version.Version,
		},
	}
}

// Fingerprint identifies a crash by its kind and the leading user frames.
// Line numbers are left out so that unrelated edits to a file do not split
// one crash into many. Stacks without user frames fall back to their
// leading frames.
func Fingerprint(exc crash.RawException, filter *frames.Filter) string {
	stack := filter.AllUserFrames(exc.Stack)
	if len(stack) == 0 {
		stack = exc.Stack
	}
	if len(stack) > fingerprintFrames {
		stack = stack[:fingerprintFrames]
	}

	h := blake3.New()
	_, _ = h.Write([]byte(exc.Kind))
	for _, f := range stack {
		_, _ = h.Write([]byte{'\n'})
		_, _ = h.Write([]byte(f.Type))
		_, _ = h.Write([]byte{'.'})
		_, _ = h.Write([]byte(f.Function))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ShortFingerprint returns the first eight hex digits of a fingerprint.
func ShortFingerprint(fp string) string {
	if len(fp) > 8 {
		return fp[:8]
	}
	return fp
}
