package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Encoder writes reports in one format.
type Encoder interface {
	Encode(w io.Writer, r Report) error
	// Extension is the file extension, without the dot.
	Extension() string
}

// Formats lists the names accepted by EncoderFor.
var Formats = []string{"text", "json", "yaml", "msgpack"}

// EncoderFor returns the encoder registered under format.
func EncoderFor(format string) (Encoder, error) {
	switch strings.ToLower(format) {
	case "", "text", "txt":
		return TextEncoder{}, nil
	case "json":
		return JSONEncoder{Pretty: true}, nil
	case "yaml", "yml":
		return YAMLEncoder{}, nil
	case "msgpack", "mp":
		return MsgpackEncoder{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// JSONEncoder writes reports as JSON.
type JSONEncoder struct {
	Pretty bool
}

func (JSONEncoder) Extension() string { return "json" }

func (je JSONEncoder) Encode(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	if je.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// YAMLEncoder writes reports as YAML.
type YAMLEncoder struct{}

func (YAMLEncoder) Extension() string { return "yaml" }

func (YAMLEncoder) Encode(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush YAML: %w", err)
	}
	return nil
}

// MsgpackEncoder writes reports as MessagePack.
type MsgpackEncoder struct{}

func (MsgpackEncoder) Extension() string { return "msgpack" }

func (MsgpackEncoder) Encode(w io.Writer, r Report) error {
	if err := msgpack.NewEncoder(w).Encode(r); err != nil {
		return fmt.Errorf("failed to encode msgpack: %w", err)
	}
	return nil
}

// TextEncoder writes the human-readable crash report.
type TextEncoder struct{}

func (TextEncoder) Extension() string { return "txt" }

func (TextEncoder) Encode(w io.Writer, r Report) error {
	_, err := fmt.Fprintf(w, `clearcrash Crash Report
=======================
ID: %s
Time: %s
Fingerprint: %s
Occurrence: %d
Version: %s
OS: %s
Arch: %s

%s`, r.ID, r.CreatedAt.Format(time.RFC3339), r.Fingerprint, r.Occurrence,
		r.Host.Version, r.Host.OS, r.Host.Arch, r.Text)
	return err
}
