package message

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Normalizer cleans raw message text before extraction so that the same
// runtime message yields the same facts whatever transport delivered it.
type Normalizer struct {
	// stripBOM removes a leading UTF-8 byte order mark
	stripBOM bool
	// normalizeLineEndings converts CRLF and CR to LF
	normalizeLineEndings bool
	// composeUnicode applies NFC so visually equal names compare equal
	composeUnicode bool
}

// NewNormalizer creates a normalizer with every step enabled.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		stripBOM:             true,
		normalizeLineEndings: true,
		composeUnicode:       true,
	}
}

// NewNormalizerWithOptions creates a normalizer with custom settings.
func NewNormalizerWithOptions(stripBOM, normalizeLineEndings, composeUnicode bool) *Normalizer {
	return &Normalizer{
		stripBOM:             stripBOM,
		normalizeLineEndings: normalizeLineEndings,
		composeUnicode:       composeUnicode,
	}
}

// Normalize applies the enabled steps. Invalid UTF-8 sequences are replaced
// with U+FFFD rather than rejected; a message is never dropped.
func (n *Normalizer) Normalize(msg string) string {
	if n.stripBOM {
		msg = strings.TrimPrefix(msg, "\ufeff")
	}
	if !utf8.ValidString(msg) {
		msg = strings.ToValidUTF8(msg, "\ufffd")
	}
	if n.normalizeLineEndings {
		msg = strings.ReplaceAll(msg, "\r\n", "\n")
		msg = strings.ReplaceAll(msg, "\r", "\n")
	}
	if n.composeUnicode {
		msg = norm.NFC.String(msg)
	}
	return msg
}

var defaultNormalizer = NewNormalizer()

// Normalize applies the default normalization.
func Normalize(msg string) string {
	return defaultNormalizer.Normalize(msg)
}
