package crash

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidException is returned by Read for JSON input that decodes but
// does not describe an exception.
var ErrInvalidException = errors.New("exception has no kind")

// Read decodes one exception from r. Input whose first non-blank byte is
// '{' is decoded as a JSON RawException; anything else is parsed as a stack
// trace with ParseTrace.
func Read(r io.Reader) (RawException, error) {
	br := bufio.NewReader(r)
	for {
		b, err := br.Peek(1)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return RawException{}, ErrNoException
			}
			return RawException{}, fmt.Errorf("read exception: %w", err)
		}
		if !isLeadingNoise(b[0]) {
			break
		}
		_, _ = br.ReadByte()
	}

	if b, _ := br.Peek(1); b[0] != '{' {
		return ParseTrace(br)
	}

	var exc RawException
	dec := json.NewDecoder(br)
	if err := dec.Decode(&exc); err != nil {
		return RawException{}, fmt.Errorf("decode exception JSON: %w", err)
	}
	if strings.TrimSpace(exc.Kind) == "" {
		return RawException{}, ErrInvalidException
	}
	return exc, nil
}

// ReadBytes is Read over an in-memory buffer.
func ReadBytes(data []byte) (RawException, error) {
	return Read(bytes.NewReader(data))
}

// isLeadingNoise matches whitespace and the bytes of a UTF-8 byte order mark.
func isLeadingNoise(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == 0xEF || b == 0xBB || b == 0xBF
}
