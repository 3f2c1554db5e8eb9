// internal/protocol/lines.go
//
// Line framing for the newline-terminated text protocol.
//
// A LineReader yields one complete line per call to Next, independent of how the
// bytes were split across reads. A line longer than MaxLineLength is emitted in
// MaxLineLength-sized pieces instead of failing the connection.

package protocol

import (
	"bufio"
	"bytes"
	"io"
)

// MaxLineLength bounds a single protocol line (bytes, excluding the newline).
const MaxLineLength = 512

// LineReader reads protocol lines from a stream.
type LineReader struct {
	sc *bufio.Scanner
}

// NewLineReader wraps r.
func NewLineReader(r io.Reader) *LineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, MaxLineLength+1), MaxLineLength+1)
	sc.Split(splitLines)
	return &LineReader{sc: sc}
}

// Next returns the next line without its terminator.
// It returns io.EOF on orderly close and the underlying error otherwise.
func (lr *LineReader) Next() (string, error) {
	if lr.sc.Scan() {
		return lr.sc.Text(), nil
	}
	if err := lr.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// splitLines is bufio.ScanLines with truncation of over-long lines.
func splitLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 && i <= MaxLineLength {
		return i + 1, dropCR(data[:i]), nil
	}
	if len(data) >= MaxLineLength {
		return MaxLineLength, data[:MaxLineLength], nil
	}
	if atEOF {
		return len(data), dropCR(data), nil
	}
	return 0, nil, nil
}

func dropCR(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\r' {
		return b[:n-1]
	}
	return b
}
