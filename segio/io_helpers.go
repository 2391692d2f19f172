package segio

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/epokhe/commitlog/frame"
)

// ReadOutcome distinguishes a fully-satisfied read from a clean EOF
// encountered before any bytes were consumed. It is only meaningful
// when ReadExactOrEOF's error is nil -- on error, the outcome is
// ReadInvalid and callers must branch on the error, not the outcome.
type ReadOutcome int

const (
	ReadInvalid ReadOutcome = iota
	ReadAll
	ReadEOF
)

// ReadExactOrEOF reads until buf is full, distinguishing clean EOF
// (zero bytes read before any consumption, returned as ReadEOF, nil)
// from a partial read -- some but not all of buf filled before EOF --
// which is reported as frame.ErrTruncated rather than silently folded
// into ReadEOF. Callers use this to decide whether a missing frame
// means "end of segment" or "corruption". Any non-nil error pairs with
// ReadInvalid, never with ReadAll or ReadEOF: callers must check err
// before trusting the outcome.
func ReadExactOrEOF(r io.Reader, buf []byte) (ReadOutcome, error) {
	n, err := io.ReadFull(r, buf)
	switch {
	case err == nil:
		return ReadAll, nil
	case n == 0 && errors.Is(err, io.EOF):
		return ReadEOF, nil
	case errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF):
		return ReadInvalid, fmt.Errorf("%w: read %d of %d bytes", frame.ErrTruncated, n, len(buf))
	default:
		return ReadInvalid, err
	}
}

// PeekBuf returns a borrowed view of br's internal buffer, refilling it
// if empty. A nil slice with a nil error means br is at EOF.
func PeekBuf(br *bufio.Reader) ([]byte, error) {
	if _, err := br.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	// Peek(1) only guarantees the buffer holds at least one byte;
	// expose everything currently buffered instead of just that byte.
	buffered, err := br.Peek(br.Buffered())
	if err != nil {
		return nil, err
	}
	return buffered, nil
}
