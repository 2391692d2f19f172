package segio

import (
	"errors"
	"io"
	"sync"
)

// MemSegment is an in-memory Segment used for tests. It is single-task:
// callers must not read and write it concurrently from different
// goroutines expecting independent cursors.
type MemSegment struct {
	mu  sync.Mutex
	buf []byte
	pos int64
}

// NewMemSegment returns an empty in-memory segment.
func NewMemSegment() *MemSegment { return &MemSegment{} }

func (s *MemSegment) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pos >= int64(len(s.buf)) {
		return 0, io.EOF
	}
	n := copy(p, s.buf[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *MemSegment) ReadAt(p []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if off < 0 {
		return 0, errors.New("mem segment: negative offset")
	}
	if off >= int64(len(s.buf)) {
		return 0, io.EOF
	}
	n := copy(p, s.buf[off:])
	var err error
	if n < len(p) {
		err = io.EOF
	}
	return n, err
}

func (s *MemSegment) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needed := int(s.pos) + len(p)
	if needed > len(s.buf) {
		grown := make([]byte, needed)
		copy(grown, s.buf)
		s.buf = grown
	}
	n := copy(s.buf[s.pos:], p)
	s.pos += int64(n)
	return n, nil
}

func (s *MemSegment) Seek(offset int64, whence int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = s.pos + offset
	case io.SeekEnd:
		newPos = int64(len(s.buf)) + offset
	default:
		return 0, errors.New("mem segment: invalid whence")
	}
	if newPos < 0 {
		return 0, errors.New("mem segment: negative position")
	}
	s.pos = newPos
	return s.pos, nil
}

// Sync is a no-op: an in-memory segment has no stable storage to flush
// to, and test callers rely on that to exercise fsync-forwarding
// without touching a filesystem.
func (s *MemSegment) Sync() error { return nil }

func (s *MemSegment) Len() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.buf)), nil
}

// Truncate discards everything past n bytes, as FileSegment.Truncate
// does for file-backed segments.
func (s *MemSegment) Truncate(n int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n < int64(len(s.buf)) {
		s.buf = s.buf[:n]
	}
	s.pos = n
	return nil
}

// Bytes returns a copy of the segment's current contents, for test
// assertions.
func (s *MemSegment) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.buf))
	copy(out, s.buf)
	return out
}
