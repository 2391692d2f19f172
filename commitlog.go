// Package commitlog ties the frame codec, commit record, transaction
// iterator, and segment I/O layer together into a minimal single-
// segment writer and reader. Segment rotation, retention, and
// compaction are the orchestration layer's job, not this package's --
// Writer and Reader each own exactly one segment.
package commitlog

import (
	"context"
	"fmt"
	"sync"

	"github.com/epokhe/commitlog/commit"
	"github.com/epokhe/commitlog/rangespec"
	"github.com/epokhe/commitlog/segio"
)

// Writer appends commits to a single segment. Writes within one Writer
// are strictly sequential: there is no concurrent writer on a segment.
type Writer struct {
	mu  sync.Mutex
	seg segio.Segment
	bw  *segio.BufferedWriter
}

// NewWriter wraps seg for appending. Callers typically obtain seg via
// segio.CreateFileSegment or segio.OpenFileSegment.
func NewWriter(seg segio.Segment) *Writer {
	return &Writer{seg: seg, bw: segio.NewBufferedWriter(seg)}
}

// Append encodes c and appends it to the segment's write buffer. The
// write is not durable until a subsequent Sync is observed by the
// caller -- the core performs no implicit flush on commit boundaries;
// group-commit or per-commit sync policy belongs to the caller.
func (w *Writer) Append(c *commit.Commit) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := segio.WriteCommit(w.bw, c); err != nil {
		return fmt.Errorf("commitlog: append: %w", err)
	}
	return nil
}

// Sync flushes the write buffer and fsyncs the underlying segment,
// making every commit appended so far durable.
func (w *Writer) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.bw.Sync(); err != nil {
		return fmt.Errorf("commitlog: sync: %w", err)
	}
	return nil
}

// Len reports the segment's current length, including any commits
// still sitting in the write buffer.
func (w *Writer) Len() (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bw.Len()
}

// Reader scans commits from a single segment, starting from its
// current read position.
type Reader struct {
	seg segio.Segment
	br  *segio.BufferedReader
}

// NewReader wraps seg for sequential commit reads, starting at byte 0.
func NewReader(seg segio.Segment) (*Reader, error) {
	if _, err := seg.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("commitlog: seek start: %w", err)
	}
	return &Reader{seg: seg, br: segio.NewBufferedReader(seg)}, nil
}

// Next reads the next commit, or returns (nil, nil) at a clean frame
// boundary.
func (r *Reader) Next() (*commit.Commit, error) {
	c, err := segio.ReadCommit(r.br)
	if err != nil {
		return nil, fmt.Errorf("commitlog: read: %w", err)
	}
	return c, nil
}

// InRange scans every remaining commit and returns only those whose
// transaction range intersects spec.
func (r *Reader) InRange(spec rangespec.RangeSpec) ([]*commit.Commit, error) {
	commits, err := segio.CommitsInRange(r.br, spec)
	if err != nil {
		return nil, fmt.Errorf("commitlog: scan range: %w", err)
	}
	return commits, nil
}

// Recover scans seg end to end, discarding any torn tail, and returns
// the valid commits plus the byte offset the segment was truncated to.
// It is the minimal per-segment recovery primitive; sequencing recovery
// across multiple segments by min_tx_offset is the orchestration
// layer's job.
func Recover(seg segio.Segment) (*segio.RecoveryResult, error) {
	res, err := segio.RecoverSegment(seg)
	if err != nil {
		return nil, fmt.Errorf("commitlog: recover: %w", err)
	}
	return res, nil
}

// Tail follows a segment as a concurrent writer appends to it, blocking
// between polls rather than returning EOF. ctx bounds how long Tail
// waits for the next commit.
func Tail(ctx context.Context, seg segio.Segment, opts ...segio.TailerOption) (*commit.Commit, *segio.Tailer, error) {
	t := segio.NewTailer(seg, opts...)
	c, err := t.Next(ctx)
	if err != nil {
		return nil, t, fmt.Errorf("commitlog: tail: %w", err)
	}
	return c, t, nil
}
