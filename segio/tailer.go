package segio

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/zeebo/xxh3"

	"github.com/epokhe/commitlog/commit"
	"github.com/epokhe/commitlog/frame"
)

// maxSectionLen bounds the io.SectionReader windows Tailer opens over
// the segment; it's effectively "to the end of any real segment".
const maxSectionLen = 1<<63 - 1

// Tailer reads commits from a segment as they are durably appended by a
// concurrent writer, blocking between polls instead of returning EOF.
// It observes bytes only after the writer's buffer has been flushed to
// the underlying transport.
//
// Each poll opens a fresh io.SectionReader at the tailer's current
// offset rather than reusing one long-lived bufio.Reader over the
// segment's own Read cursor, so the segment can be rescanned repeatedly
// without the tailer and the segment's own read/write cursor fighting
// over position.
type Tailer struct {
	ra   io.ReaderAt
	pos  int64
	poll time.Duration

	// delivered deduplicates commits by a fast hash of their encoded
	// bytes, so that resuming a tail from an earlier byte offset after
	// a reconnect (Resume) never redelivers a commit already seen.
	delivered mapset.Set[uint64]
}

// TailerOption configures a Tailer at construction.
type TailerOption func(*Tailer)

// WithPollInterval overrides the default poll interval used when the
// tailer is waiting for more data to be flushed.
func WithPollInterval(d time.Duration) TailerOption {
	return func(t *Tailer) { t.poll = d }
}

// NewTailer returns a Tailer reading from the start of ra.
func NewTailer(ra io.ReaderAt, opts ...TailerOption) *Tailer {
	t := &Tailer{
		ra:        ra,
		poll:      50 * time.Millisecond,
		delivered: mapset.NewSet[uint64](),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Resume repositions the tailer to scan starting at byte offset pos,
// seeding its delivery-dedup cache so commits already observed before a
// reconnect are not redelivered.
func (t *Tailer) Resume(pos int64, priorHashes []uint64) {
	t.pos = pos
	t.delivered = mapset.NewSet(priorHashes...)
}

// Pos returns the tailer's current byte offset into the segment.
func (t *Tailer) Pos() int64 { return t.pos }

// DeliveredHashes returns the hashes of every commit this tailer has
// delivered so far, suitable for a later Resume after a reconnect.
func (t *Tailer) DeliveredHashes() []uint64 { return t.delivered.ToSlice() }

// Next blocks until the next commit is available, ctx is cancelled, or
// a non-recoverable error (checksum mismatch, transport error) occurs.
// A clean EOF or a truncated tail at the current position is not an
// error: Next polls and retries, since either one just means the
// writer hasn't finished flushing the next frame yet.
func (t *Tailer) Next(ctx context.Context) (*commit.Commit, error) {
	for {
		sr := io.NewSectionReader(t.ra, t.pos, maxSectionLen)
		br := bufio.NewReader(sr)

		c, err := commit.Decode(br)
		if err != nil {
			if errors.Is(err, frame.ErrTruncated) {
				if err := t.wait(ctx); err != nil {
					return nil, err
				}
				continue
			}
			return nil, fmt.Errorf("tailer: %w", err)
		}
		if c == nil {
			if err := t.wait(ctx); err != nil {
				return nil, err
			}
			continue
		}

		h := commitHash(c)
		t.pos += c.EncodedLen()
		if t.delivered.Contains(h) {
			continue
		}
		t.delivered.Add(h)
		return c, nil
	}
}

func (t *Tailer) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(t.poll):
		return nil
	}
}

// commitHash hashes a commit's encoded wire representation with xxh3,
// used purely as a fast, non-cryptographic dedup key -- not as the
// frame's durability checksum, which must be CRC-32C per the wire
// format.
func commitHash(c *commit.Commit) uint64 {
	var buf bytes.Buffer
	_ = c.Write(&buf) // writing to an in-memory buffer never fails
	return xxh3.Hash(buf.Bytes())
}
