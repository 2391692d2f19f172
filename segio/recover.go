package segio

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/epokhe/commitlog/commit"
	"github.com/epokhe/commitlog/frame"
)

// RecoveryResult is the outcome of scanning one segment end to end.
type RecoveryResult struct {
	Commits   []*commit.Commit
	ValidSize int64 // byte offset the segment should be truncated to
}

// Truncater is implemented by segments that support discarding a torn
// tail found during recovery.
type Truncater interface {
	Truncate(n int64) error
}

// RecoverSegment scans seg from the beginning, stopping at the first
// clean EOF, truncated frame, or checksum mismatch, and returns the
// commits read so far along with the byte offset at which the segment
// is valid. If seg implements Truncater, it is truncated to that
// offset and its cursor repositioned to the new end, discarding any
// torn tail.
//
// Along the way, RecoverSegment also verifies that no transaction
// offset is produced twice across the segment's commits -- a
// corruption class the frame codec alone can't detect, since it
// validates one frame at a time.
func RecoverSegment(seg Segment) (*RecoveryResult, error) {
	if _, err := seg.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("recover: seek start: %w", err)
	}

	var (
		commits   []*commit.Commit
		validSize int64
		offsets   = mapset.NewSet[uint64]()
		br        = bufio.NewReader(seg)
	)

	for {
		c, err := commit.Decode(br)
		if err != nil {
			if errors.Is(err, frame.ErrTruncated) || errors.Is(err, frame.ErrChecksumMismatch) {
				break // torn tail or corruption: stop, keep what's valid so far
			}
			return nil, fmt.Errorf("recover: scan: %w", err)
		}
		if c == nil {
			break
		}

		start, end := c.TxRange()
		for off := start; off < end; off++ {
			if !offsets.Add(off) {
				return nil, fmt.Errorf("recover: duplicate transaction offset %d", off)
			}
		}

		commits = append(commits, c)
		validSize += c.EncodedLen()
	}

	if t, ok := seg.(Truncater); ok {
		if err := t.Truncate(validSize); err != nil {
			return nil, fmt.Errorf("recover: truncate: %w", err)
		}
	}

	return &RecoveryResult{Commits: commits, ValidSize: validSize}, nil
}
