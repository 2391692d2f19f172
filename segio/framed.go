package segio

import (
	"fmt"
	"io"

	"github.com/epokhe/commitlog/commit"
	"github.com/epokhe/commitlog/rangespec"
)

// WriteCommit encodes c and appends it to w. No flush is performed;
// call the Segment's Sync (through a Syncer, e.g. BufferedWriter) to
// make the write durable. This is the bridge between the synchronous
// frame codec and whatever transport w wraps.
func WriteCommit(w io.Writer, c *commit.Commit) error {
	if err := c.Write(w); err != nil {
		return fmt.Errorf("segio: write commit: %w", err)
	}
	return nil
}

// ReadCommit decodes one commit from r. It returns (nil, nil) at a
// clean frame boundary.
func ReadCommit(r io.Reader) (*commit.Commit, error) {
	return commit.Decode(r)
}

// ScanCommits reads successive commits from r until a clean frame
// boundary or an error, invoking fn for each. It stops early and
// returns fn's error if fn returns one.
func ScanCommits(r io.Reader, fn func(*commit.Commit) error) error {
	for {
		c, err := commit.Decode(r)
		if err != nil {
			return err
		}
		if c == nil {
			return nil
		}
		if err := fn(c); err != nil {
			return err
		}
	}
}

// CommitsInRange scans r and returns only the commits whose
// transaction range intersects spec.
func CommitsInRange(r io.Reader, spec rangespec.RangeSpec) ([]*commit.Commit, error) {
	var out []*commit.Commit
	err := ScanCommits(r, func(c *commit.Commit) error {
		start, end := c.TxRange()
		if rangeIntersectsTxRange(spec, start, end) {
			out = append(out, c)
		}
		return nil
	})
	return out, err
}

// rangeIntersectsTxRange reports whether the half-open commit range
// [start, end) shares any offset with spec.
func rangeIntersectsTxRange(spec rangespec.RangeSpec, start, end uint64) bool {
	if end == start {
		return false
	}
	last := end - 1
	if spec.End != nil && start > *spec.End {
		return false
	}
	return last >= spec.Start
}
