// Package commit holds the in-memory representation of a single
// durably-appended batch of transaction records, built on top of the
// frame codec.
package commit

import (
	"errors"
	"io"

	"github.com/epokhe/commitlog/frame"
)

// ErrEmptyCommit is returned when attempting to write a commit with
// zero transactions. Pre-allocated segments are zero-filled, so an
// all-zero header must unambiguously mean "no further commits"; callers
// must never write a commit with N == 0.
var ErrEmptyCommit = errors.New("commit: commit has zero transactions")

// Commit is one durably-appended batch of transaction records. Records
// is opaque to this package: interpreting it is the caller's job, via
// the txn package's Decoder.
type Commit struct {
	MinTxOffset uint64
	N           uint16
	Records     []byte
}

// TxRange returns the half-open range of transaction offsets this
// commit covers: [MinTxOffset, MinTxOffset+N).
func (c *Commit) TxRange() (start, end uint64) {
	return c.MinTxOffset, c.MinTxOffset + uint64(c.N)
}

// EncodedLen returns the number of bytes c occupies on disk once
// framed: 14-byte header + 4-byte CRC + len(Records).
func (c *Commit) EncodedLen() int64 {
	return int64(frame.HeaderLen) + 4 + int64(len(c.Records))
}

// Write serializes c to w via the frame codec. It rejects commits with
// N == 0 so a decoder never has to distinguish a legal empty commit
// from a pre-allocated zero hole.
func (c *Commit) Write(w io.Writer) error {
	if c.N == 0 {
		return ErrEmptyCommit
	}
	return frame.Encode(w, c.MinTxOffset, c.N, c.Records)
}

// Decode reads one Commit from r. It returns (nil, nil) at a clean
// frame boundary: end of log, or a zero-filled pre-allocated hole.
func Decode(r io.Reader) (*Commit, error) {
	hdr, records, err := frame.Decode(r)
	if err != nil {
		return nil, err
	}
	if hdr == nil {
		return nil, nil
	}
	return &Commit{MinTxOffset: hdr.MinTxOffset, N: hdr.N, Records: records}, nil
}

// Metadata is the durable summary of a single validated Commit: its
// transaction range and on-disk size, without retaining the payload.
type Metadata struct {
	TxStart     uint64
	TxEnd       uint64
	SizeInBytes uint64
}

// ExtractMetadata decodes one Commit from r and reduces it to Metadata.
// Note that this still has to decode (and checksum-verify) the full
// commit, since metadata can't be trusted without it.
func ExtractMetadata(r io.Reader) (*Metadata, error) {
	c, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	start, end := c.TxRange()
	return &Metadata{TxStart: start, TxEnd: end, SizeInBytes: uint64(c.EncodedLen())}, nil
}
