// Package frame implements the on-disk commit frame format: a fixed
// 14-byte header, an opaque payload, and a trailing CRC-32C checksum.
//
// A frame looks like:
//
//	offset 0      : u64  min_tx_offset
//	offset 8      : u16  n              (record count)
//	offset 10     : u32  len            (payload byte length)
//	offset 14     : u8[len] payload
//	offset 14+len : u32  crc32c         (over bytes 0..14+len)
//
// All multi-byte integers are little-endian. Segments may be
// pre-allocated with zero fill; a header whose 14 bytes are all zero is
// treated as "no further commits" rather than as a corrupt record.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

// HeaderLen is the fixed, serialized size of a commit frame's header.
const HeaderLen = 14

const crcLen = 4

// AlgoCRC32C is the wire tag identifying the checksum algorithm used by
// this log format: CRC-32 with the Castagnoli polynomial.
const AlgoCRC32C byte = 1

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

var (
	// ErrChecksumMismatch is returned when a frame's trailing CRC does
	// not match the checksum computed over its header and payload.
	ErrChecksumMismatch = errors.New("frame: checksum mismatch")

	// ErrTruncated is returned when a reader yields some, but not all,
	// of the bytes a complete frame requires before reaching EOF. This
	// is distinct from a clean EOF at a frame boundary (see Decode).
	ErrTruncated = errors.New("frame: truncated")
)

// Header is the fixed-layout prefix of every commit frame.
type Header struct {
	MinTxOffset uint64
	N           uint16
	Len         uint32
}

func (h Header) encode() [HeaderLen]byte {
	var buf [HeaderLen]byte
	binary.LittleEndian.PutUint64(buf[0:8], h.MinTxOffset)
	binary.LittleEndian.PutUint16(buf[8:10], h.N)
	binary.LittleEndian.PutUint32(buf[10:14], h.Len)
	return buf
}

func decodeHeaderBytes(buf [HeaderLen]byte) Header {
	return Header{
		MinTxOffset: binary.LittleEndian.Uint64(buf[0:8]),
		N:           binary.LittleEndian.Uint16(buf[8:10]),
		Len:         binary.LittleEndian.Uint32(buf[10:14]),
	}
}

// DecodeHeader reads exactly HeaderLen bytes from r and interprets them
// as a Header.
//
// It returns (nil, nil) if r yields zero bytes before any are read
// (clean EOF at a frame boundary), or if all HeaderLen bytes read back
// zero -- segments may be pre-allocated with zero fill, and a decoder
// encountering a zero header treats it as "no further commits" rather
// than a corrupt record, even if nonzero bytes follow it. A partial
// read (1..HeaderLen-1 bytes before EOF) is a truncation, reported as
// ErrTruncated, distinct from the clean-EOF case.
func DecodeHeader(r io.Reader) (*Header, error) {
	var buf [HeaderLen]byte
	n, err := io.ReadFull(r, buf[:])
	if err != nil {
		if n == 0 && errors.Is(err, io.EOF) {
			return nil, nil
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: header: read %d of %d bytes", ErrTruncated, n, HeaderLen)
		}
		return nil, err
	}

	if buf == ([HeaderLen]byte{}) {
		return nil, nil
	}

	h := decodeHeaderBytes(buf)
	return &h, nil
}

// crcWriter accumulates a running CRC-32C over every byte written
// through it, independent of whatever the wrapped writer does with it.
type crcWriter struct {
	w   io.Writer
	crc uint32
}

func (c *crcWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if n > 0 {
		c.crc = crc32.Update(c.crc, crc32cTable, p[:n])
	}
	return n, err
}

// crcReader mirrors crcWriter on the read side.
type crcReader struct {
	r   io.Reader
	crc uint32
}

func (c *crcReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.crc = crc32.Update(c.crc, crc32cTable, p[:n])
	}
	return n, err
}

// Encode writes one complete commit frame -- header, payload, and
// trailing CRC-32C -- to w. The checksum covers exactly the header and
// payload bytes; it is appended only after being computed, so the
// checksum itself is never part of its own computation. Encode performs
// no flush; durability is the caller's contract.
func Encode(w io.Writer, minTxOffset uint64, n uint16, records []byte) error {
	cw := &crcWriter{w: w}

	hdr := Header{MinTxOffset: minTxOffset, N: n, Len: uint32(len(records))}
	hb := hdr.encode()

	if _, err := cw.Write(hb[:]); err != nil {
		return fmt.Errorf("frame: write header: %w", err)
	}
	if _, err := cw.Write(records); err != nil {
		return fmt.Errorf("frame: write payload: %w", err)
	}

	var crcBuf [crcLen]byte
	binary.LittleEndian.PutUint32(crcBuf[:], cw.crc)
	if _, err := w.Write(crcBuf[:]); err != nil {
		return fmt.Errorf("frame: write crc: %w", err)
	}

	return nil
}

// Decode reads one complete commit frame from r and verifies its
// checksum.
//
// It returns (nil, nil, nil) at a clean frame boundary (see
// DecodeHeader). A checksum mismatch is reported as
// ErrChecksumMismatch; a partial header, payload, or trailing CRC is
// reported as ErrTruncated. Callers concerned about maliciously large
// len fields must impose their own upper bound -- the codec itself
// accepts any len and simply surfaces the resulting truncation.
func Decode(r io.Reader) (*Header, []byte, error) {
	cr := &crcReader{r: r}

	hdr, err := DecodeHeader(cr)
	if err != nil {
		return nil, nil, err
	}
	if hdr == nil {
		return nil, nil, nil
	}

	records := make([]byte, hdr.Len)
	n, err := io.ReadFull(cr, records)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, nil, fmt.Errorf("%w: payload: read %d of %d bytes", ErrTruncated, n, hdr.Len)
		}
		return nil, nil, fmt.Errorf("frame: read payload: %w", err)
	}

	// snapshot before reading the trailing CRC, which must not itself
	// be folded into the running checksum.
	computed := cr.crc

	var crcBuf [crcLen]byte
	if n, err := io.ReadFull(r, crcBuf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, nil, fmt.Errorf("%w: crc: read %d of %d bytes", ErrTruncated, n, crcLen)
		}
		return nil, nil, fmt.Errorf("frame: read crc: %w", err)
	}
	trailing := binary.LittleEndian.Uint32(crcBuf[:])

	if computed != trailing {
		return nil, nil, fmt.Errorf("%w: expected %x, got %x", ErrChecksumMismatch, trailing, computed)
	}

	return hdr, records, nil
}
