// Package segio adapts a segment -- a file or an in-memory buffer --
// into the capability set a commit log needs: buffered sequential
// reads, append-only writes, seeking for tailing and recovery, fsync
// for durability, and length queries that don't disturb an in-progress
// read or write. It also carries the framed helpers that bridge the
// synchronous frame codec to that transport, including a tailing reader
// for following a concurrently-written segment.
//
// Go has no async/await; the capability set below is realized as plain
// blocking I/O behind interfaces, safe to call from its own goroutine
// and safe to interrupt at a blocking call via context.Context (see
// Tailer.Next).
package segio

import "io"

// Reader is the read-side capability: sequential reads, suitable for
// wrapping in a buffered reader with peek-ahead.
type Reader interface {
	io.Reader
}

// Writer is the write-side capability: append-only sequential writes.
type Writer interface {
	io.Writer
}

// Seeker positions a reader at a byte offset, used to resume tailing or
// to restart a scan during recovery. Writers are append-only and never
// need to implement Seeker.
type Seeker interface {
	io.Seeker
}

// Syncer forces durability of all previously accepted bytes to stable
// storage. The contract treats fsync as infallible: an implementation
// that cannot honor that must panic, or refuse to be constructed.
type Syncer interface {
	Sync() error
}

// Lenner reports the current length of the underlying segment without
// disturbing an in-progress read/write cursor.
type Lenner interface {
	Len() (int64, error)
}

// Segment is the full capability set required of a commit-log segment
// transport. io.ReaderAt is included because tailing needs to scan from
// an arbitrary offset repeatedly without disturbing the shared
// read/write cursor. Recovery, by contrast, seeks to the start and reads
// through that shared cursor.
type Segment interface {
	io.ReaderAt
	Reader
	Writer
	Seeker
	Syncer
	Lenner
}
