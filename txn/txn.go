// Package txn re-interprets a Commit's opaque payload bytes as a
// sequence of typed transaction records, via a caller-supplied Decoder.
package txn

import (
	"bufio"
	"bytes"

	"github.com/epokhe/commitlog/commit"
)

// Transaction is one typed record recovered from a Commit's payload.
type Transaction[T any] struct {
	Offset uint64
	TxData T
}

// Decoder is supplied by the caller to reinterpret a Commit's opaque
// payload bytes as typed transaction records. DecodeRecord must advance
// cursor by exactly the bytes it consumes -- under- or over-consumption
// is a Decoder contract violation the iterator cannot detect.
type Decoder[T any] interface {
	DecodeRecord(version uint8, offset uint64, cursor *bufio.Reader) (T, error)
}

// Iterator lazily decodes the transactions contained in a single
// Commit. It yields exactly Commit.N items, is not restartable, and
// short-circuits: once DecodeRecord returns an error, Next always
// returns false afterward.
//
// The iterator borrows the Commit's payload for its lifetime; the
// Commit must not be reused as a write target (or otherwise mutated)
// while iteration is in progress.
type Iterator[T any] struct {
	dec     Decoder[T]
	version uint8
	cursor  *bufio.Reader
	next    uint64
	end     uint64
	err     error
	stopped bool
}

// New returns an Iterator over c's transactions, decoding each record
// with dec under the given wire version.
func New[T any](c *commit.Commit, version uint8, dec Decoder[T]) *Iterator[T] {
	start, end := c.TxRange()
	return &Iterator[T]{
		dec:     dec,
		version: version,
		cursor:  bufio.NewReader(bytes.NewReader(c.Records)),
		next:    start,
		end:     end,
	}
}

// Next advances the iterator and returns the next transaction. It
// returns (zero, false) once Commit.N items have been produced, or
// after the first decoder error -- callers should then check Err.
func (it *Iterator[T]) Next() (Transaction[T], bool) {
	if it.stopped || it.err != nil || it.next >= it.end {
		it.stopped = true
		var zero Transaction[T]
		return zero, false
	}

	offset := it.next
	// the cursor is shared across calls: DecodeRecord picks up exactly
	// where the previous call left off.
	data, err := it.dec.DecodeRecord(it.version, offset, it.cursor)
	if err != nil {
		it.err = err
		it.stopped = true
		var zero Transaction[T]
		return zero, false
	}

	it.next++
	return Transaction[T]{Offset: offset, TxData: data}, true
}

// Err returns the first decoder error encountered, if any.
func (it *Iterator[T]) Err() error { return it.err }

// Collect drains the iterator into a slice, stopping (without error) at
// exhaustion, or returning the decoder's error if one occurred.
func (it *Iterator[T]) Collect() ([]Transaction[T], error) {
	out := make([]Transaction[T], 0, it.end-it.next)
	for {
		tx, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, tx)
	}
	return out, it.Err()
}
