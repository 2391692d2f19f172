package txn

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/epokhe/commitlog/commit"
)

// fixedWidthDecoder consumes exactly width bytes per record and returns
// them as a uint32.
type fixedWidthDecoder struct {
	width int
}

func (d fixedWidthDecoder) DecodeRecord(_ uint8, _ uint64, cursor *bufio.Reader) (uint32, error) {
	buf := make([]byte, d.width)
	if _, err := io.ReadFull(cursor, buf); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

func TestOffsetIteration(t *testing.T) {
	records := []byte{
		0, 0, 0, 1,
		0, 0, 0, 2,
		0, 0, 0, 3,
	}
	c := &commit.Commit{MinTxOffset: 7, N: 3, Records: records}

	it := New[uint32](c, 1, fixedWidthDecoder{width: 4})
	txs, err := it.Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	wantOffsets := []uint64{7, 8, 9}
	wantValues := []uint32{1, 2, 3}
	if len(txs) != 3 {
		t.Fatalf("got %d transactions, want 3", len(txs))
	}
	for i, tx := range txs {
		if tx.Offset != wantOffsets[i] {
			t.Errorf("tx[%d].Offset = %d, want %d", i, tx.Offset, wantOffsets[i])
		}
		if tx.TxData != wantValues[i] {
			t.Errorf("tx[%d].TxData = %d, want %d", i, tx.TxData, wantValues[i])
		}
	}
}

func TestIteratorIsFinite(t *testing.T) {
	c := &commit.Commit{MinTxOffset: 0, N: 2, Records: []byte{0, 0, 0, 1, 0, 0, 0, 2}}
	it := New[uint32](c, 1, fixedWidthDecoder{width: 4})

	count := 0
	for {
		if _, ok := it.Next(); !ok {
			break
		}
		count++
	}
	if count != 2 {
		t.Fatalf("produced %d items, want 2", count)
	}
	if _, ok := it.Next(); ok {
		t.Fatalf("iterator produced an item past exhaustion")
	}
}

var errDecode = errors.New("boom")

type failingDecoder struct{ failAt int }

func (d failingDecoder) DecodeRecord(_ uint8, offset uint64, _ *bufio.Reader) (int, error) {
	if int(offset) == d.failAt {
		return 0, errDecode
	}
	return int(offset), nil
}

func TestIteratorShortCircuitsOnDecoderError(t *testing.T) {
	c := &commit.Commit{MinTxOffset: 0, N: 5, Records: nil}
	it := New[int](c, 1, failingDecoder{failAt: 2})

	var got []int
	for {
		tx, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, tx.TxData)
	}

	if len(got) != 2 {
		t.Fatalf("got %d items before the error, want 2", len(got))
	}
	if !errors.Is(it.Err(), errDecode) {
		t.Fatalf("Err() = %v, want errDecode", it.Err())
	}
	// subsequent calls keep returning false
	if _, ok := it.Next(); ok {
		t.Fatalf("expected iterator to stay stopped after an error")
	}
}
