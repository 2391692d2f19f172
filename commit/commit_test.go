package commit

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodedLenAndTxRange(t *testing.T) {
	c := &Commit{MinTxOffset: 7, N: 3, Records: make([]byte, 30)}

	start, end := c.TxRange()
	if start != 7 || end != 10 {
		t.Errorf("TxRange() = [%d, %d), want [7, 10)", start, end)
	}

	if got, want := c.EncodedLen(), int64(14+4+30); got != want {
		t.Errorf("EncodedLen() = %d, want %d", got, want)
	}
}

func TestWriteRejectsEmptyCommit(t *testing.T) {
	c := &Commit{MinTxOffset: 0, N: 0, Records: nil}
	if err := c.Write(&bytes.Buffer{}); !errors.Is(err, ErrEmptyCommit) {
		t.Fatalf("Write on empty commit: got %v, want ErrEmptyCommit", err)
	}
}

func TestRoundTrip(t *testing.T) {
	c := &Commit{MinTxOffset: 5, N: 2, Records: []byte("abcdef")}

	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.MinTxOffset != c.MinTxOffset || got.N != c.N || !bytes.Equal(got.Records, c.Records) {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, c)
	}
}

func TestExtractMetadata(t *testing.T) {
	c := &Commit{MinTxOffset: 100, N: 4, Records: make([]byte, 16)}

	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	md, err := ExtractMetadata(&buf)
	if err != nil {
		t.Fatalf("ExtractMetadata: %v", err)
	}
	if md.TxStart != 100 || md.TxEnd != 104 || md.SizeInBytes != uint64(c.EncodedLen()) {
		t.Errorf("unexpected metadata: %+v", md)
	}
}

func TestDecodeCleanEOF(t *testing.T) {
	c, err := Decode(&bytes.Buffer{})
	if err != nil {
		t.Fatalf("Decode on empty reader: %v", err)
	}
	if c != nil {
		t.Fatalf("expected nil commit on clean EOF, got %+v", c)
	}
}
