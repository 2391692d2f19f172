package segio

import (
	"bytes"
	"io"

	"github.com/epokhe/commitlog/frame"
)

// CommitBuf holds an in-progress commit frame split into a fixed-size
// inline header and a growable payload buffer, so assembling a frame
// read off the wire -- or about to be written to it -- never requires
// copying the payload into a combined buffer first.
type CommitBuf struct {
	Header  [frame.HeaderLen]byte
	Payload []byte
}

// Reset clears buf for reuse, retaining Payload's backing array.
func (buf *CommitBuf) Reset() {
	buf.Header = [frame.HeaderLen]byte{}
	buf.Payload = buf.Payload[:0]
}

// Reader returns a chained read view header||payload suitable for
// feeding the synchronous frame codec without copying.
func (buf *CommitBuf) Reader() io.Reader {
	return io.MultiReader(bytes.NewReader(buf.Header[:]), bytes.NewReader(buf.Payload))
}

// FilledLen returns the total number of bytes currently held.
func (buf *CommitBuf) FilledLen() int {
	return len(buf.Header) + len(buf.Payload)
}

// WriteTo writes the chained header||payload view to w in one logical
// gather write.
func (buf *CommitBuf) WriteTo(w io.Writer) (int64, error) {
	n1, err := w.Write(buf.Header[:])
	if err != nil {
		return int64(n1), err
	}
	n2, err := w.Write(buf.Payload)
	return int64(n1 + n2), err
}
