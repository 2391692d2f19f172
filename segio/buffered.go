package segio

import "bufio"

const defaultBufSize = 4096

// BufferedReader wraps a Segment in a buffered reader, and forwards
// Len so a reader never has to reach past the buffering layer to ask
// how long the segment currently is.
type BufferedReader struct {
	*bufio.Reader
	seg Segment
}

// NewBufferedReader returns a BufferedReader over seg.
func NewBufferedReader(seg Segment) *BufferedReader {
	return &BufferedReader{Reader: bufio.NewReaderSize(seg, defaultBufSize), seg: seg}
}

// Seek discards any buffered bytes and repositions the underlying
// segment directly.
func (r *BufferedReader) Seek(offset int64, whence int) (int64, error) {
	pos, err := r.seg.Seek(offset, whence)
	if err != nil {
		return 0, err
	}
	r.Reader.Reset(r.seg)
	return pos, nil
}

// Len forwards to the wrapped segment.
func (r *BufferedReader) Len() (int64, error) { return r.seg.Len() }

// BufferedWriter wraps a Segment in a buffered, coalescing writer. Sync
// flushes the buffer and then fsyncs the underlying segment, so callers
// never observe a "durable" acknowledgement for bytes still sitting in
// the buffer.
type BufferedWriter struct {
	*bufio.Writer
	seg Segment
}

// NewBufferedWriter returns a BufferedWriter over seg.
func NewBufferedWriter(seg Segment) *BufferedWriter {
	return &BufferedWriter{Writer: bufio.NewWriterSize(seg, defaultBufSize), seg: seg}
}

// Sync flushes buffered bytes to the segment, then fsyncs it.
func (w *BufferedWriter) Sync() error {
	if err := w.Flush(); err != nil {
		return err
	}
	return w.seg.Sync()
}

// Len flushes buffered bytes, then reports the segment's length --
// otherwise a just-written, not-yet-flushed commit would be invisible
// to a length query.
func (w *BufferedWriter) Len() (int64, error) {
	if err := w.Flush(); err != nil {
		return 0, err
	}
	return w.seg.Len()
}
