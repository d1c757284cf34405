// Package stream implements the positional binary wire format used for
// shipping entities between nodes. There's no framing and no field tags.
// Writer and reader have to agree on the exact field order, the nested
// encoders are self-delimiting.
package stream

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// maxLen caps any length prefix read from the wire. It guards against
// allocating unbounded buffers from a corrupted or truncated stream.
const maxLen = 1 << 26

// maxPrealloc caps the capacity allocated up front for a list read from
// the wire. The count is attacker-controlled, so larger lists grow via
// append while reading instead of being allocated in one piece.
const maxPrealloc = 1 << 10

// Writable can write itself to a stream writer.
type Writable interface {
	WriteTo(w *Writer) error
}

// Writer encodes values to an io.Writer. The first error sticks, all
// following writes are no-ops returning that error.
type Writer struct {
	w   io.Writer
	buf [binary.MaxVarintLen64]byte
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error that occurred while writing.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) write(p []byte) error {
	if w.err != nil {
		return w.err
	}

	if _, err := w.w.Write(p); err != nil {
		w.err = err
	}

	return w.err
}

// WriteUvarint writes an unsigned integer in variable-length encoding.
func (w *Writer) WriteUvarint(v uint64) error {
	n := binary.PutUvarint(w.buf[:], v)

	return w.write(w.buf[:n])
}

// WriteString writes a length-prefixed UTF-8 string.
func (w *Writer) WriteString(s string) error {
	if err := w.WriteUvarint(uint64(len(s))); err != nil {
		return err
	}

	return w.write([]byte(s))
}

// WriteOptionalString writes a presence flag followed by the string if
// it is present.
func (w *Writer) WriteOptionalString(s *string) error {
	if s == nil {
		return w.WriteBool(false)
	}

	if err := w.WriteBool(true); err != nil {
		return err
	}

	return w.WriteString(*s)
}

func (w *Writer) WriteBool(v bool) error {
	b := byte(0)
	if v {
		b = 1
	}

	return w.write([]byte{b})
}

func (w *Writer) WriteInt64(v int64) error {
	if w.err != nil {
		return w.err
	}

	binary.BigEndian.PutUint64(w.buf[:8], uint64(v))

	return w.write(w.buf[:8])
}

func (w *Writer) WriteFloat64(v float64) error {
	return w.WriteInt64(int64(math.Float64bits(v)))
}

// WriteStringList writes the number of elements followed by each string.
func (w *Writer) WriteStringList(list []string) error {
	if err := w.WriteUvarint(uint64(len(list))); err != nil {
		return err
	}

	for _, s := range list {
		if err := w.WriteString(s); err != nil {
			return err
		}
	}

	return w.err
}

// WriteList writes the number of elements followed by each element's
// own encoding.
func WriteList[T Writable](w *Writer, list []T) error {
	if err := w.WriteUvarint(uint64(len(list))); err != nil {
		return err
	}

	for _, e := range list {
		if err := e.WriteTo(w); err != nil {
			return err
		}
	}

	return w.err
}

// Reader decodes values from an io.Reader. As with the writer, the
// first error sticks.
type Reader struct {
	r   io.Reader
	br  io.ByteReader
	err error
}

func NewReader(r io.Reader) *Reader {
	nr := &Reader{r: r}

	if br, ok := r.(io.ByteReader); ok {
		nr.br = br
	} else {
		nr.br = &byteReader{r: r}
	}

	return nr
}

// Err returns the first error that occurred while reading.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) ReadUvarint() (uint64, error) {
	if r.err != nil {
		return 0, r.err
	}

	v, err := binary.ReadUvarint(r.br)
	if err != nil {
		r.err = err
	}

	return v, r.err
}

func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadUvarint()
	if err != nil {
		return "", err
	}

	if n > maxLen {
		r.err = fmt.Errorf("string length %d exceeds limit", n)
		return "", r.err
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		r.err = err
		return "", r.err
	}

	return string(buf), nil
}

func (r *Reader) ReadOptionalString() (*string, error) {
	present, err := r.ReadBool()
	if err != nil || !present {
		return nil, err
	}

	s, err := r.ReadString()
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *Reader) ReadBool() (bool, error) {
	if r.err != nil {
		return false, r.err
	}

	b, err := r.br.ReadByte()
	if err != nil {
		r.err = err
		return false, r.err
	}

	return b != 0, nil
}

func (r *Reader) ReadInt64() (int64, error) {
	if r.err != nil {
		return 0, r.err
	}

	var buf [8]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		r.err = err
		return 0, r.err
	}

	return int64(binary.BigEndian.Uint64(buf[:])), nil
}

func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadInt64()
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(uint64(v)), nil
}

func (r *Reader) ReadStringList() ([]string, error) {
	n, err := r.ReadUvarint()
	if err != nil {
		return nil, err
	}

	if n > maxLen {
		r.err = fmt.Errorf("list length %d exceeds limit", n)
		return nil, r.err
	}

	list := make([]string, 0, min(n, maxPrealloc))
	for i := uint64(0); i < n; i++ {
		s, err := r.ReadString()
		if err != nil {
			return nil, err
		}

		list = append(list, s)
	}

	return list, nil
}

// ReadList reads the number of elements followed by each element.
func ReadList[T any](r *Reader, read func(*Reader) (T, error)) ([]T, error) {
	n, err := r.ReadUvarint()
	if err != nil {
		return nil, err
	}

	if n > maxLen {
		r.err = fmt.Errorf("list length %d exceeds limit", n)
		return nil, r.err
	}

	list := make([]T, 0, min(n, maxPrealloc))
	for i := uint64(0); i < n; i++ {
		e, err := read(r)
		if err != nil {
			return nil, err
		}

		list = append(list, e)
	}

	return list, nil
}

type byteReader struct {
	r io.Reader
}

func (b *byteReader) ReadByte() (byte, error) {
	var buf [1]byte

	if _, err := io.ReadFull(b.r, buf[:]); err != nil {
		return 0, err
	}

	return buf[0], nil
}
