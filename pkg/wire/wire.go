// Package wire implements the length-prefixed binary encoding used for
// ledger account records and instruction payloads.
//
// Integers are little-endian. Strings and byte vectors carry a u32 length
// prefix. Addresses and key material are fixed-width arrays with no prefix.
package wire

import (
	"encoding/binary"
	"errors"
	"io"
)

// MaxVarLen bounds a single length-prefixed field. Anything larger is a
// malformed buffer, not a legitimate record.
const MaxVarLen = 1 << 20

var (
	// ErrTrailingBytes indicates a strict decode left unconsumed input.
	ErrTrailingBytes = errors.New("trailing bytes after decode")

	// ErrFieldTooLarge indicates a length prefix above MaxVarLen.
	ErrFieldTooLarge = errors.New("field exceeds maximum length")
)

// Writer builds an encoded buffer. The zero value is ready to use.
type Writer struct {
	buf []byte
}

// U8 appends a single byte.
func (w *Writer) U8(v uint8) {
	w.buf = append(w.buf, v)
}

// U32 appends a little-endian uint32.
func (w *Writer) U32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// U64 appends a little-endian uint64.
func (w *Writer) U64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

// I64 appends a little-endian int64.
func (w *Writer) I64(v int64) {
	w.U64(uint64(v))
}

// Fixed appends bytes verbatim, with no length prefix.
func (w *Writer) Fixed(b []byte) {
	w.buf = append(w.buf, b...)
}

// VarBytes appends a u32 length prefix followed by the bytes.
func (w *Writer) VarBytes(b []byte) {
	w.U32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

// String appends a u32 length prefix followed by the string bytes.
func (w *Writer) String(s string) {
	w.VarBytes([]byte(s))
}

// Bytes returns the encoded buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Reader consumes an encoded buffer. The first decode failure is sticky:
// subsequent reads return zero values and Err reports the failure.
type Reader struct {
	buf []byte
	off int
	err error
}

// NewReader wraps a buffer for decoding.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Err returns the first decode error, if any.
func (r *Reader) Err() error {
	return r.err
}

// Remaining returns the number of unconsumed bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Done fails with ErrTrailingBytes if unconsumed input remains. Strict
// decoders (instructions) call this; record decoders do not, since account
// buffers are allocated larger than their current contents.
func (r *Reader) Done() error {
	if r.err != nil {
		return r.err
	}
	if r.off != len(r.buf) {
		return ErrTrailingBytes
	}
	return nil
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.Remaining() < n {
		r.err = io.ErrUnexpectedEOF
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

// U8 reads a single byte.
func (r *Reader) U8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// U32 reads a little-endian uint32.
func (r *Reader) U32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// U64 reads a little-endian uint64.
func (r *Reader) U64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// I64 reads a little-endian int64.
func (r *Reader) I64() int64 {
	return int64(r.U64())
}

// Fixed reads exactly n bytes into dst.
func (r *Reader) Fixed(dst []byte) {
	b := r.take(len(dst))
	if b != nil {
		copy(dst, b)
	}
}

// VarBytes reads a u32 length prefix followed by that many bytes.
// The returned slice is a copy.
func (r *Reader) VarBytes() []byte {
	n := r.U32()
	if r.err != nil {
		return nil
	}
	if n > MaxVarLen {
		r.err = ErrFieldTooLarge
		return nil
	}
	b := r.take(int(n))
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// String reads a u32 length prefix followed by that many string bytes.
func (r *Reader) String() string {
	return string(r.VarBytes())
}

// Incomplete reports whether the reader failed by running off the end of
// the buffer. An all-zero or truncated account buffer decodes this way and
// is treated as uninitialized rather than corrupt.
func Incomplete(err error) bool {
	return errors.Is(err, io.ErrUnexpectedEOF)
}
