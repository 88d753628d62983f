package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestRoundtrip(t *testing.T) {
	var w Writer
	w.U8(7)
	w.U32(1 << 20)
	w.U64(1 << 40)
	w.I64(-42)
	w.Fixed([]byte{1, 2, 3})
	w.VarBytes([]byte("payload"))
	w.String("name")

	r := NewReader(w.Bytes())
	if got := r.U8(); got != 7 {
		t.Errorf("U8 = %d, want 7", got)
	}
	if got := r.U32(); got != 1<<20 {
		t.Errorf("U32 = %d, want %d", got, 1<<20)
	}
	if got := r.U64(); got != 1<<40 {
		t.Errorf("U64 = %d, want %d", got, uint64(1)<<40)
	}
	if got := r.I64(); got != -42 {
		t.Errorf("I64 = %d, want -42", got)
	}
	fixed := make([]byte, 3)
	r.Fixed(fixed)
	if !bytes.Equal(fixed, []byte{1, 2, 3}) {
		t.Errorf("Fixed = %v", fixed)
	}
	if got := r.VarBytes(); !bytes.Equal(got, []byte("payload")) {
		t.Errorf("VarBytes = %q", got)
	}
	if got := r.String(); got != "name" {
		t.Errorf("String = %q", got)
	}
	if err := r.Done(); err != nil {
		t.Errorf("Done = %v", err)
	}
}

func TestTrailingBytes(t *testing.T) {
	var w Writer
	w.U8(1)
	w.U8(2)

	r := NewReader(w.Bytes())
	r.U8()
	if err := r.Done(); !errors.Is(err, ErrTrailingBytes) {
		t.Errorf("Done = %v, want ErrTrailingBytes", err)
	}
}

func TestTruncatedIsIncomplete(t *testing.T) {
	r := NewReader([]byte{1, 2})
	r.U64()
	if err := r.Err(); !Incomplete(err) {
		t.Errorf("Err = %v, want incomplete", err)
	}
}

func TestStickyError(t *testing.T) {
	r := NewReader([]byte{1})
	r.U64() // fails
	if got := r.U8(); got != 0 {
		t.Errorf("U8 after failure = %d, want 0", got)
	}
	if r.Err() == nil {
		t.Error("Err = nil after failed read")
	}
}

func TestVarBytesTooLarge(t *testing.T) {
	var w Writer
	w.U32(MaxVarLen + 1)

	r := NewReader(w.Bytes())
	r.VarBytes()
	if err := r.Err(); !errors.Is(err, ErrFieldTooLarge) {
		t.Errorf("Err = %v, want ErrFieldTooLarge", err)
	}
	if Incomplete(r.Err()) {
		t.Error("oversize length reported as incomplete")
	}
}

func TestZeroBufferIncomplete(t *testing.T) {
	r := NewReader(nil)
	r.U32()
	if !Incomplete(r.Err()) {
		t.Errorf("Err = %v, want incomplete", r.Err())
	}
}
