package addr

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
)

func testAddress(b byte) Address {
	var a Address
	for i := range a {
		a[i] = b
	}
	return a
}

func TestParseRoundtrip(t *testing.T) {
	a := testAddress(0x42)
	parsed, err := Parse(a.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed != a {
		t.Errorf("Parse(String()) = %s, want %s", parsed, a)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse("not!base58!"); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("Parse = %v, want ErrInvalidEncoding", err)
	}
	// Valid base58 but wrong length.
	if _, err := Parse("abc"); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("Parse short = %v, want ErrInvalidEncoding", err)
	}
}

func TestFromBytes(t *testing.T) {
	raw := bytes.Repeat([]byte{7}, Size)
	a, err := FromBytes(raw)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if !bytes.Equal(a.Bytes(), raw) {
		t.Error("Bytes() does not match input")
	}

	if _, err := FromBytes(raw[:Size-1]); err == nil {
		t.Error("FromBytes accepted short input")
	}
}

func TestFromPublicKey(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	a := FromPublicKey(pub)
	if !bytes.Equal(a.Bytes(), pub) {
		t.Error("address does not match public key bytes")
	}
}

func TestIsZero(t *testing.T) {
	if !Zero.IsZero() {
		t.Error("Zero.IsZero() = false")
	}
	if testAddress(1).IsZero() {
		t.Error("nonzero address reported zero")
	}
}

func TestLess(t *testing.T) {
	a, b := testAddress(1), testAddress(2)
	if !a.Less(b) {
		t.Error("a.Less(b) = false")
	}
	if b.Less(a) {
		t.Error("b.Less(a) = true")
	}
	if a.Less(a) {
		t.Error("a.Less(a) = true")
	}
}

func TestMarshalText(t *testing.T) {
	a := testAddress(0x99)
	text, err := a.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var back Address
	if err := back.UnmarshalText(text); err != nil {
		t.Fatal(err)
	}
	if back != a {
		t.Errorf("unmarshal = %s, want %s", back, a)
	}
}
