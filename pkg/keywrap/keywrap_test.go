package keywrap

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
)

func testKeypair(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	return pub, priv
}

func TestSealOpenRoundtrip(t *testing.T) {
	pub, priv := testKeypair(t)

	key, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	sealed, err := Seal(key, pub)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	opened, err := Open(sealed, priv.Seed())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened != key {
		t.Error("opened key does not match sealed key")
	}
}

func TestOpenWrongRecipient(t *testing.T) {
	pub, _ := testKeypair(t)
	_, otherPriv := testKeypair(t)

	key, _ := GenerateKey()
	sealed, err := Seal(key, pub)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Open(sealed, otherPriv.Seed()); !errors.Is(err, ErrOpenFailed) {
		t.Errorf("Open = %v, want ErrOpenFailed", err)
	}
}

func TestOpenTampered(t *testing.T) {
	pub, priv := testKeypair(t)

	key, _ := GenerateKey()
	sealed, err := Seal(key, pub)
	if err != nil {
		t.Fatal(err)
	}
	sealed[SealedSize-1] ^= 1

	if _, err := Open(sealed, priv.Seed()); !errors.Is(err, ErrOpenFailed) {
		t.Errorf("Open = %v, want ErrOpenFailed", err)
	}
}

func TestSealUniquePerCall(t *testing.T) {
	pub, _ := testKeypair(t)
	key, _ := GenerateKey()

	s1, err := Seal(key, pub)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := Seal(key, pub)
	if err != nil {
		t.Fatal(err)
	}
	if s1 == s2 {
		t.Error("two seals of the same key are identical")
	}
}

func TestMessageRoundtrip(t *testing.T) {
	key, _ := GenerateKey()
	plaintext := []byte("hello channel")

	sealed, err := SealMessage(key, plaintext)
	if err != nil {
		t.Fatalf("SealMessage: %v", err)
	}
	opened, err := OpenMessage(key, sealed)
	if err != nil {
		t.Fatalf("OpenMessage: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Errorf("OpenMessage = %q, want %q", opened, plaintext)
	}
}

func TestMessageWrongKey(t *testing.T) {
	key, _ := GenerateKey()
	other, _ := GenerateKey()

	sealed, err := SealMessage(key, []byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := OpenMessage(other, sealed); !errors.Is(err, ErrOpenFailed) {
		t.Errorf("OpenMessage = %v, want ErrOpenFailed", err)
	}
}

func TestMessageTooShort(t *testing.T) {
	key, _ := GenerateKey()
	if _, err := OpenMessage(key, []byte("short")); !errors.Is(err, ErrOpenFailed) {
		t.Errorf("OpenMessage = %v, want ErrOpenFailed", err)
	}
}
