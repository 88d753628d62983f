package state

import (
	"bytes"

	"github.com/heliolabs/heliograph/pkg/wire"
)

const (
	// KeyIDSize is the length of a wrapped-key identifier.
	KeyIDSize = 8

	// KeyHeaderSize is the length of a wrapped-key header.
	KeyHeaderSize = 8

	// KeyCiphertextSize is the length of the wrapped key material.
	KeyCiphertextSize = 104

	// EncryptedKeySize is the encoded size of an EncryptedKey record.
	EncryptedKeySize = KeyHeaderSize + KeyIDSize + KeyCiphertextSize
)

// KeyID identifies a wrapped key within its parent record.
type KeyID [KeyIDSize]byte

// KeyIDFromString builds a KeyID from a short label, zero-padded.
// Labels longer than KeyIDSize are truncated.
func KeyIDFromString(s string) KeyID {
	var id KeyID
	copy(id[:], s)
	return id
}

// String returns the label form of the key id, trailing zeros stripped.
func (id KeyID) String() string {
	return string(bytes.TrimRight(id[:], "\x00"))
}

// EncryptedKey is a content-encryption key wrapped under a key controlled
// by the owning identity. The engine stores it opaquely; it never inspects
// or verifies the ciphertext.
type EncryptedKey struct {
	Header     [KeyHeaderSize]byte
	KeyID      KeyID
	Ciphertext [KeyCiphertextSize]byte
}

// EncodeTo writes the fixed-width record form.
func (k EncryptedKey) EncodeTo(w *wire.Writer) {
	w.Fixed(k.Header[:])
	w.Fixed(k.KeyID[:])
	w.Fixed(k.Ciphertext[:])
}

// ReadEncryptedKey reads the fixed-width record form.
func ReadEncryptedKey(r *wire.Reader) EncryptedKey {
	var k EncryptedKey
	r.Fixed(k.Header[:])
	r.Fixed(k.KeyID[:])
	r.Fixed(k.Ciphertext[:])
	return k
}
