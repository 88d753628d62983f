// Package keywrap seals and opens content-encryption keys for Ed25519
// recipients using NaCl box (X25519 + XSalsa20-Poly1305). The sealed
// form is fixed-size, so wrapped keys fit the fixed-width slots of
// key-distribution records.
package keywrap

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/nacl/box"
)

const (
	// KeySize is the length of a content-encryption key.
	KeySize = 32

	// SealedSize is the length of a sealed key:
	// ephemeralPub(32) || nonce(24) || ciphertext(KeySize+overhead).
	SealedSize = 32 + 24 + KeySize + box.Overhead

	// Scheme names the sealing construction; it goes in the header slot
	// of a wrapped-key record.
	Scheme = "nacl/box"
)

// ErrOpenFailed indicates authentication failure on open: the wrapped
// key was not sealed for this recipient, or was tampered with.
var ErrOpenFailed = errors.New("keywrap: open failed")

// GenerateKey produces a fresh random content-encryption key.
func GenerateKey() ([KeySize]byte, error) {
	var k [KeySize]byte
	if _, err := rand.Read(k[:]); err != nil {
		return [KeySize]byte{}, fmt.Errorf("generate key: %w", err)
	}
	return k, nil
}

// edToX25519Private converts an Ed25519 seed to an X25519 private key.
// This mirrors the Ed25519 key expansion: SHA-512(seed)[:32] with clamping.
func edToX25519Private(seed []byte) [32]byte {
	h := sha512.Sum512(seed)
	// Clamp per RFC 7748.
	h[0] &= 248
	h[31] &= 127
	h[31] |= 64
	var priv [32]byte
	copy(priv[:], h[:32])
	return priv
}

// edToX25519Public converts an Ed25519 public key to an X25519 public key
// using the birational map from Edwards to Montgomery form.
func edToX25519Public(pub ed25519.PublicKey) ([32]byte, error) {
	p, err := new(edwards25519.Point).SetBytes(pub)
	if err != nil {
		return [32]byte{}, fmt.Errorf("invalid Ed25519 public key: %w", err)
	}
	return *(*[32]byte)(p.BytesMontgomery()), nil
}

// Seal encrypts a content-encryption key for a recipient identified by
// their Ed25519 public key.
func Seal(key [KeySize]byte, recipientPub ed25519.PublicKey) ([SealedSize]byte, error) {
	var out [SealedSize]byte

	recipientX, err := edToX25519Public(recipientPub)
	if err != nil {
		return out, fmt.Errorf("convert recipient key: %w", err)
	}

	ephPub, ephPriv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return out, fmt.Errorf("generate ephemeral key: %w", err)
	}

	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return out, fmt.Errorf("generate nonce: %w", err)
	}

	copy(out[:32], ephPub[:])
	copy(out[32:56], nonce[:])
	box.Seal(out[56:56], key[:], &nonce, &recipientX, ephPriv)
	return out, nil
}

// Open decrypts a sealed content-encryption key using the recipient's
// Ed25519 seed (the first half of the private key).
func Open(sealed [SealedSize]byte, recipientSeed []byte) ([KeySize]byte, error) {
	var ephPub [32]byte
	copy(ephPub[:], sealed[:32])
	var nonce [24]byte
	copy(nonce[:], sealed[32:56])
	ciphertext := sealed[56:]

	recipientX := edToX25519Private(recipientSeed)
	plaintext, ok := box.Open(nil, ciphertext, &nonce, &ephPub, &recipientX)
	if !ok {
		return [KeySize]byte{}, ErrOpenFailed
	}
	var key [KeySize]byte
	copy(key[:], plaintext)
	return key, nil
}
