package state

import (
	"github.com/heliolabs/heliograph/pkg/addr"
)

func testAddr(b byte) addr.Address {
	var a addr.Address
	for i := range a {
		a[i] = b
	}
	return a
}

func testKey(label string) EncryptedKey {
	var k EncryptedKey
	copy(k.Header[:], "nacl/box")
	k.KeyID = KeyIDFromString(label)
	for i := range k.Ciphertext {
		k.Ciphertext[i] = byte(i)
	}
	return k
}
