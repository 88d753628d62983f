package instruction

import (
	stderrors "errors"
	"testing"

	"github.com/heliolabs/heliograph/internal/state"
	"github.com/heliolabs/heliograph/pkg/addr"
	"github.com/heliolabs/heliograph/pkg/errors"
)

func testAddr(b byte) addr.Address {
	var a addr.Address
	for i := range a {
		a[i] = b
	}
	return a
}

func testKey(label string) state.EncryptedKey {
	var k state.EncryptedKey
	copy(k.Header[:], "nacl/box")
	k.KeyID = state.KeyIDFromString(label)
	for i := range k.Ciphertext {
		k.Ciphertext[i] = byte(i)
	}
	return k
}

func TestRoundtrip(t *testing.T) {
	cases := []Instruction{
		InitializeChannel{Name: "general", CEK: testKey("user")},
		InitializeDirectChannel{CreatorCEK: testKey("user"), InviteeCEK: testKey("peer")},
		Post{Message: "aGVsbG8="},
		AddToChannel{CEK: testKey("peer")},
		AddUserKey{Key: testKey("laptop")},
		RemoveUserKey{KeyID: state.KeyIDFromString("laptop")},
		CreateProfile{
			Alias:         "alice",
			AddressBook:   "ipfs://book",
			UserPublicKey: [32]byte{1, 2, 3},
			Keys:          []state.EncryptedKey{testKey("laptop"), testKey("phone")},
			Size:          512,
		},
		UpdateProfile{Alias: "alice", AddressBook: ""},
		CreateNotifications{Capacity: 8},
		AddNotification{NotificationKind: state.NotifyDirectChannelAdd, Related: testAddr(7)},
	}

	for _, in := range cases {
		t.Run(in.Kind().String(), func(t *testing.T) {
			got, err := Decode(Encode(in))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got.Kind() != in.Kind() {
				t.Fatalf("Kind = %s, want %s", got.Kind(), in.Kind())
			}
			switch want := in.(type) {
			case InitializeChannel:
				v := got.(InitializeChannel)
				if v.Name != want.Name || v.CEK != want.CEK {
					t.Errorf("decoded = %+v", v)
				}
			case InitializeDirectChannel:
				v := got.(InitializeDirectChannel)
				if v.CreatorCEK != want.CreatorCEK || v.InviteeCEK != want.InviteeCEK {
					t.Errorf("decoded = %+v", v)
				}
			case Post:
				if got.(Post).Message != want.Message {
					t.Errorf("decoded = %+v", got)
				}
			case CreateProfile:
				v := got.(CreateProfile)
				if v.Alias != want.Alias || v.AddressBook != want.AddressBook ||
					v.UserPublicKey != want.UserPublicKey || len(v.Keys) != 2 ||
					v.Keys[1] != want.Keys[1] || v.Size != want.Size {
					t.Errorf("decoded = %+v", v)
				}
			case AddNotification:
				v := got.(AddNotification)
				if v.NotificationKind != want.NotificationKind || v.Related != want.Related {
					t.Errorf("decoded = %+v", v)
				}
			}
		})
	}
}

func TestDecodeUnknownDiscriminant(t *testing.T) {
	if _, err := Decode([]byte{0xff}); !stderrors.Is(err, errors.ErrInvalidInstructionData) {
		t.Errorf("Decode = %v, want ErrInvalidInstructionData", err)
	}
}

func TestDecodeEmpty(t *testing.T) {
	if _, err := Decode(nil); !stderrors.Is(err, errors.ErrInvalidInstructionData) {
		t.Errorf("Decode = %v, want ErrInvalidInstructionData", err)
	}
}

func TestDecodeTrailingBytes(t *testing.T) {
	data := append(Encode(Post{Message: "m"}), 0x00)
	if _, err := Decode(data); !stderrors.Is(err, errors.ErrInvalidInstructionData) {
		t.Errorf("Decode = %v, want ErrInvalidInstructionData", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	data := Encode(InitializeChannel{Name: "general", CEK: testKey("user")})
	if _, err := Decode(data[:len(data)-10]); !stderrors.Is(err, errors.ErrInvalidInstructionData) {
		t.Errorf("Decode = %v, want ErrInvalidInstructionData", err)
	}
}

func TestDecodeProfileKeyCount(t *testing.T) {
	in := CreateProfile{Alias: "a", UserPublicKey: [32]byte{1}}
	for i := 0; i <= state.MaxUserKeys; i++ {
		in.Keys = append(in.Keys, testKey("k"))
	}
	if _, err := Decode(Encode(in)); !stderrors.Is(err, errors.ErrInvalidInstructionData) {
		t.Errorf("Decode = %v, want ErrInvalidInstructionData", err)
	}
}

func TestDecodeNotificationKindBound(t *testing.T) {
	data := Encode(AddNotification{NotificationKind: state.NotifyGroupChannelAdd, Related: testAddr(1)})
	data[1] = 0x7f // kind byte
	if _, err := Decode(data); !stderrors.Is(err, errors.ErrInvalidInstructionData) {
		t.Errorf("Decode = %v, want ErrInvalidInstructionData", err)
	}
}
