// Package instruction defines the engine's wire commands: a closed tagged
// union with a one-byte discriminant. Decoding is strict and exhaustive;
// an unrecognized discriminant or malformed body fails loudly, it never
// falls through to a no-op.
package instruction

import (
	"fmt"

	"github.com/heliolabs/heliograph/internal/state"
	"github.com/heliolabs/heliograph/pkg/addr"
	"github.com/heliolabs/heliograph/pkg/errors"
	"github.com/heliolabs/heliograph/pkg/wire"
)

// Kind is the instruction discriminant.
type Kind uint8

const (
	KindInitializeChannel Kind = iota
	KindInitializeDirectChannel
	KindPost
	KindAddToChannel
	KindAddUserKey
	KindRemoveUserKey
	KindCreateProfile
	KindUpdateProfile
	KindCreateNotifications
	KindAddNotification
)

// String returns the instruction name, for logs and metrics labels.
func (k Kind) String() string {
	switch k {
	case KindInitializeChannel:
		return "initialize_channel"
	case KindInitializeDirectChannel:
		return "initialize_direct_channel"
	case KindPost:
		return "post"
	case KindAddToChannel:
		return "add_to_channel"
	case KindAddUserKey:
		return "add_user_key"
	case KindRemoveUserKey:
		return "remove_user_key"
	case KindCreateProfile:
		return "create_profile"
	case KindUpdateProfile:
		return "update_profile"
	case KindCreateNotifications:
		return "create_notifications"
	case KindAddNotification:
		return "add_notification"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Instruction is one decoded command variant.
type Instruction interface {
	Kind() Kind
	encodeBody(w *wire.Writer)
}

// InitializeChannel creates a group channel and the creator's
// key-distribution account in one call.
type InitializeChannel struct {
	Name string
	CEK  state.EncryptedKey
}

func (InitializeChannel) Kind() Kind { return KindInitializeChannel }

func (in InitializeChannel) encodeBody(w *wire.Writer) {
	w.String(in.Name)
	in.CEK.EncodeTo(w)
}

// InitializeDirectChannel creates a two-party channel plus both
// participants' key-distribution accounts atomically.
type InitializeDirectChannel struct {
	CreatorCEK state.EncryptedKey
	InviteeCEK state.EncryptedKey
}

func (InitializeDirectChannel) Kind() Kind { return KindInitializeDirectChannel }

func (in InitializeDirectChannel) encodeBody(w *wire.Writer) {
	in.CreatorCEK.EncodeTo(w)
	in.InviteeCEK.EncodeTo(w)
}

// Post appends a message to a channel.
type Post struct {
	Message string
}

func (Post) Kind() Kind { return KindPost }

func (in Post) encodeBody(w *wire.Writer) {
	w.String(in.Message)
}

// AddToChannel creates a key-distribution account for the invitee,
// admitting them to the channel.
type AddToChannel struct {
	CEK state.EncryptedKey
}

func (AddToChannel) Kind() Kind { return KindAddToChannel }

func (in AddToChannel) encodeBody(w *wire.Writer) {
	in.CEK.EncodeTo(w)
}

// AddUserKey appends a wrapped user key to a profile.
type AddUserKey struct {
	Key state.EncryptedKey
}

func (AddUserKey) Kind() Kind { return KindAddUserKey }

func (in AddUserKey) encodeBody(w *wire.Writer) {
	in.Key.EncodeTo(w)
}

// RemoveUserKey removes a wrapped user key from a profile by key id.
type RemoveUserKey struct {
	KeyID state.KeyID
}

func (RemoveUserKey) Kind() Kind { return KindRemoveUserKey }

func (in RemoveUserKey) encodeBody(w *wire.Writer) {
	w.Fixed(in.KeyID[:])
}

// CreateProfile creates an identity's profile record.
type CreateProfile struct {
	Alias         string
	AddressBook   string
	UserPublicKey [32]byte
	Keys          []state.EncryptedKey
	Size          uint32
}

func (CreateProfile) Kind() Kind { return KindCreateProfile }

func (in CreateProfile) encodeBody(w *wire.Writer) {
	w.String(in.Alias)
	w.String(in.AddressBook)
	w.Fixed(in.UserPublicKey[:])
	w.U32(uint32(len(in.Keys)))
	for _, k := range in.Keys {
		k.EncodeTo(w)
	}
	w.U32(in.Size)
}

// UpdateProfile replaces a profile's alias and address book.
type UpdateProfile struct {
	Alias       string
	AddressBook string
}

func (UpdateProfile) Kind() Kind { return KindUpdateProfile }

func (in UpdateProfile) encodeBody(w *wire.Writer) {
	w.String(in.Alias)
	w.String(in.AddressBook)
}

// CreateNotifications creates an identity's notification log.
type CreateNotifications struct {
	Capacity uint8
}

func (CreateNotifications) Kind() Kind { return KindCreateNotifications }

func (in CreateNotifications) encodeBody(w *wire.Writer) {
	w.U8(in.Capacity)
}

// AddNotification appends an entry to another identity's notification
// log.
type AddNotification struct {
	NotificationKind state.NotificationKind
	Related          addr.Address
}

func (AddNotification) Kind() Kind { return KindAddNotification }

func (in AddNotification) encodeBody(w *wire.Writer) {
	w.U8(uint8(in.NotificationKind))
	w.Fixed(in.Related[:])
}

// Encode serializes an instruction: discriminant byte then body.
func Encode(in Instruction) []byte {
	var w wire.Writer
	w.U8(uint8(in.Kind()))
	in.encodeBody(&w)
	return w.Bytes()
}

// Decode deserializes an instruction buffer. The whole buffer must be
// consumed; trailing bytes, truncation, and unknown discriminants are all
// ErrInvalidInstructionData.
func Decode(data []byte) (Instruction, error) {
	r := wire.NewReader(data)
	kind := Kind(r.U8())

	var in Instruction
	switch kind {
	case KindInitializeChannel:
		v := InitializeChannel{Name: r.String()}
		v.CEK = state.ReadEncryptedKey(r)
		in = v
	case KindInitializeDirectChannel:
		var v InitializeDirectChannel
		v.CreatorCEK = state.ReadEncryptedKey(r)
		v.InviteeCEK = state.ReadEncryptedKey(r)
		in = v
	case KindPost:
		in = Post{Message: r.String()}
	case KindAddToChannel:
		v := AddToChannel{}
		v.CEK = state.ReadEncryptedKey(r)
		in = v
	case KindAddUserKey:
		v := AddUserKey{}
		v.Key = state.ReadEncryptedKey(r)
		in = v
	case KindRemoveUserKey:
		var v RemoveUserKey
		r.Fixed(v.KeyID[:])
		in = v
	case KindCreateProfile:
		var v CreateProfile
		v.Alias = r.String()
		v.AddressBook = r.String()
		r.Fixed(v.UserPublicKey[:])
		n := r.U32()
		if r.Err() == nil && n > state.MaxUserKeys {
			return nil, fmt.Errorf("create_profile: %d keys exceeds maximum %d: %w",
				n, state.MaxUserKeys, errors.ErrInvalidInstructionData)
		}
		for i := uint32(0); i < n && r.Err() == nil; i++ {
			v.Keys = append(v.Keys, state.ReadEncryptedKey(r))
		}
		v.Size = r.U32()
		in = v
	case KindUpdateProfile:
		in = UpdateProfile{Alias: r.String(), AddressBook: r.String()}
	case KindCreateNotifications:
		in = CreateNotifications{Capacity: r.U8()}
	case KindAddNotification:
		var v AddNotification
		v.NotificationKind = state.NotificationKind(r.U8())
		if r.Err() == nil && v.NotificationKind > state.NotifyDirectChannelAdd {
			return nil, fmt.Errorf("add_notification: unknown kind %d: %w",
				v.NotificationKind, errors.ErrInvalidInstructionData)
		}
		r.Fixed(v.Related[:])
		in = v
	default:
		return nil, fmt.Errorf("discriminant %d: %w", uint8(kind), errors.ErrInvalidInstructionData)
	}

	if err := r.Done(); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", kind, err, errors.ErrInvalidInstructionData)
	}
	return in, nil
}
