package instruction

import (
	"github.com/heliolabs/heliograph/internal/ledger"
	"github.com/heliolabs/heliograph/internal/state"
	"github.com/heliolabs/heliograph/pkg/addr"
)

// Builders assemble the account metas and payload for each instruction,
// deriving the program addresses a caller cannot choose. They are what a
// client SDK submits to the runtime.

// BuildInitializeChannel builds a group-channel creation call.
func BuildInitializeChannel(program, funder, channel, creatorDID, creatorAuthority addr.Address, name string, cek state.EncryptedKey) ([]ledger.AccountMeta, []byte, error) {
	creatorCEK, _, err := state.DeriveCEKAccount(program, creatorDID, channel)
	if err != nil {
		return nil, nil, err
	}
	metas := []ledger.AccountMeta{
		{Address: funder, Signer: true, Writable: true},
		{Address: channel, Writable: true},
		{Address: creatorDID},
		{Address: creatorAuthority, Signer: true},
		{Address: creatorCEK, Writable: true},
	}
	return metas, Encode(InitializeChannel{Name: name, CEK: cek}), nil
}

// BuildInitializeDirectChannel builds a direct-channel creation call. The
// channel address is derived from the canonicalized identity pair, so
// either party building this call produces the same metas.
func BuildInitializeDirectChannel(program, funder, creatorDID, creatorAuthority, inviteeDID addr.Address, creatorCEK, inviteeCEK state.EncryptedKey) ([]ledger.AccountMeta, []byte, error) {
	channel, _, err := state.DeriveDirectChannel(program, creatorDID, inviteeDID)
	if err != nil {
		return nil, nil, err
	}
	creatorCEKAccount, _, err := state.DeriveCEKAccount(program, creatorDID, channel)
	if err != nil {
		return nil, nil, err
	}
	inviteeCEKAccount, _, err := state.DeriveCEKAccount(program, inviteeDID, channel)
	if err != nil {
		return nil, nil, err
	}
	metas := []ledger.AccountMeta{
		{Address: funder, Signer: true, Writable: true},
		{Address: channel, Writable: true},
		{Address: creatorDID},
		{Address: creatorAuthority, Signer: true},
		{Address: creatorCEKAccount, Writable: true},
		{Address: inviteeDID},
		{Address: inviteeCEKAccount, Writable: true},
	}
	return metas, Encode(InitializeDirectChannel{CreatorCEK: creatorCEK, InviteeCEK: inviteeCEK}), nil
}

// BuildPost builds a message post call.
func BuildPost(program, channel, senderDID, senderAuthority addr.Address, message string) ([]ledger.AccountMeta, []byte, error) {
	senderCEK, _, err := state.DeriveCEKAccount(program, senderDID, channel)
	if err != nil {
		return nil, nil, err
	}
	metas := []ledger.AccountMeta{
		{Address: channel, Writable: true},
		{Address: senderDID},
		{Address: senderAuthority, Signer: true},
		{Address: senderCEK},
	}
	return metas, Encode(Post{Message: message}), nil
}

// BuildAddToChannel builds a membership-extension call.
func BuildAddToChannel(program, funder, channel, inviteeDID, inviterDID, inviterAuthority addr.Address, cek state.EncryptedKey) ([]ledger.AccountMeta, []byte, error) {
	inviterCEK, _, err := state.DeriveCEKAccount(program, inviterDID, channel)
	if err != nil {
		return nil, nil, err
	}
	inviteeCEK, _, err := state.DeriveCEKAccount(program, inviteeDID, channel)
	if err != nil {
		return nil, nil, err
	}
	metas := []ledger.AccountMeta{
		{Address: funder, Signer: true, Writable: true},
		{Address: inviteeDID},
		{Address: inviterDID},
		{Address: inviterAuthority, Signer: true},
		{Address: inviterCEK},
		{Address: inviteeCEK, Writable: true},
		{Address: channel},
	}
	return metas, Encode(AddToChannel{CEK: cek}), nil
}

func profileMetas(program, ownerDID, ownerAuthority addr.Address) ([]ledger.AccountMeta, error) {
	profile, _, err := state.DeriveProfileAccount(program, ownerDID)
	if err != nil {
		return nil, err
	}
	return []ledger.AccountMeta{
		{Address: ownerDID},
		{Address: ownerAuthority, Signer: true},
		{Address: profile, Writable: true},
	}, nil
}

// BuildCreateProfile builds a profile creation call.
func BuildCreateProfile(program, funder, ownerDID, ownerAuthority addr.Address, alias, addressBook string, userPublicKey [32]byte, keys []state.EncryptedKey, size uint32) ([]ledger.AccountMeta, []byte, error) {
	metas, err := profileMetas(program, ownerDID, ownerAuthority)
	if err != nil {
		return nil, nil, err
	}
	metas = append([]ledger.AccountMeta{{Address: funder, Signer: true, Writable: true}}, metas...)
	data := Encode(CreateProfile{
		Alias:         alias,
		AddressBook:   addressBook,
		UserPublicKey: userPublicKey,
		Keys:          keys,
		Size:          size,
	})
	return metas, data, nil
}

// BuildUpdateProfile builds a profile update call.
func BuildUpdateProfile(program, ownerDID, ownerAuthority addr.Address, alias, addressBook string) ([]ledger.AccountMeta, []byte, error) {
	metas, err := profileMetas(program, ownerDID, ownerAuthority)
	if err != nil {
		return nil, nil, err
	}
	return metas, Encode(UpdateProfile{Alias: alias, AddressBook: addressBook}), nil
}

// BuildAddUserKey builds a wrapped-user-key addition call.
func BuildAddUserKey(program, ownerDID, ownerAuthority addr.Address, key state.EncryptedKey) ([]ledger.AccountMeta, []byte, error) {
	metas, err := profileMetas(program, ownerDID, ownerAuthority)
	if err != nil {
		return nil, nil, err
	}
	return metas, Encode(AddUserKey{Key: key}), nil
}

// BuildRemoveUserKey builds a wrapped-user-key removal call.
func BuildRemoveUserKey(program, ownerDID, ownerAuthority addr.Address, keyID state.KeyID) ([]ledger.AccountMeta, []byte, error) {
	metas, err := profileMetas(program, ownerDID, ownerAuthority)
	if err != nil {
		return nil, nil, err
	}
	return metas, Encode(RemoveUserKey{KeyID: keyID}), nil
}

// BuildCreateNotifications builds a notification-log creation call.
func BuildCreateNotifications(program, funder, ownerDID, ownerAuthority addr.Address, capacity uint8) ([]ledger.AccountMeta, []byte, error) {
	notifications, _, err := state.DeriveNotificationsAccount(program, ownerDID)
	if err != nil {
		return nil, nil, err
	}
	metas := []ledger.AccountMeta{
		{Address: funder, Signer: true, Writable: true},
		{Address: ownerDID},
		{Address: ownerAuthority, Signer: true},
		{Address: notifications, Writable: true},
	}
	return metas, Encode(CreateNotifications{Capacity: capacity}), nil
}

// BuildAddNotification builds a notification append call targeting the
// recipient identity's log.
func BuildAddNotification(program, recipientDID, senderDID, senderAuthority addr.Address, kind state.NotificationKind, related addr.Address) ([]ledger.AccountMeta, []byte, error) {
	notifications, _, err := state.DeriveNotificationsAccount(program, recipientDID)
	if err != nil {
		return nil, nil, err
	}
	metas := []ledger.AccountMeta{
		{Address: notifications, Writable: true},
		{Address: senderDID},
		{Address: senderAuthority, Signer: true},
	}
	return metas, Encode(AddNotification{NotificationKind: kind, Related: related}), nil
}
