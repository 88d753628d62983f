package state

import (
	"github.com/heliolabs/heliograph/pkg/addr"
)

// Seed domain tags. Each record family derives its addresses under its own
// tag so the families can never collide.
var (
	channelSeed       = []byte("heliograph_channel")
	cekAccountSeed    = []byte("heliograph_cek_account")
	profileSeed       = []byte("heliograph_profile")
	notificationsSeed = []byte("heliograph_notifications")
)

// DeriveCEKAccount derives the key-distribution account address for an
// identity and channel. Unique per (identity, channel) pair.
func DeriveCEKAccount(program, did, channel addr.Address) (addr.Address, uint8, error) {
	return addr.FindProgramAddress([][]byte{did[:], channel[:], cekAccountSeed}, program)
}

// DeriveProfileAccount derives the profile account address for an
// identity. Singleton per identity.
func DeriveProfileAccount(program, did addr.Address) (addr.Address, uint8, error) {
	return addr.FindProgramAddress([][]byte{did[:], profileSeed}, program)
}

// DeriveNotificationsAccount derives the notification-log address for an
// identity. Singleton per identity.
func DeriveNotificationsAccount(program, did addr.Address) (addr.Address, uint8, error) {
	return addr.FindProgramAddress([][]byte{did[:], notificationsSeed}, program)
}

// DirectChannelOrder returns the two identities in canonical byte order,
// so that either participant derives the same direct-channel address.
func DirectChannelOrder(did0, did1 addr.Address) (addr.Address, addr.Address) {
	if did1.Less(did0) {
		return did1, did0
	}
	return did0, did1
}

// DeriveDirectChannel derives the channel address for a two-party direct
// conversation. Symmetric in its identity arguments.
func DeriveDirectChannel(program, did0, did1 addr.Address) (addr.Address, uint8, error) {
	a, b := DirectChannelOrder(did0, did1)
	return addr.FindProgramAddress([][]byte{a[:], b[:], channelSeed}, program)
}

// DirectChannelName is the conventional name for a direct channel: the
// two identity addresses in canonical order, slash-separated.
func DirectChannelName(did0, did1 addr.Address) string {
	a, b := DirectChannelOrder(did0, did1)
	return a.String() + "/" + b.String()
}
