package state

import (
	"fmt"

	"github.com/heliolabs/heliograph/pkg/addr"
	"github.com/heliolabs/heliograph/pkg/errors"
	"github.com/heliolabs/heliograph/pkg/wire"
)

// NotificationKind classifies a notification; the related address is
// interpreted per kind.
type NotificationKind uint8

const (
	// NotifyGroupChannelAdd: the user was added to a group channel; the
	// related address is the channel account.
	NotifyGroupChannelAdd NotificationKind = iota

	// NotifyDirectChannelAdd: a direct channel was opened with the user;
	// the related address is the other participant's identity.
	NotifyDirectChannelAdd
)

// DefaultNotificationCapacity is the recommended log capacity.
const DefaultNotificationCapacity = 8

// Notification is one entry in a user's notification log.
type Notification struct {
	Kind    NotificationKind
	Related addr.Address
}

// Notifications is the per-identity bounded notification log. Capacity is
// fixed at creation; adding beyond it evicts the oldest entry.
// Singleton per identity.
type Notifications struct {
	Capacity uint8
	Entries  []Notification
}

// NewNotifications creates an empty log with the given capacity.
func NewNotifications(capacity uint8) Notifications {
	return Notifications{Capacity: capacity, Entries: make([]Notification, 0, capacity)}
}

// IsInitialized reports whether the log has been created. Capacity zero
// marks an unallocated slot, so a valid log always has capacity >= 1.
func (n *Notifications) IsInitialized() bool {
	return n.Capacity > 0
}

// Add appends a notification, evicting the oldest if the log is full.
func (n *Notifications) Add(entry Notification) {
	n.Entries = pushBounded(n.Entries, entry, int(n.Capacity))
}

// Encode serializes the notification log.
func (n *Notifications) Encode() []byte {
	var w wire.Writer
	w.U8(n.Capacity)
	w.U32(uint32(len(n.Entries)))
	for _, e := range n.Entries {
		w.U8(uint8(e.Kind))
		w.Fixed(e.Related[:])
	}
	return w.Bytes()
}

// DecodeNotifications deserializes a notification log. An all-zero or
// truncated buffer yields the uninitialized zero log.
func DecodeNotifications(data []byte) (Notifications, error) {
	r := wire.NewReader(data)
	var n Notifications
	n.Capacity = r.U8()
	count := r.U32()
	if r.Err() == nil && n.Capacity > 0 && count > uint32(n.Capacity) {
		return Notifications{}, fmt.Errorf("notifications record: %d entries exceeds capacity %d", count, n.Capacity)
	}
	for i := uint32(0); i < count && r.Err() == nil; i++ {
		var e Notification
		e.Kind = NotificationKind(r.U8())
		if e.Kind > NotifyDirectChannelAdd {
			return Notifications{}, fmt.Errorf("notifications record: unknown kind %d: %w", e.Kind, errors.ErrInvalidInstructionData)
		}
		r.Fixed(e.Related[:])
		n.Entries = append(n.Entries, e)
	}
	if err := r.Err(); err != nil {
		if wire.Incomplete(err) {
			return Notifications{}, nil
		}
		return Notifications{}, fmt.Errorf("notifications record: %w", err)
	}
	return n, nil
}

// NotificationsSizeBytes is the allocation size for a log of the given
// capacity.
func NotificationsSizeBytes(capacity uint8) uint64 {
	return 1 + 4 + uint64(capacity)*(1+addr.Size)
}
