package state

import (
	stderrors "errors"
	"testing"

	"github.com/heliolabs/heliograph/pkg/errors"
)

func TestNotificationsEviction(t *testing.T) {
	n := NewNotifications(4)
	for i := 0; i < 10; i++ {
		n.Add(Notification{Kind: NotifyGroupChannelAdd, Related: testAddr(byte(i))})
	}

	if len(n.Entries) != 4 {
		t.Fatalf("len = %d, want 4", len(n.Entries))
	}
	for i, e := range n.Entries {
		if e.Related != testAddr(byte(i+6)) {
			t.Errorf("entry %d = %s, want %s", i, e.Related, testAddr(byte(i+6)))
		}
	}
}

func TestNotificationsIsInitialized(t *testing.T) {
	n := NewNotifications(DefaultNotificationCapacity)
	if !n.IsInitialized() {
		t.Error("sized log reports uninitialized")
	}
	var zero Notifications
	if zero.IsInitialized() {
		t.Error("zero log reports initialized")
	}
}

func TestNotificationsRoundtrip(t *testing.T) {
	n := NewNotifications(8)
	n.Add(Notification{Kind: NotifyGroupChannelAdd, Related: testAddr(1)})
	n.Add(Notification{Kind: NotifyDirectChannelAdd, Related: testAddr(2)})

	got, err := DecodeNotifications(n.Encode())
	if err != nil {
		t.Fatalf("DecodeNotifications: %v", err)
	}
	if got.Capacity != 8 {
		t.Errorf("Capacity = %d", got.Capacity)
	}
	if len(got.Entries) != 2 ||
		got.Entries[0].Kind != NotifyGroupChannelAdd ||
		got.Entries[1].Kind != NotifyDirectChannelAdd ||
		got.Entries[1].Related != testAddr(2) {
		t.Errorf("entries = %v", got.Entries)
	}
}

func TestDecodeNotificationsUnknownKind(t *testing.T) {
	n := NewNotifications(4)
	n.Add(Notification{Kind: NotifyGroupChannelAdd, Related: testAddr(1)})
	data := n.Encode()
	data[5] = 0xff // first entry kind

	if _, err := DecodeNotifications(data); !stderrors.Is(err, errors.ErrInvalidInstructionData) {
		t.Errorf("DecodeNotifications = %v, want ErrInvalidInstructionData", err)
	}
}

func TestDecodeNotificationsCountExceedsCapacity(t *testing.T) {
	n := NewNotifications(2)
	n.Add(Notification{Kind: NotifyGroupChannelAdd, Related: testAddr(1)})
	data := n.Encode()
	data[1] = 9 // claimed entry count

	if _, err := DecodeNotifications(data); err == nil {
		t.Error("DecodeNotifications accepted count above capacity")
	}
}

func TestDecodeNotificationsZeroBuffer(t *testing.T) {
	got, err := DecodeNotifications(make([]byte, NotificationsSizeBytes(8)))
	if err != nil {
		t.Fatalf("DecodeNotifications: %v", err)
	}
	if got.IsInitialized() {
		t.Error("zero buffer decoded as initialized")
	}
}
