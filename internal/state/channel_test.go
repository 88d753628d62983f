package state

import (
	"fmt"
	"testing"
)

func TestChannelEviction(t *testing.T) {
	c := NewChannel("general")
	for i := 0; i < 16; i++ {
		c.Post(Message{Timestamp: int64(i), Sender: testAddr(1), Content: fmt.Sprintf("msg%d", i)})
	}

	if len(c.Messages) != MaxMessages {
		t.Fatalf("len = %d, want %d", len(c.Messages), MaxMessages)
	}
	for i, m := range c.Messages {
		want := fmt.Sprintf("msg%d", i+8)
		if m.Content != want {
			t.Errorf("message %d = %q, want %q", i, m.Content, want)
		}
	}
}

func TestChannelIsInitialized(t *testing.T) {
	c := NewChannel("general")
	if !c.IsInitialized() {
		t.Error("named channel reports uninitialized")
	}
	var zero Channel
	if zero.IsInitialized() {
		t.Error("zero channel reports initialized")
	}
}

func TestChannelRoundtrip(t *testing.T) {
	c := NewChannel("general")
	c.Post(Message{Timestamp: 100, Sender: testAddr(1), Content: "hello"})
	c.Post(Message{Timestamp: 101, Sender: testAddr(2), Content: "hi"})

	got, err := DecodeChannel(c.Encode())
	if err != nil {
		t.Fatalf("DecodeChannel: %v", err)
	}
	if got.Name != "general" {
		t.Errorf("Name = %q", got.Name)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("len = %d, want 2", len(got.Messages))
	}
	if got.Messages[0].Content != "hello" || got.Messages[1].Content != "hi" {
		t.Errorf("messages = %v", got.Messages)
	}
	if got.Messages[0].Timestamp != 100 || got.Messages[0].Sender != testAddr(1) {
		t.Errorf("message 0 = %+v", got.Messages[0])
	}
}

func TestDecodeChannelZeroBuffer(t *testing.T) {
	c, err := DecodeChannel(make([]byte, ChannelSizeBytes()))
	if err != nil {
		t.Fatalf("DecodeChannel: %v", err)
	}
	if c.IsInitialized() {
		t.Error("zero buffer decoded as initialized")
	}
}

func TestDecodeChannelPaddedBuffer(t *testing.T) {
	c := NewChannel("padded")
	c.Post(Message{Timestamp: 1, Sender: testAddr(3), Content: "x"})

	buf := make([]byte, ChannelSizeBytes())
	copy(buf, c.Encode())

	got, err := DecodeChannel(buf)
	if err != nil {
		t.Fatalf("DecodeChannel: %v", err)
	}
	if got.Name != "padded" || len(got.Messages) != 1 {
		t.Errorf("decoded = %+v", got)
	}
}

func TestChannelFitsAllocation(t *testing.T) {
	c := NewChannel(string(make([]byte, MaxChannelNameSize)))
	content := string(make([]byte, MaxMessageSize))
	for i := 0; i < MaxMessages; i++ {
		c.Post(Message{Timestamp: int64(i), Sender: testAddr(9), Content: content})
	}
	if got := len(c.Encode()); uint64(got) > ChannelSizeBytes() {
		t.Errorf("full channel encodes to %d bytes, allocation is %d", got, ChannelSizeBytes())
	}
}
