package state

import (
	"fmt"

	"github.com/heliolabs/heliograph/pkg/addr"
	"github.com/heliolabs/heliograph/pkg/wire"
)

const (
	// MaxMessages is the channel log capacity. Posting beyond it evicts
	// the oldest message.
	MaxMessages = 8

	// MaxMessageSize is the maximum ciphertext length of a single message.
	MaxMessageSize = 512

	// MaxChannelNameSize bounds the channel name. Large enough for a
	// direct-channel name, which is two base58 addresses joined by "/".
	MaxChannelNameSize = 96
)

// Message is one entry in a channel log. Immutable once appended.
type Message struct {
	// Timestamp is assigned by the ledger clock at post time, never by
	// the caller.
	Timestamp int64
	Sender    addr.Address
	Content   string
}

// Channel is the shared message log for a group or direct conversation.
// It is not owned by any single identity; membership is proven by
// key-distribution accounts referencing it.
type Channel struct {
	Name     string
	Messages []Message
}

// NewChannel creates an empty channel with the given name.
func NewChannel(name string) Channel {
	return Channel{Name: name, Messages: make([]Message, 0, MaxMessages)}
}

// IsInitialized reports whether the channel has been created. A channel
// without a name is an unallocated slot.
func (c *Channel) IsInitialized() bool {
	return c.Name != ""
}

// Post appends a message, evicting the oldest if the log is full.
func (c *Channel) Post(m Message) {
	c.Messages = pushBounded(c.Messages, m, MaxMessages)
}

// Encode serializes the channel record.
func (c *Channel) Encode() []byte {
	var w wire.Writer
	w.String(c.Name)
	w.U32(uint32(len(c.Messages)))
	for _, m := range c.Messages {
		w.I64(m.Timestamp)
		w.Fixed(m.Sender[:])
		w.String(m.Content)
	}
	return w.Bytes()
}

// DecodeChannel deserializes a channel record. An all-zero or truncated
// buffer yields the uninitialized zero channel.
func DecodeChannel(data []byte) (Channel, error) {
	r := wire.NewReader(data)
	var c Channel
	c.Name = r.String()
	n := r.U32()
	if r.Err() == nil && n > MaxMessages {
		return Channel{}, fmt.Errorf("channel record: %d messages exceeds capacity %d", n, MaxMessages)
	}
	for i := uint32(0); i < n && r.Err() == nil; i++ {
		var m Message
		m.Timestamp = r.I64()
		r.Fixed(m.Sender[:])
		m.Content = r.String()
		c.Messages = append(c.Messages, m)
	}
	if err := r.Err(); err != nil {
		if wire.Incomplete(err) {
			return Channel{}, nil
		}
		return Channel{}, fmt.Errorf("channel record: %w", err)
	}
	return c, nil
}

// ChannelSizeBytes is the allocation size for a channel account: the
// largest possible encoding of a full log.
func ChannelSizeBytes() uint64 {
	const perMessage = 8 + addr.Size + 4 + MaxMessageSize
	return 4 + MaxChannelNameSize + 4 + MaxMessages*perMessage
}
