package ledger

import "time"

// Clock supplies the timestamp stamped onto posted messages. It is an
// explicit dependency so tests can run against deterministic time; the
// engine never reads a global clock.
type Clock interface {
	UnixTimestamp() int64
}

// SystemClock reads the host wall clock.
type SystemClock struct{}

// UnixTimestamp implements Clock.
func (SystemClock) UnixTimestamp() int64 {
	return time.Now().Unix()
}

// FixedClock returns a constant timestamp. Test use.
type FixedClock int64

// UnixTimestamp implements Clock.
func (c FixedClock) UnixTimestamp() int64 {
	return int64(c)
}

// SteppingClock returns strictly increasing timestamps, one tick per
// call. Test use.
type SteppingClock struct {
	Now int64
}

// UnixTimestamp implements Clock.
func (c *SteppingClock) UnixTimestamp() int64 {
	c.Now++
	return c.Now
}
