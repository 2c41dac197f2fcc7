// ABOUTME: Timestamp identifiers used as post record keys
// ABOUTME: A fixed key per post lets a resend find the record instead of duplicating it
package bluesky

import (
	"math/rand/v2"
	"sync"
	"time"
)

const tidAlphabet = "234567abcdefghijklmnopqrstuvwxyz"

// tidClock issues strictly increasing TIDs: 53 bits of microseconds since
// the epoch followed by a 10-bit clock id, in sortable base32
type tidClock struct {
	mu      sync.Mutex
	last    int64
	clockID uint64
}

func newTIDClock() *tidClock {
	return &tidClock{clockID: rand.Uint64N(1024)}
}

// Next returns a TID for now, bumped past the previous one if the clock
// has not moved
func (c *tidClock) Next(now time.Time) string {
	c.mu.Lock()
	micros := now.UnixMicro()
	if micros <= c.last {
		micros = c.last + 1
	}
	c.last = micros
	c.mu.Unlock()

	v := (uint64(micros)&(1<<53-1))<<10 | c.clockID
	var b [13]byte
	for i := len(b) - 1; i >= 0; i-- {
		b[i] = tidAlphabet[v&31]
		v >>= 5
	}
	return string(b[:])
}
