package session

import (
	"math/rand"
	"sync"
	"time"
)

// keepAliveInterval is how often the server probes a Play connection for
// liveness.
const keepAliveInterval = 15 * time.Second

// KeepAlive tracks one connection's outstanding liveness probe and its
// rolling latency estimate. A probe that is still outstanding when the next
// interval elapses means the client stopped responding, and Tick reports
// that the connection should be closed.
type KeepAlive struct {
	mu      sync.Mutex
	pending bool
	id      int64
	sentAt  time.Time
	latency time.Duration
}

// Tick is called once per keepAliveInterval. If the previous probe is still
// unacknowledged it reports timedOut and sends nothing further; otherwise it
// picks a fresh id, calls send with it, and starts tracking its round trip.
func (k *KeepAlive) Tick(now time.Time, send func(id int64)) (timedOut bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.pending {
		return true
	}
	k.pending = true
	k.id = rand.Int63()
	k.sentAt = now
	send(k.id)
	return false
}

// Ack records the client's response to a probe. It reports false if id does
// not match the outstanding probe (a stale or forged ack), leaving the
// pending probe untouched.
func (k *KeepAlive) Ack(id int64, now time.Time) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.pending || id != k.id {
		return false
	}
	elapsed := now.Sub(k.sentAt)
	k.latency = (3*k.latency + elapsed) / 4
	k.pending = false
	return true
}

// Latency returns the current exponential moving average round-trip time.
func (k *KeepAlive) Latency() time.Duration {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.latency
}
