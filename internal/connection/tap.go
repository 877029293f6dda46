package connection

import (
	"sync"
	"sync/atomic"

	"github.com/barista-systems/ecamctl/internal/protocol"

	"github.com/barista-systems/ecamctl/internal/metrics"
)

// tapBufferSize bounds each subscriber's queue. A subscriber that falls
// this far behind the Reader is considered unrecoverable and is dropped
// rather than let the broadcaster block.
const tapBufferSize = 100

// Subscription is one observer's view of every inbound, decoded packet.
// Frames arrive in Reader order. A closed Frames channel with a nil Err
// means the subscription or Connection closed cleanly; Err returns
// ErrTapOverflow when the subscriber was evicted for falling behind.
type Subscription struct {
	frames chan protocol.Response
	err    atomic.Value // error

	tap       *packetTap
	closeOnce sync.Once
}

// Frames returns the channel to range over.
func (s *Subscription) Frames() <-chan protocol.Response { return s.frames }

// Err returns the reason Frames closed, if any (nil while still open, or
// after a clean shutdown with no overflow).
func (s *Subscription) Err() error {
	if v := s.err.Load(); v != nil {
		return v.(error)
	}
	return nil
}

// Close unsubscribes; safe to call multiple times and safe to call after
// the tap has already dropped this subscriber.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.tap.remove(s)
	})
}

// packetTap is the broadcast side: fan-out from one Reader goroutine to
// many bounded subscribers, drop-only (this domain never needs a kick
// policy since a slow recipe-engine consumer just resubscribes and
// re-fetches).
type packetTap struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func newPacketTap() *packetTap {
	return &packetTap{subs: make(map[*Subscription]struct{})}
}

func (t *packetTap) subscribe() *Subscription {
	s := &Subscription{frames: make(chan protocol.Response, tapBufferSize), tap: t}
	t.mu.Lock()
	t.subs[s] = struct{}{}
	t.mu.Unlock()
	return s
}

func (t *packetTap) remove(s *Subscription) {
	t.mu.Lock()
	_, existed := t.subs[s]
	delete(t.subs, s)
	t.mu.Unlock()
	if existed {
		close(s.frames)
	}
}

// broadcast delivers resp to every current subscriber, dropping (and
// evicting) any subscriber whose buffer is full.
func (t *packetTap) broadcast(resp protocol.Response) {
	t.mu.Lock()
	subs := make([]*Subscription, 0, len(t.subs))
	for s := range t.subs {
		subs = append(subs, s)
	}
	t.mu.Unlock()

	for _, s := range subs {
		select {
		case s.frames <- resp:
		default:
			metrics.IncBroadcastDrop()
			t.evict(s)
		}
	}
}

func (t *packetTap) evict(s *Subscription) {
	t.mu.Lock()
	_, existed := t.subs[s]
	delete(t.subs, s)
	t.mu.Unlock()
	if existed {
		s.err.Store(ErrTapOverflow)
		close(s.frames)
	}
}

// closeAll tears down every subscriber, used when the Connection itself
// shuts down.
func (t *packetTap) closeAll() {
	t.mu.Lock()
	subs := t.subs
	t.subs = make(map[*Subscription]struct{})
	t.mu.Unlock()
	for s := range subs {
		close(s.frames)
	}
}
