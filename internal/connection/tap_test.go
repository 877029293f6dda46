package connection

import (
	"testing"

	"github.com/barista-systems/ecamctl/internal/protocol"
)

func TestPacketTap_SlowSubscriberEvictedWithOverflow(t *testing.T) {
	tap := newPacketTap()
	sub := tap.subscribe()

	for i := 0; i <= tapBufferSize; i++ {
		tap.broadcast(protocol.MonitorV2Response{})
	}

	// Drain until the channel closes; the producer must never have blocked.
	n := 0
	for range sub.frames {
		n++
	}
	if n != tapBufferSize {
		t.Fatalf("drained %d frames, want %d buffered before eviction", n, tapBufferSize)
	}
	if sub.Err() != ErrTapOverflow {
		t.Fatalf("Err() = %v, want ErrTapOverflow", sub.Err())
	}
}

func TestPacketTap_CloseIsCleanAndIdempotent(t *testing.T) {
	tap := newPacketTap()
	sub := tap.subscribe()
	sub.Close()
	sub.Close()
	if sub.Err() != nil {
		t.Fatalf("Err() after clean Close = %v, want nil", sub.Err())
	}
	if _, ok := <-sub.Frames(); ok {
		t.Fatal("Frames still open after Close")
	}

	// Broadcasting after the only subscriber left must not panic.
	tap.broadcast(protocol.MonitorV2Response{})
}

func TestPacketTap_EvictionDoesNotAffectOthers(t *testing.T) {
	tap := newPacketTap()
	slow := tap.subscribe()
	fast := tap.subscribe()

	for i := 0; i < tapBufferSize; i++ {
		tap.broadcast(protocol.MonitorV2Response{})
	}
	<-fast.frames // fast keeps up by one; slow stays full
	tap.broadcast(protocol.MonitorV2Response{})
	if slow.Err() != ErrTapOverflow {
		t.Fatalf("slow.Err() = %v, want ErrTapOverflow", slow.Err())
	}

	tap.mu.Lock()
	_, fastStill := tap.subs[fast]
	tap.mu.Unlock()
	if !fastStill {
		t.Fatal("fast subscriber was evicted alongside the slow one")
	}
	fast.Close()
}
