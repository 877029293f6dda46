package connection

import (
	"context"
	"errors"
)

// Sentinel errors surfaced by Connection. Callers discriminate with
// errors.Is; these are also the values internal/metrics maps to label
// strings for reader/writer failure counters.
var (
	ErrNotFound  = errors.New("connection: not found")
	ErrTimeout   = errors.New("connection: timed out")
	ErrTransport = errors.New("connection: transport failure")
	ErrIO        = errors.New("connection: i/o error")
	ErrUnknown   = errors.New("connection: liveness lost, state unknown")

	// ErrTapOverflow is delivered to a PacketTap subscriber whose channel
	// filled up; the core then drops that subscriber entirely and it must
	// call PacketTap again to resubscribe.
	ErrTapOverflow = errors.New("connection: packet tap subscriber overflowed, resubscribe")
)

// classify maps an error to the short label metrics use.
func classify(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrIO):
		return "io"
	case errors.Is(err, ErrUnknown):
		return "unknown"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "other"
	}
}
