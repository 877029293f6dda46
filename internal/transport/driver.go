// Package transport implements the low-level send/receive side of the
// protocol: concrete Driver backends (BLE, an in-memory simulator, and a
// line-oriented subprocess pipe) plus the shared DriverEvent vocabulary
// internal/connection builds its state machine on top of.
package transport

import (
	"context"
	"errors"
)

// EventKind discriminates a DriverEvent.
type EventKind int

const (
	// EventReady signals the transport has completed its handshake
	// (subscribed to notifications, in the BLE case) and is ready to
	// exchange frames.
	EventReady EventKind = iota
	// EventFrame carries one complete, still-framed packet (sync byte
	// through CRC_LO) extracted from the transport's byte stream.
	EventFrame
	// EventDone signals a clean end of stream; no more events follow.
	EventDone
)

// DriverEvent is the minimal vocabulary a Driver speaks upward.
type DriverEvent struct {
	Kind  EventKind
	Frame []byte // valid only when Kind == EventFrame
}

// ErrClosed is returned by the Simulator's and Pipe's Write after the
// driver has been closed. Read on a closed driver yields EventDone
// instead, and BLE's Write does not check for closure.
var ErrClosed = errors.New("transport: driver closed")

// Driver is the minimal capability set any transport implementation must
// provide. BLE, Simulator, and Pipe are the three backends this module
// ships.
type Driver interface {
	// Read blocks for the next event, or returns an error (including
	// ctx.Err()) if none will ever arrive.
	Read(ctx context.Context) (DriverEvent, error)
	// Write sends one already-framed packet. Fire-and-forget: a
	// successful return does not guarantee delivery.
	Write(ctx context.Context, frame []byte) error
	// Alive is a cheap, non-blocking liveness check polled by Connection.
	Alive() bool
	// Scan discovers the first device advertising the protocol's service
	// UUID and returns a display name and a stable device identifier.
	Scan(ctx context.Context) (displayName string, deviceID string, err error)
	// Close releases transport resources. Idempotent.
	Close() error
}
