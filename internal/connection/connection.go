// Package connection implements the long-lived session above a Driver:
// readiness gating, a latest-wins status watch, a broadcast packet tap,
// and an interest-gated monitor poller, all scheduled goroutine-per-role
// over a shared context cancellation tree.
package connection

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/barista-systems/ecamctl/internal/logging"
	"github.com/barista-systems/ecamctl/internal/metrics"
	"github.com/barista-systems/ecamctl/internal/protocol"
	"github.com/barista-systems/ecamctl/internal/transport"
)

const (
	livenessPollInterval = 10 * time.Millisecond
	monitorIdleInterval  = 100 * time.Millisecond
	monitorWriteTimeout  = 250 * time.Millisecond
	monitorRestInterval  = 250 * time.Millisecond
)

// Connection is a session wrapping a transport.Driver: it reframes and
// decodes inbound traffic, tracks the last known MonitorV2 state, fans
// every decoded packet out to subscribers, and keeps the device's radio
// quiet when nobody is asking for status.
type Connection struct {
	driver   transport.Driver
	deviceID string
	clock    clockwork.Clock

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	gate     *readinessGate
	watch    *Watch[protocol.MonitorV2Response]
	tap      *packetTap
	interest interestCounter

	alive     atomic.Bool
	ready     atomic.Bool
	closeOnce sync.Once

	createdAt time.Time
}

// Option configures a Connection at construction time.
type Option func(*Connection)

// WithClock injects a clockwork.Clock so tests can fast-forward timers
// instead of sleeping in real time.
func WithClock(c clockwork.Clock) Option {
	return func(conn *Connection) { conn.clock = c }
}

// New wraps driver and starts the Reader and Liveness goroutines. The
// Monitor goroutine starts once the driver's first Ready event arrives.
// ctx bounds the Connection's entire lifetime; cancelling it stops the
// goroutines and marks the Connection dead, but does not close packet-tap
// subscribers or the driver, which only Close does.
func New(ctx context.Context, driver transport.Driver, deviceID string, opts ...Option) *Connection {
	cctx, cancel := context.WithCancel(ctx)
	conn := &Connection{
		driver:    driver,
		deviceID:  deviceID,
		clock:     clockwork.NewRealClock(),
		ctx:       cctx,
		cancel:    cancel,
		gate:      newReadinessGate(),
		watch:     NewWatch[protocol.MonitorV2Response](),
		tap:       newPacketTap(),
		createdAt: time.Now(),
	}
	for _, opt := range opts {
		opt(conn)
	}
	conn.alive.Store(true)
	metrics.SetConnectionLive(deviceID, true)

	conn.wg.Add(2)
	go conn.readLoop()
	go conn.livenessLoop()

	go func() {
		<-cctx.Done()
		conn.markDead()
	}()

	return conn
}

func (c *Connection) readLoop() {
	defer c.wg.Done()
	for {
		ev, err := c.driver.Read(c.ctx)
		if err != nil {
			logging.L().Debug("reader_stopped", "device_id", c.deviceID, "error", err)
			metrics.IncError(classify(err))
			c.markDead()
			return
		}
		switch ev.Kind {
		case transport.EventReady:
			if !c.ready.CompareAndSwap(false, true) {
				logging.L().Warn("duplicate_ready_event", "device_id", c.deviceID)
				continue
			}
			c.wg.Add(1)
			go c.monitorLoop()
		case transport.EventFrame:
			c.handleFrame(ev.Frame)
		case transport.EventDone:
			c.markDead()
			return
		}
	}
}

func (c *Connection) handleFrame(frame []byte) {
	payload, err := protocol.DecodeFrame(frame)
	if err != nil {
		metrics.IncChecksumFailure()
		logging.L().Debug("frame_dropped", "device_id", c.deviceID, "error", err)
		return
	}
	resp, err := protocol.DecodeResponse(payload)
	if err != nil {
		logging.L().Debug("response_decode_failed", "device_id", c.deviceID, "error", err)
		return
	}
	metrics.IncFramesRx()
	c.tap.broadcast(resp)

	if mon, ok := resp.(protocol.MonitorV2Response); ok {
		first := false
		if _, had := c.watch.Get(); !had {
			first = true
		}
		c.watch.Set(mon)
		c.gate.Release()
		if first {
			metrics.ObserveReadinessLatency(time.Since(c.createdAt).Seconds())
		}
	}
}

func (c *Connection) monitorLoop() {
	defer c.wg.Done()
	for c.alive.Load() {
		if !c.interest.active() {
			if !c.sleep(monitorIdleInterval) {
				return
			}
			continue
		}
		writeCtx, cancel := context.WithTimeout(c.ctx, monitorWriteTimeout)
		err := c.Write(writeCtx, protocol.MonitorV2Request{})
		cancel()
		if err != nil {
			logging.L().Warn("monitor_write_failed", "device_id", c.deviceID, "error", err)
		}
		if !c.sleep(monitorRestInterval) {
			return
		}
	}
}

// sleep waits for d on the Connection's clock, returning false early if
// the internal context is cancelled first.
func (c *Connection) sleep(d time.Duration) bool {
	select {
	case <-c.clock.After(d):
		return true
	case <-c.ctx.Done():
		return false
	}
}

func (c *Connection) livenessLoop() {
	defer c.wg.Done()
	ticker := c.clock.NewTicker(livenessPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.Chan():
			if !c.driver.Alive() {
				c.markDead()
				return
			}
		}
	}
}

func (c *Connection) markDead() {
	if c.alive.CompareAndSwap(true, false) {
		metrics.SetConnectionLive(c.deviceID, false)
		logging.L().Info("connection_lost", "device_id", c.deviceID)
	}
}

// Write encodes req and hands the framed bytes to the driver. Warns
// (does not fail) if called before the driver's first Ready event.
func (c *Connection) Write(ctx context.Context, req protocol.Request) error {
	if !c.ready.Load() {
		logging.L().Warn("write_before_ready", "device_id", c.deviceID, "request_id", req.ID())
	}
	frame, err := protocol.EncodeFrame(protocol.EncodeRequest(req))
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrIO, err)
		metrics.IncError(classify(err))
		return err
	}
	if err := c.driver.Write(ctx, frame); err != nil {
		err = fmt.Errorf("%w: %v", ErrTransport, err)
		metrics.IncError(classify(err))
		return err
	}
	metrics.IncFramesTx()
	return nil
}

// PacketTap subscribes to every decoded inbound packet. Callers must
// Close the returned Subscription when done.
func (c *Connection) PacketTap() *Subscription {
	return c.tap.subscribe()
}

// CurrentState blocks until the first MonitorV2 state has been observed
// (or ctx is cancelled) and returns its projected Status. Registers
// monitor interest for the duration of the call.
func (c *Connection) CurrentState(ctx context.Context) (Status, error) {
	guard := c.interest.Acquire()
	defer guard.Release()

	select {
	case <-c.gate.Wait():
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
	m, _ := c.watch.Get()
	return projectStatus(m), nil
}

// WaitForConnection blocks until the first state is known, discarding it.
func (c *Connection) WaitForConnection(ctx context.Context) error {
	_, err := c.CurrentState(ctx)
	return err
}

// WaitFor registers monitor interest and blocks until pred(Status) holds,
// invoking onUpdate (if non-nil) on every intervening update. Returns
// ErrUnknown if liveness drops before pred holds.
func (c *Connection) WaitFor(ctx context.Context, pred func(Status) bool, onUpdate func(Status)) error {
	guard := c.interest.Acquire()
	defer guard.Release()

	select {
	case <-c.gate.Wait():
	case <-ctx.Done():
		return ctx.Err()
	}

	for {
		m, _ := c.watch.Get()
		st := projectStatus(m)
		if onUpdate != nil {
			onUpdate(st)
		}
		if pred(st) {
			return nil
		}
		if !c.alive.Load() {
			return ErrUnknown
		}
		select {
		case <-c.watch.Changed():
		case <-ctx.Done():
			return ctx.Err()
		case <-c.clock.After(livenessPollInterval):
			if !c.alive.Load() {
				return ErrUnknown
			}
		}
	}
}

// WaitForState blocks until the projected Phase equals phase.
func (c *Connection) WaitForState(ctx context.Context, phase Phase, onUpdate func(Status)) error {
	return c.WaitFor(ctx, func(s Status) bool { return s.Phase == phase }, onUpdate)
}

// WaitForNotState blocks until the projected Phase is not phase.
func (c *Connection) WaitForNotState(ctx context.Context, phase Phase, onUpdate func(Status)) error {
	return c.WaitFor(ctx, func(s Status) bool { return s.Phase != phase }, onUpdate)
}

// Alive reports the last observed liveness state.
func (c *Connection) Alive() bool { return c.alive.Load() }

// DeviceID returns the identifier this Connection was constructed with.
func (c *Connection) DeviceID() string { return c.deviceID }

// Close tears the Connection down: cancels the internal context, closes
// every packet-tap subscriber, and waits for the Reader/Monitor/Liveness
// goroutines to exit. Idempotent.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		c.wg.Wait()
		c.tap.closeAll()
		err = c.driver.Close()
	})
	return err
}
