package transport

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"tinygo.org/x/bluetooth"

	"github.com/barista-systems/ecamctl/internal/metrics"
	"github.com/barista-systems/ecamctl/internal/protocol"
)

// Service and characteristic UUIDs are frozen to the wire: they identify
// the device's proprietary GATT service, not anything configurable.
const (
	serviceUUIDString        = "00035b03-58e6-07dd-021a-08123a000300"
	characteristicUUIDString = "00035b03-58e6-07dd-021a-08123a000301"
)

var (
	serviceUUID        bluetooth.UUID
	characteristicUUID bluetooth.UUID
)

func init() {
	var err error
	serviceUUID, err = bluetooth.ParseUUID(serviceUUIDString)
	if err != nil {
		panic(fmt.Sprintf("transport: invalid service UUID literal: %v", err))
	}
	characteristicUUID, err = bluetooth.ParseUUID(characteristicUUIDString)
	if err != nil {
		panic(fmt.Sprintf("transport: invalid characteristic UUID literal: %v", err))
	}
}

// BLE is the production Driver backend: a single notify/write-without-
// response characteristic on the machine's proprietary GATT service.
type BLE struct {
	adapter *bluetooth.Adapter

	mu       sync.Mutex
	device   bluetooth.Device
	char     bluetooth.DeviceCharacteristic
	reframer *protocol.Reframer

	deviceID uuid.UUID

	events    chan DriverEvent
	alive     atomic.Bool
	closeOnce sync.Once
}

// NewBLE wraps the given adapter (typically bluetooth.DefaultAdapter). The
// adapter must already be Enable()'d by the caller — enabling it is a
// process-wide, one-time operation the CLI layer owns.
func NewBLE(adapter *bluetooth.Adapter) *BLE {
	return &BLE{
		adapter:  adapter,
		reframer: protocol.NewReframer(),
		events:   make(chan DriverEvent, 64),
	}
}

// Scan blocks until a device advertising the proprietary service UUID is
// found, then stops scanning and returns its display name and a stable
// identifier derived from its BLE address.
func (b *BLE) Scan(ctx context.Context) (string, string, error) {
	name, addr, err := b.scanFor(ctx, "")
	if err != nil {
		return "", "", err
	}
	return name, deriveDeviceID(addr).String(), nil
}

// ScanForDevice scans for the first device advertising the protocol's
// service UUID, filtered by local name when name is non-empty, and
// returns its display name and raw BLE address. Unlike Scan (which
// returns the opaque derived device id for display/metrics), Connect
// needs the real address to dial, so the CLI's connect flow uses this
// instead.
func (b *BLE) ScanForDevice(ctx context.Context, name string) (displayName string, address string, err error) {
	return b.scanFor(ctx, name)
}

func (b *BLE) scanFor(ctx context.Context, wantName string) (string, string, error) {
	type found struct {
		name string
		addr bluetooth.Address
	}
	resultCh := make(chan found, 1)
	errCh := make(chan error, 1)

	go func() {
		err := b.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if !result.AdvertisementPayload.HasServiceUUID(serviceUUID) {
				return
			}
			if wantName != "" && result.LocalName() != wantName {
				return
			}
			_ = adapter.StopScan()
			resultCh <- found{name: result.LocalName(), addr: result.Address}
		})
		if err != nil {
			errCh <- err
		}
	}()

	select {
	case f := <-resultCh:
		return f.name, f.addr.String(), nil
	case err := <-errCh:
		return "", "", fmt.Errorf("transport: ble scan: %w", err)
	case <-ctx.Done():
		_ = b.adapter.StopScan()
		return "", "", ctx.Err()
	}
}

// Connect dials the device at address, discovers the proprietary service
// and characteristic, subscribes to notifications, and pushes EventReady
// once subscribed. Notification payloads are reframed and pushed as
// EventFrame; disconnection pushes EventDone.
func (b *BLE) Connect(ctx context.Context, address string) error {
	mac, err := bluetooth.ParseMAC(address)
	if err != nil {
		return fmt.Errorf("transport: invalid device address %q: %w", address, err)
	}
	addr := bluetooth.Address{MACAddress: bluetooth.MACAddress{MAC: mac}}

	device, err := b.adapter.Connect(addr, bluetooth.ConnectionParams{})
	if err != nil {
		return fmt.Errorf("transport: connect: %w", err)
	}

	services, err := device.DiscoverServices([]bluetooth.UUID{serviceUUID})
	if err != nil || len(services) == 0 {
		_ = device.Disconnect()
		return fmt.Errorf("transport: discover service: %w", err)
	}
	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{characteristicUUID})
	if err != nil || len(chars) == 0 {
		_ = device.Disconnect()
		return fmt.Errorf("transport: discover characteristic: %w", err)
	}

	b.mu.Lock()
	b.device = device
	b.char = chars[0]
	b.deviceID = deriveDeviceID(addr.String())
	b.mu.Unlock()

	if err := b.char.EnableNotifications(b.onNotification); err != nil {
		_ = device.Disconnect()
		return fmt.Errorf("transport: enable notifications: %w", err)
	}

	b.alive.Store(true)
	b.push(DriverEvent{Kind: EventReady})
	return nil
}

func (b *BLE) onNotification(buf []byte) {
	b.mu.Lock()
	frames := b.reframer.Feed(buf)
	resyncs := b.reframer.TakeResyncs()
	b.mu.Unlock()
	for i := 0; i < resyncs; i++ {
		metrics.IncReframerResync()
	}
	for _, f := range frames {
		b.push(DriverEvent{Kind: EventFrame, Frame: f})
	}
}

func (b *BLE) push(ev DriverEvent) {
	select {
	case b.events <- ev:
	case <-time.After(time.Second):
		// A stalled reader means the Connection is already shutting
		// down; drop the event rather than leak this goroutine.
	}
}

func (b *BLE) Read(ctx context.Context) (DriverEvent, error) {
	select {
	case ev, ok := <-b.events:
		if !ok {
			return DriverEvent{Kind: EventDone}, nil
		}
		return ev, nil
	case <-ctx.Done():
		return DriverEvent{}, ctx.Err()
	}
}

func (b *BLE) Write(ctx context.Context, frame []byte) error {
	b.mu.Lock()
	char := b.char
	b.mu.Unlock()
	_, err := char.WriteWithoutResponse(frame)
	if err != nil {
		return fmt.Errorf("transport: ble write: %w", err)
	}
	return nil
}

func (b *BLE) Alive() bool { return b.alive.Load() }

func (b *BLE) Close() error {
	var err error
	b.closeOnce.Do(func() {
		b.alive.Store(false)
		b.mu.Lock()
		device := b.device
		b.mu.Unlock()
		err = device.Disconnect()
		b.push(DriverEvent{Kind: EventDone})
		close(b.events)
	})
	return err
}

// deriveDeviceID derives a stable, non-PII-leaking identifier from a BLE
// address so logs and metrics never need OS-specific MAC formatting.
func deriveDeviceID(address string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("ecamctl.ble."+address))
}

var _ Driver = (*BLE)(nil)
