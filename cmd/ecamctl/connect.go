package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"tinygo.org/x/bluetooth"

	"github.com/barista-systems/ecamctl/internal/config"
	"github.com/barista-systems/ecamctl/internal/connection"
	"github.com/barista-systems/ecamctl/internal/logging"
	"github.com/barista-systems/ecamctl/internal/metrics"
	"github.com/barista-systems/ecamctl/internal/transport"
)

// connectBLE enables the default Bluetooth adapter, scans for a device
// advertising the protocol's service UUID (filtered by cfg.DeviceName
// when set), and dials it, retrying the scan-and-connect cycle with
// exponential backoff instead of a hand-rolled retry loop.
func connectBLE(ctx context.Context, cfg *config.Config) (*connection.Connection, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("ecamctl: enable bluetooth adapter: %w", err)
	}

	driver := transport.NewBLE(adapter)

	var address, displayName string
	scanOp := func() error {
		var err error
		displayName, address, err = driver.ScanForDevice(ctx, cfg.DeviceName)
		if err != nil {
			logging.L().Warn("ble_scan_retry", "device_name", cfg.DeviceName, "error", err)
		}
		return err
	}
	bo := backoff.WithContext(newConnectBackoff(), ctx)
	if err := backoff.Retry(scanOp, bo); err != nil {
		return nil, fmt.Errorf("ecamctl: scan for device %q: %w", cfg.DeviceName, err)
	}

	connectOp := func() error {
		err := driver.Connect(ctx, address)
		if err != nil {
			logging.L().Warn("ble_connect_retry", "address", address, "error", err)
		}
		return err
	}
	bo = backoff.WithContext(newConnectBackoff(), ctx)
	if err := backoff.Retry(connectOp, bo); err != nil {
		return nil, fmt.Errorf("ecamctl: connect to %q (%s): %w", displayName, address, err)
	}

	logging.L().Info("ble_connected", "device_name", displayName, "address", address)
	conn := connection.New(ctx, driver, address)
	metrics.SetReadinessFunc(conn.Alive)
	return conn, nil
}

// newConnectBackoff gives up after a minute of retrying rather than
// hammering a device that will never answer.
func newConnectBackoff() backoff.BackOff {
	return backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(200*time.Millisecond),
		backoff.WithMultiplier(2.0),
		backoff.WithMaxInterval(5*time.Second),
		backoff.WithMaxElapsedTime(60*time.Second),
	)
}
