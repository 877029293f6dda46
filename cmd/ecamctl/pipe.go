package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"tinygo.org/x/bluetooth"

	"github.com/barista-systems/ecamctl/internal/logging"
	"github.com/barista-systems/ecamctl/internal/transport"
)

// pipeCmd runs the device side of the stdio line protocol: it wraps a
// real BLE Driver and re-emits every event as "R: READY" / "R: <hex>" /
// "Q:" lines on stdout, and applies every
// "S: <hex>" line read from stdin as a write. A parent process speaking
// the same protocol (internal/transport.Pipe) can then daisy-chain this
// subprocess as if it were a Driver itself — this is how the simulator
// harness and integration tests exercise a real BLE backend without a
// real machine.
var pipeCmd = &cobra.Command{
	Use:    "x-internal-pipe",
	Short:  "Run the device side of the pipe line protocol over stdin/stdout",
	Hidden: true,
	RunE:   runPipe,
}

func runPipe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return fmt.Errorf("ecamctl: enable bluetooth adapter: %w", err)
	}
	driver := transport.NewBLE(adapter)

	_, address, err := driver.ScanForDevice(ctx, cfg.DeviceName)
	if err != nil {
		return fmt.Errorf("ecamctl: scan: %w", err)
	}
	if err := driver.Connect(ctx, address); err != nil {
		return fmt.Errorf("ecamctl: connect: %w", err)
	}
	defer driver.Close()

	go pumpPipeWrites(ctx, driver, os.Stdin)
	return pumpPipeEvents(ctx, driver, os.Stdout)
}

// pumpPipeWrites reads "S: <hex>" lines from in and forwards each as a
// frame write to the driver, implementing the host→Driver half of the
// pipe protocol.
func pumpPipeWrites(ctx context.Context, driver *transport.BLE, in *os.File) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		frame, isSend, err := transport.ParseHostLine(scanner.Text())
		if err != nil {
			logging.L().Warn("pipe_host_line_malformed", "error", err)
			continue
		}
		if !isSend {
			continue
		}
		if err := driver.Write(ctx, frame); err != nil {
			logging.L().Warn("pipe_write_failed", "error", err)
		}
	}
}

func pumpPipeEvents(ctx context.Context, driver *transport.BLE, out *os.File) error {
	for {
		ev, err := driver.Read(ctx)
		if err != nil {
			return err
		}
		switch ev.Kind {
		case transport.EventReady:
			if err := transport.WriteReady(out); err != nil {
				return err
			}
		case transport.EventFrame:
			if err := transport.WriteFrame(out, ev.Frame); err != nil {
				return err
			}
		case transport.EventDone:
			return transport.WriteDone(out)
		}
	}
}
