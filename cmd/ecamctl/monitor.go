package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/barista-systems/ecamctl/internal/connection"
	"github.com/barista-systems/ecamctl/internal/metrics"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Print status transitions until interrupted",
	RunE:  runMonitor,
}

func runMonitor(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := connectBLE(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	if cfg.Trace {
		go traceTap(ctx, conn, cmd)
	}

	var last connection.Phase = -1
	onUpdate := func(st connection.Status) {
		if st.Phase == last {
			return
		}
		last = st.Phase
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d%%)\n", st.Phase, st.Percentage)
	}

	err = conn.WaitFor(ctx, func(connection.Status) bool { return false }, onUpdate)
	if cfg.Trace {
		s := metrics.Snap()
		fmt.Fprintf(cmd.ErrOrStderr(),
			"trace summary: rx=%d tx=%d checksum_failures=%d resyncs=%d broadcast_drops=%d errors=%d\n",
			s.FramesRx, s.FramesTx, s.ChecksumFailures, s.ReframerResyncs, s.BroadcastDrops, s.Errors)
	}
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// traceTap prints every decoded packet to stderr when --trace is set,
// whatever the log level, independent of the status watch monitor prints
// above.
func traceTap(ctx context.Context, conn *connection.Connection, cmd *cobra.Command) {
	tap := conn.PacketTap()
	defer tap.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case resp, ok := <-tap.Frames():
			if !ok {
				return
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: %T %+v\n", resp, resp)
		}
	}
}
