// Package statistics implements the re-seeding traversal over the
// machine's statistics log.
package statistics

import (
	"context"
	"fmt"

	"github.com/barista-systems/ecamctl/internal/logging"
	"github.com/barista-systems/ecamctl/internal/protocol"
)

// requestLen is what every StatisticsRead request asks for. The device
// silently caps each response at ~9 entries regardless of this value.
const requestLen = 16

// writer is the subset of connection.Connection Walk needs.
type writer interface {
	Write(ctx context.Context, req protocol.Request) error
}

// tapSource is the subset of connection.Connection's PacketTap contract
// Walk consumes.
type tapSource interface {
	Frames() <-chan protocol.Response
}

// Walk reads the entire statistics log starting at start, re-issuing
// StatisticsRead seeded from the last *returned* statistic id (never
// last+1, per the device's batching quirk) until a response comes back
// empty. Unrelated tapped packets are logged and ignored.
func Walk(ctx context.Context, w writer, tap tapSource, start uint16) ([]uint16, error) {
	var all []uint16
	next := start

	for {
		if err := w.Write(ctx, protocol.StatisticsReadRequest{Start: next, Len: requestLen}); err != nil {
			return all, fmt.Errorf("statistics: read request at %d: %w", next, err)
		}

		resp, err := awaitResponse(ctx, tap)
		if err != nil {
			return all, err
		}
		if len(resp.Items) == 0 {
			return all, nil
		}

		all = append(all, resp.Items...)
		if resp.LastID == next {
			// The device made no forward progress; a further request
			// would loop on the same batch forever.
			return all, nil
		}
		next = resp.LastID
	}
}

func awaitResponse(ctx context.Context, tap tapSource) (protocol.StatisticsReadResponse, error) {
	for {
		select {
		case <-ctx.Done():
			return protocol.StatisticsReadResponse{}, ctx.Err()
		case resp, ok := <-tap.Frames():
			if !ok {
				return protocol.StatisticsReadResponse{}, fmt.Errorf("statistics: packet tap closed before walk completed")
			}
			if r, match := resp.(protocol.StatisticsReadResponse); match {
				return r, nil
			}
			logging.L().Debug("statistics_walk_ignored_packet", "type", fmt.Sprintf("%T", resp))
		}
	}
}
