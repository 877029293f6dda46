package recipe

import (
	"context"

	"github.com/barista-systems/ecamctl/internal/connection"
	"github.com/barista-systems/ecamctl/internal/logging"
	"github.com/barista-systems/ecamctl/internal/protocol"
)

// turner is the subset of connection.Connection PowerOn needs.
type turner interface {
	CurrentState(ctx context.Context) (connection.Status, error)
	Write(ctx context.Context, req protocol.Request) error
	WaitForState(ctx context.Context, phase connection.Phase, onUpdate func(connection.Status)) error
}

// PowerOn brings the machine from StandBy to Ready. If allowStayOff is
// true and the machine is merely in StandBy, PowerOn returns without
// writing anything — the caller only wanted to confirm the device is
// reachable, not force a warm-up cycle.
func PowerOn(ctx context.Context, conn turner, allowStayOff bool) error {
	st, err := conn.CurrentState(ctx)
	if err != nil {
		return err
	}

	switch st.Phase {
	case connection.PhaseReady:
		return nil
	case connection.PhaseStandBy:
		if allowStayOff {
			return nil
		}
		if err := conn.Write(ctx, protocol.AppControlRequest{Op: protocol.AppControlTurnOn}); err != nil {
			return err
		}
		return conn.WaitForState(ctx, connection.PhaseReady, nil)
	default:
		logging.L().Info("power_on_skipped", "phase", st.Phase)
		return nil
	}
}
