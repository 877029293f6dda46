package connection

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/barista-systems/ecamctl/internal/protocol"
	"github.com/barista-systems/ecamctl/internal/transport"
)

func TestConnection_WaitForConnectionObservesInitialState(t *testing.T) {
	sim := transport.NewSimulator(transport.WithMonitorState(protocol.MonitorV2Response{
		State: protocol.DecodeMachineState(byte(protocol.MachineStateStandBy)),
	}))
	conn := New(context.Background(), sim, "sim-1")
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := conn.WaitForConnection(ctx); err != nil {
		t.Fatalf("WaitForConnection: %v", err)
	}
	st, err := conn.CurrentState(ctx)
	if err != nil {
		t.Fatalf("CurrentState: %v", err)
	}
	if st.Phase != PhaseStandBy {
		t.Fatalf("Phase = %v, want PhaseStandBy", st.Phase)
	}
}

func TestConnection_PacketTapReceivesBroadcast(t *testing.T) {
	sim := transport.NewSimulator()
	conn := New(context.Background(), sim, "sim-2")
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := conn.WaitForConnection(ctx); err != nil {
		t.Fatalf("WaitForConnection: %v", err)
	}

	sub := conn.PacketTap()
	defer sub.Close()

	sim.SetMonitorState(protocol.MonitorV2Response{
		State: protocol.DecodeMachineState(byte(protocol.MachineStateReadyOrDispensing)),
	})

	select {
	case resp := <-sub.Frames():
		mon, ok := resp.(protocol.MonitorV2Response)
		if !ok {
			t.Fatalf("tapped response = %T, want MonitorV2Response", resp)
		}
		if state, ok := mon.State.Value(); !ok || state != protocol.MachineStateReadyOrDispensing {
			t.Fatalf("State = %v, want ReadyOrDispensing", mon.State)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for tapped packet")
	}
}

func TestConnection_LivenessDropSurfacesAsUnknown(t *testing.T) {
	sim := transport.NewSimulator()
	conn := New(context.Background(), sim, "sim-3")
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := conn.WaitForConnection(ctx); err != nil {
		t.Fatalf("WaitForConnection: %v", err)
	}

	sim.Kill()

	deadline := time.Now().Add(time.Second)
	for conn.Alive() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if conn.Alive() {
		t.Fatal("expected Connection to observe liveness drop")
	}

	err := conn.WaitForState(ctx, PhaseReady, nil)
	if err == nil {
		t.Fatal("expected WaitForState to fail after liveness drop")
	}
}

func TestConnection_FakeClockDrivesLivenessPoll(t *testing.T) {
	sim := transport.NewSimulator()
	clock := clockwork.NewFakeClock()
	conn := New(context.Background(), sim, "sim-5", WithClock(clock))
	defer conn.Close()

	clock.BlockUntil(2) // liveness ticker + monitor goroutine's idle sleep

	sim.Kill()
	clock.Advance(livenessPollInterval)

	deadline := time.Now().Add(time.Second)
	for conn.Alive() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if conn.Alive() {
		t.Fatal("expected fake-clock tick to observe liveness drop")
	}
}

func TestConnection_WriteBeforeReadySucceeds(t *testing.T) {
	sim := transport.NewSimulator()
	conn := New(context.Background(), sim, "sim-4")
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := conn.Write(ctx, protocol.AppControlRequest{Op: protocol.AppControlTurnOn}); err != nil {
		t.Fatalf("Write: %v", err)
	}
}
