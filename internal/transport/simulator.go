package transport

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/barista-systems/ecamctl/internal/protocol"
)

// Simulator is an in-memory Driver that emulates just enough device
// behavior (monitor state, recipe fetch) to exercise Connection and the
// recipe engine without a real BLE peer. It is what the test suite builds
// connection-level tests on.
type Simulator struct {
	mu      sync.Mutex
	monitor protocol.MonitorV2Response
	recipes map[protocol.BeverageID]recipeFixture

	events chan DriverEvent
	alive  atomic.Bool
	closed atomic.Bool
}

type recipeFixture struct {
	quantities []protocol.RecipeInfo
	ranges     []protocol.RecipeMinMax
}

// SimulatorOption configures a Simulator at construction time, mirroring
// the functional-options idiom used throughout this module's server-side
// ancestry.
type SimulatorOption func(*Simulator)

// WithMonitorState seeds the simulator's initial MonitorV2 state.
func WithMonitorState(m protocol.MonitorV2Response) SimulatorOption {
	return func(s *Simulator) { s.monitor = m }
}

// WithRecipe registers a beverage's default quantities and ranges so that
// RecipeQuantityRead/RecipeMinMaxSync requests for it get real answers
// instead of an empty response.
func WithRecipe(beverage protocol.BeverageID, quantities []protocol.RecipeInfo, ranges []protocol.RecipeMinMax) SimulatorOption {
	return func(s *Simulator) {
		s.recipes[beverage] = recipeFixture{quantities: quantities, ranges: ranges}
	}
}

// NewSimulator returns a Simulator that is immediately alive and emits an
// EventReady as its first event, matching the real BLE driver's contract.
func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		monitor: protocol.MonitorV2Response{
			Accessory: protocol.DecodeAccessory(byte(protocol.AccessoryNone)),
			State:     protocol.DecodeMachineState(byte(protocol.MachineStateStandBy)),
		},
		recipes: make(map[protocol.BeverageID]recipeFixture),
		events:  make(chan DriverEvent, 256),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.alive.Store(true)
	s.events <- DriverEvent{Kind: EventReady}
	return s
}

func (s *Simulator) Read(ctx context.Context) (DriverEvent, error) {
	select {
	case ev, ok := <-s.events:
		if !ok {
			return DriverEvent{Kind: EventDone}, nil
		}
		return ev, nil
	case <-ctx.Done():
		return DriverEvent{}, ctx.Err()
	}
}

func (s *Simulator) Write(ctx context.Context, frame []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.handle(frame)
	return nil
}

func (s *Simulator) Alive() bool { return s.alive.Load() }

func (s *Simulator) Scan(ctx context.Context) (string, string, error) {
	return "Simulated Espresso Machine", "simulator-0001", nil
}

func (s *Simulator) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		s.alive.Store(false)
		close(s.events)
	}
	return nil
}

// SetMonitorState updates the simulated machine's state and immediately
// pushes it as a new MonitorV2 event, as if the device had sent an
// unsolicited update. Tests use this to drive Connection's status watch.
func (s *Simulator) SetMonitorState(m protocol.MonitorV2Response) {
	s.mu.Lock()
	s.monitor = m
	s.mu.Unlock()
	s.emitMonitor()
}

// Kill flips the simulator's liveness flag without closing the event
// channel, so tests can exercise the Liveness goroutine's polling path.
func (s *Simulator) Kill() { s.alive.Store(false) }

func (s *Simulator) handle(frame []byte) {
	payload, err := protocol.DecodeFrame(frame)
	if err != nil {
		return
	}
	if len(payload) < 2 {
		return
	}
	idEnum := protocol.DecodeRequestID(payload[0])
	id, ok := idEnum.Value()
	if !ok {
		return
	}
	body := payload[2:]
	switch id {
	case protocol.RequestIDMonitorV2:
		s.emitMonitor()
	case protocol.RequestIDRecipeQuantityRead:
		if len(body) < 2 {
			return
		}
		s.emitRecipeQuantity(protocol.DecodeBeverageID(body[1]))
	case protocol.RequestIDRecipeMinMaxSync:
		if len(body) < 1 {
			return
		}
		s.emitRecipeMinMax(protocol.DecodeBeverageID(body[0]))
	case protocol.RequestIDAppControl:
		s.mu.Lock()
		s.monitor.State = protocol.DecodeMachineState(byte(protocol.MachineStateTurningOn))
		s.mu.Unlock()
		s.emitMonitor()
		s.mu.Lock()
		s.monitor.State = protocol.DecodeMachineState(byte(protocol.MachineStateReadyOrDispensing))
		s.mu.Unlock()
		s.emitMonitor()
	}
}

func (s *Simulator) emitMonitor() {
	s.mu.Lock()
	m := s.monitor
	s.mu.Unlock()
	body := protocol.EncodeMonitorV2Body(m)
	s.emitResponse(protocol.RequestIDMonitorV2, body)
}

func (s *Simulator) emitRecipeQuantity(beverage protocol.Enum[protocol.BeverageID]) {
	bev, ok := beverage.Value()
	var items []protocol.RecipeInfo
	if ok {
		s.mu.Lock()
		fixture, have := s.recipes[bev]
		s.mu.Unlock()
		if have {
			items = fixture.quantities
		}
	}
	body, err := protocol.EncodeRecipeQuantityReadBody(beverage, items)
	if err != nil {
		return
	}
	s.emitResponse(protocol.RequestIDRecipeQuantityRead, body)
}

func (s *Simulator) emitRecipeMinMax(beverage protocol.Enum[protocol.BeverageID]) {
	bev, ok := beverage.Value()
	var items []protocol.RecipeMinMax
	if ok {
		s.mu.Lock()
		fixture, have := s.recipes[bev]
		s.mu.Unlock()
		if have {
			items = fixture.ranges
		}
	}
	body := protocol.EncodeRecipeMinMaxSyncBody(beverage, items)
	s.emitResponse(protocol.RequestIDRecipeMinMaxSync, body)
}

func (s *Simulator) emitResponse(id protocol.RequestID, body []byte) {
	payload := append([]byte{byte(id), 0xF0}, body...)
	frame, err := protocol.EncodeFrame(payload)
	if err != nil {
		return
	}
	if s.closed.Load() {
		return
	}
	select {
	case s.events <- DriverEvent{Kind: EventFrame, Frame: frame}:
	default:
	}
}

var _ Driver = (*Simulator)(nil)
