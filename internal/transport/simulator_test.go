package transport

import (
	"context"
	"testing"
	"time"

	"github.com/barista-systems/ecamctl/internal/protocol"
)

func TestSimulator_EmitsReadyFirst(t *testing.T) {
	s := NewSimulator()
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ev, err := s.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Kind != EventReady {
		t.Fatalf("first event = %v, want EventReady", ev.Kind)
	}
}

func TestSimulator_RespondsToMonitorV2(t *testing.T) {
	s := NewSimulator(WithMonitorState(protocol.MonitorV2Response{
		State: protocol.DecodeMachineState(byte(protocol.MachineStateReadyOrDispensing)),
	}))
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := s.Read(ctx); err != nil { // drain Ready
		t.Fatal(err)
	}

	frame, err := protocol.EncodeFrame(protocol.EncodeRequest(protocol.MonitorV2Request{}))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Write(ctx, frame); err != nil {
		t.Fatal(err)
	}

	ev, err := s.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Kind != EventFrame {
		t.Fatalf("event = %v, want EventFrame", ev.Kind)
	}
	payload, err := protocol.DecodeFrame(ev.Frame)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := protocol.DecodeResponse(payload)
	if err != nil {
		t.Fatal(err)
	}
	mon, ok := resp.(protocol.MonitorV2Response)
	if !ok {
		t.Fatalf("response = %T, want MonitorV2Response", resp)
	}
	if state, ok := mon.State.Value(); !ok || state != protocol.MachineStateReadyOrDispensing {
		t.Fatalf("State = %v, want ReadyOrDispensing", mon.State)
	}
}

func TestSimulator_RespondsToRecipeFetch(t *testing.T) {
	beverage := protocol.BeverageCoffee
	quantities := []protocol.RecipeInfo{{Ingredient: protocol.Known(protocol.IngredientCoffee), Value: 100}}
	ranges := []protocol.RecipeMinMax{{Ingredient: protocol.Known(protocol.IngredientCoffee), Min: 0, Value: 100, Max: 250}}
	s := NewSimulator(WithRecipe(beverage, quantities, ranges))
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := s.Read(ctx); err != nil { // drain Ready
		t.Fatal(err)
	}

	req := protocol.RecipeQuantityReadRequest{Profile: 1, Beverage: protocol.Known(beverage)}
	frame, err := protocol.EncodeFrame(protocol.EncodeRequest(req))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Write(ctx, frame); err != nil {
		t.Fatal(err)
	}
	ev, err := s.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	payload, err := protocol.DecodeFrame(ev.Frame)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := protocol.DecodeResponse(payload)
	if err != nil {
		t.Fatal(err)
	}
	quantResp, ok := resp.(protocol.RecipeQuantityReadResponse)
	if !ok {
		t.Fatalf("response = %T, want RecipeQuantityReadResponse", resp)
	}
	if len(quantResp.Items) != 1 || quantResp.Items[0].Value != 100 {
		t.Fatalf("Items = %+v, want one entry with Value=100", quantResp.Items)
	}
}

func TestSimulator_KillFlipsLiveness(t *testing.T) {
	s := NewSimulator()
	defer s.Close()
	if !s.Alive() {
		t.Fatal("expected simulator to start alive")
	}
	s.Kill()
	if s.Alive() {
		t.Fatal("expected simulator to report dead after Kill")
	}
}
