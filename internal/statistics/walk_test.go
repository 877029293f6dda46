package statistics

import (
	"context"
	"testing"

	"github.com/barista-systems/ecamctl/internal/protocol"
)

type fakeWriter struct {
	requests []protocol.StatisticsReadRequest
}

func (f *fakeWriter) Write(ctx context.Context, req protocol.Request) error {
	f.requests = append(f.requests, req.(protocol.StatisticsReadRequest))
	return nil
}

type fakeTap struct {
	responses []protocol.StatisticsReadResponse
	ch        chan protocol.Response
}

func newFakeTap(responses []protocol.StatisticsReadResponse) *fakeTap {
	t := &fakeTap{responses: responses, ch: make(chan protocol.Response, len(responses))}
	return t
}

func (f *fakeTap) Frames() <-chan protocol.Response { return f.ch }

// feedOnWrite wraps a fakeWriter so each Write enqueues the next canned
// response onto the tap, mimicking the device replying to the request it
// was just sent.
type feedOnWrite struct {
	*fakeWriter
	tap *fakeTap
	n   int
}

func (f *feedOnWrite) Write(ctx context.Context, req protocol.Request) error {
	if err := f.fakeWriter.Write(ctx, req); err != nil {
		return err
	}
	if f.n < len(f.tap.responses) {
		f.tap.ch <- f.tap.responses[f.n]
		f.n++
	}
	return nil
}

func TestWalk_ReSeedsFromLastReturnedID(t *testing.T) {
	tap := newFakeTap([]protocol.StatisticsReadResponse{
		{Items: []uint16{1, 2, 3, 4, 5, 6, 7, 8, 9}, LastID: 9},
		{Items: []uint16{10, 11}, LastID: 11},
		{}, // empty: traversal ends
	})
	w := &feedOnWrite{fakeWriter: &fakeWriter{}, tap: tap}

	got, err := Walk(context.Background(), w, tap, 0)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(got) != 11 {
		t.Fatalf("got %d entries, want 11: %v", len(got), got)
	}

	if len(w.requests) != 3 {
		t.Fatalf("issued %d requests, want 3", len(w.requests))
	}
	if w.requests[0].Start != 0 {
		t.Fatalf("first request Start = %d, want 0", w.requests[0].Start)
	}
	if w.requests[1].Start != 9 {
		t.Fatalf("second request Start = %d, want 9 (last returned id, not last+1)", w.requests[1].Start)
	}
	if w.requests[2].Start != 11 {
		t.Fatalf("third request Start = %d, want 11", w.requests[2].Start)
	}
}

func TestWalk_EmptyFirstResponseStopsImmediately(t *testing.T) {
	tap := newFakeTap([]protocol.StatisticsReadResponse{{}})
	w := &feedOnWrite{fakeWriter: &fakeWriter{}, tap: tap}

	got, err := Walk(context.Background(), w, tap, 5)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
	if len(w.requests) != 1 {
		t.Fatalf("issued %d requests, want 1", len(w.requests))
	}
}
