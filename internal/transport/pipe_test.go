package transport

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestPipe_ReadsReadyThenFrame(t *testing.T) {
	in := strings.NewReader("R: READY\nR: 0d0401020300\nQ:\n")
	var out bytes.Buffer
	p := NewPipe(in, &out)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ev, err := p.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ev.Kind != EventReady {
		t.Fatalf("first event kind = %v, want EventReady", ev.Kind)
	}

	ev, err = p.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ev.Kind != EventFrame {
		t.Fatalf("second event kind = %v, want EventFrame", ev.Kind)
	}
	want := []byte{0x0d, 0x04, 0x01, 0x02, 0x03, 0x00}
	if !bytes.Equal(ev.Frame, want) {
		t.Fatalf("frame = %x, want %x", ev.Frame, want)
	}

	ev, err = p.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ev.Kind != EventDone {
		t.Fatalf("third event kind = %v, want EventDone", ev.Kind)
	}
	if p.Alive() {
		t.Fatalf("Alive() = true after Q:, want false")
	}
}

func TestPipe_WriteEmitsSendLine(t *testing.T) {
	in := strings.NewReader("")
	var out bytes.Buffer
	p := NewPipe(in, &out)

	if err := p.Write(context.Background(), []byte{0x0d, 0x04, 0xaa, 0xbb, 0xcc, 0xdd}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "S: 0d04aabbccdd\n"
	if out.String() != want {
		t.Fatalf("written line = %q, want %q", out.String(), want)
	}
}

func TestParseHostLine(t *testing.T) {
	frame, isSend, err := ParseHostLine("S: 0d0401020300")
	if err != nil {
		t.Fatal(err)
	}
	if !isSend {
		t.Fatalf("isSend = false, want true")
	}
	want := []byte{0x0d, 0x04, 0x01, 0x02, 0x03, 0x00}
	if !bytes.Equal(frame, want) {
		t.Fatalf("frame = %x, want %x", frame, want)
	}

	if _, isSend, err := ParseHostLine("R: READY"); isSend || err != nil {
		t.Fatalf("non-send line: isSend=%v err=%v", isSend, err)
	}
}
