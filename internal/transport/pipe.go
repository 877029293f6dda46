package transport

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
)

// Pipe is a Driver that speaks a line-oriented stdio protocol:
// "R: READY" / "R: <hex>" / "S: <hex>" / "Q:". It lets a
// parent process daisy-chain a Driver running in a child process (typically
// `ecamctl x-internal-pipe`, see cmd/ecamctl) without either side knowing
// the other is not a real BLE peer.
type Pipe struct {
	out     io.Writer
	writeMu sync.Mutex
	alive   atomic.Bool

	events chan pipeResult
}

type pipeResult struct {
	ev  DriverEvent
	err error
}

// NewPipe wraps the read and write ends of a subprocess's stdio and starts
// a single pump goroutine that parses lines into events; the goroutine
// exits when the reader returns EOF or a "Q:" line arrives.
func NewPipe(r io.Reader, w io.Writer) *Pipe {
	p := &Pipe{
		out:    w,
		events: make(chan pipeResult, 16),
	}
	p.alive.Store(true)
	go p.pump(bufio.NewScanner(r))
	return p
}

func (p *Pipe) pump(scanner *bufio.Scanner) {
	defer close(p.events)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "R: READY":
			p.events <- pipeResult{ev: DriverEvent{Kind: EventReady}}
		case strings.HasPrefix(line, "R: "):
			frame, err := hex.DecodeString(strings.TrimPrefix(line, "R: "))
			if err != nil {
				p.events <- pipeResult{err: fmt.Errorf("transport: malformed pipe frame line %q: %w", line, err)}
				return
			}
			p.events <- pipeResult{ev: DriverEvent{Kind: EventFrame, Frame: frame}}
		case line == "Q:":
			p.alive.Store(false)
			p.events <- pipeResult{ev: DriverEvent{Kind: EventDone}}
			return
		default:
			// Unrecognized line: ignore and keep scanning (the
			// subprocess may emit its own diagnostics on the same
			// stream in a future revision).
		}
	}
	p.alive.Store(false)
	if err := scanner.Err(); err != nil {
		p.events <- pipeResult{err: err}
		return
	}
	p.events <- pipeResult{ev: DriverEvent{Kind: EventDone}}
}

func (p *Pipe) Read(ctx context.Context) (DriverEvent, error) {
	select {
	case r, ok := <-p.events:
		if !ok {
			return DriverEvent{Kind: EventDone}, nil
		}
		return r.ev, r.err
	case <-ctx.Done():
		return DriverEvent{}, ctx.Err()
	}
}

func (p *Pipe) Write(ctx context.Context, frame []byte) error {
	if !p.alive.Load() {
		return ErrClosed
	}
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	_, err := fmt.Fprintf(p.out, "S: %s\n", hex.EncodeToString(frame))
	return err
}

func (p *Pipe) Alive() bool { return p.alive.Load() }

// Scan is a no-op for Pipe: the subprocess on the other end already
// represents exactly one fixed device, so there is nothing to discover.
func (p *Pipe) Scan(ctx context.Context) (string, string, error) {
	return "pipe", "pipe", nil
}

func (p *Pipe) Close() error {
	p.alive.Store(false)
	return nil
}

// WriteReady emits the "R: READY" line. Used by the x-internal-pipe
// subcommand (acting as the device side of the pipe) once its underlying
// BLE driver reports EventReady.
func WriteReady(w io.Writer) error {
	_, err := io.WriteString(w, "R: READY\n")
	return err
}

// WriteFrame emits an "R: <hex>" line for a frame received from the
// underlying driver.
func WriteFrame(w io.Writer, frame []byte) error {
	_, err := fmt.Fprintf(w, "R: %s\n", hex.EncodeToString(frame))
	return err
}

// WriteDone emits the "Q:" end-of-stream line.
func WriteDone(w io.Writer) error {
	_, err := io.WriteString(w, "Q:\n")
	return err
}

// ParseHostLine parses a line written by the host side ("S: <hex>") into a
// frame. Used by the x-internal-pipe subcommand.
func ParseHostLine(line string) (frame []byte, isSend bool, err error) {
	if !strings.HasPrefix(line, "S: ") {
		return nil, false, nil
	}
	frame, err = hex.DecodeString(strings.TrimPrefix(line, "S: "))
	return frame, true, err
}

var _ Driver = (*Pipe)(nil)
