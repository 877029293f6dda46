package connection

import "sync"

// readinessGate is held until Release is called once; acquisition
// thereafter never blocks again, falling directly out of Go's
// closed-channel semantics rather than needing a semaphore or condvar.
type readinessGate struct {
	ch   chan struct{}
	once sync.Once
}

func newReadinessGate() *readinessGate {
	return &readinessGate{ch: make(chan struct{})}
}

// Release opens the gate. Safe to call more than once; only the first
// call has effect.
func (g *readinessGate) Release() {
	g.once.Do(func() { close(g.ch) })
}

// Wait returns a channel that is closed once Release has been called.
func (g *readinessGate) Wait() <-chan struct{} {
	return g.ch
}
