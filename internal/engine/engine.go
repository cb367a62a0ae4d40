// Package engine implements the protocol engine: it owns a transport, drives
// the MAVLink framing state machine on a dedicated receive goroutine, and
// serializes outgoing frames under a transmit lock with a strictly
// monotonic sequence counter. spec.md §4.2 is the contract this package
// implements.
package engine

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"go.mavbridge.dev/bridge/internal/mavlink"
	"go.mavbridge.dev/bridge/internal/transport"
)

// MessageCallback is invoked from the receive goroutine for every
// CRC-validated inbound frame. Its contract, per spec.md §4.2, is "must not
// block" — the receive loop cannot make progress while it runs.
type MessageCallback func(mavlink.Frame)

// Config configures a new Engine.
type Config struct {
	Transport   transport.Transport
	SystemID    byte
	ComponentID byte
	// Version is the MAVLink protocol version configured for this link,
	// reported by Engine.Version. Send does not apply it: frames handed to
	// Send carry their own Version.
	Version mavlink.Version
}

// Engine drives one transport's worth of MAVLink traffic.
type Engine struct {
	transport   transport.Transport
	systemID    byte
	componentID byte
	version     mavlink.Version

	stats Stats

	cbMu     sync.Mutex
	callback MessageCallback

	txMu sync.Mutex
	seq  atomic.Uint32

	runMu   sync.Mutex
	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New constructs an Engine over the given transport. The transport is not
// opened until Start is called.
func New(cfg Config) *Engine {
	return &Engine{
		transport:   cfg.Transport,
		systemID:    cfg.SystemID,
		componentID: cfg.ComponentID,
		version:     cfg.Version,
	}
}

// SystemID returns the engine's configured system id.
func (e *Engine) SystemID() byte { return e.systemID }

// ComponentID returns the engine's configured component id.
func (e *Engine) ComponentID() byte { return e.componentID }

// Version returns the MAVLink version the engine was configured with. Send
// does not apply it; each frame carries its own Version.
func (e *Engine) Version() mavlink.Version { return e.version }

// SetMessageCallback installs the sink invoked on each validated inbound
// frame. Safe to call at any time relative to Send; a brief critical
// section is used so the receive loop never observes a torn callback.
func (e *Engine) SetMessageCallback(cb MessageCallback) {
	e.cbMu.Lock()
	e.callback = cb
	e.cbMu.Unlock()
}

// Start opens the transport and spawns the receive goroutine. It fails if
// the engine is already running or if the transport fails to open, and is
// not idempotent on success — a second Start on a running engine returns an
// error.
func (e *Engine) Start() error {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	if e.running.Load() {
		return fmt.Errorf("engine: already running")
	}
	if err := e.transport.Open(); err != nil {
		return fmt.Errorf("engine: open transport: %w", err)
	}

	e.stopCh = make(chan struct{})
	e.doneCh = make(chan struct{})
	e.running.Store(true)
	go e.receiveLoop(e.stopCh, e.doneCh)
	return nil
}

// Stop signals the receive goroutine to exit, joins it, and closes the
// transport. Safe to call repeatedly, including on an engine that was never
// started or that already stopped itself after a transport read failure.
func (e *Engine) Stop() {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	if e.stopCh == nil {
		return
	}
	select {
	case <-e.stopCh:
	default:
		close(e.stopCh)
	}
	<-e.doneCh
	_ = e.transport.Close()
	e.running.Store(false)
}

// IsRunning reports whether the receive loop is currently active.
func (e *Engine) IsRunning() bool { return e.running.Load() }

// Send stamps f's sequence number with the next value from the engine's
// atomic counter, serializes it, and pushes it through the transport under
// the transmit lock. It is fully reentrant: concurrent callers each get a
// unique, strictly increasing (mod 256) sequence number, and transport
// writes are serialized. Returns the stamped frame and false on a partial
// or failed write, in which case messages_sent is left unchanged.
func (e *Engine) Send(f mavlink.Frame) (mavlink.Frame, bool) {
	e.txMu.Lock()
	defer e.txMu.Unlock()

	f.Sequence = byte(e.seq.Add(1) - 1)

	raw, err := mavlink.Encode(f)
	if err != nil {
		return f, false
	}
	n, err := e.transport.Write(raw)
	if err != nil || n != len(raw) {
		return f, false
	}
	e.stats.messagesSent.Add(1)
	return f, true
}

// GetStats returns a read-only snapshot of the connection counters.
func (e *Engine) GetStats() StatsSnapshot { return e.stats.snapshot() }

// receiveLoop is the engine's single dedicated reader. It owns the
// transport exclusively for [start, stop): spec.md §3 invariant.
func (e *Engine) receiveLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	var parser mavlink.Parser
	var lastSeq byte
	var seenAny bool
	buf := make([]byte, mavlink.MaxPacketLen)

	for {
		select {
		case <-stop:
			return
		default:
		}

		n, err := e.transport.Read(buf)
		if err != nil {
			e.running.Store(false)
			return
		}
		if n == 0 {
			// Nothing to do; intentional busy-poll per spec.md §4.2. Yield
			// to other goroutines; Gosched does not sleep, so on an idle
			// link only the transport's own read wait (the UDP read
			// deadline) paces this loop.
			runtime.Gosched()
			continue
		}

		for _, b := range buf[:n] {
			switch parser.Feed(b) {
			case mavlink.OK:
				frame := parser.Frame()
				e.stats.messagesReceived.Add(1)

				expected := lastSeq + 1
				if seenAny && frame.Sequence != expected {
					e.stats.sequenceGaps.Add(1)
				}
				lastSeq = frame.Sequence
				seenAny = true

				e.cbMu.Lock()
				cb := e.callback
				e.cbMu.Unlock()
				if cb != nil {
					cb(frame)
				}
			case mavlink.BadCRC:
				e.stats.crcErrors.Add(1)
			case mavlink.BadLength:
				e.stats.parseErrors.Add(1)
			}
		}
	}
}
