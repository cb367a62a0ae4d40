// Package transport implements the raw byte-I/O layer the protocol engine
// drives: a uniform capability interface with UDP-datagram and serial-line
// backends. Every backend is non-blocking-first: Read returns (0, nil) when
// there is nothing to read right now, and a non-nil error only for a
// condition the caller should treat as fatal for this connection.
package transport

import "errors"

// ErrClosed is returned by Read/Write when the transport is not open.
var ErrClosed = errors.New("transport: not open")

// Transport is the capability every backend implements: open/close
// lifecycle plus non-blocking read and best-effort write. spec.md §4.1
// models this as a single interface with two concrete backends rather than
// a class hierarchy; Go makes that the natural shape.
type Transport interface {
	// Open acquires the underlying resource (socket, character device).
	// Idempotent: calling Open on an already-open transport is a no-op
	// that returns nil.
	Open() error

	// Close releases the underlying resource. Safe to call on a transport
	// that is not open, and safe to call more than once.
	Close() error

	// IsOpen reports whether the transport currently holds an open
	// resource.
	IsOpen() bool

	// Read performs one non-blocking read. A return of (0, nil) means "no
	// data right now"; a non-nil error means this transport has failed
	// and will not recover on its own.
	Read(buf []byte) (int, error)

	// Write is best-effort: it may return fewer bytes than len(buf), or a
	// non-nil error, without the transport being considered failed
	// (callers decide what a short write means for their protocol).
	Write(buf []byte) (int, error)
}
