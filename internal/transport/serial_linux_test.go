//go:build linux

package transport_test

import (
	"testing"

	"go.mavbridge.dev/bridge/internal/transport"
)

func TestSerial_OpenRejectsUnsupportedBaud(t *testing.T) {
	t.Parallel()
	s := transport.NewSerial(transport.SerialConfig{Device: "/dev/null", Baud: 1234567})
	if err := s.Open(); err == nil {
		t.Fatal("expected an error for an unsupported baud rate")
	}
}

func TestSerial_NotOpenOperationsFail(t *testing.T) {
	t.Parallel()
	s := transport.NewSerial(transport.SerialConfig{Device: "/dev/null", Baud: 9600})
	if s.IsOpen() {
		t.Fatal("expected !IsOpen before Open")
	}
	if _, err := s.Read(make([]byte, 1)); err == nil {
		t.Fatal("expected Read to fail before Open")
	}
	if _, err := s.Write([]byte{0}); err == nil {
		t.Fatal("expected Write to fail before Open")
	}
}
