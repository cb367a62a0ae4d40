package transport_test

import (
	"net"
	"strconv"
	"testing"
	"time"

	"go.mavbridge.dev/bridge/internal/transport"
)

func TestUDP_OpenCloseIdempotent(t *testing.T) {
	t.Parallel()
	u := transport.NewUDP(transport.UDPConfig{LocalAddr: "127.0.0.1", LocalPort: 0})
	if err := u.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := u.Open(); err != nil {
		t.Fatalf("second Open should be a no-op: %v", err)
	}
	if !u.IsOpen() {
		t.Fatal("expected IsOpen after Open")
	}
	if err := u.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := u.Close(); err != nil {
		t.Fatalf("second Close should be a no-op: %v", err)
	}
	if u.IsOpen() {
		t.Fatal("expected !IsOpen after Close")
	}
}

func TestUDP_ReadReturnsZeroOnIdle(t *testing.T) {
	t.Parallel()
	u := transport.NewUDP(transport.UDPConfig{LocalAddr: "127.0.0.1", LocalPort: 0})
	if err := u.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer u.Close()

	buf := make([]byte, 64)
	n, err := u.Read(buf)
	if err != nil {
		t.Fatalf("idle Read returned error: %v", err)
	}
	if n != 0 {
		t.Fatalf("idle Read returned n=%d, want 0", n)
	}
}

func TestUDP_LearnsRemoteAndWritesBack(t *testing.T) {
	t.Parallel()

	// bind an ephemeral port to discover it, then reopen transport.UDP on it.
	probe, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	if err != nil {
		t.Fatalf("probe listen: %v", err)
	}
	port := probe.LocalAddr().(*net.UDPAddr).Port
	probe.Close()

	u := transport.NewUDP(transport.UDPConfig{LocalAddr: "127.0.0.1", LocalPort: port})
	if err := u.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer u.Close()

	peer, err := net.DialUDP("udp", nil, &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: port})
	if err != nil {
		t.Fatalf("dial peer: %v", err)
	}
	defer peer.Close()

	msg := []byte("hello")
	if _, err := peer.Write(msg); err != nil {
		t.Fatalf("peer write: %v", err)
	}

	buf := make([]byte, 64)
	var n int
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		n, err = u.Read(buf)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if n > 0 {
			break
		}
	}
	if n == 0 {
		t.Fatal("never received the peer's datagram")
	}

	// Write should now reach the learned peer without configuring it
	// explicitly.
	if _, err := u.Write([]byte("ack")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	ack := make([]byte, 64)
	an, err := peer.Read(ack)
	if err != nil {
		t.Fatalf("peer did not receive learned write: %v", err)
	}
	if string(ack[:an]) != "ack" {
		t.Fatalf("got %q, want %q", ack[:an], "ack")
	}
}

func TestUDP_ClientModeSeedsRemote(t *testing.T) {
	t.Parallel()

	srv, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer srv.Close()
	port := srv.LocalAddr().(*net.UDPAddr).Port

	u := transport.NewUDP(transport.UDPConfig{
		LocalAddr:  "127.0.0.1",
		LocalPort:  0,
		RemoteAddr: "127.0.0.1:" + strconv.Itoa(port),
	})
	if err := u.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer u.Close()

	if _, err := u.Write([]byte("x")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	srv.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 8)
	n, _, err := srv.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("server never received client-mode write: %v", err)
	}
	if string(buf[:n]) != "x" {
		t.Fatalf("got %q, want %q", buf[:n], "x")
	}
}
