package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// pollInterval is how long a single Read waits for a datagram before
// reporting "no data right now". It trades a little latency on the first
// byte of an idle link for never blocking the engine's receive loop past
// this bound, which is what spec.md §4.1 calls "non-blocking reads".
const pollInterval = 20 * time.Millisecond

// UDPConfig configures the UDP datagram backend.
type UDPConfig struct {
	// LocalAddr is the bind address; empty means all interfaces.
	LocalAddr string
	LocalPort int

	// RemoteAddr, if set, seeds the remote-endpoint set at Open time with
	// a single outbound peer ("udp://HOST:PORT" client mode, spec.md §4.5
	// open question — this implementation supports it).
	RemoteAddr string

	// Broadcast enables SO_BROADCAST and, when the remote set is empty,
	// makes Write fall back to the limited broadcast address.
	Broadcast bool
}

// UDP is the UDP datagram transport backend. It "learns" remote endpoints
// from inbound traffic: every datagram's source (addr, port) is added to
// the remote set if not already present, and Write fans out to that set.
type UDP struct {
	cfg UDPConfig

	mu      sync.Mutex
	conn    *net.UDPConn
	remotes map[string]*net.UDPAddr
}

// NewUDP constructs a UDP transport from cfg. The socket is not created
// until Open is called.
func NewUDP(cfg UDPConfig) *UDP {
	return &UDP{cfg: cfg, remotes: make(map[string]*net.UDPAddr)}
}

func (u *UDP) Open() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.conn != nil {
		return nil
	}

	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
				if sockErr == nil && u.cfg.Broadcast {
					sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
				}
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}

	addr := fmt.Sprintf("%s:%d", u.cfg.LocalAddr, u.cfg.LocalPort)
	pc, err := lc.ListenPacket(context.Background(), "udp", addr)
	if err != nil {
		return fmt.Errorf("transport: udp listen %s: %w", addr, err)
	}
	u.conn = pc.(*net.UDPConn)

	if u.cfg.RemoteAddr != "" {
		raddr, err := net.ResolveUDPAddr("udp", u.cfg.RemoteAddr)
		if err != nil {
			u.conn.Close()
			u.conn = nil
			return fmt.Errorf("transport: resolve remote %s: %w", u.cfg.RemoteAddr, err)
		}
		u.remotes[raddr.String()] = raddr
	}
	return nil
}

func (u *UDP) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.conn == nil {
		return nil
	}
	err := u.conn.Close()
	u.conn = nil
	return err
}

func (u *UDP) IsOpen() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.conn != nil
}

func (u *UDP) Read(buf []byte) (int, error) {
	u.mu.Lock()
	conn := u.conn
	u.mu.Unlock()
	if conn == nil {
		return 0, ErrClosed
	}

	if err := conn.SetReadDeadline(time.Now().Add(pollInterval)); err != nil {
		return 0, err
	}
	n, addr, err := conn.ReadFromUDP(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return 0, nil
		}
		return 0, err
	}

	u.mu.Lock()
	if _, seen := u.remotes[addr.String()]; !seen {
		u.remotes[addr.String()] = addr
	}
	u.mu.Unlock()

	return n, nil
}

func (u *UDP) Write(buf []byte) (int, error) {
	u.mu.Lock()
	conn := u.conn
	if conn == nil {
		u.mu.Unlock()
		return 0, ErrClosed
	}
	targets := make([]*net.UDPAddr, 0, len(u.remotes))
	for _, r := range u.remotes {
		targets = append(targets, r)
	}
	broadcast := u.cfg.Broadcast
	port := u.cfg.LocalPort
	u.mu.Unlock()

	if len(targets) == 0 {
		if !broadcast {
			// Nothing learned yet and no configured peer: best-effort
			// write has nowhere to go.
			return 0, nil
		}
		baddr := &net.UDPAddr{IP: net.IPv4bcast, Port: port}
		return conn.WriteToUDP(buf, baddr)
	}

	n := 0
	for _, t := range targets {
		wn, err := conn.WriteToUDP(buf, t)
		if err != nil {
			return n, err
		}
		n = wn
	}
	return n, nil
}
