package bridge

import (
	"fmt"
	"strconv"
	"strings"

	"go.mavbridge.dev/bridge/internal/transport"
)

// parseConnectionURL parses one of the three grammars spec.md §4.5 allows:
//
//	udp://:PORT        - UDP listener on the given port, all interfaces
//	udp://HOST:PORT    - outbound UDP peer (client mode)
//	serial://DEVICE:BAUD - serial device at the given baud rate
//
// Any other string is rejected.
func parseConnectionURL(raw string) (transport.Transport, error) {
	switch {
	case strings.HasPrefix(raw, "udp://"):
		return parseUDPURL(strings.TrimPrefix(raw, "udp://"))
	case strings.HasPrefix(raw, "serial://"):
		return parseSerialURL(strings.TrimPrefix(raw, "serial://"))
	default:
		return nil, fmt.Errorf("bridge: unrecognized connection url %q", raw)
	}
}

func parseUDPURL(hostport string) (transport.Transport, error) {
	host, portStr, err := splitHostPort(hostport)
	if err != nil {
		return nil, fmt.Errorf("bridge: invalid udp url: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("bridge: invalid udp port %q: %w", portStr, err)
	}

	if host == "" {
		return transport.NewUDP(transport.UDPConfig{LocalAddr: "0.0.0.0", LocalPort: port}), nil
	}
	return transport.NewUDP(transport.UDPConfig{
		LocalAddr:  "0.0.0.0",
		LocalPort:  0,
		RemoteAddr: host + ":" + portStr,
	}), nil
}

func parseSerialURL(devicebaud string) (transport.Transport, error) {
	device, baudStr, err := splitHostPort(devicebaud)
	if err != nil || device == "" {
		return nil, fmt.Errorf("bridge: invalid serial url %q", devicebaud)
	}
	baud, err := strconv.Atoi(baudStr)
	if err != nil {
		return nil, fmt.Errorf("bridge: invalid serial baud %q: %w", baudStr, err)
	}
	return transport.NewSerial(transport.SerialConfig{Device: device, Baud: baud}), nil
}

// splitHostPort splits on the last colon, tolerating a device path (serial)
// or an empty host (udp listener) on the left of it. It does no further
// validation of either side.
func splitHostPort(s string) (left, right string, err error) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return "", "", fmt.Errorf("missing ':' separator in %q", s)
	}
	return s[:i], s[i+1:], nil
}
