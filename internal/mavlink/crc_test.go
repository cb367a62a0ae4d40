package mavlink_test

import (
	"testing"

	"go.mavbridge.dev/bridge/internal/mavlink"
)

func TestEncodeThenParse_RoundTrip(t *testing.T) {
	t.Parallel()

	cases := []mavlink.Message{
		{SystemID: 1, ComponentID: 1, Payload: &mavlink.Heartbeat{Type: 2, Autopilot: 3, BaseMode: 4, SystemStatus: 5, MavlinkVersion: 2, CustomMode: 0xAABBCCDD}},
		{SystemID: 7, ComponentID: 1, Payload: &mavlink.SysStatus{VoltageBattery: 12600, CurrentBattery: -1, BatteryRemaining: 87}},
		{SystemID: 1, ComponentID: 1, Payload: &mavlink.GPSRawInt{Lat: 473977418, Lon: 85455938, FixType: 3, SatellitesVisible: 11}},
		{SystemID: 1, ComponentID: 1, Payload: &mavlink.ParamValue{ParamValue: 3.14, ParamCount: 10, ParamIndex: 2, ParamType: 9}},
		{SystemID: 1, ComponentID: 1, Payload: &mavlink.CommandLong{Command: 400, TargetSystem: 1, TargetComponent: 1, Param1: 1}},
	}

	for _, version := range []mavlink.Version{mavlink.V1, mavlink.V2} {
		for _, m := range cases {
			m := m
			wire, err := mavlink.ToWire(m, version)
			if err != nil {
				t.Fatalf("ToWire: %v", err)
			}
			raw, err := mavlink.Encode(wire)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}

			var p mavlink.Parser
			var got mavlink.Frame
			ok := false
			for _, b := range raw {
				switch p.Feed(b) {
				case mavlink.OK:
					got = p.Frame()
					ok = true
				case mavlink.BadCRC, mavlink.BadLength:
					t.Fatalf("unexpected parse failure for msgid %d", wire.MessageID)
				}
			}
			if !ok {
				t.Fatalf("frame for msgid %d never completed", wire.MessageID)
			}

			back, err := mavlink.FromWire(got)
			if err != nil {
				t.Fatalf("FromWire: %v", err)
			}
			if back.Payload.MessageID() != m.Payload.MessageID() {
				t.Fatalf("message id mismatch: got %d want %d", back.Payload.MessageID(), m.Payload.MessageID())
			}
			if back.SystemID != m.SystemID || back.ComponentID != m.ComponentID {
				t.Fatalf("header mismatch: got %+v want %+v", back, m)
			}
		}
	}
}

func TestParser_BadCRCIsSwallowedAndStreamRecovers(t *testing.T) {
	t.Parallel()

	good, _ := mavlink.Encode(must(mavlink.ToWire(mavlink.Message{
		SystemID: 1, ComponentID: 1, Payload: &mavlink.Heartbeat{},
	}, mavlink.V1)))

	corrupt := append([]byte(nil), good...)
	// Flip a payload byte to break the checksum without touching framing.
	corrupt[len(corrupt)-3] ^= 0xFF

	var p mavlink.Parser
	results := feedAll(&p, corrupt)
	if !containsResult(results, mavlink.BadCRC) {
		t.Fatalf("expected BadCRC among %v", results)
	}
	if containsResult(results, mavlink.OK) {
		t.Fatalf("corrupted frame should not validate")
	}

	results = feedAll(&p, good)
	if !containsResult(results, mavlink.OK) {
		t.Fatalf("parser did not recover for next good frame: %v", results)
	}
}

func feedAll(p *mavlink.Parser, buf []byte) []mavlink.ParseResult {
	out := make([]mavlink.ParseResult, 0, len(buf))
	for _, b := range buf {
		out = append(out, p.Feed(b))
	}
	return out
}

func containsResult(rs []mavlink.ParseResult, want mavlink.ParseResult) bool {
	for _, r := range rs {
		if r == want {
			return true
		}
	}
	return false
}

func must(f mavlink.Frame, err error) mavlink.Frame {
	if err != nil {
		panic(err)
	}
	return f
}
