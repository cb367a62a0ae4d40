package rpc

import (
	"fmt"

	"go.mavbridge.dev/bridge/internal/mavlink"
	"go.mavbridge.dev/bridge/internal/rpc/mavlinkpb"
)

// toProto converts a structured mavlink.Message into its wire-level RPC
// representation, populating exactly one of MavlinkMessage's oneof-style
// payload fields.
func toProto(m mavlink.Message) (*mavlinkpb.MavlinkMessage, error) {
	out := &mavlinkpb.MavlinkMessage{
		SystemID:    uint32(m.SystemID),
		ComponentID: uint32(m.ComponentID),
		Sequence:    uint32(m.Sequence),
	}
	if m.Payload == nil {
		return nil, fmt.Errorf("rpc: message has no payload")
	}
	out.MessageID = m.Payload.MessageID()

	switch p := m.Payload.(type) {
	case *mavlink.Heartbeat:
		out.Heartbeat = &mavlinkpb.Heartbeat{
			CustomMode:     p.CustomMode,
			Type:           uint32(p.Type),
			Autopilot:      uint32(p.Autopilot),
			BaseMode:       uint32(p.BaseMode),
			SystemStatus:   uint32(p.SystemStatus),
			MavlinkVersion: uint32(p.MavlinkVersion),
		}
	case *mavlink.SysStatus:
		out.SysStatus = &mavlinkpb.SysStatus{
			OnboardControlSensorsPresent: p.OnboardControlSensorsPresent,
			OnboardControlSensorsEnabled: p.OnboardControlSensorsEnabled,
			OnboardControlSensorsHealth:  p.OnboardControlSensorsHealth,
			VoltageBattery:               uint32(p.VoltageBattery),
			CurrentBattery:               int32(p.CurrentBattery),
			DropRateComm:                 uint32(p.DropRateComm),
			BatteryRemaining:             int32(p.BatteryRemaining),
		}
	case *mavlink.GPSRawInt:
		out.GPSRawInt = &mavlinkpb.GPSRawInt{
			TimeUsec:          p.TimeUsec,
			Lat:               p.Lat,
			Lon:               p.Lon,
			Alt:               p.Alt,
			Eph:               uint32(p.Eph),
			Epv:               uint32(p.Epv),
			Vel:               uint32(p.Vel),
			Cog:               uint32(p.Cog),
			FixType:           uint32(p.FixType),
			SatellitesVisible: uint32(p.SatellitesVisible),
		}
	case *mavlink.ParamValue:
		out.ParamValue = &mavlinkpb.ParamValue{
			ParamValue: p.ParamValue,
			ParamCount: uint32(p.ParamCount),
			ParamIndex: uint32(p.ParamIndex),
			ParamID:    paramIDString(p.ParamID),
			ParamType:  uint32(p.ParamType),
		}
	case *mavlink.CommandLong:
		out.CommandLong = &mavlinkpb.CommandLong{
			Param1:          p.Param1,
			Param2:          p.Param2,
			Param3:          p.Param3,
			Param4:          p.Param4,
			Param5:          p.Param5,
			Param6:          p.Param6,
			Param7:          p.Param7,
			Command:         uint32(p.Command),
			TargetSystem:    uint32(p.TargetSystem),
			TargetComponent: uint32(p.TargetComponent),
			Confirmation:    uint32(p.Confirmation),
		}
	default:
		return nil, fmt.Errorf("rpc: unknown payload type %T", m.Payload)
	}
	return out, nil
}

// fromProto converts the RPC wire message back into a structured
// mavlink.Message, requiring exactly one payload field to be populated.
func fromProto(in *mavlinkpb.MavlinkMessage) (mavlink.Message, error) {
	var payload mavlink.Payload
	set := 0

	if in.Heartbeat != nil {
		set++
		h := in.Heartbeat
		payload = &mavlink.Heartbeat{
			CustomMode:     h.CustomMode,
			Type:           uint8(h.Type),
			Autopilot:      uint8(h.Autopilot),
			BaseMode:       uint8(h.BaseMode),
			SystemStatus:   uint8(h.SystemStatus),
			MavlinkVersion: uint8(h.MavlinkVersion),
		}
	}
	if in.SysStatus != nil {
		set++
		s := in.SysStatus
		payload = &mavlink.SysStatus{
			OnboardControlSensorsPresent: s.OnboardControlSensorsPresent,
			OnboardControlSensorsEnabled: s.OnboardControlSensorsEnabled,
			OnboardControlSensorsHealth:  s.OnboardControlSensorsHealth,
			VoltageBattery:               uint16(s.VoltageBattery),
			CurrentBattery:               int16(s.CurrentBattery),
			DropRateComm:                 uint16(s.DropRateComm),
			BatteryRemaining:             int8(s.BatteryRemaining),
		}
	}
	if in.GPSRawInt != nil {
		set++
		g := in.GPSRawInt
		payload = &mavlink.GPSRawInt{
			TimeUsec:          g.TimeUsec,
			Lat:               g.Lat,
			Lon:               g.Lon,
			Alt:               g.Alt,
			Eph:               uint16(g.Eph),
			Epv:               uint16(g.Epv),
			Vel:               uint16(g.Vel),
			Cog:               uint16(g.Cog),
			FixType:           uint8(g.FixType),
			SatellitesVisible: uint8(g.SatellitesVisible),
		}
	}
	if in.ParamValue != nil {
		set++
		p := in.ParamValue
		payload = &mavlink.ParamValue{
			ParamValue: p.ParamValue,
			ParamCount: uint16(p.ParamCount),
			ParamIndex: uint16(p.ParamIndex),
			ParamID:    paramIDBytes(p.ParamID),
			ParamType:  uint8(p.ParamType),
		}
	}
	if in.CommandLong != nil {
		set++
		c := in.CommandLong
		payload = &mavlink.CommandLong{
			Param1:          c.Param1,
			Param2:          c.Param2,
			Param3:          c.Param3,
			Param4:          c.Param4,
			Param5:          c.Param5,
			Param6:          c.Param6,
			Param7:          c.Param7,
			Command:         uint16(c.Command),
			TargetSystem:    uint8(c.TargetSystem),
			TargetComponent: uint8(c.TargetComponent),
			Confirmation:    uint8(c.Confirmation),
		}
	}

	if set != 1 {
		return mavlink.Message{}, fmt.Errorf("rpc: message must set exactly one payload, got %d", set)
	}

	return mavlink.Message{
		SystemID:    byte(in.SystemID),
		ComponentID: byte(in.ComponentID),
		Sequence:    byte(in.Sequence),
		Payload:     payload,
	}, nil
}

func paramIDString(b [16]byte) string {
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}
	return string(b[:n])
}

func paramIDBytes(s string) [16]byte {
	var b [16]byte
	copy(b[:], s)
	return b
}
