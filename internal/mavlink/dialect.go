package mavlink

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Message IDs for the fixed dialect this bridge understands. A real
// deployment would widen this table via the XML-to-Go code generation
// pipeline; that pipeline is out of scope here (spec.md §1), so the table is
// hand-kept, scoped to enough messages to exercise every RPC and engine path.
const (
	idHeartbeat   uint32 = 0
	idSysStatus   uint32 = 1
	idGPSRawInt   uint32 = 24
	idParamValue  uint32 = 22
	idCommandLong uint32 = 76
)

// Payload is the type-specific value of a structured Message: the tagged sum
// spec.md §3 describes, with one concrete Go type per known message id.
type Payload interface {
	MessageID() uint32
	marshal() []byte
	unmarshal([]byte) error
}

// Message is a structured MAVLink message: the same header fields the wire
// Frame carries, plus a typed Payload.
type Message struct {
	SystemID    byte
	ComponentID byte
	Sequence    byte
	Payload     Payload
}

// Heartbeat is MAVLink message id 0.
type Heartbeat struct {
	CustomMode     uint32
	Type           uint8
	Autopilot      uint8
	BaseMode       uint8
	SystemStatus   uint8
	MavlinkVersion uint8
}

func (Heartbeat) MessageID() uint32 { return idHeartbeat }

func (h Heartbeat) marshal() []byte {
	buf := make([]byte, 9)
	binary.LittleEndian.PutUint32(buf[0:4], h.CustomMode)
	buf[4] = h.Type
	buf[5] = h.Autopilot
	buf[6] = h.BaseMode
	buf[7] = h.SystemStatus
	buf[8] = h.MavlinkVersion
	return buf
}

func (h *Heartbeat) unmarshal(b []byte) error {
	if len(b) < 9 {
		return fmt.Errorf("mavlink: heartbeat payload too short: %d bytes", len(b))
	}
	h.CustomMode = binary.LittleEndian.Uint32(b[0:4])
	h.Type = b[4]
	h.Autopilot = b[5]
	h.BaseMode = b[6]
	h.SystemStatus = b[7]
	h.MavlinkVersion = b[8]
	return nil
}

// SysStatus is MAVLink message id 1.
type SysStatus struct {
	OnboardControlSensorsPresent uint32
	OnboardControlSensorsEnabled uint32
	OnboardControlSensorsHealth  uint32
	VoltageBattery               uint16
	CurrentBattery               int16
	DropRateComm                 uint16
	BatteryRemaining             int8
}

func (SysStatus) MessageID() uint32 { return idSysStatus }

func (s SysStatus) marshal() []byte {
	buf := make([]byte, 19)
	binary.LittleEndian.PutUint32(buf[0:4], s.OnboardControlSensorsPresent)
	binary.LittleEndian.PutUint32(buf[4:8], s.OnboardControlSensorsEnabled)
	binary.LittleEndian.PutUint32(buf[8:12], s.OnboardControlSensorsHealth)
	binary.LittleEndian.PutUint16(buf[12:14], s.VoltageBattery)
	binary.LittleEndian.PutUint16(buf[14:16], uint16(s.CurrentBattery))
	binary.LittleEndian.PutUint16(buf[16:18], s.DropRateComm)
	buf[18] = byte(s.BatteryRemaining)
	return buf
}

func (s *SysStatus) unmarshal(b []byte) error {
	if len(b) < 19 {
		return fmt.Errorf("mavlink: sys_status payload too short: %d bytes", len(b))
	}
	s.OnboardControlSensorsPresent = binary.LittleEndian.Uint32(b[0:4])
	s.OnboardControlSensorsEnabled = binary.LittleEndian.Uint32(b[4:8])
	s.OnboardControlSensorsHealth = binary.LittleEndian.Uint32(b[8:12])
	s.VoltageBattery = binary.LittleEndian.Uint16(b[12:14])
	s.CurrentBattery = int16(binary.LittleEndian.Uint16(b[14:16]))
	s.DropRateComm = binary.LittleEndian.Uint16(b[16:18])
	s.BatteryRemaining = int8(b[18])
	return nil
}

// GPSRawInt is MAVLink message id 24.
type GPSRawInt struct {
	TimeUsec          uint64
	Lat               int32
	Lon               int32
	Alt               int32
	Eph               uint16
	Epv               uint16
	Vel               uint16
	Cog               uint16
	FixType           uint8
	SatellitesVisible uint8
}

func (GPSRawInt) MessageID() uint32 { return idGPSRawInt }

func (g GPSRawInt) marshal() []byte {
	buf := make([]byte, 30)
	binary.LittleEndian.PutUint64(buf[0:8], g.TimeUsec)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(g.Lat))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(g.Lon))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(g.Alt))
	binary.LittleEndian.PutUint16(buf[20:22], g.Eph)
	binary.LittleEndian.PutUint16(buf[22:24], g.Epv)
	binary.LittleEndian.PutUint16(buf[24:26], g.Vel)
	binary.LittleEndian.PutUint16(buf[26:28], g.Cog)
	buf[28] = g.FixType
	buf[29] = g.SatellitesVisible
	return buf
}

func (g *GPSRawInt) unmarshal(b []byte) error {
	if len(b) < 30 {
		return fmt.Errorf("mavlink: gps_raw_int payload too short: %d bytes", len(b))
	}
	g.TimeUsec = binary.LittleEndian.Uint64(b[0:8])
	g.Lat = int32(binary.LittleEndian.Uint32(b[8:12]))
	g.Lon = int32(binary.LittleEndian.Uint32(b[12:16]))
	g.Alt = int32(binary.LittleEndian.Uint32(b[16:20]))
	g.Eph = binary.LittleEndian.Uint16(b[20:22])
	g.Epv = binary.LittleEndian.Uint16(b[22:24])
	g.Vel = binary.LittleEndian.Uint16(b[24:26])
	g.Cog = binary.LittleEndian.Uint16(b[26:28])
	g.FixType = b[28]
	g.SatellitesVisible = b[29]
	return nil
}

// ParamValue is MAVLink message id 22.
type ParamValue struct {
	ParamValue float32
	ParamCount uint16
	ParamIndex uint16
	ParamID    [16]byte
	ParamType  uint8
}

func (ParamValue) MessageID() uint32 { return idParamValue }

func (p ParamValue) marshal() []byte {
	buf := make([]byte, 25)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(p.ParamValue))
	binary.LittleEndian.PutUint16(buf[4:6], p.ParamCount)
	binary.LittleEndian.PutUint16(buf[6:8], p.ParamIndex)
	copy(buf[8:24], p.ParamID[:])
	buf[24] = p.ParamType
	return buf
}

func (p *ParamValue) unmarshal(b []byte) error {
	if len(b) < 25 {
		return fmt.Errorf("mavlink: param_value payload too short: %d bytes", len(b))
	}
	p.ParamValue = math.Float32frombits(binary.LittleEndian.Uint32(b[0:4]))
	p.ParamCount = binary.LittleEndian.Uint16(b[4:6])
	p.ParamIndex = binary.LittleEndian.Uint16(b[6:8])
	copy(p.ParamID[:], b[8:24])
	p.ParamType = b[24]
	return nil
}

// CommandLong is MAVLink message id 76.
type CommandLong struct {
	Param1, Param2, Param3, Param4, Param5, Param6, Param7 float32
	Command                                                uint16
	TargetSystem                                           uint8
	TargetComponent                                        uint8
	Confirmation                                            uint8
}

func (CommandLong) MessageID() uint32 { return idCommandLong }

func (c CommandLong) marshal() []byte {
	buf := make([]byte, 33)
	vals := [7]float32{c.Param1, c.Param2, c.Param3, c.Param4, c.Param5, c.Param6, c.Param7}
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	binary.LittleEndian.PutUint16(buf[28:30], c.Command)
	buf[30] = c.TargetSystem
	buf[31] = c.TargetComponent
	buf[32] = c.Confirmation
	return buf
}

func (c *CommandLong) unmarshal(b []byte) error {
	if len(b) < 33 {
		return fmt.Errorf("mavlink: command_long payload too short: %d bytes", len(b))
	}
	vals := [7]*float32{&c.Param1, &c.Param2, &c.Param3, &c.Param4, &c.Param5, &c.Param6, &c.Param7}
	for i, v := range vals {
		*v = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4 : i*4+4]))
	}
	c.Command = binary.LittleEndian.Uint16(b[28:30])
	c.TargetSystem = b[30]
	c.TargetComponent = b[31]
	c.Confirmation = b[32]
	return nil
}

// newPayload returns a zero-value Payload for the given message id, or nil
// if the id is outside this bridge's dialect.
func newPayload(id uint32) Payload {
	switch id {
	case idHeartbeat:
		return &Heartbeat{}
	case idSysStatus:
		return &SysStatus{}
	case idGPSRawInt:
		return &GPSRawInt{}
	case idParamValue:
		return &ParamValue{}
	case idCommandLong:
		return &CommandLong{}
	default:
		return nil
	}
}

// ToWire converts a structured Message into a Frame ready for the engine to
// stamp a sequence number onto and transmit. This is the pure to_wire half
// of the converter spec.md §1 treats as an external collaborator.
func ToWire(m Message, version Version) (Frame, error) {
	if m.Payload == nil {
		return Frame{}, fmt.Errorf("mavlink: message has no payload")
	}
	return Frame{
		Version:     version,
		SystemID:    m.SystemID,
		ComponentID: m.ComponentID,
		Sequence:    m.Sequence,
		MessageID:   m.Payload.MessageID(),
		Payload:     m.Payload.marshal(),
	}, nil
}

// FromWire converts a validated Frame into a structured Message, the pure
// from_wire half of the converter.
func FromWire(f Frame) (Message, error) {
	p := newPayload(f.MessageID)
	if p == nil {
		return Message{}, fmt.Errorf("mavlink: unknown message id %d", f.MessageID)
	}
	if err := p.unmarshal(f.Payload); err != nil {
		return Message{}, err
	}
	return Message{
		SystemID:    f.SystemID,
		ComponentID: f.ComponentID,
		Sequence:    f.Sequence,
		Payload:     p,
	}, nil
}
