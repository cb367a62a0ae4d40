// Package mavlinkpb holds the wire types and grpc service plumbing for the
// MavlinkBridge RPC, hand-authored against mavbridge.proto (see DESIGN.md:
// no protoc in this environment). The oneof in the .proto is represented
// here the way a generated struct would represent it with no protobuf
// compiler bindings available: one pointer field per alternative, of which
// exactly one is populated.
package mavlinkpb

// StreamFilter selects which messages a StreamMessages call receives. A
// zero SystemID or ComponentID means "any"; an empty MessageIDs means "any".
type StreamFilter struct {
	SystemID    uint32   `json:"system_id,omitempty"`
	ComponentID uint32   `json:"component_id,omitempty"`
	MessageIDs  []uint32 `json:"message_ids,omitempty"`
}

// MavlinkMessage is one structured MAVLink message as carried over the RPC.
// Exactly one of the payload fields is populated, mirroring a proto3 oneof.
type MavlinkMessage struct {
	SystemID    uint32 `json:"system_id"`
	ComponentID uint32 `json:"component_id"`
	MessageID   uint32 `json:"message_id"`
	Sequence    uint32 `json:"sequence"`

	Heartbeat   *Heartbeat   `json:"heartbeat,omitempty"`
	SysStatus   *SysStatus   `json:"sys_status,omitempty"`
	GPSRawInt   *GPSRawInt   `json:"gps_raw_int,omitempty"`
	ParamValue  *ParamValue  `json:"param_value,omitempty"`
	CommandLong *CommandLong `json:"command_long,omitempty"`
}

// Heartbeat mirrors mavbridge.Heartbeat in mavbridge.proto.
type Heartbeat struct {
	CustomMode     uint32 `json:"custom_mode"`
	Type           uint32 `json:"type"`
	Autopilot      uint32 `json:"autopilot"`
	BaseMode       uint32 `json:"base_mode"`
	SystemStatus   uint32 `json:"system_status"`
	MavlinkVersion uint32 `json:"mavlink_version"`
}

// SysStatus mirrors mavbridge.SysStatus in mavbridge.proto.
type SysStatus struct {
	OnboardControlSensorsPresent uint32 `json:"onboard_control_sensors_present"`
	OnboardControlSensorsEnabled uint32 `json:"onboard_control_sensors_enabled"`
	OnboardControlSensorsHealth  uint32 `json:"onboard_control_sensors_health"`
	VoltageBattery               uint32 `json:"voltage_battery"`
	CurrentBattery               int32  `json:"current_battery"`
	DropRateComm                 uint32 `json:"drop_rate_comm"`
	BatteryRemaining             int32  `json:"battery_remaining"`
}

// GPSRawInt mirrors mavbridge.GpsRawInt in mavbridge.proto.
type GPSRawInt struct {
	TimeUsec          uint64 `json:"time_usec"`
	Lat               int32  `json:"lat"`
	Lon               int32  `json:"lon"`
	Alt               int32  `json:"alt"`
	Eph               uint32 `json:"eph"`
	Epv               uint32 `json:"epv"`
	Vel               uint32 `json:"vel"`
	Cog               uint32 `json:"cog"`
	FixType           uint32 `json:"fix_type"`
	SatellitesVisible uint32 `json:"satellites_visible"`
}

// ParamValue mirrors mavbridge.ParamValue in mavbridge.proto.
type ParamValue struct {
	ParamValue float32 `json:"param_value"`
	ParamCount uint32  `json:"param_count"`
	ParamIndex uint32  `json:"param_index"`
	ParamID    string  `json:"param_id"`
	ParamType  uint32  `json:"param_type"`
}

// CommandLong mirrors mavbridge.CommandLong in mavbridge.proto.
type CommandLong struct {
	Param1          float32 `json:"param1"`
	Param2          float32 `json:"param2"`
	Param3          float32 `json:"param3"`
	Param4          float32 `json:"param4"`
	Param5          float32 `json:"param5"`
	Param6          float32 `json:"param6"`
	Param7          float32 `json:"param7"`
	Command         uint32  `json:"command"`
	TargetSystem    uint32  `json:"target_system"`
	TargetComponent uint32  `json:"target_component"`
	Confirmation    uint32  `json:"confirmation"`
}

// SendResponse is the unary SendMessage result.
type SendResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
