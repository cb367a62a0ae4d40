// Package mavlink implements the MAVLink v1/v2 wire framing format: frame
// parsing, CRC validation, and the small fixed dialect this bridge knows
// about. The engine in internal/engine treats Frame as opaque; only this
// package and its ToWire/FromWire pair interpret payload bytes.
package mavlink

// Version identifies which MAVLink wire format a Frame was parsed from or
// should be serialized as.
type Version uint8

const (
	V1 Version = 1
	V2 Version = 2
)

const (
	startByteV1 = 0xFE
	startByteV2 = 0xFD

	// MaxPacketLen is the largest possible frame on the wire: v2 header (10
	// bytes) + max payload (255) + CRC (2) + signature (13).
	MaxPacketLen = 280

	signatureLen = 13
)

// Frame is one complete, validated MAVLink message as it appears on the
// wire. The engine never interprets Payload; that is FromWire's job.
type Frame struct {
	Version     Version
	IncompatFlags byte // v2 only
	CompatFlags   byte // v2 only
	Sequence    byte
	SystemID    byte
	ComponentID byte
	MessageID   uint32
	Payload     []byte
	CRC         uint16
	Signature   []byte // v2 only, present iff IncompatFlags&0x01 != 0
}

// signed reports whether the v2 signature trailer is present.
func (f *Frame) signed() bool {
	return f.Version == V2 && f.IncompatFlags&0x01 != 0 && len(f.Signature) == signatureLen
}
