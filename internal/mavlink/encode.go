package mavlink

import "fmt"

// Encode serializes a Frame into its wire bytes, computing the CRC. The
// engine calls this after stamping Frame.Sequence with the next value from
// its atomic counter (spec.md §4.2): callers must not rely on Frame.CRC
// being meaningful before calling Encode.
func Encode(f Frame) ([]byte, error) {
	if len(f.Payload) > 255 {
		return nil, ErrTooLong
	}
	extra, known := crcExtra[f.MessageID]
	if !known {
		return nil, fmt.Errorf("mavlink: unknown message id %d, no CRC_EXTRA", f.MessageID)
	}

	var out []byte
	switch f.Version {
	case V1:
		out = make([]byte, 0, 6+len(f.Payload)+2)
		out = append(out, startByteV1, byte(len(f.Payload)), f.Sequence, f.SystemID, f.ComponentID, byte(f.MessageID))
	case V2:
		out = make([]byte, 0, 10+len(f.Payload)+2+signatureLen)
		out = append(out, startByteV2, byte(len(f.Payload)), f.IncompatFlags, f.CompatFlags, f.Sequence, f.SystemID, f.ComponentID,
			byte(f.MessageID), byte(f.MessageID>>8), byte(f.MessageID>>16))
	default:
		return nil, fmt.Errorf("mavlink: unknown protocol version %d", f.Version)
	}
	out = append(out, f.Payload...)

	crc := crcCalculate(out[1:], extra)
	out = append(out, byte(crc), byte(crc>>8))

	if f.signed() {
		out = append(out, f.Signature...)
	}
	return out, nil
}
