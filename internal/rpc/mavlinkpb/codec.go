package mavlinkpb

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the grpc content-subtype this package's codec answers to
// ("application/grpc+json" on the wire). Callers select it per-call with
// grpc.CallContentSubtype(mavlinkpb.CodecName).
const CodecName = "json"

// jsonCodec is a grpc wire codec over encoding/json, registered in place of
// the protobuf-binary codec protoc-gen-go normally pairs with generated
// types. There is no protobuf compiler in this environment (see
// mavbridge.proto's header and DESIGN.md), so the service's generated-looking
// types here are marshaled as JSON instead of wire-format protobuf.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
