package mavlinkpb

import (
	"context"

	"google.golang.org/grpc"
)

// MavlinkBridgeServer is the server API for the MavlinkBridge service, the
// shape protoc-gen-go-grpc would generate from mavbridge.proto.
type MavlinkBridgeServer interface {
	StreamMessages(*StreamFilter, MavlinkBridge_StreamMessagesServer) error
	SendMessage(context.Context, *MavlinkMessage) (*SendResponse, error)
}

// MavlinkBridge_StreamMessagesServer is the server-side stream handle for
// StreamMessages.
type MavlinkBridge_StreamMessagesServer interface {
	Send(*MavlinkMessage) error
	grpc.ServerStream
}

type mavlinkBridgeStreamMessagesServer struct {
	grpc.ServerStream
}

func (s *mavlinkBridgeStreamMessagesServer) Send(m *MavlinkMessage) error {
	return s.ServerStream.SendMsg(m)
}

func streamMessagesHandler(srv any, stream grpc.ServerStream) error {
	filter := new(StreamFilter)
	if err := stream.RecvMsg(filter); err != nil {
		return err
	}
	return srv.(MavlinkBridgeServer).StreamMessages(filter, &mavlinkBridgeStreamMessagesServer{stream})
}

func sendMessageHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(MavlinkMessage)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MavlinkBridgeServer).SendMessage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/mavbridge.MavlinkBridge/SendMessage"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MavlinkBridgeServer).SendMessage(ctx, req.(*MavlinkMessage))
	}
	return interceptor(ctx, in, info, handler)
}

// MavlinkBridge_ServiceDesc is the grpc.ServiceDesc protoc-gen-go-grpc would
// otherwise generate for mavbridge.proto's MavlinkBridge service.
var MavlinkBridge_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "mavbridge.MavlinkBridge",
	HandlerType: (*MavlinkBridgeServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SendMessage",
			Handler:    sendMessageHandler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamMessages",
			Handler:       streamMessagesHandler,
			ServerStreams: true,
		},
	},
	Metadata: "mavbridge.proto",
}

// RegisterMavlinkBridgeServer registers srv with s under the service
// descriptor above.
func RegisterMavlinkBridgeServer(s grpc.ServiceRegistrar, srv MavlinkBridgeServer) {
	s.RegisterService(&MavlinkBridge_ServiceDesc, srv)
}

// MavlinkBridgeClient is the client API for the MavlinkBridge service.
type MavlinkBridgeClient interface {
	StreamMessages(ctx context.Context, in *StreamFilter, opts ...grpc.CallOption) (MavlinkBridge_StreamMessagesClient, error)
	SendMessage(ctx context.Context, in *MavlinkMessage, opts ...grpc.CallOption) (*SendResponse, error)
}

type mavlinkBridgeClient struct {
	cc grpc.ClientConnInterface
}

// NewMavlinkBridgeClient returns a MavlinkBridge client over cc, using this
// package's JSON wire codec for every call.
func NewMavlinkBridgeClient(cc grpc.ClientConnInterface) MavlinkBridgeClient {
	return &mavlinkBridgeClient{cc: cc}
}

// MavlinkBridge_StreamMessagesClient is the client-side stream handle for
// StreamMessages.
type MavlinkBridge_StreamMessagesClient interface {
	Recv() (*MavlinkMessage, error)
	grpc.ClientStream
}

type mavlinkBridgeStreamMessagesClient struct {
	grpc.ClientStream
}

func (x *mavlinkBridgeStreamMessagesClient) Recv() (*MavlinkMessage, error) {
	m := new(MavlinkMessage)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *mavlinkBridgeClient) StreamMessages(ctx context.Context, in *StreamFilter, opts ...grpc.CallOption) (MavlinkBridge_StreamMessagesClient, error) {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	stream, err := c.cc.NewStream(ctx, &MavlinkBridge_ServiceDesc.Streams[0], "/mavbridge.MavlinkBridge/StreamMessages", opts...)
	if err != nil {
		return nil, err
	}
	x := &mavlinkBridgeStreamMessagesClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

func (c *mavlinkBridgeClient) SendMessage(ctx context.Context, in *MavlinkMessage, opts ...grpc.CallOption) (*SendResponse, error) {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	out := new(SendResponse)
	err := c.cc.Invoke(ctx, "/mavbridge.MavlinkBridge/SendMessage", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}
