// Package rpc implements the MavlinkBridge service's business logic: the
// StreamMessages/SendMessage handlers spec.md §4.4 describes, sitting
// between the router and the generated-looking mavlinkpb wire types.
package rpc

import (
	"context"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.mavbridge.dev/bridge/internal/mavlink"
	"go.mavbridge.dev/bridge/internal/rpc/mavlinkpb"
	"go.mavbridge.dev/bridge/internal/router"
)

// SendFunc submits a structured message for transmission over the vehicle
// link, returning false on failure. The bridge coordinator supplies this as
// converter.to_wire → engine.send.
type SendFunc func(mavlink.Message) bool

// Service implements mavlinkpb.MavlinkBridgeServer.
type Service struct {
	router *router.Router
	send   SendFunc

	shutdownMu sync.Mutex
	shutdownCh chan struct{}
}

// New constructs a Service over the given router and send callback.
func New(r *router.Router, send SendFunc) *Service {
	return &Service{router: r, send: send, shutdownCh: make(chan struct{})}
}

// StreamMessages registers filter with the router and blocks until the
// client cancels the call or Shutdown fires, then unsubscribes.
func (s *Service) StreamMessages(filter *mavlinkpb.StreamFilter, stream mavlinkpb.MavlinkBridge_StreamMessagesServer) error {
	if filter == nil {
		filter = &mavlinkpb.StreamFilter{}
	}
	rf := router.Filter{
		SystemID:    byte(filter.SystemID),
		ComponentID: byte(filter.ComponentID),
		MessageIDs:  filter.MessageIDs,
	}

	write := func(m mavlink.Message) bool {
		pb, err := toProto(m)
		if err != nil {
			return false
		}
		return stream.Send(pb) == nil
	}

	id := s.router.Subscribe(rf, write)
	defer s.router.Unsubscribe(id)

	select {
	case <-stream.Context().Done():
	case <-s.shutdownCh:
	}
	return nil
}

// SendMessage validates and forwards in to the send callback.
func (s *Service) SendMessage(ctx context.Context, in *mavlinkpb.MavlinkMessage) (*mavlinkpb.SendResponse, error) {
	msg, err := fromProto(in)
	if err != nil {
		return &mavlinkpb.SendResponse{Success: false, Error: err.Error()}, status.Error(codes.InvalidArgument, err.Error())
	}
	if !s.send(msg) {
		return &mavlinkpb.SendResponse{Success: false, Error: "send failed"}, status.Error(codes.Internal, "send failed")
	}
	return &mavlinkpb.SendResponse{Success: true}, nil
}

// Shutdown wakes every blocked StreamMessages call. Idempotent.
func (s *Service) Shutdown() {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	select {
	case <-s.shutdownCh:
	default:
		close(s.shutdownCh)
	}
}
