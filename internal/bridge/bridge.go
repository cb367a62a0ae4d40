// Package bridge implements the bridge coordinator: it parses a connection
// URL into a transport, wires the engine, router, and RPC service together,
// and owns the process's start/stop/wait lifecycle. spec.md §4.5 is the
// contract this package implements.
package bridge

import (
	"fmt"
	"net"
	"sync"

	"google.golang.org/grpc"

	"go.mavbridge.dev/bridge/internal/engine"
	"go.mavbridge.dev/bridge/internal/logx"
	"go.mavbridge.dev/bridge/internal/mavlink"
	"go.mavbridge.dev/bridge/internal/rpc"
	"go.mavbridge.dev/bridge/internal/rpc/mavlinkpb"
	"go.mavbridge.dev/bridge/internal/router"
)

// Config configures a Coordinator.
type Config struct {
	ConnectionURL string
	GRPCAddr      string
	SystemID      byte
	ComponentID   byte
	Version       mavlink.Version
	Logger        *logx.Logger
}

// Coordinator owns the engine, router, RPC service, and grpc server, and
// wires them together per spec.md §4.5.
type Coordinator struct {
	cfg Config
	log *logx.Logger

	engine  *engine.Engine
	router  *router.Router
	service *rpc.Service
	server  *grpc.Server

	mu      sync.Mutex
	running bool
	waitCh  chan struct{}
}

// New parses cfg.ConnectionURL and wires up the coordinator's components. It
// does not open the transport or start listening; call Start for that.
func New(cfg Config) (*Coordinator, error) {
	tr, err := parseConnectionURL(cfg.ConnectionURL)
	if err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = logx.Default()
	}

	eng := engine.New(engine.Config{
		Transport:   tr,
		SystemID:    cfg.SystemID,
		ComponentID: cfg.ComponentID,
		Version:     cfg.Version,
	})
	r := router.New()

	c := &Coordinator{cfg: cfg, log: log, engine: eng, router: r}
	c.service = rpc.New(r, c.sendCallback)

	eng.SetMessageCallback(c.inboundCallback)

	return c, nil
}

func (c *Coordinator) inboundCallback(f mavlink.Frame) {
	msg, err := mavlink.FromWire(f)
	if err != nil {
		c.log.Warn("bridge: dropping frame with message id %d: %v", f.MessageID, err)
		return
	}
	c.router.RouteMessage(msg)
}

func (c *Coordinator) sendCallback(msg mavlink.Message) bool {
	f, err := mavlink.ToWire(msg, c.cfg.Version)
	if err != nil {
		c.log.Warn("bridge: failed to convert outbound message: %v", err)
		return false
	}
	_, ok := c.engine.Send(f)
	return ok
}

// Start opens the transport, starts the engine, and begins serving the RPC
// service at cfg.GRPCAddr. Idempotent: a second Start on a running
// Coordinator is a no-op.
func (c *Coordinator) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return nil
	}

	if err := c.engine.Start(); err != nil {
		return fmt.Errorf("bridge: start engine: %w", err)
	}

	lis, err := net.Listen("tcp", c.cfg.GRPCAddr)
	if err != nil {
		c.engine.Stop()
		return fmt.Errorf("bridge: listen %s: %w", c.cfg.GRPCAddr, err)
	}

	c.server = grpc.NewServer()
	mavlinkpb.RegisterMavlinkBridgeServer(c.server, c.service)

	c.waitCh = make(chan struct{})
	go func() {
		defer close(c.waitCh)
		if err := c.server.Serve(lis); err != nil {
			c.log.Error("bridge: grpc server exited: %v", err)
		}
	}()

	c.running = true
	c.log.Info("bridge: listening on %s, grpc on %s", c.cfg.ConnectionURL, c.cfg.GRPCAddr)
	return nil
}

// Stop shuts down the RPC service (waking all streams), stops the grpc
// server, and stops the engine. Safe to call repeatedly.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}

	c.service.Shutdown()
	c.server.GracefulStop()
	c.engine.Stop()
	c.running = false
	c.log.Info("bridge: stopped")
}

// Wait blocks until the grpc server's run loop exits, which happens once
// Stop calls GracefulStop.
func (c *Coordinator) Wait() {
	c.mu.Lock()
	ch := c.waitCh
	c.mu.Unlock()
	if ch == nil {
		return
	}
	<-ch
}
