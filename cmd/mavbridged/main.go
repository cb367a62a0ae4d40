// Command mavbridged runs the MAVLink-to-gRPC bridge: it terminates a
// MAVLink link over UDP or serial and exposes the traffic as the
// MavlinkBridge streaming RPC service. spec.md §6 is the CLI contract this
// file implements.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"go.mavbridge.dev/bridge/internal/bridge"
	"go.mavbridge.dev/bridge/internal/logx"
	"go.mavbridge.dev/bridge/internal/mavlink"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		connection  string
		grpcAddr    string
		systemID    uint8
		componentID uint8
		help        bool
	)

	flags := pflag.NewFlagSet("mavbridged", pflag.ContinueOnError)
	flags.StringVarP(&connection, "connection", "c", "udp://:14550", "MAVLink connection URL (udp://:PORT, udp://HOST:PORT, serial://DEVICE:BAUD)")
	flags.StringVarP(&grpcAddr, "grpc", "g", "0.0.0.0:50051", "gRPC listen address")
	flags.Uint8VarP(&systemID, "system-id", "s", 1, "MAVLink system id this bridge presents as")
	flags.Uint8VarP(&componentID, "component-id", "C", 1, "MAVLink component id this bridge presents as")
	flags.BoolVarP(&help, "help", "h", false, "show this help message")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if help {
		flags.Usage()
		return 0
	}

	log := logx.Default()
	defer log.Shutdown()

	coord, err := bridge.New(bridge.Config{
		ConnectionURL: connection,
		GRPCAddr:      grpcAddr,
		SystemID:      systemID,
		ComponentID:   componentID,
		Version:       mavlink.V2,
		Logger:        log,
	})
	if err != nil {
		log.Error("mavbridged: %v", err)
		return 1
	}

	if err := coord.Start(); err != nil {
		log.Error("mavbridged: %v", err)
		return 1
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		coord.Stop()
	}()

	coord.Wait()
	return 0
}
