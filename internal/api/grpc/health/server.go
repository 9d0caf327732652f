package health

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/oshokin/door-alarm/internal/logger"
)

// Serve hosts the health service of view on address until ctx is cancelled.
func Serve(ctx context.Context, address string, view *View) error {
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", address, err)
	}

	return ServeListener(ctx, lis, view)
}

// ServeListener is Serve on an existing listener, which it takes over.
func ServeListener(ctx context.Context, lis net.Listener, view *View) error {
	ctx = logger.WithName(ctx, "health")

	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, view.Server())

	logger.InfoKV(ctx, "Health endpoint listening", "listen_address", lis.Addr().String())

	// Done is closed once GracefulStop returns so Serve never outlives it.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		view.Shutdown()
		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "Health endpoint stopped")

	return nil
}
