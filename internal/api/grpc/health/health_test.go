package health

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	domain "github.com/oshokin/door-alarm/internal/domain/alarm"
	"github.com/oshokin/door-alarm/internal/service/common"
)

func statusOf(t *testing.T, v *View, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()

	resp, err := v.Server().Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)

	return resp.GetStatus()
}

// TestView_MapsDisplayStates checks every display state lands on the expected serving status.
func TestView_MapsDisplayStates(t *testing.T) {
	t.Parallel()

	v := NewView()
	require.Equal(t, healthpb.HealthCheckResponse_UNKNOWN, statusOf(t, v, ""))

	cases := map[domain.Display]healthpb.HealthCheckResponse_ServingStatus{
		domain.Nothing:           healthpb.HealthCheckResponse_UNKNOWN,
		domain.Idle:              healthpb.HealthCheckResponse_SERVING,
		domain.IdleDoorClosed:    healthpb.HealthCheckResponse_SERVING,
		domain.CheckingBeforeArm: healthpb.HealthCheckResponse_SERVING,
		domain.ReadyToArm:        healthpb.HealthCheckResponse_SERVING,
		domain.Armed:             healthpb.HealthCheckResponse_SERVING,
		domain.Alerting:          healthpb.HealthCheckResponse_SERVING,
		domain.Error:             healthpb.HealthCheckResponse_NOT_SERVING,
	}

	for state, want := range cases {
		v.SetState(context.Background(), state)
		require.Equal(t, want, statusOf(t, v, ""), state.String())
		require.Equal(t, want, statusOf(t, v, ServiceName), state.String())
	}
}

// TestView_Shutdown ensures updates after shutdown are ignored.
func TestView_Shutdown(t *testing.T) {
	t.Parallel()

	v := NewView()
	v.SetState(context.Background(), domain.Armed)
	v.Shutdown()
	v.SetState(context.Background(), domain.Armed)

	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, statusOf(t, v, ServiceName))
}

// TestServeListener_Roundtrip probes a served view over gRPC and stops it with the context.
func TestServeListener_Roundtrip(t *testing.T) {
	t.Parallel()

	lis, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	v := NewView()
	v.SetState(ctx, domain.Armed)

	served := make(chan error, 1)

	go func() {
		served <- ServeListener(ctx, lis, v)
	}()

	client, err := common.DialHealth(lis.Addr().String(), time.Second)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, client.Close())
	}()

	status, err := client.Check(ctx, ServiceName)
	require.NoError(t, err)
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, status)

	cancel()
	require.NoError(t, <-served)
}
