package health

import (
	"context"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	domain "github.com/oshokin/door-alarm/internal/domain/alarm"
)

// ServiceName is the named service reported next to the overall one.
const ServiceName = "door_alarm.Controller"

// View publishes display states as health statuses.
type View struct {
	// server is the health service the view updates.
	server *health.Server
}

// NewView returns a view over a fresh health server reporting UNKNOWN.
func NewView() *View {
	v := &View{
		server: health.NewServer(),
	}

	v.publish(healthpb.HealthCheckResponse_UNKNOWN)

	return v
}

// Server returns the underlying health service.
func (v *View) Server() *health.Server {
	return v.server
}

// SetState maps state onto a serving status.
func (v *View) SetState(_ context.Context, state domain.Display) {
	v.publish(servingStatus(state))
}

// Poll implements the view contract. Health only changes on SetState.
func (*View) Poll(context.Context) {}

// Shutdown reports NOT_SERVING to every watcher and ignores later updates.
func (v *View) Shutdown() {
	v.server.Shutdown()
}

func (v *View) publish(status healthpb.HealthCheckResponse_ServingStatus) {
	v.server.SetServingStatus("", status)
	v.server.SetServingStatus(ServiceName, status)
}

func servingStatus(state domain.Display) healthpb.HealthCheckResponse_ServingStatus {
	switch state {
	case domain.Nothing:
		return healthpb.HealthCheckResponse_UNKNOWN
	case domain.Error:
		return healthpb.HealthCheckResponse_NOT_SERVING
	default:
		return healthpb.HealthCheckResponse_SERVING
	}
}
