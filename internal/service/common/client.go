//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/oshokin/door-alarm/internal/config"
)

// HealthClient probes the health endpoint of a running controller.
type HealthClient struct {
	conn    *grpc.ClientConn
	api     healthpb.HealthClient
	timeout time.Duration
}

// errAddressRequired is returned when no endpoint address is known.
var errAddressRequired = errors.New("health address must be provided")

// DialHealth prepares a client for address. The connection is made lazily
// on the first call. A non-positive timeout means config.DefaultTimeout.
//
// The endpoint is plaintext and meant for the local network.
func DialHealth(address string, timeout time.Duration) (*HealthClient, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", address, err)
	}

	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	return &HealthClient{
		conn:    conn,
		api:     healthpb.NewHealthClient(conn),
		timeout: timeout,
	}, nil
}

// Close releases the connection.
func (c *HealthClient) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Check returns the serving status of service, bounded by the client timeout.
func (c *HealthClient) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("check health of %q: %w", service, err)
	}

	return resp.GetStatus(), nil
}
