package status

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/oshokin/door-alarm/internal/api/grpc/health"
	"github.com/oshokin/door-alarm/internal/config"
	"github.com/oshokin/door-alarm/internal/logger"
	repository "github.com/oshokin/door-alarm/internal/repository/status"
	"github.com/oshokin/door-alarm/internal/service/common"
)

// Options controls what the status command reads.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// StatusFile overrides the snapshot path.
	StatusFile string
	// HealthAddress overrides the health endpoint to probe.
	HealthAddress string
	// Timeout bounds the health probe.
	Timeout time.Duration
	// Out receives the report.
	Out io.Writer
}

// Report is what the command prints.
type Report struct {
	// Snapshot is the state name of the last snapshot, empty when none exists.
	Snapshot string
	// ChangedAt is when the snapshot state was entered.
	ChangedAt time.Time
	// Health is the live serving status, empty when not probed.
	Health string
}

// Run prints the status report.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "door-alarm-status")

	statusFile, address := opts.StatusFile, opts.HealthAddress

	// Explicit paths make the settings file optional.
	if statusFile == "" || address == "" {
		cfg, err := config.Load(opts.ConfigPath)

		switch {
		case err == nil:
			if statusFile == "" {
				statusFile = cfg.StatusFile
			}

			if address == "" {
				address = cfg.HealthAddress
			}
		case statusFile == "":
			return fmt.Errorf("load configuration: %w", err)
		default:
			logger.DebugKV(ctx, "Settings unavailable, health probe skipped", "error", err)
		}
	}

	report, err := Collect(ctx, repository.NewFileRepository(statusFile), address, opts.Timeout)
	if err != nil {
		return err
	}

	if opts.Out != nil {
		Print(opts.Out, report)
	}

	return nil
}

// Collect loads the snapshot from repo and, when address is set, probes the
// controller health endpoint. A failed probe is reported, not returned.
func Collect(ctx context.Context, repo repository.Repository, address string, timeout time.Duration) (*Report, error) {
	report := new(Report)

	snapshot, err := repo.Load(ctx)

	switch {
	case errors.Is(err, repository.ErrNotFound):
		logger.Info(ctx, "No status snapshot written yet")
	case err != nil:
		return nil, fmt.Errorf("load status: %w", err)
	default:
		report.Snapshot = snapshot.Display.String()
		report.ChangedAt = snapshot.ChangedAt
	}

	if address == "" {
		return report, nil
	}

	report.Health = probe(ctx, address, timeout)

	return report, nil
}

func probe(ctx context.Context, address string, timeout time.Duration) string {
	client, err := common.DialHealth(address, timeout)
	if err != nil {
		logger.WarnKV(ctx, "Health dial failed", "address", address, "error", err)
		return "unreachable"
	}

	defer func() {
		_ = client.Close()
	}()

	serving, err := client.Check(ctx, health.ServiceName)
	if err != nil {
		logger.WarnKV(ctx, "Health check failed", "address", address, "error", err)
		return "unreachable"
	}

	return healthName(serving)
}

func healthName(s healthpb.HealthCheckResponse_ServingStatus) string {
	switch s {
	case healthpb.HealthCheckResponse_SERVING:
		return "serving"
	case healthpb.HealthCheckResponse_NOT_SERVING:
		return "not serving"
	default:
		return "unknown"
	}
}

// Print writes report to out.
func Print(out io.Writer, report *Report) {
	if report.Snapshot == "" {
		_, _ = fmt.Fprintln(out, "state: none")
	} else {
		_, _ = fmt.Fprintf(out, "state: %s\nchanged_at: %s\n",
			report.Snapshot, report.ChangedAt.Format(time.RFC3339))
	}

	if report.Health != "" {
		_, _ = fmt.Fprintf(out, "health: %s\n", report.Health)
	}
}
