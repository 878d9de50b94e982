package main

import (
	"context"
	"time"

	"sixpmaster/interfaces"

	"github.com/benbjohnson/clock"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// newHealthServer creates a gRPC server exposing only the standard health service.
// The overall status is NOT_SERVING until watchRegistry reports a reachable session registry.
func newHealthServer() (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer()

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	reflection.Register(grpcServer)
	return grpcServer, healthServer
}

// watchRegistry checks the session registry every interval and mirrors the result in the overall
// health status until ctx is done. The first check runs immediately.
func watchRegistry(
	ctx context.Context,
	registry interfaces.Registry,
	healthServer *health.Server,
	c clock.Clock,
	interval time.Duration,
	logger log.Logger,
) {
	logger = log.WithPrefix(logger, "component", "HealthWatcher")
	last := grpc_health_v1.HealthCheckResponse_UNKNOWN

	check := func() {
		checkCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()

		status := grpc_health_v1.HealthCheckResponse_SERVING
		if _, err := registry.QueryRecent(checkCtx, 1); err != nil {
			if ctx.Err() != nil {
				return
			}
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
			level.Warn(logger).Log("msg", "Session registry check failed", "err", err)
		}
		if status != last {
			level.Info(logger).Log("msg", "Health status changed", "status", status)
			last = status
		}
		healthServer.SetServingStatus("", status)
	}

	check()
	ticker := c.Ticker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
