package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sixpmaster/adapters/memory"
	"sixpmaster/adapters/myredis"
	"sixpmaster/adapters/udp"
	"sixpmaster/api"
	"sixpmaster/handlers"
	"sixpmaster/interfaces"
	"sixpmaster/service"

	"github.com/benbjohnson/clock"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

const (
	startupTimeout      = 5 * time.Second
	shutdownTimeout     = 10 * time.Second
	healthCheckInterval = 10 * time.Second
	registryPrefix      = "announcement"
)

func main() {
	// Initialize logger
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.WithPrefix(logger, "ts", log.DefaultTimestampUTC)
	logger = log.WithPrefix(logger, "caller", log.DefaultCaller)

	// Load configuration
	config, err := LoadConfig()
	if err != nil {
		level.Error(logger).Log("msg", "Failed to load configuration", "err", err)
		os.Exit(1)
	}
	logger = level.NewFilter(logger, levelOption(config.LogLevel))

	level.Info(logger).Log("msg", "Starting SIXPMaster service")
	level.Info(logger).Log(
		"msg", "Configuration loaded",
		"service_port_udp", config.UDPPort,
		"service_port_http", config.HTTPPort,
		"service_port_grpc", config.GRPCPort,
		"registry_backend", config.RegistryBackend,
		"announcement_ttl", config.AnnouncementTTL,
		"directory_limit", config.DirectoryLimit,
		"datagram_workers", config.Datagram.Workers,
		"datagram_rate_limit", config.Datagram.RateLimit,
	)

	if err := run(config, logger); err != nil {
		level.Error(logger).Log("msg", "Service failed", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log("msg", "Server stopped")
}

func run(config *SIXPMasterConfig, logger log.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	timeProvider := service.NewTimeProvider(clock.New())

	var registry interfaces.Registry
	{
		var closeRegistry func() error
		registry, closeRegistry, err = newRegistry(ctx, config, timeProvider)
		if err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, closeRegistry()) }()

		startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
		defer cancel()
		if err := registry.EnsureIndexes(startCtx); err != nil {
			return fmt.Errorf("can't prepare session registry, err: %w", err)
		}
		level.Info(logger).Log("msg", "Session registry ready", "backend", config.RegistryBackend)
	}

	var authority interfaces.ChallengeAuthority
	{
		secret, err := service.GenerateSecret(rand.Reader)
		if err != nil {
			return err
		}
		authority, err = service.NewChallengeAuthority(secret)
		if err != nil {
			return err
		}
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := service.NewMetrics(promRegistry)

	// Create SIXP datagram listener
	var listener *udp.Listener
	{
		conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: config.UDPPort})
		if err != nil {
			return fmt.Errorf("can't listen udp port %d, err: %w", config.UDPPort, err)
		}
		sixpServer := handlers.NewSIXPServer(registry, authority, udp.NewSender(conn), timeProvider, metrics, logger)
		listener, err = udp.NewListener(conn, sixpServer, config.Datagram, metrics, logger)
		if err != nil {
			conn.Close()
			return err
		}
	}

	// Create HTTP server (Echo)
	var e *echo.Echo
	{
		validator, err := handlers.NewRequestValidator(api.OpenAPI)
		if err != nil {
			return err
		}
		httpServer := handlers.NewHTTPServer(registry, config.DirectoryLimit, config.DirectoryTimeout, metrics, logger)

		e = echo.New()
		e.HideBanner = true
		e.HidePort = true
		service.RegisterErrorHandler(e, logger)
		handlers.RegisterHandlers(e, httpServer, validator)
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})))
	}

	// Create gRPC health server
	var (
		grpcServer   *grpc.Server
		healthServer *health.Server
		grpcListener net.Listener
	)
	if config.GRPCPort != 0 {
		grpcListener, err = net.Listen("tcp", fmt.Sprintf(":%d", config.GRPCPort))
		if err != nil {
			return fmt.Errorf("can't listen grpc port %d, err: %w", config.GRPCPort, err)
		}
		grpcServer, healthServer = newHealthServer()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return listener.Serve(gctx)
	})
	g.Go(func() error {
		addr := fmt.Sprintf(":%d", config.HTTPPort)
		level.Info(logger).Log("msg", "Starting HTTP server", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error, err: %w", err)
		}
		return nil
	})
	if grpcServer != nil {
		g.Go(func() error {
			watchRegistry(gctx, registry, healthServer, clock.New(), healthCheckInterval, logger)
			return nil
		})
		g.Go(func() error {
			level.Info(logger).Log("msg", "Starting gRPC server", "addr", grpcListener.Addr())
			if err := grpcServer.Serve(grpcListener); err != nil {
				return fmt.Errorf("grpc server error, err: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		level.Info(logger).Log("msg", "Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if grpcServer != nil {
			healthServer.Shutdown()
			grpcServer.GracefulStop()
		}
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newRegistry creates the configured session registry and the function releasing it.
func newRegistry(ctx context.Context, config *SIXPMasterConfig, timeProvider interfaces.TimeProvider) (interfaces.Registry, func() error, error) {
	switch config.RegistryBackend {
	case backendMemory:
		return memory.NewRegistry(config.MemoryRegistry, config.AnnouncementTTL, timeProvider), func() error { return nil }, nil
	case backendRedis:
		redisClient, err := myredis.NewRedisUniversalClient(config.Redis.Addr)
		if err != nil {
			return nil, nil, fmt.Errorf("can't create redis client, err: %w", err)
		}

		pingCtx, cancel := context.WithTimeout(ctx, startupTimeout)
		defer cancel()
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			redisClient.Close()
			return nil, nil, fmt.Errorf("can't connect to redis, err: %w", err)
		}

		return myredis.NewRegistry(redisClient, registryPrefix, config.AnnouncementTTL, timeProvider), redisClient.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown registry backend %q", config.RegistryBackend)
	}
}

func levelOption(name string) level.Option {
	switch name {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}
