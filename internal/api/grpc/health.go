package grpc

import (
	"context"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"wotro-backend/internal/logger"
)

// Check probes one dependency; a nil error means it is serving.
type Check func(ctx context.Context) error

// HealthServer publishes the standard grpc.health.v1 service. Each named
// check becomes its own service entry, and the overall "" entry is serving
// only while every check passes.
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	checks   map[string]Check
	interval time.Duration

	mu   sync.Mutex
	last map[string]bool
}

func NewHealthServer(checks map[string]Check, interval time.Duration) *HealthServer {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	hs := &HealthServer{
		server:   grpc.NewServer(grpc.UnaryInterceptor(logUnary)),
		health:   health.NewServer(),
		checks:   checks,
		interval: interval,
		last:     make(map[string]bool),
	}
	healthpb.RegisterHealthServer(hs.server, hs.health)
	// Register reflection service for grpcurl
	reflection.Register(hs.server)
	return hs
}

// Server exposes the underlying gRPC server for Serve and GracefulStop.
func (hs *HealthServer) Server() *grpc.Server {
	return hs.server
}

// Probe runs every check once and updates the published statuses.
func (hs *HealthServer) Probe(ctx context.Context) {
	overall := healthpb.HealthCheckResponse_SERVING
	for name, check := range hs.checks {
		cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := check(cctx)
		cancel()

		status := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = status
		}
		hs.health.SetServingStatus(name, status)
		hs.logTransition(name, err)
	}
	hs.health.SetServingStatus("", overall)
}

// Run probes on the configured interval until ctx is done, then marks
// everything NOT_SERVING.
func (hs *HealthServer) Run(ctx context.Context) {
	hs.Probe(ctx)
	ticker := time.NewTicker(hs.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			hs.health.Shutdown()
			return
		case <-ticker.C:
			hs.Probe(ctx)
		}
	}
}

func (hs *HealthServer) logTransition(name string, err error) {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	healthy := err == nil
	if prev, seen := hs.last[name]; seen && prev == healthy {
		return
	}
	hs.last[name] = healthy
	if healthy {
		logger.Info("Dependency healthy", "dependency", name)
	} else {
		logger.Warn("Dependency unhealthy", "dependency", name, "error", err)
	}
}

func logUnary(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		logger.Debug("gRPC call failed", "method", info.FullMethod, "error", err)
	}
	return resp, err
}
