// internal/health/health.go
package health

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the name reported to gRPC health clients for the HTTP API.
const ServiceName = "workdesk.v1.API"

// Pinger is satisfied by *sql.DB and *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Monitor probes the database and publishes the result through the gRPC
// health service and the HTTP /health endpoint.
type Monitor struct {
	pinger  Pinger
	timeout time.Duration
	server  *grpchealth.Server
	serving atomic.Bool
	stopped atomic.Bool
}

// NewMonitor creates a monitor that starts out NOT_SERVING until the first
// successful Check.
func NewMonitor(pinger Pinger) *Monitor {
	m := &Monitor{
		pinger:  pinger,
		timeout: 2 * time.Second,
		server:  grpchealth.NewServer(),
	}
	m.setStatus(false)
	return m
}

// HealthServer returns the grpc.health.v1.Health implementation.
func (m *Monitor) HealthServer() grpc_health_v1.HealthServer {
	return m.server
}

// Serving reports the outcome of the last check.
func (m *Monitor) Serving() bool {
	return m.serving.Load()
}

// Check pings the database once and updates the published status.
func (m *Monitor) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.pinger.PingContext(ctx)
	if ok := err == nil; ok != m.serving.Load() {
		if ok {
			log.Println("[INFO] database reachable, reporting SERVING")
		} else {
			log.Printf("[WARN] database unreachable, reporting NOT_SERVING: %v", err)
		}
	}
	m.setStatus(err == nil)
	return err
}

// Run checks every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = m.Check(ctx)
		}
	}
}

// Shutdown reports NOT_SERVING permanently, ignoring later checks.
func (m *Monitor) Shutdown() {
	m.stopped.Store(true)
	m.serving.Store(false)
	m.server.Shutdown()
}

func (m *Monitor) setStatus(ok bool) {
	if m.stopped.Load() {
		return
	}
	m.serving.Store(ok)
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if ok {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	m.server.SetServingStatus("", status)
	m.server.SetServingStatus(ServiceName, status)
}

// NewGRPCServer returns a gRPC server exposing the monitor's health service
// and, when enabled, server reflection.
func NewGRPCServer(m *Monitor, enableReflection bool, opts ...grpc.ServerOption) *grpc.Server {
	server := grpc.NewServer(opts...)
	grpc_health_v1.RegisterHealthServer(server, m.HealthServer())
	if enableReflection {
		reflection.Register(server)
	}
	return server
}
