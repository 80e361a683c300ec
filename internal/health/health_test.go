package health

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"github.com/gurkanbulca/workdesk/internal/database/dbtest"
)

type fakePinger struct {
	fail  atomic.Bool
	calls atomic.Int32
}

func (p *fakePinger) PingContext(ctx context.Context) error {
	p.calls.Add(1)
	if p.fail.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func dialHealth(t *testing.T, m *Monitor) grpc_health_v1.HealthClient {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	server := NewGRPCServer(m, true)
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return grpc_health_v1.NewHealthClient(conn)
}

func status(t *testing.T, client grpc_health_v1.HealthClient, service string) grpc_health_v1.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestMonitor_ReportsDatabaseState(t *testing.T) {
	pinger := &fakePinger{}
	m := NewMonitor(pinger)
	client := dialHealth(t, m)

	assert.False(t, m.Serving())
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, status(t, client, ""))

	require.NoError(t, m.Check(context.Background()))
	assert.True(t, m.Serving())
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, status(t, client, ""))
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, status(t, client, ServiceName))

	pinger.fail.Store(true)
	assert.Error(t, m.Check(context.Background()))
	assert.False(t, m.Serving())
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, status(t, client, ServiceName))
}

func TestMonitor_Shutdown(t *testing.T) {
	m := NewMonitor(&fakePinger{})
	client := dialHealth(t, m)
	require.NoError(t, m.Check(context.Background()))

	m.Shutdown()
	assert.False(t, m.Serving())
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, status(t, client, ""))
}

func TestMonitor_RunStopsWithContext(t *testing.T) {
	pinger := &fakePinger{}
	m := NewMonitor(pinger)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return pinger.calls.Load() > 0 }, time.Second, time.Millisecond)
	assert.True(t, m.Serving())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestMonitor_RealDatabase(t *testing.T) {
	db := dbtest.Open(t)
	m := NewMonitor(db)

	require.NoError(t, m.Check(context.Background()))
	assert.True(t, m.Serving())
}

func TestMonitor_ChecksIgnoredAfterShutdown(t *testing.T) {
	m := NewMonitor(&fakePinger{})
	m.Shutdown()

	require.NoError(t, m.Check(context.Background()))
	assert.False(t, m.Serving())
}
