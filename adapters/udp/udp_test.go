package udp

import (
	"context"
	"net"
	"net/netip"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sixpmaster/interfaces/mock"
	"sixpmaster/service"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listenLoopback(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func localAddrPort(conn *net.UDPConn) netip.AddrPort {
	return conn.LocalAddr().(*net.UDPAddr).AddrPort()
}

func testConfig() ListenerConfig {
	return ListenerConfig{Workers: 4, Timeout: time.Second, LimiterSize: 16}
}

func serve(t *testing.T, l *Listener) (cancel func()) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Serve(ctx) }()
	return func() {
		stop()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("listener did not stop")
		}
	}
}

func TestNewListener(t *testing.T) {
	conn := listenLoopback(t)
	metrics := service.NewMetrics(prometheus.NewRegistry())

	tests := []struct {
		name    string
		cfg     ListenerConfig
		wantErr bool
	}{
		{name: "valid", cfg: testConfig()},
		{name: "with rate limit", cfg: ListenerConfig{Workers: 1, Timeout: time.Second, RateLimit: 5, Burst: 5, LimiterSize: 8}},
		{name: "zero workers", cfg: ListenerConfig{Timeout: time.Second}, wantErr: true},
		{name: "zero timeout", cfg: ListenerConfig{Workers: 1}, wantErr: true},
		{name: "rate limit without table", cfg: ListenerConfig{Workers: 1, Timeout: time.Second, RateLimit: 5}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewListener(conn, &mock.DatagramHandlerMock{}, tt.cfg, metrics, log.NewNopLogger())
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, service.IsBadParameterError(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestListener_Serve(t *testing.T) {
	t.Run("delivers datagram copy with source address", func(t *testing.T) {
		server := listenLoopback(t)
		client := listenLoopback(t)

		received := make(chan []byte, 1)
		handler := &mock.DatagramHandlerMock{
			HandleDatagramFunc: func(ctx context.Context, data []byte, from netip.AddrPort) error {
				assert.Equal(t, localAddrPort(client), from)
				_, hasDeadline := ctx.Deadline()
				assert.True(t, hasDeadline)
				received <- data
				return nil
			},
		}
		l, err := NewListener(server, handler, testConfig(), service.NewMetrics(prometheus.NewRegistry()), log.NewNopLogger())
		require.NoError(t, err)
		stop := serve(t, l)
		defer stop()

		_, err = client.WriteToUDPAddrPort([]byte("SIXP\x00\x00\x02abcd"), localAddrPort(server))
		require.NoError(t, err)

		select {
		case data := <-received:
			assert.Equal(t, []byte("SIXP\x00\x00\x02abcd"), data)
		case <-time.After(2 * time.Second):
			t.Fatal("datagram not delivered")
		}
	})

	t.Run("throttles a source over its burst", func(t *testing.T) {
		server := listenLoopback(t)
		client := listenLoopback(t)

		var handled atomic.Int32
		handler := &mock.DatagramHandlerMock{
			HandleDatagramFunc: func(context.Context, []byte, netip.AddrPort) error {
				handled.Add(1)
				return nil
			},
		}
		metrics := service.NewMetrics(prometheus.NewRegistry())
		cfg := ListenerConfig{Workers: 4, Timeout: time.Second, RateLimit: 0.001, Burst: 2, LimiterSize: 16}
		l, err := NewListener(server, handler, cfg, metrics, log.NewNopLogger())
		require.NoError(t, err)
		stop := serve(t, l)
		defer stop()

		for i := 0; i < 5; i++ {
			_, err = client.WriteToUDPAddrPort([]byte("SIXP"), localAddrPort(server))
			require.NoError(t, err)
		}

		assert.Eventually(t, func() bool {
			return handled.Load() == 2
		}, 2*time.Second, 10*time.Millisecond)
		time.Sleep(100 * time.Millisecond)
		assert.Equal(t, int32(2), handled.Load())
	})

	t.Run("waits for in-flight handlers on shutdown", func(t *testing.T) {
		server := listenLoopback(t)
		client := listenLoopback(t)

		started := make(chan struct{})
		var finished atomic.Bool
		handler := &mock.DatagramHandlerMock{
			HandleDatagramFunc: func(ctx context.Context, _ []byte, _ netip.AddrPort) error {
				close(started)
				time.Sleep(100 * time.Millisecond)
				assert.NoError(t, ctx.Err())
				finished.Store(true)
				return nil
			},
		}
		l, err := NewListener(server, handler, testConfig(), service.NewMetrics(prometheus.NewRegistry()), log.NewNopLogger())
		require.NoError(t, err)
		stop := serve(t, l)

		_, err = client.WriteToUDPAddrPort([]byte("SIXP"), localAddrPort(server))
		require.NoError(t, err)

		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatal("handler not started")
		}
		stop()
		assert.True(t, finished.Load())
	})
}

func TestSender_SendDatagram(t *testing.T) {
	server := listenLoopback(t)
	peer := listenLoopback(t)

	err := NewSender(server).SendDatagram(context.Background(), []byte("SIXP\x00\x00\x03"), localAddrPort(peer))
	require.NoError(t, err)

	require.NoError(t, peer.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 64)
	n, from, err := peer.ReadFromUDPAddrPort(buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("SIXP\x00\x00\x03"), buf[:n])
	assert.Equal(t, localAddrPort(server), from)
}

func TestSender_ConcurrentSendsShareSocket(t *testing.T) {
	server := listenLoopback(t)
	peer := listenLoopback(t)
	s := NewSender(server)

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Short-lived contexts must not leave a deadline behind on the shared socket.
			ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
			defer cancel()
			_ = s.SendDatagram(ctx, []byte("SIXP"), localAddrPort(peer))
		}()
	}
	wg.Wait()
	time.Sleep(5 * time.Millisecond)

	err := s.SendDatagram(context.Background(), []byte("SIXP\x00\x00\x03"), localAddrPort(peer))
	require.NoError(t, err)

	require.NoError(t, peer.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 64)
	for {
		m, _, err := peer.ReadFromUDPAddrPort(buf)
		require.NoError(t, err)
		if m == 7 {
			assert.Equal(t, []byte("SIXP\x00\x00\x03"), buf[:m])
			return
		}
	}
}

func TestSender_CancelledContext(t *testing.T) {
	server := listenLoopback(t)
	peer := listenLoopback(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewSender(server).SendDatagram(ctx, []byte("SIXP"), localAddrPort(peer))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSourceLimiter_Allow(t *testing.T) {
	t.Run("nil limiter allows", func(t *testing.T) {
		var l *sourceLimiter
		assert.True(t, l.Allow(netip.MustParseAddr("10.0.0.1")))
	})

	t.Run("buckets are per source", func(t *testing.T) {
		l, err := newSourceLimiter(8, 0.001, 1)
		require.NoError(t, err)

		a := netip.MustParseAddr("10.0.0.1")
		b := netip.MustParseAddr("10.0.0.2")
		assert.True(t, l.Allow(a))
		assert.False(t, l.Allow(a))
		assert.True(t, l.Allow(b))
	})
}
