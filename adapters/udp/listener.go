package udp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"sixpmaster/interfaces"
	"sixpmaster/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	temperrcatcher "github.com/jbenet/go-temp-err-catcher"
	"golang.org/x/sync/errgroup"
)

// maxDatagramSize is the largest UDP payload.
const maxDatagramSize = 64 * 1024

// ListenerConfig tunes the datagram listener.
type ListenerConfig struct {
	Workers     int           // concurrent handlers, datagrams beyond are dropped
	Timeout     time.Duration // deadline of a single handler call
	RateLimit   float64       // datagrams per second per source address, 0 disables limiting
	Burst       int
	LimiterSize int // number of sources tracked by the rate limiter
}

// Listener reads datagrams from a UDP socket and hands each one to the handler on its own goroutine.
type Listener struct {
	conn    *net.UDPConn
	handler interfaces.DatagramHandler
	limiter *sourceLimiter
	workers int
	timeout time.Duration
	metrics *service.Metrics
	logger  log.Logger
}

// NewListener creates a Listener over conn.
func NewListener(conn *net.UDPConn, handler interfaces.DatagramHandler, cfg ListenerConfig, metrics *service.Metrics, logger log.Logger) (*Listener, error) {
	if cfg.Workers <= 0 {
		return nil, service.NewBadParameterError("datagram workers must be positive", fmt.Errorf("workers=%d", cfg.Workers))
	}
	if cfg.Timeout <= 0 {
		return nil, service.NewBadParameterError("datagram timeout must be positive", fmt.Errorf("timeout=%s", cfg.Timeout))
	}

	l := &Listener{
		conn:    conn,
		handler: handler,
		workers: cfg.Workers,
		timeout: cfg.Timeout,
		metrics: metrics,
		logger:  log.WithPrefix(logger, "component", "UDPListener"),
	}

	if cfg.RateLimit > 0 {
		if cfg.Burst <= 0 {
			cfg.Burst = 1
		}
		limiter, err := newSourceLimiter(cfg.LimiterSize, cfg.RateLimit, cfg.Burst)
		if err != nil {
			return nil, service.NewBadParameterError("invalid rate limiter size", err)
		}
		l.limiter = limiter
	}

	return l, nil
}

// Serve reads datagrams until ctx is cancelled or the socket is closed.
// It closes the socket on cancellation and returns after in-flight handlers are finished.
func (l *Listener) Serve(ctx context.Context) error {
	var workers errgroup.Group
	workers.SetLimit(l.workers)
	defer workers.Wait()

	stop := context.AfterFunc(ctx, func() { l.conn.Close() })
	defer stop()

	// Accepted datagrams finish their registry write after cancellation.
	handlerCtx := context.WithoutCancel(ctx)

	level.Info(l.logger).Log("msg", "Listening", "addr", l.conn.LocalAddr())

	tec := temperrcatcher.TempErrCatcher{}
	buf := make([]byte, maxDatagramSize)
	for {
		n, from, err := l.conn.ReadFromUDPAddrPort(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				level.Info(l.logger).Log("msg", "Listener stopped")
				return nil
			}
			if tec.IsTemporary(err) {
				level.Warn(l.logger).Log("msg", "Temporary read error", "err", err)
				continue
			}
			return fmt.Errorf("udp read failed, err: %w", err)
		}

		if !l.limiter.Allow(from.Addr()) {
			l.metrics.DatagramSkipped(service.OutcomeThrottle)
			level.Debug(l.logger).Log("msg", "Datagram throttled", "peer", from)
			continue
		}

		data := bytes.Clone(buf[:n])
		accepted := workers.TryGo(func() error {
			hctx, cancel := context.WithTimeout(handlerCtx, l.timeout)
			defer cancel()
			_ = l.handler.HandleDatagram(hctx, data, from)
			return nil
		})
		if !accepted {
			l.metrics.DatagramSkipped(service.OutcomeDropped)
			level.Warn(l.logger).Log("msg", "Datagram dropped, all workers busy", "peer", from)
		}
	}
}
