// Package handlers contains the SIXP datagram handler and the http directory handlers of sixpmaster.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"sixpmaster/domain"
	"sixpmaster/interfaces"
	"sixpmaster/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/singleflight"
)

const directoryFlightKey = "directory"

// HTTPServer implements ServerInterface: the unauthenticated binary directory listing.
type HTTPServer struct {
	registry     interfaces.Registry
	limit        int
	queryTimeout time.Duration
	metrics      *service.Metrics
	logger       log.Logger

	flight singleflight.Group
}

// NewHTTPServer creates a new HTTPServer listing at most limit entries (capped at domain.MaxDirectoryEntries).
func NewHTTPServer(
	registry interfaces.Registry,
	limit int,
	queryTimeout time.Duration,
	metrics *service.Metrics,
	logger log.Logger,
) *HTTPServer {
	if limit <= 0 || limit > domain.MaxDirectoryEntries {
		limit = domain.MaxDirectoryEntries
	}
	return &HTTPServer{
		registry:     registry,
		limit:        limit,
		queryTimeout: queryTimeout,
		metrics:      metrics,
		logger:       log.WithPrefix(logger, "component", "HTTPServer"),
	}
}

// GetDirectory (GET /) writes the live servers as 6-byte records. Returns 200 with an exact
// Content-Length (zero when empty), 503 on registry error.
func (h *HTTPServer) GetDirectory(ectx echo.Context) error {
	body, err := h.listing(ectx.Request().Context())
	h.metrics.DirectoryServed(len(body)/domain.DirectoryRecordSize, err)
	if err != nil {
		return fmt.Errorf("getDirectory failed to list servers, err: %w", err)
	}

	ectx.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(len(body)))
	return ectx.Blob(http.StatusOK, echo.MIMEOctetStream, body)
}

// ListServers (GET /v1/servers) is the versioned alias of GetDirectory.
func (h *HTTPServer) ListServers(ectx echo.Context) error {
	return h.GetDirectory(ectx)
}

// listing queries the registry once for all concurrent callers. The shared query is detached from
// the first caller's cancellation and bounded by queryTimeout instead.
func (h *HTTPServer) listing(ctx context.Context) ([]byte, error) {
	v, err, _ := h.flight.Do(directoryFlightKey, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.queryTimeout)
		defer cancel()

		endpoints, err := h.registry.QueryRecent(ctx, h.limit)
		if err != nil {
			return nil, service.NewStorageFailureError("can't query session registry", err)
		}
		return toDirectoryListing(endpoints), nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
