package service

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
)

// storageRetryAfter is the Retry-After hint, in seconds, sent while the session registry is unavailable.
const storageRetryAfter = 5

// RegisterErrorHandler register custom error handler.
func RegisterErrorHandler(e *echo.Echo, logger log.Logger) {
	e.HTTPErrorHandler = NewHTTPErrorHandler(NewErrorCodeToStatusCodeMaps(), logger).Handler
}

// NewErrorCodeToStatusCodeMaps creates an error code to http status mapping.
// Codes of the datagram path are included so that an engine error surfacing over HTTP keeps its meaning.
func NewErrorCodeToStatusCodeMaps() map[string]int {
	return map[string]int{
		ErrBadParameter:          http.StatusBadRequest,
		ErrMalformedFrame:        http.StatusBadRequest,
		ErrUnknownMessageType:    http.StatusBadRequest,
		ErrAuthenticationFailure: http.StatusForbidden,
		ErrEntityNotFound:        http.StatusNotFound,
		ErrInternalServerError:   http.StatusInternalServerError,
		ErrUnsupportedFeature:    http.StatusNotImplemented,
		ErrStorageFailure:        http.StatusServiceUnavailable,
	}
}

// HTTPErrorHandler renders SIXPError values as {"error": {...}} JSON bodies.
type HTTPErrorHandler struct {
	errorCodeToHTTPStatusCodeMap map[string]int
	logger                       log.Logger
}

// NewHTTPErrorHandler creates a new instance of the HTTPErrorHandler.
func NewHTTPErrorHandler(errorCodeToStatusCodeMaps map[string]int, logger log.Logger) *HTTPErrorHandler {
	return &HTTPErrorHandler{
		errorCodeToHTTPStatusCodeMap: errorCodeToStatusCodeMaps,
		logger:                       logger,
	}
}

func (h *HTTPErrorHandler) getStatusCode(errorCode string) int {
	if status, ok := h.errorCodeToHTTPStatusCodeMap[errorCode]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// classify turns any handler error into a SIXPError and the status it is served with.
// echo errors (routing, request validation) keep their status; everything else is looked up by code.
func (h *HTTPErrorHandler) classify(err error) (*SIXPError, int) {
	he, ok := err.(*echo.HTTPError)
	if !ok {
		sixpErr := ToSIXPError(err)
		if sixpErr == nil {
			sixpErr = NewSIXPError(ErrInternalServerError, "an internal server error has occurred", err)
		}
		return sixpErr, h.getStatusCode(sixpErr.Code)
	}

	if inner, ok := he.Internal.(*echo.HTTPError); ok {
		he = inner
	}

	code := echoStatusToErrorCode(he.Code)
	var requestError *openapi3filter.RequestError
	if errors.As(he.Internal, &requestError) {
		code = ErrBadParameter
	}

	message, ok := he.Message.(string)
	if !ok {
		message = http.StatusText(he.Code)
	}
	return NewSIXPError(code, message, err), he.Code
}

func echoStatusToErrorCode(status int) string {
	switch {
	case status == http.StatusNotFound:
		return ErrEntityNotFound
	case status == http.StatusServiceUnavailable:
		return ErrStorageFailure
	case status >= 400 && status < 500:
		return ErrBadParameter
	default:
		return ErrInternalServerError
	}
}

// Handler handles error returned by echo Handlers.
func (h *HTTPErrorHandler) Handler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	sixpErr, statusCode := h.classify(err)

	logLevel := level.Error
	if statusCode < http.StatusInternalServerError {
		logLevel = level.Debug
	}
	logLevel(h.logger).Log(
		"msg", "HTTP request error",
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"status", statusCode,
		"code", sixpErr.Code,
		"err", err,
	)

	if statusCode == http.StatusServiceUnavailable {
		c.Response().Header().Set("Retry-After", strconv.Itoa(storageRetryAfter))
	}

	// Send response
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(statusCode)
		return
	}
	_ = c.JSON(statusCode, ErrResponse{Error: sixpErr})
}

// ErrResponse from server.
type ErrResponse struct {
	Error *SIXPError `json:"error,omitempty"`
}
