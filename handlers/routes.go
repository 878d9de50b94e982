package handlers

import "github.com/labstack/echo/v4"

// ServerInterface represents all server handlers of the directory API (api/sixpmaster.openapi.yaml).
type ServerInterface interface {
	// (GET /) and (GET /*): the listing is a leaf resource answering on any path
	GetDirectory(ctx echo.Context) error
	// (GET /v1/servers)
	ListServers(ctx echo.Context) error
}

// EchoRouter is the subset of echo.Echo / echo.Group used to register the API.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
// Routes registered elsewhere on the same router (e.g. /metrics) win over the catch-all.
func RegisterHandlers(router EchoRouter, si ServerInterface, m ...echo.MiddlewareFunc) {
	router.GET("/", si.GetDirectory, m...)
	router.GET("/v1/servers", si.ListServers, m...)
	router.GET("/*", si.GetDirectory, m...)
}
