package http

import "github.com/labstack/echo/v4"

// Handler registers a group of routes on the server. NewServer calls it once
// after the shared middleware chain is installed.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
