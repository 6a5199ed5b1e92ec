package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/seat-arbiter/internal/handler" // import the handlers that implement the endpoints
)

// RegisterRoutes registers routes that do not require authentication:
// the health check and the public seat snapshot.
func RegisterRoutes(e *echo.Echo, seats *handler.SeatHandler) {
	// Liveness for load balancers; also reports pool occupancy.
	e.GET("/healthz", handler.Health(seats.Bookings))
	// Anyone may look at which seats are taken.
	e.GET("/v1/seats", seats.ListSeats)
}

// RegisterAuth registers the token endpoint.  It is guarded by the admin
// key checked inside the handler rather than by JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/token", a.IssueToken)
}
