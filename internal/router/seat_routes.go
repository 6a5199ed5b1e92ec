package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-arbiter/internal/handler"
	"github.com/iliyamo/seat-arbiter/internal/middleware"
	"github.com/iliyamo/seat-arbiter/internal/utils"
)

// RegisterSeats registers the claim endpoints under /v1.  Single claims
// need a VIP or REGULAR token; batches are for OPERATOR tokens.  limiter
// wraps the claim routes and may be nil.
func RegisterSeats(e *echo.Echo, h *handler.SeatHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	claims := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleVIP, utils.RoleRegular),
	}
	if limiter != nil {
		claims = append(claims, limiter)
	}
	g := e.Group("/v1", claims...)
	g.POST("/seats/:number/claim", h.ClaimSeat)

	ops := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleOperator),
	)
	ops.POST("/bookings/batch", h.ClaimBatch)
}
