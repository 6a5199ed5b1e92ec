package handler // declare the package name; contains HTTP handlers

import (
    "net/http" // net/http provides status codes and response helpers

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health returns a liveness handler for load balancers and monitors.  It
// answers 200 with the pool size and how many seats are still free.
func Health(b Bookings) echo.HandlerFunc {
    return func(c echo.Context) error {
        total, available := b.Counts()
        return c.JSON(http.StatusOK, echo.Map{
            "status":    "ok",
            "seats":     total,
            "available": available,
        })
    }
}
