package middleware

// identity.go holds the helpers that read who is calling from the Echo
// context once JWTAuth has run.

import "github.com/labstack/echo/v4"

// RequesterID returns the authenticated requester, or "" when the request
// carries no identity.
func RequesterID(c echo.Context) string {
    if v, ok := c.Get("user_id").(string); ok {
        return v
    }
    return ""
}

// Role returns the role claim of the authenticated requester.
func Role(c echo.Context) string {
    if v, ok := c.Get("role").(string); ok {
        return v
    }
    return ""
}

// rateIdentity is RequesterID with "anon" standing in for guests, so
// unauthenticated callers share one bucket per IP/route.
func rateIdentity(c echo.Context) string {
    if id := RequesterID(c); id != "" {
        return id
    }
    return "anon"
}
