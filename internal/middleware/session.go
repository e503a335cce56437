package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mgaillard/cinema-listings/internal/auth"
)

// principalKey is the context key under which the resolved session
// principal is stored for downstream handlers.
const principalKey = "principal"

// Session returns an Echo middleware that validates a Bearer session token
// and stores the re-derived Principal in the request context. The provided
// secret must match the one used when issuing tokens. Handlers behind this
// middleware read the operator identity via PrincipalFrom rather than
// looking up any server-side session state.
func Session(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(h, "Bearer ")

			p, err := auth.ParseSessionToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// PrincipalFrom extracts the session principal stored by Session. The
// second return value is false when the request did not pass through the
// middleware or the token was not resolved.
func PrincipalFrom(c echo.Context) (auth.Principal, bool) {
	p, ok := c.Get(principalKey).(auth.Principal)
	return p, ok
}
