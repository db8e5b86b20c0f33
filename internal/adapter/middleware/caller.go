package middleware

import (
	"net/http"
	"strings"

	"cargotrace-backend/pkg/id"

	"github.com/labstack/echo/v4"
)

const (
	HeaderCallerID  = "Ax-Caller-Id"
	HeaderRequestID = "Ax-Request-Id"
	HeaderRequestAt = "Ax-Request-At"

	callerKey = "caller_id"
)

// CallerIdentity stores a well-formed Ax-Caller-Id on the context.
// A malformed header is rejected; a missing one is left to RequireCaller.
func CallerIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(HeaderCallerID))
			if raw == "" {
				return next(c)
			}
			if !id.Valid(raw) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid Ax-Caller-Id", "code": "invalid_caller"})
			}
			c.Set(callerKey, raw)
			return next(c)
		}
	}
}

// RequireCaller rejects requests that carry no caller identity.
func RequireCaller() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CallerID(c) == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing Ax-Caller-Id", "code": "missing_caller"})
			}
			return next(c)
		}
	}
}

// CallerID returns the caller set by CallerIdentity, or "".
func CallerID(c echo.Context) string {
	id, _ := c.Get(callerKey).(string)
	return id
}
