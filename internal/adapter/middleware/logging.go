package middleware

import (
	"strings"
	"time"

	"cargotrace-backend/internal/infrastructure/logger"
	"cargotrace-backend/pkg/id"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLogger tags each request with a request id and logs its outcome,
// at warn for 4xx and error for 5xx.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := strings.TrimSpace(req.Header.Get(HeaderRequestID))
			if requestID == "" {
				requestID = id.NewID32()
			}
			ctx, reqLog := logger.WithRequestID(req.Context(), log, requestID)
			c.SetRequest(req.WithContext(ctx))
			c.Response().Header().Set(HeaderRequestID, requestID)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", c.Path()),
				zap.String("uri", req.RequestURI),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
				zap.Int64("bytes_out", c.Response().Size),
			}
			if caller := CallerID(c); caller != "" {
				fields = append(fields, zap.String("caller_id", caller))
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}

			msg := "http request"
			switch {
			case status >= 500:
				reqLog.Error(msg, fields...)
			case status >= 400:
				reqLog.Warn(msg, fields...)
			default:
				reqLog.Info(msg, fields...)
			}
			return nil
		}
	}
}
