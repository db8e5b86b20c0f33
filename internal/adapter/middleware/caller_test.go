package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newCallerEcho() *echo.Echo {
	e := echo.New()
	e.Use(CallerIdentity())
	e.GET("/open", func(c echo.Context) error {
		return c.String(http.StatusOK, CallerID(c))
	})
	e.GET("/mine", func(c echo.Context) error {
		return c.String(http.StatusOK, CallerID(c))
	}, RequireCaller())
	return e
}

func TestCallerIdentity(t *testing.T) {
	e := newCallerEcho()
	caller := "0123456789abcdef0123456789abcdef"

	tests := []struct {
		name   string
		path   string
		header string
		code   int
		body   string
	}{
		{"optional route without caller", "/open", "", http.StatusOK, ""},
		{"optional route with caller", "/open", caller, http.StatusOK, caller},
		{"malformed caller", "/open", "ABC", http.StatusBadRequest, ""},
		{"required route without caller", "/mine", "", http.StatusBadRequest, ""},
		{"required route with caller", "/mine", caller, http.StatusOK, caller},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(HeaderCallerID, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			if tt.code == http.StatusOK {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestRequestLogger_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := echo.New()
	e.Use(RequestLogger(zap.New(core)), CallerIdentity())
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/missing", func(c echo.Context) error { return echo.NewHTTPError(http.StatusNotFound) })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusInternalServerError) })

	for _, p := range []string{"/ok", "/missing", "/boom"} {
		req := httptest.NewRequest(http.MethodGet, p, nil)
		req.Header.Set(HeaderRequestID, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
		req.Header.Set(HeaderCallerID, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", rec.Header().Get(HeaderRequestID))
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)

	ctx := entries[1].ContextMap()
	assert.Equal(t, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", ctx["request_id"])
	assert.Equal(t, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", ctx["caller_id"])
	assert.Equal(t, int64(http.StatusNotFound), ctx["status"])
}

func TestRequestLogger_GeneratesRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestLogger(zap.NewNop()))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Len(t, rec.Header().Get(HeaderRequestID), 32)
}
