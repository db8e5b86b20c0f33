package http

import (
	"errors"
	"net/http"

	"cargotrace-backend/internal/domain/shared"
	"cargotrace-backend/internal/infrastructure/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func statusOf(kind shared.Kind) int {
	switch kind {
	case shared.KindValidation:
		return http.StatusUnprocessableEntity
	case shared.KindState, shared.KindResource:
		return http.StatusConflict
	case shared.KindNotFound:
		return http.StatusNotFound
	case shared.KindExternal:
		return http.StatusServiceUnavailable
	case shared.KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// respondError maps a usecase error to its HTTP status. Anything that is not a
// domain error is logged and hidden behind a generic 500.
func respondError(c echo.Context, err error) error {
	var de *shared.DomainError
	if !errors.As(err, &de) || de.Kind == shared.KindInternal {
		logger.FromContext(c.Request().Context()).Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "internal_error"})
	}
	return c.JSON(statusOf(de.Kind), ErrorResponse{Error: de.Message, Code: de.Code})
}

// bindValid binds and validates req; when it reports false the response is already written.
func bindValid(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Code: "invalid_body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Code:    "validation_failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

func badParam(c echo.Context, name string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name + " path param", Code: "invalid_param"})
}
