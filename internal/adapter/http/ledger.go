package http

import (
	"net/http"
	"strconv"

	"cargotrace-backend/internal/adapter/middleware"
	ledgerUC "cargotrace-backend/internal/usecase/ledger"

	"github.com/labstack/echo/v4"
)

type LedgerHandler struct{ uc *ledgerUC.Usecase }

func NewLedgerHandler(uc *ledgerUC.Usecase) *LedgerHandler { return &LedgerHandler{uc: uc} }

type creditReq struct {
	Amount    int64  `json:"amount"    validate:"required,gt=0"`
	Reference string `json:"reference" validate:"max=64"`
}

func (h *LedgerHandler) Balance(c echo.Context) error {
	out, err := h.uc.Balance(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Credit tops up the funding pool. Without a reference the caller id is recorded.
func (h *LedgerHandler) Credit(c echo.Context) error {
	var req creditReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	ref := req.Reference
	if ref == "" {
		ref = middleware.CallerID(c)
	}
	out, err := h.uc.Credit(c.Request().Context(), req.Amount, ref)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *LedgerHandler) Entries(c echo.Context) error {
	limit, ok := queryLimit(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a non-negative integer", Code: "invalid_query"})
	}
	out, err := h.uc.Entries(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// queryLimit reads ?limit=; absent means 0 (the usecase default).
func queryLimit(c echo.Context) (int, bool) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
