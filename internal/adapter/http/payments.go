package http

import (
	"net/http"

	"cargotrace-backend/internal/adapter/middleware"
	"cargotrace-backend/internal/usecase/repayment"
	"cargotrace-backend/pkg/id"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct{ uc *repayment.Usecase }

func NewPaymentHandler(uc *repayment.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

type repayReq struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

func (h *PaymentHandler) Repay(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !id.Valid(loanID) {
		return badParam(c, "loan_id")
	}
	var req repayReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	receipt, err := h.uc.RecordPayment(c.Request().Context(), repayment.PaymentInput{
		LoanID:  loanID,
		PayerID: middleware.CallerID(c),
		Amount:  req.Amount,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, receipt)
}

func (h *PaymentHandler) List(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !id.Valid(loanID) {
		return badParam(c, "loan_id")
	}
	out, err := h.uc.ListPayments(c.Request().Context(), loanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) Balance(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !id.Valid(loanID) {
		return badParam(c, "loan_id")
	}
	out, err := h.uc.Balance(c.Request().Context(), loanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) Schedule(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !id.Valid(loanID) {
		return badParam(c, "loan_id")
	}
	out, err := h.uc.Schedule(c.Request().Context(), loanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
