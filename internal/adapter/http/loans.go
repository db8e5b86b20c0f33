package http

import (
	"errors"
	"net/http"
	"time"

	"cargotrace-backend/internal/adapter/middleware"
	domainLedger "cargotrace-backend/internal/domain/ledger"
	"cargotrace-backend/internal/usecase/loan"
	"cargotrace-backend/pkg/id"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type requestLoanReq struct {
	DocumentID     string    `json:"document_id"      validate:"required,hex32"`
	Principal      int64     `json:"principal"        validate:"required,gt=0"`
	RepaymentDueAt time.Time `json:"repayment_due_at" validate:"required"`
}

func (h *LoanHandler) Request(c echo.Context) error {
	var req requestLoanReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Request(c.Request().Context(), loan.RequestInput{
		BorrowerID:     middleware.CallerID(c),
		DocumentID:     req.DocumentID,
		Principal:      req.Principal,
		RepaymentDueAt: req.RepaymentDueAt,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// disbursal answers 202 with the loan when the funding pool was short.
func disbursal(c echo.Context, dto *loan.LoanDTO, err error) error {
	if errors.Is(err, domainLedger.ErrInsufficientFunds) && dto != nil {
		return c.JSON(http.StatusAccepted, dto)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Approve(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !id.Valid(loanID) {
		return badParam(c, "loan_id")
	}
	dto, err := h.uc.Approve(c.Request().Context(), loanID, middleware.CallerID(c))
	return disbursal(c, dto, err)
}

func (h *LoanHandler) RetryDisbursement(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !id.Valid(loanID) {
		return badParam(c, "loan_id")
	}
	dto, err := h.uc.RetryDisbursement(c.Request().Context(), loanID)
	return disbursal(c, dto, err)
}

func (h *LoanHandler) Reject(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !id.Valid(loanID) {
		return badParam(c, "loan_id")
	}
	var req rejectReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Reject(c.Request().Context(), loanID, req.Reason, middleware.CallerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) MarkDefaulted(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !id.Valid(loanID) {
		return badParam(c, "loan_id")
	}
	dto, err := h.uc.MarkDefaulted(c.Request().Context(), loanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Get(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !id.Valid(loanID) {
		return badParam(c, "loan_id")
	}
	dto, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetStatus(c echo.Context) error {
	loanID := c.Param("loan_id")
	if !id.Valid(loanID) {
		return badParam(c, "loan_id")
	}
	dto, err := h.uc.GetStatus(c.Request().Context(), loanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Mine(c echo.Context) error {
	out, err := h.uc.ListByBorrower(c.Request().Context(), middleware.CallerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Decisions lists the loan decisions recorded by the calling officer.
func (h *LoanHandler) Decisions(c echo.Context) error {
	limit, ok := queryLimit(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a non-negative integer", Code: "invalid_query"})
	}
	out, err := h.uc.ListDecisions(c.Request().Context(), middleware.CallerID(c), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) Active(c echo.Context) error {
	dto, err := h.uc.GetActiveLoan(c.Request().Context(), middleware.CallerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	if status := c.QueryParam("status"); status != "" {
		out, err := h.uc.ListByStatus(ctx, status)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}
	out, err := h.uc.ListAll(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
