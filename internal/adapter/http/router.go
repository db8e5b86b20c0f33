package http

import (
	"cargotrace-backend/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health    *Handler
	Documents *DocumentHandler
	Customs   *CustomsHandler
	Loans     *LoanHandler
	Payments  *PaymentHandler
	Ledger    *LedgerHandler
	Transfers *TransferHandler
}

// RegisterRoutes mounts every route. idem guards the mutating routes and may be nil in tests.
func RegisterRoutes(e *echo.Echo, h Handlers, idem echo.MiddlewareFunc) {
	e.Validator = NewValidator()
	e.Use(middleware.CallerIdentity())

	caller := middleware.RequireCaller()
	mutating := []echo.MiddlewareFunc{caller}
	if idem != nil {
		mutating = append(mutating, idem)
	}

	e.GET("/health", h.Health.Health)

	docs := e.Group("/documents")
	docs.POST("", h.Documents.Submit, mutating...)
	docs.GET("", h.Documents.List)
	docs.GET("/mine", h.Documents.Mine, caller)
	docs.GET("/by-ref/:external_ref", h.Documents.GetByExternalRef)
	docs.POST("/trigger-lending", h.Documents.BatchTriggerLending, mutating...)
	docs.GET("/:document_id", h.Documents.Get)
	docs.POST("/:document_id/approve", h.Documents.Approve, mutating...)
	docs.POST("/:document_id/verify", h.Documents.MarkVerified, mutating...)
	docs.POST("/:document_id/mint", h.Documents.MarkNftMinted, mutating...)
	docs.POST("/:document_id/reject", h.Documents.Reject, mutating...)
	docs.POST("/:document_id/trigger-lending", h.Documents.TriggerLending, mutating...)

	cus := e.Group("/customs")
	cus.GET("/stats", h.Customs.Stats)
	cus.POST("/mappings", h.Customs.Link, mutating...)
	cus.GET("/mappings", h.Customs.List)
	cus.GET("/mappings/mine", h.Customs.Mine, caller)
	cus.GET("/mappings/pending", h.Customs.Pending)
	cus.GET("/mappings/:mapping_id", h.Customs.Get)
	cus.POST("/mappings/:mapping_id/verify", h.Customs.Verify, mutating...)
	cus.POST("/mappings/:mapping_id/reject", h.Customs.Reject, mutating...)
	cus.POST("/mappings/:mapping_id/review", h.Customs.MarkUnderReview, mutating...)
	cus.POST("/mappings/:mapping_id/check", h.Customs.Check, mutating...)
	e.GET("/declarations/:number/validation", h.Customs.ValidateDeclaration)

	loans := e.Group("/loans")
	loans.POST("", h.Loans.Request, mutating...)
	loans.GET("", h.Loans.List)
	loans.GET("/mine", h.Loans.Mine, caller)
	loans.GET("/active", h.Loans.Active, caller)
	loans.GET("/decisions/mine", h.Loans.Decisions, caller)
	loans.GET("/:loan_id", h.Loans.Get)
	loans.GET("/:loan_id/status", h.Loans.GetStatus)
	loans.POST("/:loan_id/approve", h.Loans.Approve, mutating...)
	loans.POST("/:loan_id/reject", h.Loans.Reject, mutating...)
	loans.POST("/:loan_id/retry-disbursement", h.Loans.RetryDisbursement, mutating...)
	loans.POST("/:loan_id/default", h.Loans.MarkDefaulted, mutating...)
	loans.POST("/:loan_id/payments", h.Payments.Repay, mutating...)
	loans.GET("/:loan_id/payments", h.Payments.List)
	loans.GET("/:loan_id/balance", h.Payments.Balance)
	loans.GET("/:loan_id/schedule", h.Payments.Schedule)

	ledger := e.Group("/ledger")
	ledger.GET("/balance", h.Ledger.Balance)
	ledger.POST("/credits", h.Ledger.Credit, mutating...)
	ledger.GET("/entries", h.Ledger.Entries)

	transfers := e.Group("/transfers")
	transfers.POST("", h.Transfers.Ingest, mutating...)
	transfers.GET("", h.Transfers.List)
}
