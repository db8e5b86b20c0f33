package uow

import (
	"context"

	"cargotrace-backend/internal/domain/approval"
	"cargotrace-backend/internal/domain/customs"
	"cargotrace-backend/internal/domain/document"
	"cargotrace-backend/internal/domain/ledger"
	"cargotrace-backend/internal/domain/loan"
	"cargotrace-backend/internal/domain/payment"
)

// Repos is every repository bound to the same transaction.
type Repos struct {
	Documents document.Repository
	Mappings  customs.Repository
	Loans     loan.Repository
	Approvals approval.Repository
	Payments  payment.Repository
	Ledger    ledger.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
