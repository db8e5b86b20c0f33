package loanmock

import (
	"context"

	domain "cargotrace-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed domain.Repository. Unset writes succeed; unset reads
// return context.Canceled so a test notices the unexpected call.
type Repo struct {
	CreateFn                      func(ctx context.Context, l *domain.Loan) error
	SaveFn                        func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn                 func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn        func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetOpenByDocumentIDFn         func(ctx context.Context, documentID string) (*domain.Loan, error)
	GetLatestByBorrowerInStatusFn func(ctx context.Context, borrowerID string, statuses ...domain.Status) (*domain.Loan, error)
	ListByBorrowerFn              func(ctx context.Context, borrowerID string) ([]domain.Loan, error)
	ListFn                        func(ctx context.Context) ([]domain.Loan, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetOpenByDocumentID(ctx context.Context, documentID string) (*domain.Loan, error) {
	if m.GetOpenByDocumentIDFn != nil {
		return m.GetOpenByDocumentIDFn(ctx, documentID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetLatestByBorrowerInStatus(ctx context.Context, borrowerID string, statuses ...domain.Status) (*domain.Loan, error) {
	if m.GetLatestByBorrowerInStatusFn != nil {
		return m.GetLatestByBorrowerInStatusFn(ctx, borrowerID, statuses...)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByBorrower(ctx context.Context, borrowerID string) ([]domain.Loan, error) {
	if m.ListByBorrowerFn != nil {
		return m.ListByBorrowerFn(ctx, borrowerID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, context.Canceled
}
