package paymentmock

import (
	"context"

	domain "cargotrace-backend/internal/domain/payment"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	CreateFn       func(ctx context.Context, p *domain.Payment) error
	ListByLoanIDFn func(ctx context.Context, loanID uint64) ([]domain.Payment, error)
	SumByLoanIDFn  func(ctx context.Context, loanID uint64) (int64, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Payment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) ListByLoanID(ctx context.Context, loanID uint64) ([]domain.Payment, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) SumByLoanID(ctx context.Context, loanID uint64) (int64, error) {
	if m.SumByLoanIDFn != nil {
		return m.SumByLoanIDFn(ctx, loanID)
	}
	return 0, context.Canceled
}
