package approvalmock

import (
	"context"

	domain "cargotrace-backend/internal/domain/approval"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed domain.Repository. Unset funcs fall back to a no-op Create
// and context.Canceled for reads.
type Repo struct {
	CreateFn        func(ctx context.Context, a *domain.Approval) error
	GetByLoanIDFn   func(ctx context.Context, loanNumericID uint64) (*domain.Approval, error)
	ListByDeciderFn func(ctx context.Context, decidedBy string, limit int) ([]domain.Approval, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Approval) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanNumericID uint64) (*domain.Approval, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanNumericID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByDecider(ctx context.Context, decidedBy string, limit int) ([]domain.Approval, error) {
	if m.ListByDeciderFn != nil {
		return m.ListByDeciderFn(ctx, decidedBy, limit)
	}
	return nil, context.Canceled
}
