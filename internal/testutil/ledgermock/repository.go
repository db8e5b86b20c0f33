package ledgermock

import (
	"context"

	domain "cargotrace-backend/internal/domain/ledger"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset balance movements return context.Canceled so a test notices the missing stub.
type Repo struct {
	EnsureFn      func(ctx context.Context) error
	BalanceFn     func(ctx context.Context) (int64, error)
	DebitFn       func(ctx context.Context, amount int64) (int64, error)
	CreditFn      func(ctx context.Context, amount int64) (int64, error)
	AppendEntryFn func(ctx context.Context, e *domain.Entry) error
	ListEntriesFn func(ctx context.Context, limit int) ([]domain.Entry, error)
}

func (m *Repo) Ensure(ctx context.Context) error {
	if m.EnsureFn != nil {
		return m.EnsureFn(ctx)
	}
	return nil
}

func (m *Repo) Balance(ctx context.Context) (int64, error) {
	if m.BalanceFn != nil {
		return m.BalanceFn(ctx)
	}
	return 0, context.Canceled
}

func (m *Repo) Debit(ctx context.Context, amount int64) (int64, error) {
	if m.DebitFn != nil {
		return m.DebitFn(ctx, amount)
	}
	return 0, context.Canceled
}

func (m *Repo) Credit(ctx context.Context, amount int64) (int64, error) {
	if m.CreditFn != nil {
		return m.CreditFn(ctx, amount)
	}
	return 0, context.Canceled
}

func (m *Repo) AppendEntry(ctx context.Context, e *domain.Entry) error {
	if m.AppendEntryFn != nil {
		return m.AppendEntryFn(ctx, e)
	}
	return nil
}

func (m *Repo) ListEntries(ctx context.Context, limit int) ([]domain.Entry, error) {
	if m.ListEntriesFn != nil {
		return m.ListEntriesFn(ctx, limit)
	}
	return nil, context.Canceled
}
