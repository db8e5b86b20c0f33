package uowmock

import (
	"context"
	"errors"

	"cargotrace-backend/internal/domain/loan"
	"cargotrace-backend/internal/domain/uow"
)

var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed uow.UnitOfWork. Unset funcs return errUnimplemented.
type UoW struct {
	WithinTxFn     func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLoanTxFn func(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough runs every transaction body directly against repos, with no rollback.
// load supplies the locked loan for WithinLoanTx; a nil load leaves WithinLoanTx unimplemented.
func Passthrough(repos uow.Repos, load func(loanID string) (*loan.Loan, error)) *UoW {
	m := New().WithWithinTx(func(_ context.Context, fn func(uow.Repos) error) error { return fn(repos) })
	if load != nil {
		m.WithWithinLoanTx(func(_ context.Context, loanID string, fn func(uow.Repos, *loan.Loan) error) error {
			l, err := load(loanID)
			if err != nil {
				return err
			}
			return fn(repos, l)
		})
	}
	return m
}

func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}

func (m *UoW) WithWithinLoanTx(fn func(context.Context, string, func(uow.Repos, *loan.Loan) error) error) *UoW {
	m.WithinLoanTxFn = fn
	return m
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	if m.WithinLoanTxFn != nil {
		return m.WithinLoanTxFn(ctx, loanID, fn)
	}
	return errUnimplemented
}
