package payment

import "context"

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	ListByLoanID(ctx context.Context, loanID uint64) ([]Payment, error)
	SumByLoanID(ctx context.Context, loanID uint64) (int64, error)
}
