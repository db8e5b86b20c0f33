package ledger

import "context"

type Repository interface {
	// Ensure creates the singleton row when it does not exist yet.
	Ensure(ctx context.Context) error
	Balance(ctx context.Context) (int64, error)
	// Debit atomically subtracts amount only when the balance covers it.
	// It returns ErrInsufficientFunds and leaves the balance untouched otherwise.
	Debit(ctx context.Context, amount int64) (int64, error)
	Credit(ctx context.Context, amount int64) (int64, error)
	AppendEntry(ctx context.Context, e *Entry) error
	ListEntries(ctx context.Context, limit int) ([]Entry, error)
}
