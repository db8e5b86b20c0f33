package approval

import "context"

type Repository interface {
	// Create fails with gorm.ErrDuplicatedKey when the loan already has a decision.
	Create(ctx context.Context, a *Approval) error
	GetByLoanID(ctx context.Context, loanID uint64) (*Approval, error)
	// ListByDecider returns an officer's decisions, newest first. limit <= 0 means no limit.
	ListByDecider(ctx context.Context, decidedBy string, limit int) ([]Approval, error)
}
