package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	// GetOpenByDocumentID returns the non-terminal loan pledging the document, if any.
	GetOpenByDocumentID(ctx context.Context, documentID string) (*Loan, error)
	GetLatestByBorrowerInStatus(ctx context.Context, borrowerID string, statuses ...Status) (*Loan, error)
	ListByBorrower(ctx context.Context, borrowerID string) ([]Loan, error)
	List(ctx context.Context) ([]Loan, error)
}
