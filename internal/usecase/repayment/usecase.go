package repayment

import (
	"context"
	"errors"
	"math"
	"time"

	domainLoan "cargotrace-backend/internal/domain/loan"
	domain "cargotrace-backend/internal/domain/payment"
	"cargotrace-backend/internal/domain/uow"
	ledgerUC "cargotrace-backend/internal/usecase/ledger"
	"cargotrace-backend/pkg/id"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Usecase struct {
	loans    domainLoan.Repository
	payments domain.Repository
	uow      uow.UnitOfWork
	log      *zap.Logger
	now      func() time.Time
}

func NewUsecase(loans domainLoan.Repository, payments domain.Repository, tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{loans: loans, payments: payments, uow: tx, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// RecordPayment applies a repayment under the loan row lock and returns the funds to the ledger.
// The payment that clears the balance closes the loan in the same transaction.
func (u *Usecase) RecordPayment(ctx context.Context, in PaymentInput) (*ReceiptDTO, error) {
	if in.Amount <= 0 {
		return nil, domainLoan.ErrInvalidValue
	}

	var out *ReceiptDTO
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		switch {
		case l.Status == domainLoan.StatusRepaid:
			return domainLoan.ErrOverPayment
		case l.Status != domainLoan.StatusActive:
			return domainLoan.ErrLoanNotActive
		case l.BorrowerID != in.PayerID:
			return domainLoan.ErrNotBorrower
		case in.Amount > l.Outstanding():
			return domainLoan.ErrOverPayment
		}

		now := u.now()
		l.RepaidAmount += in.Amount
		p := &domain.Payment{
			PaymentID:      id.NewID32(),
			LoanID:         l.ID,
			PayerID:        in.PayerID,
			Amount:         in.Amount,
			RunningBalance: l.Outstanding(),
			PaidAt:         now,
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}
		if _, err := ledgerUC.Repay(ctx, r.Ledger, l.LoanID, in.Amount); err != nil {
			return err
		}
		if l.Outstanding() == 0 {
			if err := l.TransitionTo(domainLoan.StatusRepaid, now); err != nil {
				return err
			}
			l.RepaidAt = &now
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = &ReceiptDTO{
			PaymentID:      p.PaymentID,
			LoanID:         l.LoanID,
			Amount:         p.Amount,
			RunningBalance: p.RunningBalance,
			LoanStatus:     string(l.Status),
			PaidAt:         p.PaidAt,
		}
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}
	u.log.Info("loan payment recorded",
		zap.String("loan_id", out.LoanID),
		zap.Int64("amount", out.Amount),
		zap.Int64("running_balance", out.RunningBalance),
		zap.String("loan_status", out.LoanStatus))
	return out, nil
}

func (u *Usecase) Balance(ctx context.Context, loanID string) (*BalanceDTO, error) {
	l, err := u.loan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	// the payment journal is authoritative for what has been paid
	paid, err := u.payments.SumByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	return &BalanceDTO{LoanID: l.LoanID, Principal: l.Principal, RepaidAmount: paid, Remaining: l.Principal - paid}, nil
}

func (u *Usecase) ListPayments(ctx context.Context, loanID string) ([]PaymentDTO, error) {
	l, err := u.loan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	ps, err := u.payments.ListByLoanID(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	out := make([]PaymentDTO, 0, len(ps))
	for i := range ps {
		out = append(out, toPaymentDTO(&ps[i]))
	}
	return out, nil
}

// DaysUntilDue is whole days to the due date, negative once it has passed.
func (u *Usecase) DaysUntilDue(ctx context.Context, loanID string) (int, error) {
	l, err := u.loan(ctx, loanID)
	if err != nil {
		return 0, err
	}
	return daysUntil(l.RepaymentDueAt, u.now()), nil
}

func (u *Usecase) IsOverdue(ctx context.Context, loanID string) (bool, error) {
	l, err := u.loan(ctx, loanID)
	if err != nil {
		return false, err
	}
	return l.Overdue(u.now()), nil
}

// Schedule bundles the due date view of a loan.
func (u *Usecase) Schedule(ctx context.Context, loanID string) (*ScheduleDTO, error) {
	l, err := u.loan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	now := u.now()
	return &ScheduleDTO{
		LoanID:         l.LoanID,
		Status:         string(l.Status),
		RepaymentDueAt: l.RepaymentDueAt,
		DaysUntilDue:   daysUntil(l.RepaymentDueAt, now),
		Overdue:        l.Overdue(now),
		Remaining:      l.Outstanding(),
	}, nil
}

func (u *Usecase) loan(ctx context.Context, loanID string) (*domainLoan.Loan, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

func daysUntil(due, now time.Time) int {
	return int(math.Floor(due.Sub(now).Hours() / 24))
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainLoan.ErrNotFound
	}
	return err
}
