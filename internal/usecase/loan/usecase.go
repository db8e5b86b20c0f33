package loan

import (
	"context"
	"errors"
	"time"

	domainApproval "cargotrace-backend/internal/domain/approval"
	domainDoc "cargotrace-backend/internal/domain/document"
	domainLedger "cargotrace-backend/internal/domain/ledger"
	domain "cargotrace-backend/internal/domain/loan"
	"cargotrace-backend/internal/domain/uow"
	ledgerUC "cargotrace-backend/internal/usecase/ledger"
	"cargotrace-backend/pkg/id"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Usecase struct {
	repo      domain.Repository
	approvals domainApproval.Repository
	uow       uow.UnitOfWork
	rate      decimal.Decimal
	log       *zap.Logger
	now       func() time.Time
}

type Option func(*Usecase)

// WithInterestRate overrides the annual rate (percent) stamped on new loans.
func WithInterestRate(rate decimal.Decimal) Option {
	return func(u *Usecase) {
		if rate.IsPositive() {
			u.rate = rate
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(u *Usecase) {
		if l != nil {
			u.log = l
		}
	}
}

// NewUsecase: reads go through the repos, every transition runs under the loan row lock.
func NewUsecase(loans domain.Repository, approvals domainApproval.Repository, tx uow.UnitOfWork, opts ...Option) *Usecase {
	u := &Usecase{
		repo:      loans,
		approvals: approvals,
		uow:       tx,
		rate:      domain.DefaultInterestRate,
		log:       zap.NewNop(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// Request opens a pending loan against a minted document.
func (u *Usecase) Request(ctx context.Context, in RequestInput) (*LoanDTO, error) {
	if in.Principal <= 0 {
		return nil, domain.ErrInvalidValue
	}
	now := u.now()
	if !in.RepaymentDueAt.After(now) {
		return nil, domain.ErrInvalidDueDate
	}

	var out *LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		d, err := r.Documents.GetByDocumentIDForUpdate(ctx, in.DocumentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainDoc.ErrNotFound
			}
			return err
		}
		if !d.Status.CollateralEligible() {
			return domain.ErrCollateralIneligible
		}
		if in.Principal > domain.MaxPrincipal(d.DeclaredValue) {
			return domain.ErrExceedsLoanToValue
		}

		// the document row lock serializes competing requests for the same collateral
		if _, err := r.Loans.GetOpenByDocumentID(ctx, d.DocumentID); err == nil {
			return domain.ErrDocumentAlreadyPledged
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		l := &domain.Loan{
			LoanID:          id.NewID32(),
			DocumentID:      d.DocumentID,
			BorrowerID:      in.BorrowerID,
			Principal:       in.Principal,
			InterestRate:    u.rate,
			Status:          domain.StatusPending,
			RepaymentDueAt:  in.RepaymentDueAt.UTC(),
			StatusUpdatedAt: now,
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		out = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("loan requested",
		zap.String("loan_id", out.LoanID),
		zap.String("document_id", out.DocumentID),
		zap.Int64("principal", out.Principal))
	return out, nil
}

// Approve records the decision and disburses from the funding ledger.
// When the pool is short the loan is left transfer_pending and the DTO is returned with ErrInsufficientFunds.
func (u *Usecase) Approve(ctx context.Context, loanID, actor string) (*LoanDTO, error) {
	var done *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		switch {
		case l.Status == domain.StatusActive:
			done = toDTO(l)
			return nil
		case l.Status.AwaitingDisbursement():
			return nil
		case l.Status != domain.StatusPending:
			return domain.ErrInvalidTransition
		}
		if err := l.TransitionTo(domain.StatusApproved, u.now()); err != nil {
			return err
		}
		if err := u.decide(ctx, r, l, domainApproval.DecisionApproved, "", actor); err != nil {
			return err
		}
		return r.Loans.Save(ctx, l)
	})
	if err != nil {
		return nil, notFound(err)
	}
	if done != nil {
		return done, nil
	}
	return u.disburse(ctx, loanID)
}

// RetryDisbursement re-attempts the transfer of an approved loan. Active loans are returned as they are.
func (u *Usecase) RetryDisbursement(ctx context.Context, loanID string) (*LoanDTO, error) {
	return u.disburse(ctx, loanID)
}

// Reject closes a pending loan and records why.
func (u *Usecase) Reject(ctx context.Context, loanID, reason, actor string) (*LoanDTO, error) {
	var out *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Status != domain.StatusPending {
			return domain.ErrInvalidTransition
		}
		if err := l.TransitionTo(domain.StatusRejected, u.now()); err != nil {
			return err
		}
		if err := u.decide(ctx, r, l, domainApproval.DecisionRejected, reason, actor); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}
	u.log.Info("loan rejected", zap.String("loan_id", loanID), zap.String("decided_by", actor))
	return out, nil
}

// MarkDefaulted closes an active loan whose due date has passed.
func (u *Usecase) MarkDefaulted(ctx context.Context, loanID string) (*LoanDTO, error) {
	var out *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Status != domain.StatusActive {
			return domain.ErrInvalidTransition
		}
		now := u.now()
		if !l.Overdue(now) {
			return domain.ErrNotOverdue
		}
		if err := l.TransitionTo(domain.StatusDefaulted, now); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}
	u.log.Warn("loan defaulted", zap.String("loan_id", loanID), zap.Int64("outstanding", out.Outstanding))
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, notFound(err)
	}
	dto := toDTO(l)
	if u.approvals != nil {
		a, err := u.approvals.GetByLoanID(ctx, l.ID)
		switch {
		case err == nil:
			dto.Decision = toDecisionDTO(a)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}
	return dto, nil
}

func (u *Usecase) GetStatus(ctx context.Context, loanID string) (*StatusDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, notFound(err)
	}
	return &StatusDTO{LoanID: l.LoanID, Status: string(l.Status), StatusUpdatedAt: l.StatusUpdatedAt}, nil
}

func (u *Usecase) ListByBorrower(ctx context.Context, borrowerID string) ([]LoanDTO, error) {
	ls, err := u.repo.ListByBorrower(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	return toDTOs(ls), nil
}

func (u *Usecase) ListAll(ctx context.Context) ([]LoanDTO, error) {
	ls, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toDTOs(ls), nil
}

// ListByStatus returns every loan currently in status.
func (u *Usecase) ListByStatus(ctx context.Context, status string) ([]LoanDTO, error) {
	s := domain.Status(status)
	if !s.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	ls, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	kept := ls[:0]
	for _, l := range ls {
		if l.Status == s {
			kept = append(kept, l)
		}
	}
	return toDTOs(kept), nil
}

// GetActiveLoan returns the borrower's latest loan that is active or still being funded.
func (u *Usecase) GetActiveLoan(ctx context.Context, borrowerID string) (*LoanDTO, error) {
	l, err := u.repo.GetLatestByBorrowerInStatus(ctx, borrowerID,
		domain.StatusActive, domain.StatusTransferPending, domain.StatusTransferFailed)
	if err != nil {
		return nil, notFound(err)
	}
	return toDTO(l), nil
}

// ListDecisions returns the approvals and rejections an officer has recorded, newest first.
func (u *Usecase) ListDecisions(ctx context.Context, officer string, limit int) ([]DecisionDTO, error) {
	if u.approvals == nil {
		return []DecisionDTO{}, nil
	}
	if limit <= 0 || limit > MaxDecisionsLimit {
		limit = MaxDecisionsLimit
	}
	as, err := u.approvals.ListByDecider(ctx, officer, limit)
	if err != nil {
		return nil, err
	}
	out := make([]DecisionDTO, 0, len(as))
	for i := range as {
		out = append(out, *toDecisionDTO(&as[i]))
	}
	return out, nil
}

func (u *Usecase) decide(ctx context.Context, r uow.Repos, l *domain.Loan, d domainApproval.Decision, reason, actor string) error {
	a := &domainApproval.Approval{
		ApprovalID: id.NewID32(),
		LoanID:     l.ID,
		LoanRef:    l.LoanID,
		Decision:   d,
		Reason:     reason,
		DecidedBy:  actor,
		DecidedAt:  u.now(),
	}
	if err := r.Approvals.Create(ctx, a); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrInvalidTransition
		}
		return err
	}
	return nil
}

// disburse moves the principal out of the ledger under the loan lock.
// Shortfall commits transfer_pending; any other ledger failure rolls back and marks the loan transfer_failed.
func (u *Usecase) disburse(ctx context.Context, loanID string) (*LoanDTO, error) {
	var (
		out       *LoanDTO
		short     bool
		attempted bool
	)
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if l.Status == domain.StatusActive {
			out = toDTO(l)
			return nil
		}
		if !l.Status.AwaitingDisbursement() {
			return domain.ErrInvalidTransition
		}

		attempted = true
		now := u.now()
		e, err := ledgerUC.Disburse(ctx, r.Ledger, l.LoanID, l.Principal)
		switch {
		case errors.Is(err, domainLedger.ErrInsufficientFunds):
			short = true
			if err := l.TransitionTo(domain.StatusTransferPending, now); err != nil {
				return err
			}
			l.FailureReason = err.Error()
		case err != nil:
			return err
		default:
			if err := l.TransitionTo(domain.StatusActive, now); err != nil {
				return err
			}
			l.DisbursedAt = &now
			l.DisbursementRef = e.EntryID
			l.FailureReason = ""
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = toDTO(l)
		return nil
	})
	switch {
	case err == nil && short:
		u.log.Warn("loan disbursement deferred", zap.String("loan_id", loanID), zap.Int64("principal", out.Principal))
		return out, domainLedger.ErrInsufficientFunds
	case err == nil:
		u.log.Info("loan disbursed", zap.String("loan_id", loanID), zap.String("status", out.Status))
		return out, nil
	case !attempted:
		return nil, notFound(err)
	}

	u.log.Error("loan disbursement failed", zap.String("loan_id", loanID), zap.Error(err))
	if ferr := u.markFailed(ctx, loanID, err.Error()); ferr != nil {
		u.log.Error("marking loan transfer_failed", zap.String("loan_id", loanID), zap.Error(ferr))
	}
	return nil, err
}

func (u *Usecase) markFailed(ctx context.Context, loanID, reason string) error {
	return u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if !l.Status.AwaitingDisbursement() {
			return nil
		}
		if err := l.TransitionTo(domain.StatusTransferFailed, u.now()); err != nil {
			return err
		}
		l.FailureReason = reason
		return r.Loans.Save(ctx, l)
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
