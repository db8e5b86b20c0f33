package ledger

import (
	"context"
	"errors"

	domain "cargotrace-backend/internal/domain/ledger"
	"cargotrace-backend/internal/domain/uow"
	"cargotrace-backend/pkg/id"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Usecase struct {
	repo domain.Repository
	uow  uow.UnitOfWork
	log  *zap.Logger
}

func NewUsecase(repo domain.Repository, tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: repo, uow: tx, log: log}
}

// ReserveAndDisburse debits the pool for reference in its own transaction.
// On ErrInsufficientFunds the balance is untouched.
func (u *Usecase) ReserveAndDisburse(ctx context.Context, amount int64, reference string) (*EntryDTO, error) {
	var out *EntryDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		e, err := Disburse(ctx, r.Ledger, reference, amount)
		if err != nil {
			return err
		}
		out = toEntryDTO(e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("ledger disbursed", zap.String("reference", reference), zap.Int64("amount", amount))
	return out, nil
}

// Credit tops up the pool.
func (u *Usecase) Credit(ctx context.Context, amount int64, reference string) (*EntryDTO, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	var out *EntryDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		e, err := credit(ctx, r.Ledger, domain.EntryCredit, reference, amount)
		if err != nil {
			return err
		}
		out = toEntryDTO(e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("ledger credited", zap.String("reference", reference), zap.Int64("amount", amount))
	return out, nil
}

// Seed funds a ledger that has never been written to. It reports whether it credited.
func (u *Usecase) Seed(ctx context.Context, amount int64) (bool, error) {
	if amount <= 0 {
		return false, nil
	}
	seeded := false
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		es, err := r.Ledger.ListEntries(ctx, 1)
		if err != nil || len(es) > 0 {
			return err
		}
		if _, err := credit(ctx, r.Ledger, domain.EntryCredit, SeedReference, amount); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if seeded {
		u.log.Info("ledger seeded", zap.Int64("amount", amount))
	}
	return seeded, nil
}

func (u *Usecase) Balance(ctx context.Context) (*BalanceDTO, error) {
	bal, err := u.repo.Balance(ctx)
	if err != nil {
		return nil, err
	}
	return &BalanceDTO{AvailableBalance: bal}, nil
}

// Entries returns the newest journal lines first.
func (u *Usecase) Entries(ctx context.Context, limit int) ([]EntryDTO, error) {
	switch {
	case limit <= 0:
		limit = DefaultEntriesLimit
	case limit > MaxEntriesLimit:
		limit = MaxEntriesLimit
	}
	es, err := u.repo.ListEntries(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]EntryDTO, 0, len(es))
	for i := range es {
		out = append(out, *toEntryDTO(&es[i]))
	}
	return out, nil
}

// Disburse debits amount for loanID and journals it, using repo as given.
// Callers run it inside their own transaction so the debit and the loan update commit together.
func Disburse(ctx context.Context, repo domain.Repository, loanID string, amount int64) (*domain.Entry, error) {
	bal, err := repo.Debit(ctx, amount)
	if err != nil {
		return nil, err
	}
	ref := loanID
	e := &domain.Entry{
		EntryID:         id.NewID32(),
		Kind:            domain.EntryDisbursement,
		Reference:       loanID,
		DisbursedLoanID: &ref,
		Amount:          amount,
		BalanceAfter:    bal,
	}
	if err := repo.AppendEntry(ctx, e); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrAlreadyDisbursed
		}
		return nil, err
	}
	return e, nil
}

// Repay returns a repayment to the pool inside the caller's transaction.
func Repay(ctx context.Context, repo domain.Repository, loanID string, amount int64) (*domain.Entry, error) {
	return credit(ctx, repo, domain.EntryRepayment, loanID, amount)
}

func credit(ctx context.Context, repo domain.Repository, kind domain.EntryKind, reference string, amount int64) (*domain.Entry, error) {
	bal, err := repo.Credit(ctx, amount)
	if err != nil {
		return nil, err
	}
	e := &domain.Entry{
		EntryID:      id.NewID32(),
		Kind:         kind,
		Reference:    reference,
		Amount:       amount,
		BalanceAfter: bal,
	}
	if err := repo.AppendEntry(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}
