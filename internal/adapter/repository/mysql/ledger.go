package mysql

import (
	"context"
	"errors"

	ledgerDomain "cargotrace-backend/internal/domain/ledger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) Ensure(ctx context.Context) error {
	row := ledgerDomain.FundingLedger{ID: ledgerDomain.SingletonID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
}

func (r *LedgerRepository) Balance(ctx context.Context) (int64, error) {
	var out ledgerDomain.FundingLedger
	res := r.db.WithContext(ctx).Where("id = ?", ledgerDomain.SingletonID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return 0, ledgerDomain.ErrNotInitialized
	}
	return out.AvailableBalance, res.Error
}

// Debit is a single conditional UPDATE, so concurrent callers can never overdraw the pool.
func (r *LedgerRepository) Debit(ctx context.Context, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ledgerDomain.ErrInvalidAmount
	}
	res := r.db.WithContext(ctx).
		Model(&ledgerDomain.FundingLedger{}).
		Where("id = ? AND available_balance >= ?", ledgerDomain.SingletonID, amount).
		Update("available_balance", gorm.Expr("available_balance - ?", amount))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.Balance(ctx); err != nil {
			return 0, err
		}
		return 0, ledgerDomain.ErrInsufficientFunds
	}
	return r.Balance(ctx)
}

func (r *LedgerRepository) Credit(ctx context.Context, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ledgerDomain.ErrInvalidAmount
	}
	res := r.db.WithContext(ctx).
		Model(&ledgerDomain.FundingLedger{}).
		Where("id = ?", ledgerDomain.SingletonID).
		Update("available_balance", gorm.Expr("available_balance + ?", amount))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ledgerDomain.ErrNotInitialized
	}
	return r.Balance(ctx)
}

func (r *LedgerRepository) AppendEntry(ctx context.Context, e *ledgerDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *LedgerRepository) ListEntries(ctx context.Context, limit int) ([]ledgerDomain.Entry, error) {
	var out []ledgerDomain.Entry
	q := r.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	res := q.Find(&out)
	return out, res.Error
}
