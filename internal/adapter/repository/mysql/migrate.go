package mysql

import (
	"context"
	"fmt"

	"cargotrace-backend/internal/domain/approval"
	"cargotrace-backend/internal/domain/customs"
	"cargotrace-backend/internal/domain/document"
	"cargotrace-backend/internal/domain/ledger"
	"cargotrace-backend/internal/domain/loan"
	"cargotrace-backend/internal/domain/payment"
	"cargotrace-backend/internal/domain/transfer"

	"gorm.io/gorm"
)

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{
		&document.TradeDocument{},
		&customs.Mapping{},
		&loan.Loan{},
		&approval.Approval{},
		&payment.Payment{},
		&ledger.FundingLedger{},
		&ledger.Entry{},
		&transfer.Event{},
	}
}

// Migrate creates or updates the schema and makes sure the funding ledger row exists.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	if err := NewLedgerRepository(db).Ensure(ctx); err != nil {
		return fmt.Errorf("ensure funding ledger: %w", err)
	}
	return nil
}
