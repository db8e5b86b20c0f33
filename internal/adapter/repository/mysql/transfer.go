package mysql

import (
	"context"

	transferDomain "cargotrace-backend/internal/domain/transfer"

	"gorm.io/gorm"
)

type TransferRepository struct{ db *gorm.DB }

func NewTransferRepository(db *gorm.DB) *TransferRepository { return &TransferRepository{db: db} }

func (r *TransferRepository) Create(ctx context.Context, e *transferDomain.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *TransferRepository) GetByTxLog(ctx context.Context, txHash string, logIndex uint32) (*transferDomain.Event, error) {
	var out transferDomain.Event
	res := r.db.WithContext(ctx).Where("tx_hash = ? AND log_index = ?", txHash, logIndex).First(&out)
	return &out, res.Error
}

func (r *TransferRepository) List(ctx context.Context, limit int) ([]transferDomain.Event, error) {
	var out []transferDomain.Event
	q := r.db.WithContext(ctx).Order("block_number DESC, log_index DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	res := q.Find(&out)
	return out, res.Error
}

func (r *TransferRepository) ListByToken(ctx context.Context, tokenID string, limit int) ([]transferDomain.Event, error) {
	var out []transferDomain.Event
	q := r.db.WithContext(ctx).Where("token_id = ?", tokenID).Order("block_number DESC, log_index DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	res := q.Find(&out)
	return out, res.Error
}
