package mysql

import (
	"context"

	approvalDomain "cargotrace-backend/internal/domain/approval"

	"gorm.io/gorm"
)

type ApprovalRepository struct{ db *gorm.DB }

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository { return &ApprovalRepository{db: db} }

func (r *ApprovalRepository) Create(ctx context.Context, a *approvalDomain.Approval) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApprovalRepository) GetByLoanID(ctx context.Context, loanNumericID uint64) (*approvalDomain.Approval, error) {
	var out approvalDomain.Approval
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanNumericID).Take(&out)
	return &out, res.Error
}

func (r *ApprovalRepository) ListByDecider(ctx context.Context, decidedBy string, limit int) ([]approvalDomain.Approval, error) {
	var out []approvalDomain.Approval
	q := r.db.WithContext(ctx).Where("decided_by = ?", decidedBy).Order("decided_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return out, q.Find(&out).Error
}
