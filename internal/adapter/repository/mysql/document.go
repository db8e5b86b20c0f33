package mysql

import (
	"context"

	docDomain "cargotrace-backend/internal/domain/document"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DocumentRepository struct{ db *gorm.DB }

func NewDocumentRepository(db *gorm.DB) *DocumentRepository { return &DocumentRepository{db: db} }

func (r *DocumentRepository) Create(ctx context.Context, d *docDomain.TradeDocument) error {
	return r.db.WithContext(ctx).Create(d).Error
}

// Save never rewrites external_ref: it is bound once at creation.
func (r *DocumentRepository) Save(ctx context.Context, d *docDomain.TradeDocument) error {
	return r.db.WithContext(ctx).Omit("external_ref").Save(d).Error
}

func (r *DocumentRepository) GetByDocumentID(ctx context.Context, documentID string) (*docDomain.TradeDocument, error) {
	var out docDomain.TradeDocument
	res := r.db.WithContext(ctx).Where("document_id = ?", documentID).First(&out)
	return &out, res.Error
}

func (r *DocumentRepository) GetByDocumentIDForUpdate(ctx context.Context, documentID string) (*docDomain.TradeDocument, error) {
	var out docDomain.TradeDocument
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("document_id = ?", documentID).
		First(&out)
	return &out, res.Error
}

func (r *DocumentRepository) GetByExternalRef(ctx context.Context, ref string) (*docDomain.TradeDocument, error) {
	var out docDomain.TradeDocument
	res := r.db.WithContext(ctx).Where("external_ref = ?", ref).First(&out)
	return &out, res.Error
}

func (r *DocumentRepository) GetByExternalRefForUpdate(ctx context.Context, ref string) (*docDomain.TradeDocument, error) {
	var out docDomain.TradeDocument
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("external_ref = ?", ref).
		First(&out)
	return &out, res.Error
}

func (r *DocumentRepository) ListByOwner(ctx context.Context, ownerID string) ([]docDomain.TradeDocument, error) {
	var out []docDomain.TradeDocument
	res := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id ASC").Find(&out)
	return out, res.Error
}

func (r *DocumentRepository) List(ctx context.Context) ([]docDomain.TradeDocument, error) {
	var out []docDomain.TradeDocument
	res := r.db.WithContext(ctx).Order("id ASC").Find(&out)
	return out, res.Error
}
