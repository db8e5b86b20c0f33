package mysql

import (
	"context"

	customsDomain "cargotrace-backend/internal/domain/customs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomsRepository struct{ db *gorm.DB }

func NewCustomsRepository(db *gorm.DB) *CustomsRepository { return &CustomsRepository{db: db} }

func (r *CustomsRepository) Create(ctx context.Context, m *customsDomain.Mapping) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *CustomsRepository) Save(ctx context.Context, m *customsDomain.Mapping) error {
	return r.db.WithContext(ctx).Omit("external_ref", "declaration_number").Save(m).Error
}

func (r *CustomsRepository) GetByMappingID(ctx context.Context, mappingID string) (*customsDomain.Mapping, error) {
	var out customsDomain.Mapping
	res := r.db.WithContext(ctx).Where("mapping_id = ?", mappingID).First(&out)
	return &out, res.Error
}

func (r *CustomsRepository) GetByMappingIDForUpdate(ctx context.Context, mappingID string) (*customsDomain.Mapping, error) {
	var out customsDomain.Mapping
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("mapping_id = ?", mappingID).
		First(&out)
	return &out, res.Error
}

func (r *CustomsRepository) GetByExternalRef(ctx context.Context, ref string) (*customsDomain.Mapping, error) {
	var out customsDomain.Mapping
	res := r.db.WithContext(ctx).Where("external_ref = ?", ref).First(&out)
	return &out, res.Error
}

func (r *CustomsRepository) ListByOwner(ctx context.Context, ownerID string) ([]customsDomain.Mapping, error) {
	var out []customsDomain.Mapping
	res := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id ASC").Find(&out)
	return out, res.Error
}

func (r *CustomsRepository) ListByStatus(ctx context.Context, statuses ...customsDomain.Status) ([]customsDomain.Mapping, error) {
	var out []customsDomain.Mapping
	res := r.db.WithContext(ctx).Where("status IN ?", statuses).Order("id ASC").Find(&out)
	return out, res.Error
}

func (r *CustomsRepository) List(ctx context.Context) ([]customsDomain.Mapping, error) {
	var out []customsDomain.Mapping
	res := r.db.WithContext(ctx).Order("id ASC").Find(&out)
	return out, res.Error
}

func (r *CustomsRepository) CountByStatus(ctx context.Context) (map[customsDomain.Status]int64, error) {
	var rows []struct {
		Status customsDomain.Status
		N      int64
	}
	res := r.db.WithContext(ctx).
		Model(&customsDomain.Mapping{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows)
	if res.Error != nil {
		return nil, res.Error
	}
	out := make(map[customsDomain.Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}
