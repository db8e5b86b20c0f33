package customsmock

import (
	"context"

	domain "cargotrace-backend/internal/domain/customs"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                  func(ctx context.Context, m *domain.Mapping) error
	SaveFn                    func(ctx context.Context, m *domain.Mapping) error
	GetByMappingIDFn          func(ctx context.Context, mappingID string) (*domain.Mapping, error)
	GetByMappingIDForUpdateFn func(ctx context.Context, mappingID string) (*domain.Mapping, error)
	GetByExternalRefFn        func(ctx context.Context, ref string) (*domain.Mapping, error)
	ListByOwnerFn             func(ctx context.Context, ownerID string) ([]domain.Mapping, error)
	ListByStatusFn            func(ctx context.Context, statuses ...domain.Status) ([]domain.Mapping, error)
	ListFn                    func(ctx context.Context) ([]domain.Mapping, error)
	CountByStatusFn           func(ctx context.Context) (map[domain.Status]int64, error)
}

func (m *Repo) Create(ctx context.Context, mp *domain.Mapping) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, mp)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, mp *domain.Mapping) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, mp)
	}
	return nil
}

func (m *Repo) GetByMappingID(ctx context.Context, mappingID string) (*domain.Mapping, error) {
	if m.GetByMappingIDFn != nil {
		return m.GetByMappingIDFn(ctx, mappingID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByMappingIDForUpdate(ctx context.Context, mappingID string) (*domain.Mapping, error) {
	if m.GetByMappingIDForUpdateFn != nil {
		return m.GetByMappingIDForUpdateFn(ctx, mappingID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByExternalRef(ctx context.Context, ref string) (*domain.Mapping, error) {
	if m.GetByExternalRefFn != nil {
		return m.GetByExternalRefFn(ctx, ref)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Mapping, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByStatus(ctx context.Context, statuses ...domain.Status) ([]domain.Mapping, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, statuses...)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context) ([]domain.Mapping, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx)
	}
	return nil, context.Canceled
}
