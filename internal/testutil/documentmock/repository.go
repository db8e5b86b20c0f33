package documentmock

import (
	"context"

	domain "cargotrace-backend/internal/domain/document"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return context.Canceled; unset writes succeed.
type Repo struct {
	CreateFn                    func(ctx context.Context, d *domain.TradeDocument) error
	SaveFn                      func(ctx context.Context, d *domain.TradeDocument) error
	GetByDocumentIDFn           func(ctx context.Context, documentID string) (*domain.TradeDocument, error)
	GetByDocumentIDForUpdateFn  func(ctx context.Context, documentID string) (*domain.TradeDocument, error)
	GetByExternalRefFn          func(ctx context.Context, ref string) (*domain.TradeDocument, error)
	GetByExternalRefForUpdateFn func(ctx context.Context, ref string) (*domain.TradeDocument, error)
	ListByOwnerFn               func(ctx context.Context, ownerID string) ([]domain.TradeDocument, error)
	ListFn                      func(ctx context.Context) ([]domain.TradeDocument, error)
}

func (m *Repo) Create(ctx context.Context, d *domain.TradeDocument) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, d *domain.TradeDocument) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, d)
	}
	return nil
}

func (m *Repo) GetByDocumentID(ctx context.Context, documentID string) (*domain.TradeDocument, error) {
	if m.GetByDocumentIDFn != nil {
		return m.GetByDocumentIDFn(ctx, documentID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByDocumentIDForUpdate(ctx context.Context, documentID string) (*domain.TradeDocument, error) {
	if m.GetByDocumentIDForUpdateFn != nil {
		return m.GetByDocumentIDForUpdateFn(ctx, documentID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByExternalRef(ctx context.Context, ref string) (*domain.TradeDocument, error) {
	if m.GetByExternalRefFn != nil {
		return m.GetByExternalRefFn(ctx, ref)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByExternalRefForUpdate(ctx context.Context, ref string) (*domain.TradeDocument, error) {
	if m.GetByExternalRefForUpdateFn != nil {
		return m.GetByExternalRefForUpdateFn(ctx, ref)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByOwner(ctx context.Context, ownerID string) ([]domain.TradeDocument, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context) ([]domain.TradeDocument, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, context.Canceled
}
