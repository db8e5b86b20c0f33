package document

import "context"

type Repository interface {
	Create(ctx context.Context, d *TradeDocument) error
	Save(ctx context.Context, d *TradeDocument) error
	GetByDocumentID(ctx context.Context, documentID string) (*TradeDocument, error)
	GetByDocumentIDForUpdate(ctx context.Context, documentID string) (*TradeDocument, error)
	GetByExternalRef(ctx context.Context, ref string) (*TradeDocument, error)
	GetByExternalRefForUpdate(ctx context.Context, ref string) (*TradeDocument, error)
	ListByOwner(ctx context.Context, ownerID string) ([]TradeDocument, error)
	List(ctx context.Context) ([]TradeDocument, error)
}
