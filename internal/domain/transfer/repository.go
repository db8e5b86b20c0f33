package transfer

import "context"

type Repository interface {
	Create(ctx context.Context, e *Event) error
	GetByTxLog(ctx context.Context, txHash string, logIndex uint32) (*Event, error)
	List(ctx context.Context, limit int) ([]Event, error)
	ListByToken(ctx context.Context, tokenID string, limit int) ([]Event, error)
}
