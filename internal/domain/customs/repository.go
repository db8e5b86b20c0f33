package customs

import "context"

type Repository interface {
	Create(ctx context.Context, m *Mapping) error
	Save(ctx context.Context, m *Mapping) error
	GetByMappingID(ctx context.Context, mappingID string) (*Mapping, error)
	GetByMappingIDForUpdate(ctx context.Context, mappingID string) (*Mapping, error)
	GetByExternalRef(ctx context.Context, ref string) (*Mapping, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Mapping, error)
	ListByStatus(ctx context.Context, statuses ...Status) ([]Mapping, error)
	List(ctx context.Context) ([]Mapping, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}
