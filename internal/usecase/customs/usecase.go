package customs

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "cargotrace-backend/internal/domain/customs"
	docDomain "cargotrace-backend/internal/domain/document"
	"cargotrace-backend/internal/domain/uow"
	"cargotrace-backend/pkg/id"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RejectPrefix is prepended to every stored rejection reason.
const RejectPrefix = "Rejected: "

type Usecase struct {
	repo domain.Repository
	docs docDomain.Repository
	uow  uow.UnitOfWork
	log  *zap.Logger
	now  func() time.Time
}

func NewUsecase(repo domain.Repository, docs docDomain.Repository, tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: repo, docs: docs, uow: tx, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Link binds a document's external reference to a declaration number.
// Checks run in a fixed order: format, duplicate mapping, unknown document.
func (u *Usecase) Link(ctx context.Context, in LinkInput) (*MappingDTO, error) {
	number := strings.TrimSpace(in.DeclarationNumber)
	if !domain.ValidDeclarationNumber(number) {
		return nil, domain.ErrInvalidFormat
	}
	ref := strings.TrimSpace(in.ExternalRef)

	if _, err := u.repo.GetByExternalRef(ctx, ref); err == nil {
		return nil, domain.ErrDuplicateMapping
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := u.docs.GetByExternalRef(ctx, ref); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUnknownDocument
		}
		return nil, err
	}

	m := &domain.Mapping{
		MappingID:         id.NewID32(),
		ExternalRef:       ref,
		DeclarationNumber: number,
		OwnerID:           in.OwnerID,
		Status:            domain.StatusPending,
	}
	if err := u.repo.Create(ctx, m); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateMapping
		}
		return nil, err
	}
	u.log.Info("customs mapping linked",
		zap.String("mapping_id", m.MappingID),
		zap.String("declaration_number", m.DeclarationNumber))
	return toDTO(m), nil
}

// Verify confirms the mapping and moves the owning document to verified in the same transaction.
func (u *Usecase) Verify(ctx context.Context, mappingID string, in VerifyInput) (*MappingDTO, error) {
	return u.mutate(ctx, mappingID, func(r uow.Repos, m *domain.Mapping) error {
		if m.Status == domain.StatusVerified {
			return nil
		}
		if !m.Status.CanTransitionTo(domain.StatusVerified) {
			return domain.ErrInvalidTransition
		}
		now := u.now()
		m.Status = domain.StatusVerified
		m.VerifiedBy = in.VerifiedBy
		m.VerifiedAt = &now
		m.CustomsData = in.CustomsData
		m.Reason = ""
		return u.reconcile(ctx, r, m.ExternalRef, docDomain.StatusVerified)
	})
}

// Reject closes the mapping and rejects a still pending document in the same transaction.
func (u *Usecase) Reject(ctx context.Context, mappingID, reason string) (*MappingDTO, error) {
	return u.mutate(ctx, mappingID, func(r uow.Repos, m *domain.Mapping) error {
		if m.Status == domain.StatusRejected {
			return nil
		}
		if !m.Status.CanTransitionTo(domain.StatusRejected) {
			return domain.ErrInvalidTransition
		}
		m.Status = domain.StatusRejected
		m.Reason = RejectPrefix + strings.TrimSpace(reason)
		return u.reconcile(ctx, r, m.ExternalRef, docDomain.StatusRejected)
	})
}

func (u *Usecase) MarkUnderReview(ctx context.Context, mappingID string) (*MappingDTO, error) {
	return u.mutate(ctx, mappingID, func(_ uow.Repos, m *domain.Mapping) error {
		if m.Status == domain.StatusUnderReview {
			return nil
		}
		if !m.Status.CanTransitionTo(domain.StatusUnderReview) {
			return domain.ErrInvalidTransition
		}
		m.Status = domain.StatusUnderReview
		return nil
	})
}

func (u *Usecase) Get(ctx context.Context, mappingID string) (*MappingDTO, error) {
	m, err := u.repo.GetByMappingID(ctx, mappingID)
	if err != nil {
		return nil, notFound(err)
	}
	return toDTO(m), nil
}

func (u *Usecase) GetByExternalRef(ctx context.Context, ref string) (*MappingDTO, error) {
	m, err := u.repo.GetByExternalRef(ctx, ref)
	if err != nil {
		return nil, notFound(err)
	}
	return toDTO(m), nil
}

func (u *Usecase) ListByOwner(ctx context.Context, ownerID string) ([]MappingDTO, error) {
	ms, err := u.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return toDTOs(ms), nil
}

func (u *Usecase) ListAll(ctx context.Context) ([]MappingDTO, error) {
	ms, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toDTOs(ms), nil
}

func (u *Usecase) ListByStatus(ctx context.Context, status string) ([]MappingDTO, error) {
	s := domain.Status(status)
	if !s.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	ms, err := u.repo.ListByStatus(ctx, s)
	if err != nil {
		return nil, err
	}
	return toDTOs(ms), nil
}

// ListPending returns mappings still waiting on a decision.
func (u *Usecase) ListPending(ctx context.Context) ([]MappingDTO, error) {
	ms, err := u.repo.ListByStatus(ctx, domain.StatusPending, domain.StatusUnderReview)
	if err != nil {
		return nil, err
	}
	return toDTOs(ms), nil
}

func (u *Usecase) Stats(ctx context.Context) (*domain.Stats, error) {
	counts, err := u.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	s := &domain.Stats{
		Pending:     counts[domain.StatusPending],
		Verified:    counts[domain.StatusVerified],
		Rejected:    counts[domain.StatusRejected],
		UnderReview: counts[domain.StatusUnderReview],
	}
	s.Total = s.Pending + s.Verified + s.Rejected + s.UnderReview
	return s, nil
}

// reconcile advances the owning document only while it is still pending.
func (u *Usecase) reconcile(ctx context.Context, r uow.Repos, ref string, next docDomain.Status) error {
	d, err := r.Documents.GetByExternalRefForUpdate(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUnknownDocument
		}
		return err
	}
	if d.Status != docDomain.StatusPending {
		return nil
	}
	if err := d.TransitionTo(next, u.now()); err != nil {
		return err
	}
	if err := r.Documents.Save(ctx, d); err != nil {
		return err
	}
	u.log.Info("document reconciled from customs",
		zap.String("document_id", d.DocumentID),
		zap.String("to", string(next)))
	return nil
}

func (u *Usecase) mutate(ctx context.Context, mappingID string, fn func(r uow.Repos, m *domain.Mapping) error) (*MappingDTO, error) {
	var out *MappingDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		m, err := r.Mappings.GetByMappingIDForUpdate(ctx, mappingID)
		if err != nil {
			return notFound(err)
		}
		before := m.Status
		if err := fn(r, m); err != nil {
			return err
		}
		if m.Status != before {
			if err := r.Mappings.Save(ctx, m); err != nil {
				return err
			}
			u.log.Info("customs mapping status changed",
				zap.String("mapping_id", m.MappingID),
				zap.String("from", string(before)),
				zap.String("to", string(m.Status)))
		}
		out = toDTO(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
