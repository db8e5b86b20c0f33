package document

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "cargotrace-backend/internal/domain/document"
	domainLoan "cargotrace-backend/internal/domain/loan"
	"cargotrace-backend/internal/domain/uow"
	"cargotrace-backend/pkg/id"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Usecase struct {
	repo domain.Repository
	uow  uow.UnitOfWork
	log  *zap.Logger
	now  func() time.Time
}

// NewUsecase: reads go through repo, every status change runs inside tx with the row locked.
func NewUsecase(repo domain.Repository, tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: repo, uow: tx, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (u *Usecase) dto(d *domain.TradeDocument) *DocumentDTO { return toDTO(d, domainLoan.MaxPrincipal) }

func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*DocumentDTO, error) {
	if in.DeclaredValue <= 0 {
		return nil, domain.ErrInvalidValue
	}
	ref := strings.TrimSpace(in.ExternalRef)
	if ref == "" || len(ref) > domain.MaxExternalRefLen {
		return nil, domain.ErrInvalidExternalRef
	}

	// fast path; the unique index still decides under a race
	if _, err := u.repo.GetByExternalRef(ctx, ref); err == nil {
		return nil, domain.ErrDuplicateExternalRef
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := u.now()
	d := &domain.TradeDocument{
		DocumentID:      id.NewID32(),
		OwnerID:         in.OwnerID,
		ExternalRef:     ref,
		DeclaredValue:   in.DeclaredValue,
		Status:          domain.StatusPending,
		StatusUpdatedAt: now,
	}
	if err := u.repo.Create(ctx, d); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateExternalRef
		}
		return nil, err
	}
	u.log.Info("document submitted", zap.String("document_id", d.DocumentID), zap.Int64("declared_value", d.DeclaredValue))
	return u.dto(d), nil
}

func (u *Usecase) Get(ctx context.Context, documentID string) (*DocumentDTO, error) {
	d, err := u.repo.GetByDocumentID(ctx, documentID)
	if err != nil {
		return nil, notFound(err)
	}
	return u.dto(d), nil
}

func (u *Usecase) GetByExternalRef(ctx context.Context, ref string) (*DocumentDTO, error) {
	d, err := u.repo.GetByExternalRef(ctx, ref)
	if err != nil {
		return nil, notFound(err)
	}
	return u.dto(d), nil
}

func (u *Usecase) ListByOwner(ctx context.Context, ownerID string) ([]DocumentDTO, error) {
	docs, err := u.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return u.dtos(docs), nil
}

func (u *Usecase) ListAll(ctx context.Context) ([]DocumentDTO, error) {
	docs, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return u.dtos(docs), nil
}

// ListByStatus returns every document currently in status.
func (u *Usecase) ListByStatus(ctx context.Context, status string) ([]DocumentDTO, error) {
	s := domain.Status(status)
	if !s.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	docs, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	kept := docs[:0]
	for _, d := range docs {
		if d.Status == s {
			kept = append(kept, d)
		}
	}
	return u.dtos(kept), nil
}

func (u *Usecase) dtos(docs []domain.TradeDocument) []DocumentDTO {
	out := make([]DocumentDTO, 0, len(docs))
	for i := range docs {
		out = append(out, *u.dto(&docs[i]))
	}
	return out
}

// MarkVerified: pending -> verified. Replaying on a verified document is a no-op.
func (u *Usecase) MarkVerified(ctx context.Context, documentID string) (*DocumentDTO, error) {
	return u.mutate(ctx, documentID, func(d *domain.TradeDocument) error {
		if d.Status == domain.StatusVerified {
			return nil
		}
		return u.transition(d, domain.StatusVerified, d.Status == domain.StatusPending)
	})
}

// MarkNftMinted: verified -> nft_minted only.
func (u *Usecase) MarkNftMinted(ctx context.Context, documentID string) (*DocumentDTO, error) {
	return u.mutate(ctx, documentID, func(d *domain.TradeDocument) error {
		return u.transition(d, domain.StatusNftMinted, d.Status == domain.StatusVerified)
	})
}

// Approve is the administrative path: pending or verified -> nft_minted.
func (u *Usecase) Approve(ctx context.Context, documentID string) (*DocumentDTO, error) {
	return u.mutate(ctx, documentID, func(d *domain.TradeDocument) error {
		return u.transition(d, domain.StatusNftMinted, true)
	})
}

// Reject withdraws a pending document. Only its owner may do so.
func (u *Usecase) Reject(ctx context.Context, documentID, reason, actorID string) (*DocumentDTO, error) {
	return u.mutate(ctx, documentID, func(d *domain.TradeDocument) error {
		if d.OwnerID != actorID {
			return domain.ErrNotOwner
		}
		if err := u.transition(d, domain.StatusRejected, d.Status == domain.StatusPending); err != nil {
			return err
		}
		d.RejectReason = strings.TrimSpace(reason)
		return nil
	})
}

// TriggerLending mints a verified document. Already minted documents are left as is.
func (u *Usecase) TriggerLending(ctx context.Context, documentID string) (*DocumentDTO, error) {
	return u.mutate(ctx, documentID, func(d *domain.TradeDocument) error {
		if d.Status == domain.StatusNftMinted {
			return nil
		}
		return u.transition(d, domain.StatusNftMinted, d.Status == domain.StatusVerified)
	})
}

// BatchTriggerLending runs TriggerLending per id; one failure never aborts the rest.
func (u *Usecase) BatchTriggerLending(ctx context.Context, documentIDs []string) []TriggerResult {
	out := make([]TriggerResult, 0, len(documentIDs))
	for _, docID := range documentIDs {
		dto, err := u.TriggerLending(ctx, docID)
		if err != nil {
			out = append(out, TriggerResult{DocumentID: docID, Error: err.Error()})
			continue
		}
		out = append(out, TriggerResult{DocumentID: docID, Status: dto.Status})
	}
	return out
}

func (u *Usecase) transition(d *domain.TradeDocument, next domain.Status, allowed bool) error {
	if !allowed {
		return domain.ErrInvalidTransition
	}
	return d.TransitionTo(next, u.now())
}

func (u *Usecase) mutate(ctx context.Context, documentID string, fn func(d *domain.TradeDocument) error) (*DocumentDTO, error) {
	var out *DocumentDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		d, err := r.Documents.GetByDocumentIDForUpdate(ctx, documentID)
		if err != nil {
			return notFound(err)
		}
		before := d.Status
		if err := fn(d); err != nil {
			return err
		}
		if d.Status != before {
			if err := r.Documents.Save(ctx, d); err != nil {
				return err
			}
			u.log.Info("document status changed",
				zap.String("document_id", d.DocumentID),
				zap.String("from", string(before)),
				zap.String("to", string(d.Status)))
		}
		out = u.dto(d)
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
