package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	customsDomain "cargotrace-backend/internal/domain/customs"
	domain "cargotrace-backend/internal/domain/verification"
	customsUC "cargotrace-backend/internal/usecase/customs"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds a single authority lookup.
const DefaultTimeout = 3 * time.Second

// Customs is the part of the linkage service the engine drives.
type Customs interface {
	Get(ctx context.Context, mappingID string) (*customsUC.MappingDTO, error)
	Verify(ctx context.Context, mappingID string, in customsUC.VerifyInput) (*customsUC.MappingDTO, error)
	Reject(ctx context.Context, mappingID, reason string) (*customsUC.MappingDTO, error)
	MarkUnderReview(ctx context.Context, mappingID string) (*customsUC.MappingDTO, error)
}

type Usecase struct {
	customs   Customs
	authority domain.Authority
	cache     domain.Cache
	timeout   time.Duration
	group     singleflight.Group
	log       *zap.Logger
	now       func() time.Time
}

type Option func(*Usecase)

func WithCache(c domain.Cache) Option { return func(u *Usecase) { u.cache = c } }

func WithTimeout(d time.Duration) Option {
	return func(u *Usecase) {
		if d > 0 {
			u.timeout = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(u *Usecase) {
		if l != nil {
			u.log = l
		}
	}
}

func NewUsecase(customs Customs, authority domain.Authority, opts ...Option) *Usecase {
	u := &Usecase{
		customs:   customs,
		authority: authority,
		timeout:   DefaultTimeout,
		log:       zap.NewNop(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// Check runs the automated verification for one mapping.
// Decided mappings are returned as they are; an unreachable authority leaves the mapping untouched.
func (u *Usecase) Check(ctx context.Context, mappingID, actor string) (*customsUC.MappingDTO, error) {
	m, err := u.customs.Get(ctx, mappingID)
	if err != nil {
		return nil, err
	}
	if customsDomain.Status(m.Status).Terminal() {
		return m, nil
	}
	if !customsDomain.ValidDeclarationNumber(m.DeclarationNumber) {
		return nil, customsDomain.ErrInvalidFormat
	}

	v, err := u.resolve(ctx, m.DeclarationNumber)
	if err != nil {
		u.log.Warn("authority lookup unresolved",
			zap.String("mapping_id", mappingID),
			zap.String("declaration_number", m.DeclarationNumber),
			zap.Error(err))
		return nil, err
	}
	u.log.Info("authority outcome",
		zap.String("mapping_id", mappingID),
		zap.String("outcome", string(v.Outcome)))

	switch v.Outcome {
	case domain.OutcomeConfirmed:
		return u.customs.Verify(ctx, mappingID, customsUC.VerifyInput{VerifiedBy: actor, CustomsData: v.CustomsData})
	case domain.OutcomeNotFound:
		return u.customs.Reject(ctx, mappingID, "declaration not found in customs registry")
	case domain.OutcomeNeedsReview:
		return u.customs.MarkUnderReview(ctx, mappingID)
	}
	return nil, fmt.Errorf("%w: unexpected outcome %q", domain.ErrAuthorityUnavailable, v.Outcome)
}

// Validate answers whether a declaration number is known to the authority.
func (u *Usecase) Validate(ctx context.Context, number string) (*domain.Validation, error) {
	if !customsDomain.ValidDeclarationNumber(number) {
		return &domain.Validation{Number: number, Valid: false, ValidatedAt: u.now()}, nil
	}
	return u.resolve(ctx, number)
}

func (u *Usecase) resolve(ctx context.Context, number string) (*domain.Validation, error) {
	if u.cache != nil {
		if v, err := u.cache.Get(ctx, number); err != nil {
			u.log.Warn("validation cache read failed", zap.String("declaration_number", number), zap.Error(err))
		} else if v != nil {
			return v, nil
		}
	}

	res, err, _ := u.group.Do(number, func() (any, error) {
		lctx, cancel := context.WithTimeout(ctx, u.timeout)
		defer cancel()
		return u.authority.Lookup(lctx, number)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrAuthorityUnavailable, ctx.Err())
		}
		if !errors.Is(err, domain.ErrAuthorityUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrAuthorityUnavailable, err)
		}
		return nil, err
	}
	r := res.(domain.Result)

	v := &domain.Validation{
		Number:      number,
		Valid:       r.Outcome == domain.OutcomeConfirmed,
		Outcome:     r.Outcome,
		CustomsData: r.CustomsData,
		ValidatedAt: u.now(),
	}
	if u.cache != nil && r.Outcome.Definitive() {
		if err := u.cache.Set(ctx, v); err != nil {
			u.log.Warn("validation cache write failed", zap.String("declaration_number", number), zap.Error(err))
		}
	}
	return v, nil
}
