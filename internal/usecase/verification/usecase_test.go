package verification

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cargotrace-backend/internal/adapter/repository/mysql"
	customsDomain "cargotrace-backend/internal/domain/customs"
	docDomain "cargotrace-backend/internal/domain/document"
	"cargotrace-backend/internal/domain/shared"
	domain "cargotrace-backend/internal/domain/verification"
	"cargotrace-backend/internal/testutil/testdb"
	customsUC "cargotrace-backend/internal/usecase/customs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const owner = "0123456789abcdef0123456789abcdef"

type authorityFunc func(ctx context.Context, number string) (domain.Result, error)

func (f authorityFunc) Lookup(ctx context.Context, number string) (domain.Result, error) {
	return f(ctx, number)
}

type memCache struct {
	mu   sync.Mutex
	m    map[string]*domain.Validation
	sets int
}

func newMemCache() *memCache { return &memCache{m: map[string]*domain.Validation{}} }

func (c *memCache) Get(_ context.Context, number string) (*domain.Validation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m[number], nil
}

func (c *memCache) Set(_ context.Context, v *domain.Validation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[v.Number] = v
	c.sets++
	return nil
}

type fixture struct {
	docs    *mysql.DocumentRepository
	customs *customsUC.Usecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)
	docs := mysql.NewDocumentRepository(db)
	return &fixture{
		docs:    docs,
		customs: customsUC.NewUsecase(mysql.NewCustomsRepository(db), docs, mysql.NewGormUoW(db), nil),
	}
}

func (f *fixture) mapping(t *testing.T, ref, number string) *customsUC.MappingDTO {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.docs.Create(ctx, &docDomain.TradeDocument{
		DocumentID:      ref + "-doc",
		OwnerID:         owner,
		ExternalRef:     ref,
		DeclaredValue:   10_000,
		Status:          docDomain.StatusPending,
		StatusUpdatedAt: time.Now().UTC(),
	}))
	m, err := f.customs.Link(ctx, customsUC.LinkInput{OwnerID: owner, ExternalRef: ref, DeclarationNumber: number})
	require.NoError(t, err)
	return m
}

func (f *fixture) docStatus(t *testing.T, ref string) docDomain.Status {
	t.Helper()
	d, err := f.docs.GetByExternalRef(context.Background(), ref)
	require.NoError(t, err)
	return d.Status
}

func outcome(o domain.Outcome) domain.Authority {
	return authorityFunc(func(context.Context, string) (domain.Result, error) {
		return domain.Result{Outcome: o, CustomsData: `{"src":"test"}`}, nil
	})
}

func TestCheck_AppliesOutcome(t *testing.T) {
	cases := []struct {
		name    string
		outcome domain.Outcome
		mapping customsDomain.Status
		doc     docDomain.Status
	}{
		{"confirmed", domain.OutcomeConfirmed, customsDomain.StatusVerified, docDomain.StatusVerified},
		{"not found", domain.OutcomeNotFound, customsDomain.StatusRejected, docDomain.StatusRejected},
		{"needs review", domain.OutcomeNeedsReview, customsDomain.StatusUnderReview, docDomain.StatusPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			m := f.mapping(t, "ref", "123456789")
			uc := NewUsecase(f.customs, outcome(tc.outcome))

			got, err := uc.Check(context.Background(), m.MappingID, "auto-checker")
			require.NoError(t, err)
			assert.Equal(t, string(tc.mapping), got.Status)
			assert.Equal(t, tc.doc, f.docStatus(t, "ref"))
		})
	}
}

func TestCheck_TerminalIsNoOp(t *testing.T) {
	f := newFixture(t)
	m := f.mapping(t, "ref", "123456789")
	_, err := f.customs.Reject(context.Background(), m.MappingID, "manual")
	require.NoError(t, err)

	uc := NewUsecase(f.customs, authorityFunc(func(context.Context, string) (domain.Result, error) {
		t.Fatalf("authority must not be called for a decided mapping")
		return domain.Result{}, nil
	}))
	got, err := uc.Check(context.Background(), m.MappingID, "auto")
	require.NoError(t, err)
	assert.Equal(t, string(customsDomain.StatusRejected), got.Status)
}

func TestCheck_UnavailableLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	m := f.mapping(t, "ref", "123456789")

	uc := NewUsecase(f.customs, authorityFunc(func(context.Context, string) (domain.Result, error) {
		return domain.Result{}, errors.New("connection refused")
	}))
	_, err := uc.Check(context.Background(), m.MappingID, "auto")
	require.ErrorIs(t, err, domain.ErrAuthorityUnavailable)
	assert.Equal(t, shared.KindExternal, shared.KindOf(err))

	got, err := f.customs.Get(context.Background(), m.MappingID)
	require.NoError(t, err)
	assert.Equal(t, string(customsDomain.StatusPending), got.Status)
	assert.Equal(t, docDomain.StatusPending, f.docStatus(t, "ref"))
}

func TestCheck_TimeoutIsBounded(t *testing.T) {
	f := newFixture(t)
	m := f.mapping(t, "ref", "123456789")

	uc := NewUsecase(f.customs, authorityFunc(func(ctx context.Context, _ string) (domain.Result, error) {
		<-ctx.Done()
		return domain.Result{}, ctx.Err()
	}), WithTimeout(20*time.Millisecond))

	start := time.Now()
	_, err := uc.Check(context.Background(), m.MappingID, "auto")
	require.ErrorIs(t, err, domain.ErrAuthorityUnavailable)
	assert.Less(t, time.Since(start), 2*time.Second)

	got, err := f.customs.Get(context.Background(), m.MappingID)
	require.NoError(t, err)
	assert.Equal(t, string(customsDomain.StatusPending), got.Status)
}

func TestCheck_CallerCancelledIsUnavailable(t *testing.T) {
	f := newFixture(t)
	m := f.mapping(t, "ref", "123456789")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	uc := NewUsecase(f.customs, authorityFunc(func(lctx context.Context, _ string) (domain.Result, error) {
		cancel()
		<-lctx.Done()
		return domain.Result{}, lctx.Err()
	}))

	_, err := uc.Check(ctx, m.MappingID, "auto")
	require.ErrorIs(t, err, domain.ErrAuthorityUnavailable)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, shared.KindExternal, shared.KindOf(err))

	got, err := f.customs.Get(context.Background(), m.MappingID)
	require.NoError(t, err)
	assert.Equal(t, string(customsDomain.StatusPending), got.Status)
}

func TestCheck_MappingNotFound(t *testing.T) {
	f := newFixture(t)
	uc := NewUsecase(f.customs, outcome(domain.OutcomeConfirmed))
	_, err := uc.Check(context.Background(), "ffffffffffffffffffffffffffffffff", "auto")
	require.ErrorIs(t, err, customsDomain.ErrNotFound)
}

func TestValidate_CachesDefinitiveResults(t *testing.T) {
	var calls atomic.Int32
	cache := newMemCache()
	uc := NewUsecase(nil, authorityFunc(func(_ context.Context, number string) (domain.Result, error) {
		calls.Add(1)
		switch number {
		case "123456789":
			return domain.Result{Outcome: domain.OutcomeConfirmed}, nil
		case "555555555":
			return domain.Result{Outcome: domain.OutcomeNeedsReview}, nil
		}
		return domain.Result{Outcome: domain.OutcomeNotFound}, nil
	}), WithCache(cache))
	ctx := context.Background()

	v, err := uc.Validate(ctx, "123456789")
	require.NoError(t, err)
	assert.True(t, v.Valid)
	_, err = uc.Validate(ctx, "123456789")
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())

	v, err = uc.Validate(ctx, "000000000")
	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Equal(t, domain.OutcomeNotFound, v.Outcome)

	// review answers are never cached
	_, err = uc.Validate(ctx, "555555555")
	require.NoError(t, err)
	_, err = uc.Validate(ctx, "555555555")
	require.NoError(t, err)
	assert.EqualValues(t, 4, calls.Load())
	assert.Equal(t, 2, cache.sets)
}

func TestValidate_BadFormatSkipsAuthority(t *testing.T) {
	uc := NewUsecase(nil, authorityFunc(func(context.Context, string) (domain.Result, error) {
		t.Fatalf("authority must not be called for a malformed number")
		return domain.Result{}, nil
	}))
	v, err := uc.Validate(context.Background(), "12ab")
	require.NoError(t, err)
	assert.False(t, v.Valid)
}

func TestValidate_CollapsesConcurrentLookups(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	uc := NewUsecase(nil, authorityFunc(func(context.Context, string) (domain.Result, error) {
		calls.Add(1)
		<-release
		return domain.Result{Outcome: domain.OutcomeConfirmed}, nil
	}))

	var g errgroup.Group
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			_, err := uc.Validate(context.Background(), "987654321")
			return err
		})
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	require.NoError(t, g.Wait())
	assert.EqualValues(t, 1, calls.Load())
}
