package ledgermock

import (
	"context"
	"errors"
	"testing"

	domain "cargotrace-backend/internal/domain/ledger"
)

func TestRepo_Debit(t *testing.T) {
	ctx := context.Background()

	m := &Repo{
		DebitFn: func(_ context.Context, amount int64) (int64, error) {
			if amount != 300 {
				t.Fatalf("Debit amount mismatch: got %d", amount)
			}
			return 700, nil
		},
	}
	bal, err := m.Debit(ctx, 300)
	if err != nil || bal != 700 {
		t.Fatalf("Debit: got (%d, %v)", bal, err)
	}

	m = &Repo{DebitFn: func(context.Context, int64) (int64, error) { return 0, domain.ErrInsufficientFunds }}
	if _, err := m.Debit(ctx, 1); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("Debit: want ErrInsufficientFunds, got %v", err)
	}

	// Default (nil func) → context.Canceled
	m = &Repo{}
	if _, err := m.Debit(ctx, 1); err != context.Canceled {
		t.Fatalf("Debit default: want context.Canceled, got %v", err)
	}
}

func TestRepo_Defaults(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}

	if err := m.Ensure(ctx); err != nil {
		t.Fatalf("Ensure default: want nil, got %v", err)
	}
	if err := m.AppendEntry(ctx, &domain.Entry{}); err != nil {
		t.Fatalf("AppendEntry default: want nil, got %v", err)
	}
	if _, err := m.Balance(ctx); err != context.Canceled {
		t.Fatalf("Balance default: want context.Canceled, got %v", err)
	}
	if _, err := m.Credit(ctx, 5); err != context.Canceled {
		t.Fatalf("Credit default: want context.Canceled, got %v", err)
	}
	if _, err := m.ListEntries(ctx, 10); err != context.Canceled {
		t.Fatalf("ListEntries default: want context.Canceled, got %v", err)
	}
}
