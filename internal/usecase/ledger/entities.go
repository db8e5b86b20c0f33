package ledger

import (
	"time"

	domain "cargotrace-backend/internal/domain/ledger"
)

const (
	DefaultEntriesLimit = 50
	MaxEntriesLimit     = 500

	// SeedReference marks the startup credit of an empty ledger.
	SeedReference = "seed"
)

type EntryDTO struct {
	EntryID      string    `json:"entry_id"`
	Kind         string    `json:"kind"`
	Reference    string    `json:"reference"`
	Amount       int64     `json:"amount"`
	BalanceAfter int64     `json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}

type BalanceDTO struct {
	AvailableBalance int64 `json:"available_balance"`
}

func toEntryDTO(e *domain.Entry) *EntryDTO {
	return &EntryDTO{
		EntryID:      e.EntryID,
		Kind:         string(e.Kind),
		Reference:    e.Reference,
		Amount:       e.Amount,
		BalanceAfter: e.BalanceAfter,
		CreatedAt:    e.CreatedAt,
	}
}
