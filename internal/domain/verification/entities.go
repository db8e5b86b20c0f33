package verification

import (
	"context"
	"time"
)

// Outcome is what the customs authority said about a declaration number.
type Outcome string

const (
	OutcomeConfirmed   Outcome = "confirmed"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeNeedsReview Outcome = "needs_review"
)

// Definitive outcomes can be cached; a review request cannot.
func (o Outcome) Definitive() bool { return o == OutcomeConfirmed || o == OutcomeNotFound }

type Result struct {
	Outcome     Outcome
	CustomsData string
}

// Authority resolves declaration numbers against the customs registry.
// An error wrapping ErrAuthorityUnavailable means the number is unresolved.
type Authority interface {
	Lookup(ctx context.Context, number string) (Result, error)
}

// Validation is a cached authority answer for one declaration number.
type Validation struct {
	Number      string    `json:"number"`
	Valid       bool      `json:"valid"`
	Outcome     Outcome   `json:"outcome"`
	CustomsData string    `json:"customs_data,omitempty"`
	ValidatedAt time.Time `json:"validated_at"`
}

// Cache stores definitive validations. A miss is (nil, nil).
type Cache interface {
	Get(ctx context.Context, number string) (*Validation, error)
	Set(ctx context.Context, v *Validation) error
}
