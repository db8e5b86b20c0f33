package document

import (
	"time"

	domain "cargotrace-backend/internal/domain/document"
)

type SubmitInput struct {
	OwnerID       string
	ExternalRef   string
	DeclaredValue int64
}

type DocumentDTO struct {
	DocumentID      string    `json:"document_id"`
	OwnerID         string    `json:"owner_id"`
	ExternalRef     string    `json:"external_ref"`
	DeclaredValue   int64     `json:"declared_value"`
	MaxLoanAmount   int64     `json:"max_loan_amount"`
	Status          string    `json:"status"`
	RejectReason    string    `json:"reject_reason,omitempty"`
	StatusUpdatedAt time.Time `json:"status_updated_at"`
	CreatedAt       time.Time `json:"created_at"`
}

// TriggerResult is one line of a batch lending trigger.
type TriggerResult struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status,omitempty"`
	Error      string `json:"error,omitempty"`
}

func toDTO(d *domain.TradeDocument, maxLoan func(int64) int64) *DocumentDTO {
	return &DocumentDTO{
		DocumentID:      d.DocumentID,
		OwnerID:         d.OwnerID,
		ExternalRef:     d.ExternalRef,
		DeclaredValue:   d.DeclaredValue,
		MaxLoanAmount:   maxLoan(d.DeclaredValue),
		Status:          string(d.Status),
		RejectReason:    d.RejectReason,
		StatusUpdatedAt: d.StatusUpdatedAt,
		CreatedAt:       d.CreatedAt,
	}
}
