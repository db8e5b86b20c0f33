package document

import (
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusVerified  Status = "verified"
	StatusNftMinted Status = "nft_minted"
	StatusRejected  Status = "rejected"
)

// MaxExternalRefLen bounds the anchor hash column.
const MaxExternalRefLen = 128

var transitions = map[Status][]Status{
	StatusPending:  {StatusVerified, StatusNftMinted, StatusRejected},
	StatusVerified: {StatusNftMinted},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusNftMinted, StatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is a legal forward step from s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool { return s == StatusNftMinted || s == StatusRejected }

// CollateralEligible: only minted documents back a loan.
func (s Status) CollateralEligible() bool { return s == StatusNftMinted }

type TradeDocument struct {
	ID              uint64    `gorm:"primaryKey;column:id" json:"-"`
	DocumentID      string    `gorm:"size:32;uniqueIndex:ux_documents_document_id" json:"document_id"`
	OwnerID         string    `gorm:"size:32;index:idx_documents_owner" json:"owner_id"`
	ExternalRef     string    `gorm:"size:128;uniqueIndex:ux_documents_external_ref" json:"external_ref"`
	DeclaredValue   int64     `gorm:"not null" json:"declared_value"`
	Status          Status    `gorm:"size:16;index:idx_documents_status;default:'pending'" json:"status"`
	RejectReason    string    `gorm:"size:255" json:"reject_reason,omitempty"`
	StatusUpdatedAt time.Time `json:"status_updated_at"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TradeDocument) TableName() string { return "documents" }

// TransitionTo moves the document forward or returns ErrInvalidTransition.
func (d *TradeDocument) TransitionTo(next Status, at time.Time) error {
	if !d.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	d.Status = next
	d.StatusUpdatedAt = at.UTC()
	return nil
}
