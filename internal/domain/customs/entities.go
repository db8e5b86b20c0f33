package customs

import (
	"time"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusVerified    Status = "verified"
	StatusRejected    Status = "rejected"
	StatusUnderReview Status = "under_review"
)

// DeclarationNumberLen is the fixed ACID length.
const DeclarationNumberLen = 9

var transitions = map[Status][]Status{
	StatusPending:     {StatusVerified, StatusRejected, StatusUnderReview},
	StatusUnderReview: {StatusVerified, StatusRejected},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusRejected, StatusUnderReview:
		return true
	}
	return false
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool { return s == StatusVerified || s == StatusRejected }

// ValidDeclarationNumber reports whether s is exactly nine ASCII digits.
func ValidDeclarationNumber(s string) bool {
	if len(s) != DeclarationNumberLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Mapping binds a document's external anchor reference to a customs declaration number
// and carries its own verification outcome.
type Mapping struct {
	ID                uint64     `gorm:"primaryKey;column:id" json:"-"`
	MappingID         string     `gorm:"size:32;uniqueIndex:ux_customs_mappings_mapping_id" json:"mapping_id"`
	ExternalRef       string     `gorm:"size:128;uniqueIndex:ux_customs_mappings_external_ref" json:"external_ref"`
	DeclarationNumber string     `gorm:"size:9;index:idx_customs_mappings_declaration" json:"declaration_number"`
	OwnerID           string     `gorm:"size:32;index:idx_customs_mappings_owner" json:"owner_id"`
	Status            Status     `gorm:"size:16;index:idx_customs_mappings_status;default:'pending'" json:"status"`
	Reason            string     `gorm:"size:255" json:"reason,omitempty"`
	CustomsData       string     `gorm:"type:text" json:"customs_data,omitempty"`
	VerifiedBy        string     `gorm:"size:64" json:"verified_by,omitempty"`
	VerifiedAt        *time.Time `json:"verified_at,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Mapping) TableName() string { return "customs_mappings" }

// Stats counts mappings per status.
type Stats struct {
	Total       int64 `json:"total"`
	Pending     int64 `json:"pending"`
	Verified    int64 `json:"verified"`
	Rejected    int64 `json:"rejected"`
	UnderReview int64 `json:"under_review"`
}
