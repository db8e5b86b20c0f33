package customs

import (
	"time"

	domain "cargotrace-backend/internal/domain/customs"
)

type LinkInput struct {
	OwnerID           string
	ExternalRef       string
	DeclarationNumber string
}

type VerifyInput struct {
	VerifiedBy  string
	CustomsData string
}

type MappingDTO struct {
	MappingID         string     `json:"mapping_id"`
	ExternalRef       string     `json:"external_ref"`
	DeclarationNumber string     `json:"declaration_number"`
	OwnerID           string     `json:"owner_id"`
	Status            string     `json:"status"`
	Reason            string     `json:"reason,omitempty"`
	CustomsData       string     `json:"customs_data,omitempty"`
	VerifiedBy        string     `json:"verified_by,omitempty"`
	VerifiedAt        *time.Time `json:"verified_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func toDTO(m *domain.Mapping) *MappingDTO {
	return &MappingDTO{
		MappingID:         m.MappingID,
		ExternalRef:       m.ExternalRef,
		DeclarationNumber: m.DeclarationNumber,
		OwnerID:           m.OwnerID,
		Status:            string(m.Status),
		Reason:            m.Reason,
		CustomsData:       m.CustomsData,
		VerifiedBy:        m.VerifiedBy,
		VerifiedAt:        m.VerifiedAt,
		CreatedAt:         m.CreatedAt,
	}
}

func toDTOs(ms []domain.Mapping) []MappingDTO {
	out := make([]MappingDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *toDTO(&ms[i]))
	}
	return out
}
