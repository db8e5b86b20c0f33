package customs

import "cargotrace-backend/internal/domain/shared"

var (
	ErrNotFound          = shared.NewDomainError(shared.KindNotFound, "mapping_not_found", "customs mapping not found")
	ErrInvalidFormat     = shared.NewDomainError(shared.KindValidation, "invalid_format", "declaration number must be exactly 9 digits")
	ErrDuplicateMapping  = shared.NewDomainError(shared.KindState, "duplicate_mapping", "external reference is already mapped to a declaration")
	ErrUnknownDocument   = shared.NewDomainError(shared.KindValidation, "unknown_document", "no document owns this external reference")
	ErrInvalidStatus     = shared.NewDomainError(shared.KindValidation, "invalid_status", "unknown mapping status")
	ErrInvalidTransition = shared.NewDomainError(shared.KindState, "invalid_transition", "mapping status does not allow this transition")
)
