package document

import "cargotrace-backend/internal/domain/shared"

var (
	ErrNotFound             = shared.NewDomainError(shared.KindNotFound, "document_not_found", "document not found")
	ErrInvalidValue         = shared.NewDomainError(shared.KindValidation, "invalid_value", "declared value must be greater than zero")
	ErrInvalidExternalRef   = shared.NewDomainError(shared.KindValidation, "invalid_external_ref", "external reference must be 1-128 characters")
	ErrDuplicateExternalRef = shared.NewDomainError(shared.KindState, "duplicate_external_ref", "a document already claims this external reference")
	ErrInvalidStatus        = shared.NewDomainError(shared.KindValidation, "invalid_status", "unknown document status")
	ErrNotOwner             = shared.NewDomainError(shared.KindForbidden, "not_owner", "only the document owner can reject it")
	ErrInvalidTransition    = shared.NewDomainError(shared.KindState, "invalid_transition", "document status does not allow this transition")
)
