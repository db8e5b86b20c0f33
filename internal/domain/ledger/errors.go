package ledger

import "cargotrace-backend/internal/domain/shared"

var (
	ErrInsufficientFunds = shared.NewDomainError(shared.KindResource, "insufficient_funds", "funding ledger balance is insufficient")
	ErrInvalidAmount     = shared.NewDomainError(shared.KindValidation, "invalid_value", "amount must be greater than zero")
	ErrNotInitialized    = shared.NewDomainError(shared.KindInternal, "ledger_not_initialized", "funding ledger is not initialized")
	ErrAlreadyDisbursed  = shared.NewDomainError(shared.KindState, "already_disbursed", "loan has already been disbursed")
)
