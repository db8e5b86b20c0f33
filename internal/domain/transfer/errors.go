package transfer

import "cargotrace-backend/internal/domain/shared"

var (
	ErrInvalidTxHash = shared.NewDomainError(shared.KindValidation, "invalid_tx_hash", "tx hash must be 0x followed by 64 hex characters")
	ErrInvalidEvent  = shared.NewDomainError(shared.KindValidation, "invalid_event", "transfer event is missing contract or recipient")
)
