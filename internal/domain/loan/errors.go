package loan

import "cargotrace-backend/internal/domain/shared"

var (
	ErrNotFound               = shared.NewDomainError(shared.KindNotFound, "loan_not_found", "loan not found")
	ErrInvalidValue           = shared.NewDomainError(shared.KindValidation, "invalid_value", "principal must be greater than zero")
	ErrInvalidDueDate         = shared.NewDomainError(shared.KindValidation, "invalid_due_date", "repayment due date must be in the future")
	ErrCollateralIneligible   = shared.NewDomainError(shared.KindState, "collateral_ineligible", "document must be approved and NFT minted before requesting a loan")
	ErrExceedsLoanToValue     = shared.NewDomainError(shared.KindValidation, "exceeds_loan_to_value", "loan amount cannot exceed 80% of document value")
	ErrDocumentAlreadyPledged = shared.NewDomainError(shared.KindState, "document_already_pledged", "document already backs an outstanding loan")
	ErrInvalidStatus          = shared.NewDomainError(shared.KindValidation, "invalid_status", "unknown loan status")
	ErrInvalidTransition      = shared.NewDomainError(shared.KindState, "invalid_transition", "loan status does not allow this transition")
	ErrNotOverdue             = shared.NewDomainError(shared.KindState, "not_overdue", "loan is not past its repayment date")
	ErrLoanNotActive          = shared.NewDomainError(shared.KindState, "loan_not_active", "loan is not active")
	ErrOverPayment            = shared.NewDomainError(shared.KindState, "over_payment", "payment exceeds the remaining balance")
	ErrNotBorrower            = shared.NewDomainError(shared.KindForbidden, "not_borrower", "only the loan borrower can repay")
)
