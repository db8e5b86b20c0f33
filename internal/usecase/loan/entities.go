package loan

import (
	"time"

	domainApproval "cargotrace-backend/internal/domain/approval"
	domain "cargotrace-backend/internal/domain/loan"

	"github.com/shopspring/decimal"
)

type RequestInput struct {
	BorrowerID     string
	DocumentID     string
	Principal      int64
	RepaymentDueAt time.Time
}

// MaxDecisionsLimit caps ListDecisions.
const MaxDecisionsLimit = 200

type DecisionDTO struct {
	ApprovalID string    `json:"approval_id"`
	LoanID     string    `json:"loan_id"`
	Decision   string    `json:"decision"`
	Reason     string    `json:"reason,omitempty"`
	DecidedBy  string    `json:"decided_by,omitempty"`
	DecidedAt  time.Time `json:"decided_at"`
}

type LoanDTO struct {
	LoanID            string          `json:"loan_id"`
	DocumentID        string          `json:"document_id"`
	BorrowerID        string          `json:"borrower_id"`
	Principal         int64           `json:"principal"`
	InterestRate      decimal.Decimal `json:"interest_rate"`
	ProjectedInterest decimal.Decimal `json:"projected_interest"`
	RepaidAmount      int64           `json:"repaid_amount"`
	Outstanding       int64           `json:"outstanding"`
	Status            string          `json:"status"`
	FailureReason     string          `json:"failure_reason,omitempty"`
	DisbursementRef   string          `json:"disbursement_ref,omitempty"`
	RepaymentDueAt    time.Time       `json:"repayment_due_at"`
	DisbursedAt       *time.Time      `json:"disbursed_at,omitempty"`
	RepaidAt          *time.Time      `json:"repaid_at,omitempty"`
	StatusUpdatedAt   time.Time       `json:"status_updated_at"`
	CreatedAt         time.Time       `json:"created_at"`
	Decision          *DecisionDTO    `json:"decision,omitempty"`
}

type StatusDTO struct {
	LoanID          string    `json:"loan_id"`
	Status          string    `json:"status"`
	StatusUpdatedAt time.Time `json:"status_updated_at"`
}

func toDTO(l *domain.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:            l.LoanID,
		DocumentID:        l.DocumentID,
		BorrowerID:        l.BorrowerID,
		Principal:         l.Principal,
		InterestRate:      l.InterestRate,
		ProjectedInterest: l.ProjectedInterest(),
		RepaidAmount:      l.RepaidAmount,
		Outstanding:       l.Outstanding(),
		Status:            string(l.Status),
		FailureReason:     l.FailureReason,
		DisbursementRef:   l.DisbursementRef,
		RepaymentDueAt:    l.RepaymentDueAt,
		DisbursedAt:       l.DisbursedAt,
		RepaidAt:          l.RepaidAt,
		StatusUpdatedAt:   l.StatusUpdatedAt,
		CreatedAt:         l.CreatedAt,
	}
}

func toDTOs(ls []domain.Loan) []LoanDTO {
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, *toDTO(&ls[i]))
	}
	return out
}

func toDecisionDTO(a *domainApproval.Approval) *DecisionDTO {
	return &DecisionDTO{
		ApprovalID: a.ApprovalID,
		LoanID:     a.LoanRef,
		Decision:   string(a.Decision),
		Reason:     a.Reason,
		DecidedBy:  a.DecidedBy,
		DecidedAt:  a.DecidedAt,
	}
}
