package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending         Status = "pending"
	StatusApproved        Status = "approved"
	StatusTransferPending Status = "transfer_pending"
	StatusTransferFailed  Status = "transfer_failed"
	StatusActive          Status = "active"
	StatusRepaid          Status = "repaid"
	StatusDefaulted       Status = "defaulted"
	StatusRejected        Status = "rejected"
)

// LTVPercent is the loan-to-value ceiling applied to a document's declared value.
const LTVPercent = 80

// DefaultInterestRate is the annual rate in percent assigned at origination.
var DefaultInterestRate = decimal.RequireFromString("4.5")

var transitions = map[Status][]Status{
	StatusPending:         {StatusApproved, StatusRejected},
	StatusApproved:        {StatusActive, StatusTransferPending, StatusTransferFailed},
	StatusTransferPending: {StatusActive, StatusTransferPending, StatusTransferFailed},
	StatusTransferFailed:  {StatusActive, StatusTransferPending, StatusTransferFailed},
	StatusActive:          {StatusRepaid, StatusDefaulted},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusTransferPending, StatusTransferFailed,
		StatusActive, StatusRepaid, StatusDefaulted, StatusRejected:
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

// Terminal statuses release the pledged document.
func (s Status) Terminal() bool {
	return s == StatusRepaid || s == StatusDefaulted || s == StatusRejected
}

// AwaitingDisbursement: approved but funds not yet moved.
func (s Status) AwaitingDisbursement() bool {
	return s == StatusApproved || s == StatusTransferPending || s == StatusTransferFailed
}

// NonTerminalStatuses lists every status that keeps a document pledged.
func NonTerminalStatuses() []Status {
	return []Status{StatusPending, StatusApproved, StatusTransferPending, StatusTransferFailed, StatusActive}
}

// MaxPrincipal returns floor(value * 80 / 100) without overflowing for large values.
func MaxPrincipal(declaredValue int64) int64 {
	if declaredValue <= 0 {
		return 0
	}
	return declaredValue/100*LTVPercent + declaredValue%100*LTVPercent/100
}

type Loan struct {
	ID              uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID          string          `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	DocumentID      string          `gorm:"size:32;index:idx_loans_document_status" json:"document_id"`
	BorrowerID      string          `gorm:"size:32;index:idx_loans_borrower" json:"borrower_id"`
	Principal       int64           `gorm:"not null" json:"principal"`
	InterestRate    decimal.Decimal `gorm:"type:decimal(6,4)" json:"interest_rate"`
	RepaidAmount    int64           `gorm:"not null;default:0" json:"repaid_amount"`
	Status          Status          `gorm:"size:24;index:idx_loans_document_status;default:'pending'" json:"status"`
	FailureReason   string          `gorm:"size:255" json:"failure_reason,omitempty"`
	DisbursementRef string          `gorm:"size:32" json:"disbursement_ref,omitempty"`
	RepaymentDueAt  time.Time       `json:"repayment_due_at"`
	DisbursedAt     *time.Time      `json:"disbursed_at,omitempty"`
	RepaidAt        *time.Time      `json:"repaid_at,omitempty"`
	StatusUpdatedAt time.Time       `json:"status_updated_at"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// TransitionTo moves the loan along the lifecycle or returns ErrInvalidTransition.
func (l *Loan) TransitionTo(next Status, at time.Time) error {
	if !l.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	l.Status = next
	l.StatusUpdatedAt = at.UTC()
	return nil
}

// Outstanding is the unpaid part of the obligation, fixed at the principal.
func (l *Loan) Outstanding() int64 { return l.Principal - l.RepaidAmount }

// ProjectedInterest is informational: principal * rate / 100, rounded to whole units.
func (l *Loan) ProjectedInterest() decimal.Decimal {
	return decimal.NewFromInt(l.Principal).Mul(l.InterestRate).Div(decimal.NewFromInt(100)).Round(0)
}

// Overdue reports whether an active loan is past its due date at now.
func (l *Loan) Overdue(now time.Time) bool {
	return l.Status == StatusActive && now.After(l.RepaymentDueAt)
}
