package approval

import (
	"time"
)

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

func (d Decision) Valid() bool { return d == DecisionApproved || d == DecisionRejected }

// Approval records the officer decision on a loan request.
// Table: loan_decisions. At most one row per loan (unique loan_id).
type Approval struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	ApprovalID string    `gorm:"column:approval_id;type:char(32);not null;uniqueIndex:ux_loan_decisions_approval_id"`
	LoanID     uint64    `gorm:"column:loan_id;not null;uniqueIndex:ux_loan_decisions_loan"`
	LoanRef    string    `gorm:"column:loan_ref;type:char(32);not null"`
	Decision   Decision  `gorm:"column:decision;size:16;not null"`
	Reason     string    `gorm:"column:reason;size:255"`
	DecidedBy  string    `gorm:"column:decided_by;size:64;index:idx_loan_decisions_decider"`
	DecidedAt  time.Time `gorm:"column:decided_at;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Approval) TableName() string { return "loan_decisions" }
