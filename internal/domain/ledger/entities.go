package ledger

import "time"

// SingletonID is the primary key of the one funding pool row.
const SingletonID uint64 = 1

type EntryKind string

const (
	EntryCredit       EntryKind = "credit"
	EntryDisbursement EntryKind = "disbursement"
	EntryRepayment    EntryKind = "repayment"
)

// FundingLedger is the shared pool loans are disbursed from. AvailableBalance never drops below zero.
type FundingLedger struct {
	ID               uint64    `gorm:"primaryKey;column:id;autoIncrement:false" json:"-"`
	AvailableBalance int64     `gorm:"not null;default:0" json:"available_balance"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FundingLedger) TableName() string { return "funding_ledgers" }

// Entry is an append-only journal line. DisbursedLoanID is set only on disbursements,
// so a loan can be disbursed at most once.
type Entry struct {
	ID              uint64    `gorm:"primaryKey;column:id" json:"-"`
	EntryID         string    `gorm:"size:32;uniqueIndex:ux_ledger_entries_entry_id" json:"entry_id"`
	Kind            EntryKind `gorm:"size:16;not null;index:idx_ledger_entries_kind" json:"kind"`
	Reference       string    `gorm:"size:64" json:"reference"`
	DisbursedLoanID *string   `gorm:"size:32;uniqueIndex:ux_ledger_entries_disbursed_loan" json:"-"`
	Amount          int64     `gorm:"not null" json:"amount"`
	BalanceAfter    int64     `gorm:"not null" json:"balance_after"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "ledger_entries" }
