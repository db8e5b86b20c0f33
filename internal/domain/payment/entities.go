package payment

import "time"

type Payment struct {
	ID             uint64    `gorm:"primaryKey;column:id" json:"-"`
	PaymentID      string    `gorm:"size:32;uniqueIndex:ux_loan_payments_payment_id" json:"payment_id"`
	LoanID         uint64    `gorm:"not null;index:idx_loan_payments_loan" json:"-"`
	PayerID        string    `gorm:"size:32" json:"payer_id"`
	Amount         int64     `gorm:"not null" json:"amount"`
	RunningBalance int64     `gorm:"not null" json:"running_balance"`
	PaidAt         time.Time `gorm:"not null" json:"paid_at"`
}

func (Payment) TableName() string { return "loan_payments" }
