package repayment

import (
	"time"

	domain "cargotrace-backend/internal/domain/payment"
)

type PaymentInput struct {
	LoanID  string
	PayerID string
	Amount  int64
}

type ReceiptDTO struct {
	PaymentID      string    `json:"payment_id"`
	LoanID         string    `json:"loan_id"`
	Amount         int64     `json:"amount"`
	RunningBalance int64     `json:"running_balance"`
	LoanStatus     string    `json:"loan_status"`
	PaidAt         time.Time `json:"paid_at"`
}

type PaymentDTO struct {
	PaymentID      string    `json:"payment_id"`
	PayerID        string    `json:"payer_id"`
	Amount         int64     `json:"amount"`
	RunningBalance int64     `json:"running_balance"`
	PaidAt         time.Time `json:"paid_at"`
}

type BalanceDTO struct {
	LoanID       string `json:"loan_id"`
	Principal    int64  `json:"principal"`
	RepaidAmount int64  `json:"repaid_amount"`
	Remaining    int64  `json:"remaining"`
}

type ScheduleDTO struct {
	LoanID         string    `json:"loan_id"`
	Status         string    `json:"status"`
	RepaymentDueAt time.Time `json:"repayment_due_at"`
	DaysUntilDue   int       `json:"days_until_due"`
	Overdue        bool      `json:"overdue"`
	Remaining      int64     `json:"remaining"`
}

func toPaymentDTO(p *domain.Payment) PaymentDTO {
	return PaymentDTO{
		PaymentID:      p.PaymentID,
		PayerID:        p.PayerID,
		Amount:         p.Amount,
		RunningBalance: p.RunningBalance,
		PaidAt:         p.PaidAt,
	}
}
