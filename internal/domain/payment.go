package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus enumerates payment states. Rows are written COMPLETED and
// never mutated afterwards; the ledger is append-only.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
)

// Payment is one applied payment against a loan.
type Payment struct {
	ID          uuid.UUID       `json:"id"`
	LoanID      uuid.UUID       `json:"loan_id"`
	PaymentDate time.Time       `json:"payment_date"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	Status      PaymentStatus   `json:"status"`
}

// PaymentRequest is the payload accepted by the payment endpoint.
// PaymentDate is a calendar date in YYYY-MM-DD form.
type PaymentRequest struct {
	LoanID      uuid.UUID       `json:"loan_id"`
	PaymentDate string          `json:"payment_date"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
}

// PaymentResponse is returned after a payment has been applied.
type PaymentResponse struct {
	PaymentID          uuid.UUID       `json:"payment_id"`
	Status             PaymentStatus   `json:"status"`
	RemainingPrincipal decimal.Decimal `json:"remaining_principal"`
}

// PaymentSummary is the per-payment line item of a statement.
type PaymentSummary struct {
	PaymentDate time.Time       `json:"payment_date"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
}

// LoanStatement is the per-loan view assembled by the statement reporter.
type LoanStatement struct {
	LoanID               uuid.UUID        `json:"loan_id"`
	LoanType             LoanType         `json:"loan_type"`
	LoanAmount           decimal.Decimal  `json:"loan_amount"`
	InterestRate         decimal.Decimal  `json:"interest_rate"`
	Status               LoanStatus       `json:"status"`
	Payments             []PaymentSummary `json:"payments"`
	NextBillingDate      time.Time        `json:"next_billing_date"`
	OutstandingPrincipal decimal.Decimal  `json:"outstanding_principal"`
}
