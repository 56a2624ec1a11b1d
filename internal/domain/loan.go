/**
 * @description
 * Loan domain model and the application/underwriting DTOs. A loan is created
 * PENDING at application time; the approval workflow that flips it to APPROVED
 * or REJECTED lives outside this service, but both terminal states are modeled
 * because billing and payments each gate on status.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanType enumerates the supported loan products.
type LoanType string

const (
	LoanTypeHome     LoanType = "HOME"
	LoanTypePersonal LoanType = "PERSONAL"
	LoanTypeCar      LoanType = "CAR"
	LoanTypeBusiness LoanType = "BUSINESS"
)

// IsValid reports whether the loan type is one of the supported products.
func (t LoanType) IsValid() bool {
	switch t {
	case LoanTypeHome, LoanTypePersonal, LoanTypeCar, LoanTypeBusiness:
		return true
	}
	return false
}

// LoanStatus enumerates the loan lifecycle. PENDING transitions to APPROVED or
// REJECTED exactly once; both are terminal.
type LoanStatus string

const (
	LoanStatusPending  LoanStatus = "PENDING"
	LoanStatusApproved LoanStatus = "APPROVED"
	LoanStatusRejected LoanStatus = "REJECTED"
)

// Loan is a single loan belonging to one user.
type Loan struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"user_id"`
	Type             LoanType        `json:"loan_type"`
	Amount           decimal.Decimal `json:"loan_amount"`
	InterestRate     decimal.Decimal `json:"interest_rate"` // annual percentage
	TermMonths       int             `json:"term_period"`
	DisbursementDate time.Time       `json:"disbursement_date"`
	Status           LoanStatus      `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
}

// LoanApplicationRequest is the payload accepted by the loan application
// endpoint. DisbursementDate is a calendar date in YYYY-MM-DD form.
type LoanApplicationRequest struct {
	UserID           uuid.UUID       `json:"user_id"`
	LoanType         LoanType        `json:"loan_type"`
	LoanAmount       decimal.Decimal `json:"loan_amount"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	TermPeriod       int             `json:"term_period"`
	DisbursementDate string          `json:"disbursement_date"`
}

// LoanApplicationResponse is returned on a successful application. The EMI is
// a preview rounded to two places; it is not persisted on the loan and is
// recomputed by the billing engine from the same amortization function.
type LoanApplicationResponse struct {
	LoanID uuid.UUID       `json:"loan_id"`
	EMI    decimal.Decimal `json:"emi"`
	Status LoanStatus      `json:"status"`
}
