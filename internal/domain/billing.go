package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Billing is one billing-cycle snapshot for a loan. Rows accumulate per cycle;
// the natural key is (user_id, billing_date), so re-running a cycle for the
// same date replaces the earlier row instead of duplicating it. The
// outstanding principal on the latest row is the only figure the payment
// processor mutates.
type Billing struct {
	ID                   uuid.UUID       `json:"id"`
	UserID               uuid.UUID       `json:"user_id"`
	LoanID               uuid.UUID       `json:"loan_id"`
	BillingDate          time.Time       `json:"billing_date"`
	DueDate              time.Time       `json:"due_date"`
	MinDue               decimal.Decimal `json:"min_due"`
	OutstandingPrincipal decimal.Decimal `json:"outstanding_principal"`
	Interest             decimal.Decimal `json:"interest"`
}
