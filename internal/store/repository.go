/**
 * @description
 * This file defines the Repository interface for the lending-service's data
 * access layer, along with the sentinel errors the storage implementations
 * return. Keeping the interface here lets the application layer be tested
 * against in-memory stubs while production wiring uses PostgreSQL.
 */

package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paisebank/lending-service/internal/domain"
)

var (
	ErrUserNotFound              = errors.New("user not found")
	ErrDuplicateUser             = errors.New("user with this email or aadhaar already exists")
	ErrCreditScoreNotFound       = errors.New("credit score not available")
	ErrLoanNotFound              = errors.New("loan not found")
	ErrBillingNotFound           = errors.New("billing details not found")
	ErrPaymentExceedsOutstanding = errors.New("payment exceeds outstanding amount")
)

// Repository defines the database operations required by the lending service.
type Repository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	FindUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	UpsertCreditScore(ctx context.Context, userID uuid.UUID, score int) error
	FindCreditScoreByUserID(ctx context.Context, userID uuid.UUID) (*domain.CreditScore, error)

	CreateLoan(ctx context.Context, loan *domain.Loan) error
	FindLoanByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)
	FindLoansByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Loan, error)
	FindLoansByStatus(ctx context.Context, status domain.LoanStatus) ([]domain.Loan, error)

	// UpsertBilling inserts a billing row or, when one already exists for the
	// same (user_id, billing_date), replaces it.
	UpsertBilling(ctx context.Context, billing *domain.Billing) error

	// LatestBillingForLoan returns the most recent billing row generated for
	// the given loan strictly before the given date, or ErrBillingNotFound
	// when no earlier cycle exists. Excluding the date itself keeps a cycle
	// re-run for the same billing date working from the same basis.
	LatestBillingForLoan(ctx context.Context, loanID uuid.UUID, before time.Time) (*domain.Billing, error)

	// FindCurrentBilling returns the user's most recent billing row with
	// billing_date on or before the given date.
	FindCurrentBilling(ctx context.Context, userID uuid.UUID, onOrBefore time.Time) (*domain.Billing, error)

	// ApplyPayment atomically applies a payment against the user's current
	// billing row: it locks the row, rejects the payment with
	// ErrPaymentExceedsOutstanding if the amount is larger than the
	// outstanding principal, otherwise decrements the outstanding principal
	// and records a COMPLETED payment in the same transaction. Either both
	// writes become visible or neither does.
	ApplyPayment(ctx context.Context, userID, loanID uuid.UUID, paymentDate time.Time, amount decimal.Decimal) (*domain.Payment, decimal.Decimal, error)

	FindPaymentsByLoanID(ctx context.Context, loanID uuid.UUID) ([]domain.Payment, error)
}
