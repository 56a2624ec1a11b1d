/**
 * @description
 * Domain models for borrowers and their derived credit scores. A user owns at
 * most one CreditScore row; the scorer replaces it in place whenever a
 * recomputation runs, so the stored score is always the latest.
 *
 * @dependencies
 * - github.com/google/uuid: Entity identifiers.
 * - github.com/shopspring/decimal: Monetary amounts are never floats.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is a registered borrower.
type User struct {
	ID           uuid.UUID       `json:"id"`
	AadhaarID    string          `json:"aadhaar_id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	AnnualIncome decimal.Decimal `json:"annual_income"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CreditScore is the single income-derived risk score for a user.
// No history is kept; upserts overwrite the previous value.
type CreditScore struct {
	UserID    uuid.UUID `json:"user_id"`
	Score     int       `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterUserRequest is the payload accepted by the registration endpoint.
type RegisterUserRequest struct {
	AadhaarID    string          `json:"aadhaar_id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	AnnualIncome decimal.Decimal `json:"annual_income"`
}
