/**
 * @description
 * PostgreSQL implementation of the Repository interface. All monetary columns
 * are NUMERIC and scanned into shopspring decimals. The payment path is the
 * only multi-statement mutation; it runs inside a single transaction holding
 * a FOR UPDATE lock on the billing row so concurrent payments against the
 * same cycle serialize instead of losing updates.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/paisebank/lending-service/internal/domain"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateUser inserts a new user row. Duplicate email or aadhaar ids map to
// ErrDuplicateUser.
func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, aadhaar_id, name, email, annual_income, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.AadhaarID, user.Name, user.Email, user.AnnualIncome, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateUser
		}
		return err
	}
	return nil
}

// FindUserByID retrieves a user by their ID.
func (r *PostgresRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, aadhaar_id, name, email, annual_income, created_at FROM users WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.AadhaarID, &user.Name, &user.Email, &user.AnnualIncome, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpsertCreditScore inserts or replaces the user's single credit score row.
func (r *PostgresRepository) UpsertCreditScore(ctx context.Context, userID uuid.UUID, score int) error {
	query := `
		INSERT INTO credit_scores (user_id, score, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(ctx, query, userID, score, time.Now().UTC())
	return err
}

// FindCreditScoreByUserID retrieves the user's credit score.
func (r *PostgresRepository) FindCreditScoreByUserID(ctx context.Context, userID uuid.UUID) (*domain.CreditScore, error) {
	var cs domain.CreditScore
	query := `SELECT user_id, score, updated_at FROM credit_scores WHERE user_id = $1`
	err := r.db.QueryRow(ctx, query, userID).Scan(&cs.UserID, &cs.Score, &cs.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCreditScoreNotFound
		}
		return nil, err
	}
	return &cs, nil
}

// CreateLoan inserts a new loan row.
func (r *PostgresRepository) CreateLoan(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, user_id, loan_type, loan_amount, interest_rate, term_period, disbursement_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		loan.ID, loan.UserID, loan.Type, loan.Amount, loan.InterestRate,
		loan.TermMonths, loan.DisbursementDate, loan.Status, loan.CreatedAt,
	)
	return err
}

// FindLoanByID retrieves a loan by its ID.
func (r *PostgresRepository) FindLoanByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `
		SELECT id, user_id, loan_type, loan_amount, interest_rate, term_period, disbursement_date, status, created_at
		FROM loans WHERE id = $1
	`
	loan, err := scanLoan(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

// FindLoansByUserID retrieves all loans belonging to a user.
func (r *PostgresRepository) FindLoansByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Loan, error) {
	query := `
		SELECT id, user_id, loan_type, loan_amount, interest_rate, term_period, disbursement_date, status, created_at
		FROM loans WHERE user_id = $1 ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLoans(rows)
}

// FindLoansByStatus retrieves every loan currently in the given status.
func (r *PostgresRepository) FindLoansByStatus(ctx context.Context, status domain.LoanStatus) ([]domain.Loan, error) {
	query := `
		SELECT id, user_id, loan_type, loan_amount, interest_rate, term_period, disbursement_date, status, created_at
		FROM loans WHERE status = $1 ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLoans(rows)
}

// UpsertBilling inserts a billing row, replacing the existing row for the same
// (user_id, billing_date) so a cycle re-run stays idempotent.
func (r *PostgresRepository) UpsertBilling(ctx context.Context, billing *domain.Billing) error {
	query := `
		INSERT INTO billings (id, user_id, loan_id, billing_date, due_date, min_due, outstanding_principal, interest)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, billing_date) DO UPDATE SET
			loan_id = EXCLUDED.loan_id,
			due_date = EXCLUDED.due_date,
			min_due = EXCLUDED.min_due,
			outstanding_principal = EXCLUDED.outstanding_principal,
			interest = EXCLUDED.interest
	`
	_, err := r.db.Exec(ctx, query,
		billing.ID, billing.UserID, billing.LoanID, billing.BillingDate,
		billing.DueDate, billing.MinDue, billing.OutstandingPrincipal, billing.Interest,
	)
	return err
}

// LatestBillingForLoan returns the most recent billing row for a loan dated
// strictly before the given date.
func (r *PostgresRepository) LatestBillingForLoan(ctx context.Context, loanID uuid.UUID, before time.Time) (*domain.Billing, error) {
	query := `
		SELECT id, user_id, loan_id, billing_date, due_date, min_due, outstanding_principal, interest
		FROM billings WHERE loan_id = $1 AND billing_date < $2
		ORDER BY billing_date DESC LIMIT 1
	`
	billing, err := scanBilling(r.db.QueryRow(ctx, query, loanID, before))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBillingNotFound
		}
		return nil, err
	}
	return billing, nil
}

// FindCurrentBilling returns the user's most recent billing row dated on or
// before the given date.
func (r *PostgresRepository) FindCurrentBilling(ctx context.Context, userID uuid.UUID, onOrBefore time.Time) (*domain.Billing, error) {
	query := `
		SELECT id, user_id, loan_id, billing_date, due_date, min_due, outstanding_principal, interest
		FROM billings WHERE user_id = $1 AND billing_date <= $2
		ORDER BY billing_date DESC LIMIT 1
	`
	billing, err := scanBilling(r.db.QueryRow(ctx, query, userID, onOrBefore))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBillingNotFound
		}
		return nil, err
	}
	return billing, nil
}

// ApplyPayment applies a payment against the user's current billing row inside
// one transaction. The billing row is locked FOR UPDATE for the duration of
// the read-decrement-write, which serializes concurrent payments against the
// same cycle.
func (r *PostgresRepository) ApplyPayment(ctx context.Context, userID, loanID uuid.UUID, paymentDate time.Time, amount decimal.Decimal) (*domain.Payment, decimal.Decimal, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}
	defer tx.Rollback(ctx)

	var billingID uuid.UUID
	var outstanding decimal.Decimal
	lockQuery := `
		SELECT id, outstanding_principal
		FROM billings WHERE user_id = $1 AND billing_date <= $2
		ORDER BY billing_date DESC LIMIT 1
		FOR UPDATE
	`
	err = tx.QueryRow(ctx, lockQuery, userID, paymentDate).Scan(&billingID, &outstanding)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, decimal.Zero, ErrBillingNotFound
		}
		return nil, decimal.Zero, err
	}

	if amount.GreaterThan(outstanding) {
		return nil, decimal.Zero, ErrPaymentExceedsOutstanding
	}

	remaining := outstanding.Sub(amount)
	if _, err := tx.Exec(ctx, `UPDATE billings SET outstanding_principal = $1 WHERE id = $2`, remaining, billingID); err != nil {
		return nil, decimal.Zero, err
	}

	payment := &domain.Payment{
		ID:          uuid.New(),
		LoanID:      loanID,
		PaymentDate: paymentDate,
		AmountPaid:  amount,
		Status:      domain.PaymentStatusCompleted,
	}
	insertQuery := `
		INSERT INTO payments (id, loan_id, payment_date, amount_paid, status)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.Exec(ctx, insertQuery, payment.ID, payment.LoanID, payment.PaymentDate, payment.AmountPaid, payment.Status); err != nil {
		return nil, decimal.Zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, decimal.Zero, err
	}
	return payment, remaining, nil
}

// FindPaymentsByLoanID retrieves all payments recorded against a loan.
func (r *PostgresRepository) FindPaymentsByLoanID(ctx context.Context, loanID uuid.UUID) ([]domain.Payment, error) {
	query := `SELECT id, loan_id, payment_date, amount_paid, status FROM payments WHERE loan_id = $1 ORDER BY payment_date`
	rows, err := r.db.Query(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.LoanID, &p.PaymentDate, &p.AmountPaid, &p.Status); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var loan domain.Loan
	err := row.Scan(
		&loan.ID, &loan.UserID, &loan.Type, &loan.Amount, &loan.InterestRate,
		&loan.TermMonths, &loan.DisbursementDate, &loan.Status, &loan.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func collectLoans(rows pgx.Rows) ([]domain.Loan, error) {
	var loans []domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, *loan)
	}
	return loans, rows.Err()
}

func scanBilling(row pgx.Row) (*domain.Billing, error) {
	var billing domain.Billing
	err := row.Scan(
		&billing.ID, &billing.UserID, &billing.LoanID, &billing.BillingDate,
		&billing.DueDate, &billing.MinDue, &billing.OutstandingPrincipal, &billing.Interest,
	)
	if err != nil {
		return nil, err
	}
	return &billing, nil
}
