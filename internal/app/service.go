/**
 * @description
 * This file contains the core business logic for the lending-service. The
 * `Service` struct orchestrates user registration, loan underwriting, payment
 * application, and statement assembly, coordinating between the database
 * repository and the message broker.
 *
 * Key features:
 * - Registration publishes a user.registered event for asynchronous credit
 *   scoring; the registration response never depends on scoring.
 * - Loan applications run the eligibility gates in a fixed order and return
 *   the first failure as a RejectionError.
 * - Payment application delegates the read-decrement-write to the repository,
 *   which serializes it on a billing row lock.
 *
 * @dependencies
 * - github.com/google/uuid: For entity identifiers.
 * - github.com/shopspring/decimal: Monetary arithmetic.
 * - internal/domain, internal/store: Domain models and data access.
 * - pkg/rabbitmq: Event publishing.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paisebank/lending-service/internal/config"
	"github.com/paisebank/lending-service/internal/domain"
	"github.com/paisebank/lending-service/internal/store"
	"github.com/paisebank/lending-service/pkg/rabbitmq"
)

// dateLayout is the calendar-date format accepted on the wire.
const dateLayout = "2006-01-02"

// Service provides the core business logic for the lending ledger.
type Service struct {
	repo   store.Repository
	events rabbitmq.Publisher
	logger *slog.Logger

	minCreditScore  int
	minAnnualIncome decimal.Decimal
	maxLoanAmount   decimal.Decimal
	maxInterestRate decimal.Decimal
	maxTermMonths   int
}

// NewService creates a new lending service instance.
func NewService(repo store.Repository, events rabbitmq.Publisher, logger *slog.Logger, cfg config.Config) *Service {
	return &Service{
		repo:            repo,
		events:          events,
		logger:          logger,
		minCreditScore:  cfg.MinCreditScore,
		minAnnualIncome: decimal.NewFromInt(cfg.MinAnnualIncome),
		maxLoanAmount:   decimal.NewFromInt(cfg.MaxLoanAmount),
		maxInterestRate: decimal.NewFromInt(cfg.MaxInterestRate),
		maxTermMonths:   cfg.MaxTermMonths,
	}
}

// RegisterUser creates a user and fires the event that triggers asynchronous
// credit scoring. The returned user does not depend on the scoring outcome;
// a publish failure is logged and swallowed.
func (s *Service) RegisterUser(ctx context.Context, req domain.RegisterUserRequest) (*domain.User, error) {
	if strings.TrimSpace(req.AadhaarID) == "" {
		return nil, fmt.Errorf("%w: aadhaar_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if req.AnnualIncome.IsNegative() {
		return nil, fmt.Errorf("%w: annual_income must not be negative", ErrInvalidInput)
	}

	user := &domain.User{
		ID:           uuid.New(),
		AadhaarID:    strings.TrimSpace(req.AadhaarID),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		AnnualIncome: req.AnnualIncome,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	event := domain.UserRegisteredEvent{UserID: user.ID, Timestamp: time.Now().UTC()}
	if err := s.events.PublishUserRegistered(ctx, event); err != nil {
		s.logger.Warn("user.registered publish failed; credit scoring deferred", "user_id", user.ID, "error", err)
	}

	return user, nil
}

// ApplyLoan validates a loan application against the eligibility gates, in
// order, and persists the loan as PENDING with an EMI preview on success.
func (s *Service) ApplyLoan(ctx context.Context, req domain.LoanApplicationRequest) (*domain.LoanApplicationResponse, error) {
	if req.UserID == uuid.Nil {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if !req.LoanType.IsValid() {
		return nil, fmt.Errorf("%w: unknown loan_type %q", ErrInvalidInput, req.LoanType)
	}
	disbursed, err := time.Parse(dateLayout, req.DisbursementDate)
	if err != nil {
		return nil, fmt.Errorf("%w: disbursement_date must be YYYY-MM-DD", ErrInvalidInput)
	}

	user, err := s.repo.FindUserByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	score, err := s.repo.FindCreditScoreByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrCreditScoreNotFound) {
			return nil, reject("credit score not available")
		}
		return nil, err
	}
	if score.Score < s.minCreditScore {
		return nil, reject("credit score too low")
	}
	if user.AnnualIncome.LessThan(s.minAnnualIncome) {
		return nil, reject("annual income too low")
	}
	if req.LoanAmount.GreaterThan(s.maxLoanAmount) {
		return nil, reject("loan amount exceeds limit")
	}
	if !req.InterestRate.IsPositive() {
		return nil, reject("interest rate must be greater than zero")
	}
	if req.InterestRate.GreaterThan(s.maxInterestRate) {
		return nil, reject("interest rate exceeds limit")
	}
	if req.TermPeriod < 1 || req.TermPeriod > s.maxTermMonths {
		return nil, reject("invalid term period")
	}

	emi := domain.MonthlyInstallment(req.LoanAmount, req.InterestRate, req.TermPeriod)

	loan := &domain.Loan{
		ID:               uuid.New(),
		UserID:           user.ID,
		Type:             req.LoanType,
		Amount:           req.LoanAmount,
		InterestRate:     req.InterestRate,
		TermMonths:       req.TermPeriod,
		DisbursementDate: disbursed,
		Status:           domain.LoanStatusPending,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.repo.CreateLoan(ctx, loan); err != nil {
		return nil, err
	}

	// The EMI is a preview only; the billing engine recomputes it from the
	// same amortization function each cycle.
	return &domain.LoanApplicationResponse{
		LoanID: loan.ID,
		EMI:    emi,
		Status: loan.Status,
	}, nil
}

// RecordPayment applies a payment against the loan's current billing cycle.
// Payments are accepted only while the loan is in PENDING status; see
// DESIGN.md for the history of that policy.
func (s *Service) RecordPayment(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentResponse, error) {
	if req.LoanID == uuid.Nil {
		return nil, fmt.Errorf("%w: loan_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.PaymentDate) == "" {
		return nil, fmt.Errorf("%w: payment_date is required", ErrInvalidInput)
	}
	paymentDate, err := time.Parse(dateLayout, req.PaymentDate)
	if err != nil {
		return nil, fmt.Errorf("%w: payment_date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if !req.AmountPaid.IsPositive() {
		return nil, fmt.Errorf("%w: amount_paid must be a positive amount", ErrInvalidInput)
	}

	loan, err := s.repo.FindLoanByID(ctx, req.LoanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanStatusPending {
		return nil, reject("loan not approved")
	}

	payment, remaining, err := s.repo.ApplyPayment(ctx, loan.UserID, loan.ID, paymentDate, req.AmountPaid)
	if err != nil {
		if errors.Is(err, store.ErrPaymentExceedsOutstanding) {
			return nil, reject("payment exceeds outstanding amount")
		}
		return nil, err
	}

	s.logger.Info("payment applied", "loan_id", loan.ID, "payment_id", payment.ID, "remaining_principal", remaining)
	return &domain.PaymentResponse{
		PaymentID:          payment.ID,
		Status:             payment.Status,
		RemainingPrincipal: remaining,
	}, nil
}

// GetStatement assembles the read-only per-loan view for a user: loan fields,
// every payment, and the user's current billing state.
func (s *Service) GetStatement(ctx context.Context, userID uuid.UUID) ([]domain.LoanStatement, error) {
	loans, err := s.repo.FindLoansByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(loans) == 0 {
		return nil, ErrNoLoansFound
	}

	billing, err := s.repo.FindCurrentBilling(ctx, userID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrBillingNotFound) {
			return nil, ErrBillingNotAvailable
		}
		return nil, err
	}

	statements := make([]domain.LoanStatement, 0, len(loans))
	for _, loan := range loans {
		payments, err := s.repo.FindPaymentsByLoanID(ctx, loan.ID)
		if err != nil {
			return nil, err
		}
		summaries := make([]domain.PaymentSummary, 0, len(payments))
		for _, p := range payments {
			summaries = append(summaries, domain.PaymentSummary{PaymentDate: p.PaymentDate, AmountPaid: p.AmountPaid})
		}
		statements = append(statements, domain.LoanStatement{
			LoanID:               loan.ID,
			LoanType:             loan.Type,
			LoanAmount:           loan.Amount,
			InterestRate:         loan.InterestRate,
			Status:               loan.Status,
			Payments:             summaries,
			NextBillingDate:      billing.BillingDate,
			OutstandingPrincipal: billing.OutstandingPrincipal,
		})
	}
	return statements, nil
}
