/**
 * @description
 * Billing engine: generates one billing-cycle snapshot per APPROVED loan.
 * Each cycle carries the outstanding principal forward from the loan's prior
 * cycle (or starts from the loan amount) and splits the EMI into interest and
 * principal against that basis. The batch is best-effort: a loan that fails
 * to bill is logged and skipped, never aborting the rest of the run.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/paisebank/lending-service/internal/domain"
	"github.com/paisebank/lending-service/internal/store"
	"github.com/paisebank/lending-service/pkg/rabbitmq"
)

// BillingEngine generates periodic billing statements for approved loans.
type BillingEngine struct {
	repo      store.Repository
	events    rabbitmq.Publisher
	logger    *slog.Logger
	graceDays int
}

// NewBillingEngine creates a new billing engine.
func NewBillingEngine(repo store.Repository, events rabbitmq.Publisher, logger *slog.Logger, graceDays int) *BillingEngine {
	return &BillingEngine{repo: repo, events: events, logger: logger, graceDays: graceDays}
}

// Run executes one billing cycle over every APPROVED loan, keyed to today's
// date. Re-running within the same day replaces the day's rows instead of
// duplicating them.
func (e *BillingEngine) Run(ctx context.Context) {
	e.RunForDate(ctx, time.Now().UTC().Truncate(24*time.Hour))
}

// RunForDate executes one billing cycle for an explicit billing date.
func (e *BillingEngine) RunForDate(ctx context.Context, billingDate time.Time) {
	e.logger.Info("billing cycle started", "billing_date", billingDate.Format("2006-01-02"))

	loans, err := e.repo.FindLoansByStatus(ctx, domain.LoanStatusApproved)
	if err != nil {
		e.logger.Error("billing cycle aborted, could not list approved loans", "error", err)
		return
	}

	generated, failed := 0, 0
	for _, loan := range loans {
		if err := e.generateForLoan(ctx, loan, billingDate); err != nil {
			e.logger.Error("billing generation failed for loan", "loan_id", loan.ID, "error", err)
			failed++
			continue
		}
		generated++
	}

	e.logger.Info("billing cycle finished", "generated", generated, "failed", failed)

	event := domain.BillingCycleCompletedEvent{
		BillingDate: billingDate,
		Generated:   generated,
		Failed:      failed,
		Timestamp:   time.Now().UTC(),
	}
	if err := e.events.PublishBillingCycleCompleted(ctx, event); err != nil {
		e.logger.Warn("billing.cycle.completed publish failed", "error", err)
	}
}

func (e *BillingEngine) generateForLoan(ctx context.Context, loan domain.Loan, billingDate time.Time) error {
	if !loan.InterestRate.IsPositive() {
		return fmt.Errorf("interest rate %s is not billable", loan.InterestRate)
	}
	if loan.TermMonths < 1 {
		return fmt.Errorf("term of %d months is not billable", loan.TermMonths)
	}

	// The basis is the outstanding principal carried from the prior cycle,
	// or the loan amount when no cycle has run before this date.
	basis := loan.Amount
	prior, err := e.repo.LatestBillingForLoan(ctx, loan.ID, billingDate)
	switch {
	case err == nil:
		basis = prior.OutstandingPrincipal
	case !errors.Is(err, store.ErrBillingNotFound):
		return err
	}

	emi := domain.MonthlyInstallment(loan.Amount, loan.InterestRate, loan.TermMonths)
	interest, _, outstanding := domain.CycleSplit(basis, loan.InterestRate, emi)

	billing := &domain.Billing{
		ID:                   uuid.New(),
		UserID:               loan.UserID,
		LoanID:               loan.ID,
		BillingDate:          billingDate,
		DueDate:              billingDate.AddDate(0, 0, e.graceDays),
		MinDue:               emi,
		OutstandingPrincipal: outstanding,
		Interest:             interest,
	}
	return e.repo.UpsertBilling(ctx, billing)
}
