/**
 * @description
 * Credit-score worker. Consumes user.registered events off the broker,
 * derives the score from the user's declared annual income, and upserts the
 * user's single credit score row. Scoring is fire-and-forget from the
 * registration flow's point of view: failures here are logged, never
 * propagated back to the trigger.
 */

package app

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/paisebank/lending-service/internal/domain"
	"github.com/paisebank/lending-service/internal/store"
)

var scoreDivisor = decimal.NewFromInt(1000)

// scoreBase is the floor of the derived score scale.
const scoreBase = 300

// ComputeScore derives a credit score from annual income:
// floor(income / 1000) + 300.
func ComputeScore(annualIncome decimal.Decimal) int {
	return int(annualIncome.Div(scoreDivisor).Floor().IntPart()) + scoreBase
}

// CreditScorer recomputes and stores credit scores for registered users.
type CreditScorer struct {
	repo   store.Repository
	logger *slog.Logger
}

// NewCreditScorer creates a new credit score worker.
func NewCreditScorer(repo store.Repository, logger *slog.Logger) *CreditScorer {
	return &CreditScorer{repo: repo, logger: logger}
}

// HandleUserRegistered processes one user.registered delivery. The return
// value is the ack decision: true acks (including for users that no longer
// exist, since registration must never be affected by scoring), false
// requeues so the broker redelivers transient persistence failures.
func (s *CreditScorer) HandleUserRegistered(body []byte) bool {
	var event domain.UserRegisteredEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.logger.Error("malformed user.registered event, dropping", "error", err)
		return true
	}

	ctx := context.Background()
	user, err := s.repo.FindUserByID(ctx, event.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Warn("user gone before scoring, dropping", "user_id", event.UserID)
			return true
		}
		s.logger.Error("user lookup failed during scoring", "user_id", event.UserID, "error", err)
		return false
	}

	score := ComputeScore(user.AnnualIncome)
	if err := s.repo.UpsertCreditScore(ctx, user.ID, score); err != nil {
		s.logger.Error("credit score upsert failed", "user_id", user.ID, "error", err)
		return false
	}

	s.logger.Info("credit score calculated", "user_id", user.ID, "score", score)
	return true
}
