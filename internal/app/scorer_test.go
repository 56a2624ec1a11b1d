package app

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paisebank/lending-service/internal/domain"
)

func TestComputeScore(t *testing.T) {
	tests := []struct {
		income string
		want   int
	}{
		{income: "0", want: 300},
		{income: "999", want: 300},
		{income: "1000", want: 301},
		{income: "1999", want: 301},
		{income: "150000", want: 450},
		{income: "123456", want: 423},
		{income: "123456.78", want: 423},
	}
	for _, tt := range tests {
		income := decimal.RequireFromString(tt.income)
		if got := ComputeScore(income); got != tt.want {
			t.Errorf("ComputeScore(%s) = %d, want %d", tt.income, got, tt.want)
		}
	}
}

func registeredEvent(t *testing.T, userID uuid.UUID) []byte {
	t.Helper()
	body, err := json.Marshal(domain.UserRegisteredEvent{UserID: userID, Timestamp: time.Now().UTC()})
	if err != nil {
		t.Fatalf("marshaling event: %v", err)
	}
	return body
}

func TestHandleUserRegistered_ScoresUser(t *testing.T) {
	repo := newMemRepo()
	scorer := NewCreditScorer(repo, testLogger())
	user := seedUser(t, repo, 150000, 0)

	if ack := scorer.HandleUserRegistered(registeredEvent(t, user.ID)); !ack {
		t.Fatal("expected delivery to be acked")
	}
	score, ok := repo.scores[user.ID]
	if !ok {
		t.Fatal("expected a credit score row")
	}
	if score.Score != 450 {
		t.Fatalf("expected score 450 for income 150000, got %d", score.Score)
	}
}

func TestHandleUserRegistered_RescoringReplaces(t *testing.T) {
	repo := newMemRepo()
	scorer := NewCreditScorer(repo, testLogger())
	user := seedUser(t, repo, 200000, 0)

	scorer.HandleUserRegistered(registeredEvent(t, user.ID))
	repo.mu.Lock()
	repo.users[user.ID].AnnualIncome = decimal.NewFromInt(300000)
	repo.mu.Unlock()
	scorer.HandleUserRegistered(registeredEvent(t, user.ID))

	if got := repo.scores[user.ID].Score; got != 600 {
		t.Fatalf("expected rescoring to store 600, got %d", got)
	}
	if len(repo.scores) != 1 {
		t.Fatalf("expected a single score row per user, got %d", len(repo.scores))
	}
}

func TestHandleUserRegistered_DropsMalformedBody(t *testing.T) {
	repo := newMemRepo()
	scorer := NewCreditScorer(repo, testLogger())

	if ack := scorer.HandleUserRegistered([]byte("{not json")); !ack {
		t.Fatal("expected malformed delivery to be acked and dropped")
	}
	if len(repo.scores) != 0 {
		t.Fatal("expected no score rows for a malformed delivery")
	}
}

func TestHandleUserRegistered_DropsUnknownUser(t *testing.T) {
	repo := newMemRepo()
	scorer := NewCreditScorer(repo, testLogger())

	if ack := scorer.HandleUserRegistered(registeredEvent(t, uuid.New())); !ack {
		t.Fatal("expected delivery for a missing user to be acked and dropped")
	}
}

func TestHandleUserRegistered_RequeuesOnStoreError(t *testing.T) {
	repo := newMemRepo()
	repo.upsertScoreErr = errors.New("connection reset")
	scorer := NewCreditScorer(repo, testLogger())
	user := seedUser(t, repo, 150000, 0)

	if ack := scorer.HandleUserRegistered(registeredEvent(t, user.ID)); ack {
		t.Fatal("expected a persistence failure to requeue the delivery")
	}
}
