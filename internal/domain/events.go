package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserRegisteredEvent is published to the message broker when a user is
// created. The credit-score worker consumes it and reloads the user before
// scoring, so the payload stays minimal.
type UserRegisteredEvent struct {
	UserID    uuid.UUID `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// BillingCycleCompletedEvent is published after a billing batch has run.
type BillingCycleCompletedEvent struct {
	BillingDate time.Time `json:"billing_date"`
	Generated   int       `json:"generated"`
	Failed      int       `json:"failed"`
	Timestamp   time.Time `json:"timestamp"`
}
