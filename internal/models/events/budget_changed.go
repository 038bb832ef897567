package events

import (
	"time"

	"github.com/arywk40-hue/governance-budget-allocator/internal/models"
)

// BudgetChanged is published after a successful increase or decrease.
type BudgetChanged struct {
	EventID    string        `json:"event_id"`
	Operation  string        `json:"operation"`
	Caller     string        `json:"caller"`
	Amount     models.Int128 `json:"amount"`
	NewValue   models.Int128 `json:"new_value"`
	OccurredAt time.Time     `json:"occurred_at"`
}
