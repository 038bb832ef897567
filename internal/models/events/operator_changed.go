package events

import "time"

// OperatorChanged is published after the owner adds or removes an operator.
type OperatorChanged struct {
	EventID    string    `json:"event_id"`
	Action     string    `json:"action"` // "added" or "removed"
	Owner      string    `json:"owner"`
	Operator   string    `json:"operator"`
	OccurredAt time.Time `json:"occurred_at"`
}
