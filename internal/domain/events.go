package domain

import "time"

// TransactionCompletedEvent is the payload published on the internal event bus
// when the transaction pipeline finalizes a transfer or credit. The consumer
// turns it into a TransactionAlert and mails a receipt, fire-and-forget.
type TransactionCompletedEvent struct {
	EventID          string    `json:"event_id"`
	Email            string    `json:"email"`
	FullName         string    `json:"full_name"`
	Direction        string    `json:"direction"` // "credit" or "debit"
	Amount           float64   `json:"amount"`
	Currency         string    `json:"currency"`
	Description      string    `json:"description"`
	Balance          float64   `json:"balance"`
	TransactionID    string    `json:"transaction_id"`
	RecipientName    string    `json:"recipient_name,omitempty"`
	RecipientAccount string    `json:"recipient_account,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}
