/**
 * @description
 * Domain models for transaction alert receipts. An alert payload is constructed by
 * the caller the moment a transfer or credit completes, consumed once by the alert
 * composer, and discarded after the send attempt. Alerts are informational only:
 * they are never part of the transaction's commit path, and a failed send must not
 * unwind or retry the financial mutation that triggered it.
 */
package domain

// Transaction direction labels as they appear in alert payloads.
const (
	DirectionCredit = "credit"
	DirectionDebit  = "debit"
)

// TransactionAlert describes a completed balance change to be mailed to the
// account holder.
type TransactionAlert struct {
	Email            string  `json:"email"`
	FullName         string  `json:"fullName"`
	Type             string  `json:"type"` // "credit" or "debit"
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	Description      string  `json:"description"`
	Balance          float64 `json:"balance"`
	TransactionID    string  `json:"transactionId"`
	RecipientName    string  `json:"recipientName,omitempty"`
	RecipientAccount string  `json:"recipientAccount,omitempty"`
}

// IsCredit reports whether the alert describes money coming into the account.
func (a *TransactionAlert) IsCredit() bool {
	return a.Type == DirectionCredit
}

// AlertResult is the structured outcome of an alert send. The composer never
// returns a Go error for delivery failures; callers inspect OK and move on.
type AlertResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
