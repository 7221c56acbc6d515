/**
 * @description
 * This file bridges the internal transaction event stream to alert emails. When
 * the transaction pipeline publishes a completed transfer or credit, the handler
 * composes a receipt and mails it fire-and-forget.
 *
 * Every message is acknowledged regardless of the send outcome: alert delivery is
 * at-most-once by design, and requeueing a failed send would turn an informational
 * email into a retry loop the transaction never asked for.
 *
 * @dependencies
 * - encoding/json, log: Standard Go libraries.
 * - The service's internal domain models.
 */
package app

import (
	"encoding/json"
	"log"

	"github.com/moneypay/notification-service/internal/domain"
)

// AlertEventHandler processes transaction.completed events into alert emails.
type AlertEventHandler struct {
	svc *Service
}

// NewAlertEventHandler creates a new instance of AlertEventHandler.
func NewAlertEventHandler(svc *Service) *AlertEventHandler {
	return &AlertEventHandler{svc: svc}
}

// HandleTransactionCompletedEvent consumes one event body. It always returns
// true (ack): malformed payloads and failed sends are logged and dropped.
func (h *AlertEventHandler) HandleTransactionCompletedEvent(body []byte) bool {
	var event domain.TransactionCompletedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("Error unmarshaling transaction.completed event: %v", err)
		return true // Acknowledge malformed message.
	}

	if event.Email == "" {
		log.Printf("transaction.completed event %s missing email; acking", event.EventID)
		return true
	}

	alert := &domain.TransactionAlert{
		Email:            event.Email,
		FullName:         event.FullName,
		Type:             event.Direction,
		Amount:           event.Amount,
		Currency:         event.Currency,
		Description:      event.Description,
		Balance:          event.Balance,
		TransactionID:    event.TransactionID,
		RecipientName:    event.RecipientName,
		RecipientAccount: event.RecipientAccount,
	}

	result := h.svc.SendTransactionAlert(alert)
	if !result.OK {
		log.Printf("WARN: alert email for transaction %s not delivered: %s", alert.TransactionID, result.Error)
	}
	return true
}
