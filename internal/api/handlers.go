/**
 * @description
 * This file contains the HTTP handlers for the notification-service's four
 * endpoints: send-otp, verify-otp, send-transaction-alert and send-email. Each
 * handler decodes the JSON body, delegates to the service layer, and converts
 * the outcome into the uniform `{success|error}` JSON contract the front end
 * consumes.
 *
 * Error mapping: client mistakes (missing fields, wrong/expired code, bad token)
 * map to 400, rate limiting to 429, everything else (SMTP config, persistence,
 * delivery) to 500. The alert endpoint reports delivery failures as 500 but the
 * service method itself never raises; callers inside the money path use the
 * structured result and ignore it.
 */
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/moneypay/notification-service/internal/domain"
)

// AlertSender is implemented by the service layer for alert-only callers.
type AlertSender interface {
	SendTransactionAlert(alert *domain.TransactionAlert) domain.AlertResult
}

// NotificationService is the full service surface the handlers need.
type NotificationService interface {
	AlertSender
	IssueOTP(ctx context.Context, email, fullName string) (string, error)
	VerifyOTP(ctx context.Context, email, code, token string) error
	SendEmail(msg *domain.EmailMessage) error
}

// Handler holds the dependencies for the HTTP handlers.
type Handler struct {
	svc NotificationService
}

// NewHandler creates a new Handler.
func NewHandler(svc NotificationService) *Handler {
	return &Handler{svc: svc}
}

type sendOTPRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// HandleSendOTP issues a verification code and mails it.
// POST /send-otp {email, fullName?}
func (h *Handler) HandleSendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Invalid request body")
		return
	}
	if req.Email == "" {
		h.writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	token, err := h.svc.IssueOTP(r.Context(), req.Email, req.FullName)
	if err != nil {
		h.writeError(w, statusForError(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Verification code sent",
		"token":   token,
	})
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
	Token string `json:"token"`
}

// HandleVerifyOTP checks a submitted code.
// POST /verify-otp {email, otp, token}
func (h *Handler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "Invalid request body",
		})
		return
	}

	if err := h.svc.VerifyOTP(r.Context(), req.Email, req.OTP, req.Token); err != nil {
		h.writeJSON(w, statusForError(err), map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Email verified successfully",
	})
}

// HandleSendTransactionAlert mails a receipt for a completed transaction.
// POST /send-transaction-alert {email, fullName, type, amount, currency, ...}
func (h *Handler) HandleSendTransactionAlert(w http.ResponseWriter, r *http.Request) {
	var alert domain.TransactionAlert
	if err := json.NewDecoder(r.Body).Decode(&alert); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Invalid request body")
		return
	}
	if alert.Email == "" {
		h.writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	result := h.svc.SendTransactionAlert(&alert)
	if !result.OK {
		h.writeError(w, http.StatusInternalServerError, result.Error)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// HandleSendEmail dispatches a caller-supplied transactional email.
// POST /send-email {to, subject, html, text?}
func (h *Handler) HandleSendEmail(w http.ResponseWriter, r *http.Request) {
	var msg domain.EmailMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		h.writeError(w, http.StatusInternalServerError, "Invalid request body")
		return
	}
	if msg.To == "" || msg.Subject == "" || msg.HTML == "" {
		h.writeError(w, http.StatusBadRequest, "Fields to, subject and html are required")
		return
	}

	if err := h.svc.SendEmail(&msg); err != nil {
		h.writeError(w, statusForError(err), err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// statusForError maps domain errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingFields),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrEmailMismatch),
		errors.Is(err, domain.ErrCodeExpired),
		errors.Is(err, domain.ErrInvalidCode):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTooManyRequests):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON is a helper for writing JSON responses.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for writing JSON error responses.
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
