/**
 * @description
 * This file contains the core business logic of the notification-service: issuing
 * one-time verification codes, verifying them, and composing transaction alert
 * receipts. The Service layer orchestrates the OTP store, the SMTP mailer and the
 * optional Redis rate limiter behind small interfaces so it can be tested with
 * in-memory fakes.
 *
 * Key behaviors:
 * - Issuing replaces any previous code for the email; the last issue wins.
 * - Expiry is checked lazily at verification time, never by a background sweep.
 * - A verified record is retained, so re-verifying the same unexpired code keeps
 *   succeeding. This mirrors the signup flow's resend/retry loop.
 * - Alert sends are best-effort: they report a structured result and never
 *   surface an error to the caller that completed the transaction.
 *
 * @dependencies
 * - crypto/rand: Uniform 6-digit code generation.
 * - github.com/google/uuid: Fallback transaction ids for alert receipts.
 * - The service's internal packages for domain models and storage errors.
 */
package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/moneypay/notification-service/internal/domain"
	"github.com/moneypay/notification-service/internal/store"
)

// Repository defines the OTP persistence operations the service needs.
type Repository interface {
	ReplaceOTP(ctx context.Context, rec *domain.OTPRecord) error
	GetOTPByEmail(ctx context.Context, email string) (*domain.OTPRecord, error)
	MarkVerified(ctx context.Context, email string) error
	DeleteOTP(ctx context.Context, email string) error
}

// Mailer defines the delivery operations the service needs.
type Mailer interface {
	Configured() bool
	Send(to, subject, htmlBody, textBody string) error
}

// RateLimiter bounds how often a subject may perform an action inside a window.
// A nil limiter (or a zero limit) disables the bound entirely.
type RateLimiter interface {
	ConsumeRateLimit(ctx context.Context, scope, subject string, limit int, window time.Duration) (count int, retryAfterSeconds int, err error)
}

const (
	otpSubject = "Your MoneyPay verification code"

	issueRateScope  = "otp_issue"
	verifyRateScope = "otp_verify"
)

// Service provides the business logic for verification codes and alert emails.
type Service struct {
	repo        Repository
	mailer      Mailer
	limiter     RateLimiter
	tokenSecret []byte

	// IssueLimit / VerifyLimit bound OTP issues and verification attempts per
	// email inside their windows. Zero disables the bound.
	IssueLimit   int
	IssueWindow  time.Duration
	VerifyLimit  int
	VerifyWindow time.Duration

	// now is injectable for expiry tests.
	now func() time.Time
}

// NewService creates the notification service. limiter may be nil.
func NewService(repo Repository, mailer Mailer, limiter RateLimiter, tokenSecret string) *Service {
	return &Service{
		repo:        repo,
		mailer:      mailer,
		limiter:     limiter,
		tokenSecret: []byte(tokenSecret),
		now:         time.Now,
	}
}

// IssueOTP generates a 6-digit code for the email, persists it (replacing any
// previous code), mails it, and returns the signed issuance token the client
// must echo back at verification.
//
// Ordering matters here: the configuration check runs before any network I/O,
// and the persistence write must be acknowledged before the email is attempted,
// so a stored code is never older than the one in the user's inbox.
func (s *Service) IssueOTP(ctx context.Context, email, fullName string) (string, error) {
	if !s.mailer.Configured() {
		return "", domain.ErrSMTPNotConfigured
	}

	if err := s.consumeLimit(ctx, issueRateScope, email, s.IssueLimit, s.IssueWindow); err != nil {
		return "", err
	}

	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	now := s.now()
	rec := &domain.OTPRecord{
		Email:     email,
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(domain.OTPTTL),
	}
	if err := s.repo.ReplaceOTP(ctx, rec); err != nil {
		return "", fmt.Errorf("persist otp: %w", err)
	}

	html, err := renderOTPEmail(fullName, code)
	if err != nil {
		return "", err
	}
	if err := s.mailer.Send(email, otpSubject, html, ""); err != nil {
		return "", err
	}

	token, err := signIssuanceToken(s.tokenSecret, domain.IssuanceClaims{
		Email:    email,
		IssuedAt: now.Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("sign issuance token: %w", err)
	}

	log.Printf("level=info component=otp msg=\"otp issued\" email=%s expires_at=%s", email, rec.ExpiresAt.Format(time.RFC3339))
	return token, nil
}

// VerifyOTP checks a submitted code against the persisted record for the email.
// The issuance token binds the email the code was issued for; the persisted row
// stays authoritative for the code value and the expiry.
func (s *Service) VerifyOTP(ctx context.Context, email, code, token string) error {
	if email == "" || code == "" || token == "" {
		return domain.ErrMissingFields
	}

	if err := s.consumeLimit(ctx, verifyRateScope, email, s.VerifyLimit, s.VerifyWindow); err != nil {
		return err
	}

	claims, err := parseIssuanceToken(s.tokenSecret, token)
	if err != nil {
		return err
	}
	if claims.Email != email {
		return domain.ErrEmailMismatch
	}

	rec, err := s.repo.GetOTPByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrOTPNotFound) {
			return domain.ErrInvalidCode
		}
		return fmt.Errorf("load otp: %w", err)
	}

	if rec.Expired(s.now()) {
		// Stale rows are only ever cleaned up when observed.
		if delErr := s.repo.DeleteOTP(ctx, email); delErr != nil {
			log.Printf("level=warn component=otp msg=\"stale otp cleanup failed\" email=%s err=%v", email, delErr)
		}
		return domain.ErrCodeExpired
	}

	if rec.Code != code {
		return domain.ErrInvalidCode
	}

	if err := s.repo.MarkVerified(ctx, email); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}

	log.Printf("level=info component=otp msg=\"otp verified\" email=%s", email)
	return nil
}

// SendTransactionAlert composes and sends a transaction receipt. It never
// returns a Go error: the result carries the outcome so a failed alert can
// never unwind the financial mutation that triggered it.
func (s *Service) SendTransactionAlert(alert *domain.TransactionAlert) domain.AlertResult {
	if alert.TransactionID == "" {
		alert.TransactionID = uuid.NewString()
	}

	subject, html, err := renderAlertEmail(alert, s.now())
	if err != nil {
		log.Printf("level=error component=alert msg=\"alert render failed\" email=%s err=%v", alert.Email, err)
		return domain.AlertResult{OK: false, Error: err.Error()}
	}

	if err := s.mailer.Send(alert.Email, subject, html, ""); err != nil {
		log.Printf("level=error component=alert msg=\"alert send failed\" email=%s tx=%s err=%v", alert.Email, alert.TransactionID, err)
		return domain.AlertResult{OK: false, Error: err.Error()}
	}

	return domain.AlertResult{OK: true}
}

// SendEmail dispatches a caller-supplied transactional email unchanged.
func (s *Service) SendEmail(msg *domain.EmailMessage) error {
	return s.mailer.Send(msg.To, msg.Subject, msg.HTML, msg.Text)
}

func (s *Service) consumeLimit(ctx context.Context, scope, email string, limit int, window time.Duration) error {
	if s.limiter == nil || limit <= 0 || window <= 0 {
		return nil
	}
	count, _, err := s.limiter.ConsumeRateLimit(ctx, scope, email, limit, window)
	if err != nil {
		// The limiter is an extra guard, not part of the contract; degrade open.
		log.Printf("level=warn component=otp msg=\"rate limiter unavailable\" scope=%s err=%v", scope, err)
		return nil
	}
	if count > limit {
		return domain.ErrTooManyRequests
	}
	return nil
}

// generateCode returns a uniformly random 6-digit code in [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
