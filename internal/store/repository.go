/**
 * @description
 * This file defines the `Repository` interface, the contract for the OTP store.
 * Keeping the interface separate from the PostgreSQL implementation decouples the
 * verification logic from the database so the service layer can be tested against
 * an in-memory fake.
 *
 * The store is the only shared mutable state in the service. It is always
 * addressed by the email partition key, so operations for different emails are
 * fully independent; no locking is used beyond single-row statement atomicity.
 */
package store

import (
	"context"
	"errors"

	"github.com/moneypay/notification-service/internal/domain"
)

// ErrOTPNotFound is returned when no code has been issued for an email, or the
// record was already deleted.
var ErrOTPNotFound = errors.New("otp record not found")

// Repository defines the persistence operations for one-time codes.
type Repository interface {
	// ReplaceOTP removes any existing record for the email and inserts the new
	// one. Last writer wins when two issues race for the same email.
	ReplaceOTP(ctx context.Context, rec *domain.OTPRecord) error

	// GetOTPByEmail returns the active record for an email, or ErrOTPNotFound.
	GetOTPByEmail(ctx context.Context, email string) (*domain.OTPRecord, error)

	// MarkVerified flags the record as verified. The record is retained, so
	// re-verifying the same unexpired code keeps succeeding.
	MarkVerified(ctx context.Context, email string) error

	// DeleteOTP removes the record for an email. Used when an expired code is
	// observed at verification time; missing rows are not an error.
	DeleteOTP(ctx context.Context, email string) error
}
