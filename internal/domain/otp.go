/**
 * @description
 * This file defines the domain models for the OTP email-verification flow. An OTP
 * record is the server-side source of truth for an issued code; the issuance token
 * is a signed receipt handed back to the client so the verify step can prove which
 * email the code was issued for.
 *
 * Key invariant: at most one active OTP record exists per email. Issuing a new code
 * replaces any previous record, so a client holding a superseded code fails
 * verification with an "Invalid code" mismatch rather than a dedicated error.
 */
package domain

import "time"

// OTPTTL is how long an issued code stays valid. Expiry is evaluated lazily at
// verification time; there is no background sweep.
const OTPTTL = 10 * time.Minute

// OTPRecord is a persisted one-time code, keyed by the email it was issued for.
type OTPRecord struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Verified  bool      `json:"verified"`
}

// Expired reports whether the record's code is past its validity window at the
// given instant.
func (r *OTPRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// IssuanceClaims is the payload bound into the signed issuance token returned by
// the send-otp endpoint. The token proves which email a code was issued for; the
// authoritative code and expiry always come from the persisted record.
type IssuanceClaims struct {
	Email    string `json:"email"`
	IssuedAt int64  `json:"issued_at"`
}
