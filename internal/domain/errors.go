package domain

import "errors"

// Sentinel errors for the verification and delivery flows. The messages double as
// the user-facing `error` strings in JSON responses, so they are worded the way the
// front end surfaces them in toasts.
var (
	// ErrMissingFields is returned when a verify request omits the email, code or
	// issuance token.
	ErrMissingFields = errors.New("Email, OTP and verification token are required")

	// ErrInvalidToken is returned when the issuance token fails to decode or its
	// signature does not check out.
	ErrInvalidToken = errors.New("Invalid token")

	// ErrEmailMismatch is returned when the submitted email differs from the one
	// the code was issued for.
	ErrEmailMismatch = errors.New("Email mismatch")

	// ErrCodeExpired is returned when more than OTPTTL has elapsed since issuance.
	ErrCodeExpired = errors.New("Code has expired")

	// ErrInvalidCode is returned when no active code exists for the email or the
	// submitted code does not match the issued one.
	ErrInvalidCode = errors.New("Invalid code")

	// ErrSMTPNotConfigured is returned before any network I/O when the mail
	// provider credentials are absent from the environment.
	ErrSMTPNotConfigured = errors.New("SMTP credentials not configured")

	// ErrTooManyRequests is returned when the optional Redis limiter has seen too
	// many OTP issues or verification attempts for one email inside the window.
	ErrTooManyRequests = errors.New("Too many attempts. Please try again later")
)
