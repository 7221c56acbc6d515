/**
 * @description
 * PostgreSQL implementation of the OTP repository. All SQL for the `otp_codes`
 * table lives here. The table is keyed by email: issuing a code deletes the old
 * row and inserts a fresh one rather than updating in place, so a superseded
 * code can never verify.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: PostgreSQL driver and connection pooling.
 */
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moneypay/notification-service/internal/domain"
)

// PostgresRepository implements Repository against a pgx connection pool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a repository backed by the given pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ReplaceOTP deletes any prior record for the email, then inserts the new one.
// The two statements are intentionally not wrapped in a transaction: when two
// issues race for the same email the last insert to land wins, which is the
// documented resend behavior.
func (r *PostgresRepository) ReplaceOTP(ctx context.Context, rec *domain.OTPRecord) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM otp_codes WHERE email = $1`, rec.Email); err != nil {
		return fmt.Errorf("delete previous otp: %w", err)
	}

	query := `
        INSERT INTO otp_codes (email, otp_code, issued_at, expires_at, verified)
        VALUES ($1, $2, $3, $4, false)
        ON CONFLICT (email) DO UPDATE SET
            otp_code = EXCLUDED.otp_code,
            issued_at = EXCLUDED.issued_at,
            expires_at = EXCLUDED.expires_at,
            verified = false
    `
	if _, err := r.db.Exec(ctx, query, rec.Email, rec.Code, rec.IssuedAt, rec.ExpiresAt); err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}
	return nil
}

// GetOTPByEmail fetches the active record for an email.
func (r *PostgresRepository) GetOTPByEmail(ctx context.Context, email string) (*domain.OTPRecord, error) {
	var rec domain.OTPRecord
	query := `
        SELECT email, otp_code, issued_at, expires_at, verified
        FROM otp_codes
        WHERE email = $1
    `
	err := r.db.QueryRow(ctx, query, email).Scan(
		&rec.Email,
		&rec.Code,
		&rec.IssuedAt,
		&rec.ExpiresAt,
		&rec.Verified,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOTPNotFound
		}
		return nil, fmt.Errorf("query otp: %w", err)
	}
	return &rec, nil
}

// MarkVerified sets the verified flag on the email's record.
func (r *PostgresRepository) MarkVerified(ctx context.Context, email string) error {
	tag, err := r.db.Exec(ctx, `UPDATE otp_codes SET verified = true WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("mark otp verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOTPNotFound
	}
	return nil
}

// DeleteOTP removes the email's record if one exists.
func (r *PostgresRepository) DeleteOTP(ctx context.Context, email string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM otp_codes WHERE email = $1`, email); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}
