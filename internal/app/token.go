/**
 * @description
 * This file implements the signed issuance token returned by the send-otp endpoint.
 * The token is an HMAC-SHA256-signed receipt binding the email a code was issued
 * for; the verify step uses it to detect email substitution. It deliberately does
 * NOT carry the code or the expiry — those always come from the persisted record,
 * so a leaked token cannot be replayed after the server has invalidated the code.
 *
 * Wire format: base64url(claims JSON) + "." + base64url(HMAC-SHA256 of the first part).
 */
package app

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/moneypay/notification-service/internal/domain"
)

// signIssuanceToken serializes and signs the claims with the service secret.
func signIssuanceToken(secret []byte, claims domain.IssuanceClaims) (string, error) {
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(encoded))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	return encoded + "." + sig, nil
}

// parseIssuanceToken validates the signature and decodes the claims. Any
// malformed or tampered token yields domain.ErrInvalidToken.
func parseIssuanceToken(secret []byte, token string) (*domain.IssuanceClaims, error) {
	encoded, sig, found := strings.Cut(token, ".")
	if !found {
		return nil, domain.ErrInvalidToken
	}

	wantSig, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(encoded))
	if !hmac.Equal(mac.Sum(nil), wantSig) {
		return nil, domain.ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	var claims domain.IssuanceClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, domain.ErrInvalidToken
	}
	if claims.Email == "" {
		return nil, domain.ErrInvalidToken
	}
	return &claims, nil
}
