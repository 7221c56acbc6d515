/**
 * @description
 * Branded HTML email bodies for the MoneyPay transactional mails. Two templates
 * live here: the OTP verification email and the transaction alert receipt. Both
 * are parsed once at startup; rendering only fills in per-send values.
 *
 * @dependencies
 * - html/template: Escaped HTML rendering of user-supplied names and descriptions.
 */
package app

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/moneypay/notification-service/internal/domain"
)

const brandName = "MoneyPay"

var otpTemplate = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#f4f6f8;font-family:Arial,Helvetica,sans-serif;">
  <div style="max-width:520px;margin:24px auto;background:#ffffff;border-radius:12px;overflow:hidden;">
    <div style="background:#0f172a;padding:20px 28px;">
      <span style="color:#ffffff;font-size:20px;font-weight:bold;">{{.Brand}}</span>
    </div>
    <div style="padding:28px;">
      <p style="font-size:15px;color:#334155;">Hello {{.Greeting}},</p>
      <p style="font-size:15px;color:#334155;">Use the code below to verify your email address:</p>
      <div style="text-align:center;margin:24px 0;">
        <span style="display:inline-block;background:#f1f5f9;border-radius:8px;padding:14px 28px;font-size:30px;letter-spacing:8px;font-weight:bold;color:#0f172a;">{{.Code}}</span>
      </div>
      <p style="font-size:13px;color:#64748b;">This code expires in {{.ExpiryMinutes}} minutes. If you did not request it, you can ignore this email.</p>
    </div>
    <div style="padding:16px 28px;border-top:1px solid #e2e8f0;">
      <p style="font-size:12px;color:#94a3b8;margin:0;">&copy; {{.Brand}}. This is an automated message, please do not reply.</p>
    </div>
  </div>
</body>
</html>`))

var alertTemplate = template.Must(template.New("alert").Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#f4f6f8;font-family:Arial,Helvetica,sans-serif;">
  <div style="max-width:520px;margin:24px auto;background:#ffffff;border-radius:12px;overflow:hidden;">
    <div style="background:#0f172a;padding:20px 28px;">
      <span style="color:#ffffff;font-size:20px;font-weight:bold;">{{.Brand}}</span>
    </div>
    <div style="padding:28px;">
      <p style="font-size:15px;color:#334155;">Hello {{.FullName}},</p>
      <p style="font-size:15px;color:#334155;">A {{.DirectionLabel}} transaction just completed on your account.</p>
      <div style="text-align:center;margin:24px 0;">
        <span style="font-size:28px;font-weight:bold;color:{{.Color}};">{{.SignedAmount}}</span>
      </div>
      <table style="width:100%;border-collapse:collapse;font-size:14px;color:#334155;">
        <tr><td style="padding:6px 0;color:#64748b;">Transaction ID</td><td style="padding:6px 0;text-align:right;">{{.TransactionID}}</td></tr>
        <tr><td style="padding:6px 0;color:#64748b;">Date</td><td style="padding:6px 0;text-align:right;">{{.Timestamp}}</td></tr>
        <tr><td style="padding:6px 0;color:#64748b;">Description</td><td style="padding:6px 0;text-align:right;">{{.Description}}</td></tr>
        {{if .RecipientName}}<tr><td style="padding:6px 0;color:#64748b;">Recipient</td><td style="padding:6px 0;text-align:right;">{{.RecipientName}}</td></tr>{{end}}
        {{if .RecipientAccount}}<tr><td style="padding:6px 0;color:#64748b;">Recipient Account</td><td style="padding:6px 0;text-align:right;">{{.RecipientAccount}}</td></tr>{{end}}
        <tr><td style="padding:6px 0;color:#64748b;">Available Balance</td><td style="padding:6px 0;text-align:right;font-weight:bold;">{{.Balance}}</td></tr>
      </table>
    </div>
    <div style="padding:16px 28px;border-top:1px solid #e2e8f0;">
      <p style="font-size:12px;color:#94a3b8;margin:0;">&copy; {{.Brand}}. This is an automated message, please do not reply.</p>
    </div>
  </div>
</body>
</html>`))

// renderOTPEmail produces the verification email body. fullName is optional;
// without it the greeting falls back to a generic salutation.
func renderOTPEmail(fullName, code string) (string, error) {
	greeting := fullName
	if greeting == "" {
		greeting = "there"
	}

	var buf bytes.Buffer
	err := otpTemplate.Execute(&buf, map[string]any{
		"Brand":         brandName,
		"Greeting":      greeting,
		"Code":          code,
		"ExpiryMinutes": int(domain.OTPTTL.Minutes()),
	})
	if err != nil {
		return "", fmt.Errorf("render otp email: %w", err)
	}
	return buf.String(), nil
}

// renderAlertEmail produces the subject and body of a transaction receipt.
// Credits render green with a "+" sign, debits red with a "−" sign.
func renderAlertEmail(a *domain.TransactionAlert, sentAt time.Time) (subject, html string, err error) {
	sign, color, label := "−", "#ef4444", "Debit"
	if a.IsCredit() {
		sign, color, label = "+", "#22c55e", "Credit"
	}

	signedAmount := fmt.Sprintf("%s%.2f %s", sign, a.Amount, a.Currency)
	subject = fmt.Sprintf("%s Alert: %s", label, signedAmount)

	var buf bytes.Buffer
	err = alertTemplate.Execute(&buf, map[string]any{
		"Brand":            brandName,
		"FullName":         a.FullName,
		"DirectionLabel":   label,
		"Color":            color,
		"SignedAmount":     signedAmount,
		"TransactionID":    a.TransactionID,
		"Timestamp":        sentAt.Format("Jan 2, 2006 3:04 PM"),
		"Description":      a.Description,
		"RecipientName":    a.RecipientName,
		"RecipientAccount": a.RecipientAccount,
		"Balance":          fmt.Sprintf("%.2f %s", a.Balance, a.Currency),
	})
	if err != nil {
		return "", "", fmt.Errorf("render alert email: %w", err)
	}
	return subject, buf.String(), nil
}
