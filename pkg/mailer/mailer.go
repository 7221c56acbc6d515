/**
 * @description
 * This package provides the SMTP email dispatcher used by every outbound mail path
 * in the service (OTP codes, transaction alerts, generic sends). It performs exactly
 * one synchronous delivery attempt per call: no retry, no backoff, no queuing.
 * Durability of "the user eventually gets the email" is explicitly not guaranteed
 * here; callers that need best-effort semantics catch the error themselves.
 *
 * Key features:
 * - Configuration is threaded in at construction time, never read from ambient
 *   globals at send time.
 * - Fails fast with a configuration error before any network I/O when the SMTP
 *   credentials are absent.
 * - Sends multipart/alternative (text + HTML) when both bodies are provided.
 *
 * @dependencies
 * - github.com/go-mail/mail: SMTP dialing and MIME message assembly.
 */
package mailer

import (
	"crypto/tls"
	"fmt"
	"log"

	mail "github.com/go-mail/mail"

	"github.com/moneypay/notification-service/internal/domain"
)

// Mailer dispatches emails through a single SMTP provider.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

// New creates a Mailer bound to the given SMTP endpoint and sender address.
func New(host string, port int, user, pass, from string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from}
}

// Configured reports whether the mailer has the credentials it needs to attempt
// a delivery.
func (m *Mailer) Configured() bool {
	return m.user != "" && m.pass != ""
}

// Send delivers one email. htmlBody is required by every caller in practice;
// textBody is an optional plain-text alternative.
func (m *Mailer) Send(to, subject, htmlBody, textBody string) error {
	if !m.Configured() {
		return domain.ErrSMTPNotConfigured
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)

	if textBody != "" {
		msg.SetBody("text/plain", textBody)
		msg.AddAlternative("text/html", htmlBody)
	} else {
		msg.SetBody("text/html", htmlBody)
	}

	dialer := mail.NewDialer(m.host, m.port, m.user, m.pass)
	dialer.TLSConfig = &tls.Config{ServerName: m.host}
	// Port 465 is implicit TLS; anything else negotiates STARTTLS if offered.
	dialer.SSL = m.port == 465

	if err := dialer.DialAndSend(msg); err != nil {
		log.Printf("level=error component=mailer msg=\"smtp send failed\" to=%s err=%v", to, err)
		return fmt.Errorf("smtp send: %w", err)
	}

	log.Printf("level=info component=mailer msg=\"email sent\" to=%s subject=%q", to, subject)
	return nil
}
