package app

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/moneypay/notification-service/internal/domain"
	"github.com/moneypay/notification-service/internal/store"
)

const testSecret = "test-token-secret"

type fakeRepo struct {
	records     map[string]*domain.OTPRecord
	failReplace error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[string]*domain.OTPRecord)}
}

func (r *fakeRepo) ReplaceOTP(ctx context.Context, rec *domain.OTPRecord) error {
	if r.failReplace != nil {
		return r.failReplace
	}
	clone := *rec
	r.records[rec.Email] = &clone
	return nil
}

func (r *fakeRepo) GetOTPByEmail(ctx context.Context, email string) (*domain.OTPRecord, error) {
	rec, ok := r.records[email]
	if !ok {
		return nil, store.ErrOTPNotFound
	}
	clone := *rec
	return &clone, nil
}

func (r *fakeRepo) MarkVerified(ctx context.Context, email string) error {
	rec, ok := r.records[email]
	if !ok {
		return store.ErrOTPNotFound
	}
	rec.Verified = true
	return nil
}

func (r *fakeRepo) DeleteOTP(ctx context.Context, email string) error {
	delete(r.records, email)
	return nil
}

type sentMail struct {
	to      string
	subject string
	html    string
	text    string
}

type fakeMailer struct {
	configured bool
	failWith   error
	sent       []sentMail
}

func (m *fakeMailer) Configured() bool { return m.configured }

func (m *fakeMailer) Send(to, subject, htmlBody, textBody string) error {
	if !m.configured {
		return domain.ErrSMTPNotConfigured
	}
	if m.failWith != nil {
		return m.failWith
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, html: htmlBody, text: textBody})
	return nil
}

type fakeLimiter struct {
	counts map[string]int
}

func (l *fakeLimiter) ConsumeRateLimit(ctx context.Context, scope, subject string, limit int, window time.Duration) (int, int, error) {
	if l.counts == nil {
		l.counts = make(map[string]int)
	}
	key := scope + ":" + subject
	l.counts[key]++
	return l.counts[key], 1, nil
}

func newTestService(repo *fakeRepo, mailer *fakeMailer) *Service {
	return NewService(repo, mailer, nil, testSecret)
}

func TestIssueOTPPersistsSixDigitCodeWithTenMinuteExpiry(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{configured: true}
	svc := newTestService(repo, mailer)

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.IssueOTP(context.Background(), "alice@example.com", "Alice")
	if err != nil {
		t.Fatalf("IssueOTP returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty issuance token")
	}

	rec, ok := repo.records["alice@example.com"]
	if !ok {
		t.Fatal("expected a persisted otp record")
	}
	if !regexp.MustCompile(`^[0-9]{6}$`).MatchString(rec.Code) {
		t.Fatalf("expected a 6-digit code, got %q", rec.Code)
	}
	if got := rec.ExpiresAt.Sub(rec.IssuedAt); got != 10*time.Minute {
		t.Fatalf("expected 600s validity, got %s", got)
	}
	if rec.Verified {
		t.Fatal("fresh record must not be verified")
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected exactly one email, got %d", len(mailer.sent))
	}
	if mailer.sent[0].to != "alice@example.com" {
		t.Fatalf("email sent to %q", mailer.sent[0].to)
	}
	if !strings.Contains(mailer.sent[0].html, rec.Code) {
		t.Fatal("email body must embed the issued code")
	}
	if !strings.Contains(mailer.sent[0].html, "Alice") {
		t.Fatal("email body must greet the user by name")
	}
}

func TestIssueOTPReplacesPreviousCode(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{configured: true}
	svc := newTestService(repo, mailer)

	firstToken, err := svc.IssueOTP(context.Background(), "alice@example.com", "")
	if err != nil {
		t.Fatalf("first issue failed: %v", err)
	}
	firstCode := repo.records["alice@example.com"].Code

	// Force a different second code so the test cannot pass by collision.
	for i := 0; i < 50; i++ {
		if _, err := svc.IssueOTP(context.Background(), "alice@example.com", ""); err != nil {
			t.Fatalf("reissue failed: %v", err)
		}
		if repo.records["alice@example.com"].Code != firstCode {
			break
		}
	}
	secondCode := repo.records["alice@example.com"].Code
	if secondCode == firstCode {
		t.Fatal("could not obtain a distinct second code")
	}

	err = svc.VerifyOTP(context.Background(), "alice@example.com", firstCode, firstToken)
	if !errors.Is(err, domain.ErrInvalidCode) {
		t.Fatalf("expected superseded code to fail with invalid code, got %v", err)
	}

	if err := svc.VerifyOTP(context.Background(), "alice@example.com", secondCode, firstToken); err != nil {
		t.Fatalf("current code should verify: %v", err)
	}
}

func TestIssueOTPFailsFastWithoutSMTPCredentials(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{configured: false}
	svc := newTestService(repo, mailer)

	_, err := svc.IssueOTP(context.Background(), "alice@example.com", "")
	if !errors.Is(err, domain.ErrSMTPNotConfigured) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if len(repo.records) != 0 {
		t.Fatal("no record may be persisted when the mailer is unconfigured")
	}
}

func TestIssueOTPPersistenceFailureSkipsEmail(t *testing.T) {
	repo := newFakeRepo()
	repo.failReplace = errors.New("connection refused")
	mailer := &fakeMailer{configured: true}
	svc := newTestService(repo, mailer)

	_, err := svc.IssueOTP(context.Background(), "alice@example.com", "")
	if err == nil || !strings.Contains(err.Error(), "persist otp") {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatal("no email may be attempted after a persistence failure")
	}
}

func TestVerifyOTPSucceedsAndStaysVerifiable(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{configured: true}
	svc := newTestService(repo, mailer)

	token, err := svc.IssueOTP(context.Background(), "alice@example.com", "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	code := repo.records["alice@example.com"].Code

	if err := svc.VerifyOTP(context.Background(), "alice@example.com", code, token); err != nil {
		t.Fatalf("first verify failed: %v", err)
	}
	if !repo.records["alice@example.com"].Verified {
		t.Fatal("record must be marked verified")
	}

	// The record is retained, so repeating the call keeps succeeding.
	if err := svc.VerifyOTP(context.Background(), "alice@example.com", code, token); err != nil {
		t.Fatalf("repeat verify failed: %v", err)
	}
}

func TestVerifyOTPExpiresAfterTenMinutes(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{configured: true}
	svc := newTestService(repo, mailer)

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.IssueOTP(context.Background(), "alice@example.com", "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	code := repo.records["alice@example.com"].Code

	// One second inside the window still verifies.
	svc.now = func() time.Time { return issuedAt.Add(10*time.Minute - time.Second) }
	if err := svc.VerifyOTP(context.Background(), "alice@example.com", code, token); err != nil {
		t.Fatalf("verify inside window failed: %v", err)
	}

	// Re-issue, then step past the window: correct code must fail and the stale
	// record must be cleaned up.
	svc.now = func() time.Time { return issuedAt }
	token, err = svc.IssueOTP(context.Background(), "bob@example.com", "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	code = repo.records["bob@example.com"].Code

	svc.now = func() time.Time { return issuedAt.Add(10*time.Minute + time.Second) }
	err = svc.VerifyOTP(context.Background(), "bob@example.com", code, token)
	if !errors.Is(err, domain.ErrCodeExpired) {
		t.Fatalf("expected expiry error, got %v", err)
	}
	if err.Error() != "Code has expired" {
		t.Fatalf("expected user-facing expiry message, got %q", err.Error())
	}
	if _, ok := repo.records["bob@example.com"]; ok {
		t.Fatal("stale record must be deleted when observed expired")
	}
}

func TestVerifyOTPEmailMismatch(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{configured: true}
	svc := newTestService(repo, mailer)

	token, err := svc.IssueOTP(context.Background(), "bob@x.com", "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	code := repo.records["bob@x.com"].Code

	err = svc.VerifyOTP(context.Background(), "eve@x.com", code, token)
	if !errors.Is(err, domain.ErrEmailMismatch) {
		t.Fatalf("expected email mismatch, got %v", err)
	}
	if err.Error() != "Email mismatch" {
		t.Fatalf("expected user-facing mismatch message, got %q", err.Error())
	}
}

func TestVerifyOTPMissingFields(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeMailer{configured: true})

	tests := []struct {
		name  string
		email string
		code  string
		token string
	}{
		{name: "no email", email: "", code: "482913", token: "x.y"},
		{name: "no code", email: "alice@example.com", code: "", token: "x.y"},
		{name: "no token", email: "alice@example.com", code: "482913", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.VerifyOTP(context.Background(), tt.email, tt.code, tt.token)
			if !errors.Is(err, domain.ErrMissingFields) {
				t.Fatalf("expected missing-field error, got %v", err)
			}
		})
	}
}

func TestVerifyOTPRejectsWrongCodeAndTamperedToken(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{configured: true}
	svc := newTestService(repo, mailer)

	token, err := svc.IssueOTP(context.Background(), "alice@example.com", "")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	code := repo.records["alice@example.com"].Code

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	if err := svc.VerifyOTP(context.Background(), "alice@example.com", wrong, token); !errors.Is(err, domain.ErrInvalidCode) {
		t.Fatalf("expected invalid code, got %v", err)
	}

	tampered := token + "x"
	if err := svc.VerifyOTP(context.Background(), "alice@example.com", code, tampered); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestIssueOTPRateLimited(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{configured: true}
	svc := NewService(repo, mailer, &fakeLimiter{}, testSecret)
	svc.IssueLimit = 2
	svc.IssueWindow = 15 * time.Minute

	for i := 0; i < 2; i++ {
		if _, err := svc.IssueOTP(context.Background(), "alice@example.com", ""); err != nil {
			t.Fatalf("issue %d failed: %v", i+1, err)
		}
	}

	_, err := svc.IssueOTP(context.Background(), "alice@example.com", "")
	if !errors.Is(err, domain.ErrTooManyRequests) {
		t.Fatalf("expected rate limit error, got %v", err)
	}

	// Other emails have independent windows.
	if _, err := svc.IssueOTP(context.Background(), "bob@example.com", ""); err != nil {
		t.Fatalf("unrelated email must not be limited: %v", err)
	}
}

func TestSendTransactionAlertNeverPropagatesDeliveryFailure(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeMailer{configured: false})

	result := svc.SendTransactionAlert(&domain.TransactionAlert{
		Email:         "alice@example.com",
		FullName:      "Alice",
		Type:          domain.DirectionDebit,
		Amount:        1500,
		Currency:      "NGN",
		Description:   "Transfer to Bob",
		Balance:       8500,
		TransactionID: "tx-123",
	})

	if result.OK {
		t.Fatal("expected a failed result")
	}
	if !strings.Contains(result.Error, "SMTP credentials not configured") {
		t.Fatalf("expected configuration error in result, got %q", result.Error)
	}
}

func TestSendTransactionAlertComposition(t *testing.T) {
	tests := []struct {
		name        string
		direction   string
		wantSubject string
		wantColor   string
		wantSign    string
	}{
		{name: "credit", direction: domain.DirectionCredit, wantSubject: "Credit Alert: +2500.00 NGN", wantColor: "#22c55e", wantSign: "+2500.00 NGN"},
		{name: "debit", direction: domain.DirectionDebit, wantSubject: "Debit Alert: −2500.00 NGN", wantColor: "#ef4444", wantSign: "−2500.00 NGN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &fakeMailer{configured: true}
			svc := newTestService(newFakeRepo(), mailer)

			result := svc.SendTransactionAlert(&domain.TransactionAlert{
				Email:            "alice@example.com",
				FullName:         "Alice",
				Type:             tt.direction,
				Amount:           2500,
				Currency:         "NGN",
				Description:      "Wallet funding",
				Balance:          12500,
				TransactionID:    "tx-456",
				RecipientName:    "Bob",
				RecipientAccount: "0123456789",
			})
			if !result.OK {
				t.Fatalf("alert send failed: %s", result.Error)
			}
			if len(mailer.sent) != 1 {
				t.Fatalf("expected one email, got %d", len(mailer.sent))
			}

			mail := mailer.sent[0]
			if mail.subject != tt.wantSubject {
				t.Fatalf("expected subject %q, got %q", tt.wantSubject, mail.subject)
			}
			for _, want := range []string{tt.wantColor, tt.wantSign, "tx-456", "Wallet funding", "Bob", "0123456789", "12500.00 NGN"} {
				if !strings.Contains(mail.html, want) {
					t.Fatalf("alert body missing %q", want)
				}
			}
		})
	}
}

func TestSendTransactionAlertAssignsTransactionID(t *testing.T) {
	mailer := &fakeMailer{configured: true}
	svc := newTestService(newFakeRepo(), mailer)

	alert := &domain.TransactionAlert{
		Email:    "alice@example.com",
		FullName: "Alice",
		Type:     domain.DirectionCredit,
		Amount:   10,
		Currency: "USD",
	}
	if result := svc.SendTransactionAlert(alert); !result.OK {
		t.Fatalf("alert send failed: %s", result.Error)
	}
	if alert.TransactionID == "" {
		t.Fatal("expected a generated transaction id")
	}
}
