package services

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/SUJAY300/medi-vault-web-app/domain"
	"github.com/SUJAY300/medi-vault-web-app/internal/infrastructure/memory"
	"github.com/SUJAY300/medi-vault-web-app/internal/mocks"
)

var testStart = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// serviceFixture bundles an AuthServiceImpl with the collaborators tests inspect
type serviceFixture struct {
	svc       *AuthServiceImpl
	fallback  *memory.Store
	clock     *mocks.FakeClock
	sms       *mocks.MockNotificationService
	passwords *mocks.MockPasswordService
	audit     *mocks.MockAuditLogger
	logs      *observer.ObservedLogs
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	durable  domain.RecordStore
	config   AuthConfig
	smsReady bool
}

func withDurable(store domain.RecordStore) fixtureOption {
	return func(c *fixtureConfig) { c.durable = store }
}

func withDevMode() fixtureOption {
	return func(c *fixtureConfig) { c.config.DevMode = true }
}

func withoutSMS() fixtureOption {
	return func(c *fixtureConfig) { c.smsReady = false }
}

// newServiceFixture creates an AuthServiceImpl over an in-memory fallback store with mock collaborators
func newServiceFixture(t *testing.T, opts ...fixtureOption) *serviceFixture {
	t.Helper()

	cfg := fixtureConfig{smsReady: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	clock := mocks.NewFakeClock(testStart)
	core, logs := observer.New(zapcore.DebugLevel)
	sms := mocks.NewMockNotificationService()
	sms.Configured = cfg.smsReady
	f := &serviceFixture{
		fallback:  memory.NewStore(clock),
		clock:     clock,
		sms:       sms,
		passwords: mocks.NewMockPasswordService(),
		audit:     mocks.NewMockAuditLogger(),
		logs:      logs,
	}
	f.svc = NewAuthService(
		Backends{Durable: cfg.durable, Fallback: f.fallback},
		f.passwords,
		f.sms,
		f.audit,
		zap.New(core),
		clock,
		cfg.config,
	)
	return f
}

// registerPatient creates a Patient identity directly in the fallback store
func (f *serviceFixture) registerPatient(t *testing.T, phone, fullName string) *domain.Identity {
	t.Helper()

	identity, err := f.fallback.Create(context.Background(), domain.NewIdentity{
		Phone:    phone,
		Role:     domain.RolePatient,
		FullName: fullName,
	})
	if err != nil {
		t.Fatalf("failed to register patient: %v", err)
	}
	return identity
}

// registerProfessional creates an email/password identity directly in the fallback store
func (f *serviceFixture) registerProfessional(t *testing.T, role domain.Role, email, password string) *domain.Identity {
	t.Helper()

	identity, err := f.fallback.Create(context.Background(), domain.NewIdentity{
		Email:        email,
		PasswordHash: "hashed_" + password,
		Role:         role,
		FullName:     "Test " + string(role),
		License:      "LIC-100",
	})
	if err != nil {
		t.Fatalf("failed to register %s: %v", role, err)
	}
	return identity
}

// issuedCode returns the code carried by the last SMS
func (f *serviceFixture) issuedCode(t *testing.T) string {
	t.Helper()

	if len(f.sms.Sent) == 0 {
		t.Fatal("no sms was sent")
	}
	msg := f.sms.Sent[len(f.sms.Sent)-1].Message
	const prefix = "Your MediVault verification code is: "
	if len(msg) < len(prefix)+domain.CodeLength {
		t.Fatalf("unexpected sms body %q", msg)
	}
	return msg[len(prefix) : len(prefix)+domain.CodeLength]
}

// assertFailure checks a failed result's status and message
func assertFailure(t *testing.T, res domain.SessionResult, status domain.Status, msg string) {
	t.Helper()

	if res.Success {
		t.Fatalf("expected failure, got success %+v", res)
	}
	if res.Status != status {
		t.Errorf("expected status %s, got %s", status, res.Status)
	}
	if res.Error != msg {
		t.Errorf("expected error %q, got %q", msg, res.Error)
	}
	if res.User != nil {
		t.Errorf("expected no user on failure, got %+v", res.User)
	}
}

// assertPrincipal checks a successful result's principal summary
func assertPrincipal(t *testing.T, res domain.SessionResult, expected *domain.Identity) {
	t.Helper()

	if !res.Success {
		t.Fatalf("expected success, got %s: %s", res.Status, res.Error)
	}
	if res.User == nil {
		t.Fatal("expected user in result")
	}
	want := expected.Principal()
	if *res.User != *want {
		t.Errorf("expected principal %+v, got %+v", *want, *res.User)
	}
}

// mustStore issues a challenge directly in the fallback store
func mustStore(t *testing.T, f *serviceFixture, phone, code string) {
	t.Helper()

	if _, err := f.fallback.Store(context.Background(), phone, code); err != nil {
		t.Fatalf("failed to store challenge: %v", err)
	}
}
