package mocks

import (
	"context"

	"github.com/SUJAY300/medi-vault-web-app/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	GenerateCodeFunc  func() string
	LoginFunc         func(ctx context.Context, email, password string) domain.SessionResult
	RequestOTPFunc    func(ctx context.Context, phone string) domain.SessionResult
	VerifyOTPFunc     func(ctx context.Context, phone, code string) domain.SessionResult
	SignupFunc        func(ctx context.Context, role domain.Role, form domain.SignupForm) domain.SessionResult
	CanResendFunc     func(ctx context.Context, phone string) (bool, error)
	InvalidateOTPFunc func(ctx context.Context, phone string) domain.SessionResult
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// GenerateCode returns a fixed code unless overridden
func (m *MockAuthService) GenerateCode() string {
	if m.GenerateCodeFunc != nil {
		return m.GenerateCodeFunc()
	}
	return "123456"
}

// Login authenticates by email and password
func (m *MockAuthService) Login(ctx context.Context, email, password string) domain.SessionResult {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	// Default behavior: successful login
	return domain.Succeeded(&domain.Principal{ID: "mock-id", Role: domain.RoleDoctor, FullName: "Mock User", Email: email})
}

// RequestOTP issues an OTP for the phone
func (m *MockAuthService) RequestOTP(ctx context.Context, phone string) domain.SessionResult {
	if m.RequestOTPFunc != nil {
		return m.RequestOTPFunc(ctx, phone)
	}
	return domain.SessionResult{Success: true, Message: "OTP sent successfully"}
}

// VerifyOTP checks a submitted code
func (m *MockAuthService) VerifyOTP(ctx context.Context, phone, code string) domain.SessionResult {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, phone, code)
	}
	return domain.Succeeded(&domain.Principal{ID: "mock-id", Role: domain.RolePatient, FullName: "Mock Patient", Phone: domain.NormalizePhone(phone)})
}

// Signup registers a new identity
func (m *MockAuthService) Signup(ctx context.Context, role domain.Role, form domain.SignupForm) domain.SessionResult {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, role, form)
	}
	return domain.Succeeded(&domain.Principal{ID: "mock-id", Role: role, FullName: form.FullName, Email: form.Email})
}

// CanResend reports whether a new OTP may be issued
func (m *MockAuthService) CanResend(ctx context.Context, phone string) (bool, error) {
	if m.CanResendFunc != nil {
		return m.CanResendFunc(ctx, phone)
	}
	return true, nil
}

// InvalidateOTP discards outstanding challenges
func (m *MockAuthService) InvalidateOTP(ctx context.Context, phone string) domain.SessionResult {
	if m.InvalidateOTPFunc != nil {
		return m.InvalidateOTPFunc(ctx, phone)
	}
	return domain.SessionResult{Success: true}
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
