package mocks

import "github.com/SUJAY300/medi-vault-web-app/domain"

// SentSMS records one delivered message
type SentSMS struct {
	To      string
	Message string
}

// MockNotificationService implements domain.NotificationService interface for testing
type MockNotificationService struct {
	Configured  bool
	SendSMSFunc func(to, message string) error

	Sent []SentSMS
}

// NewMockNotificationService creates a configured MockNotificationService
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{Configured: true}
}

// IsConfigured reports whether the mock pretends to have provider credentials
func (m *MockNotificationService) IsConfigured() bool {
	return m.Configured
}

// SendSMS sends an SMS message
func (m *MockNotificationService) SendSMS(to, message string) error {
	if m.SendSMSFunc != nil {
		if err := m.SendSMSFunc(to, message); err != nil {
			return err
		}
	}
	// Default behavior: success (no actual SMS sent in tests)
	m.Sent = append(m.Sent, SentSMS{To: to, Message: message})
	return nil
}

// Compile-time interface compliance verification
var _ domain.NotificationService = (*MockNotificationService)(nil)
