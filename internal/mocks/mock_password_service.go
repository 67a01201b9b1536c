package mocks

import (
	"sync/atomic"

	"github.com/SUJAY300/medi-vault-web-app/domain"
)

// MockPasswordService implements domain.PasswordService with a reversible "hashed_" prefix digest
type MockPasswordService struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(hashedPassword, password string) bool

	hashCalls atomic.Int32
}

// NewMockPasswordService creates a new MockPasswordService with default behaviors
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

// Hash digests the password
func (m *MockPasswordService) Hash(password string) (string, error) {
	m.hashCalls.Add(1)
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed_" + password, nil
}

// Verify compares a password against a digest produced by Hash
func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	return hashedPassword != "" && hashedPassword == "hashed_"+password
}

// HashCalls returns how many times Hash ran
func (m *MockPasswordService) HashCalls() int {
	return int(m.hashCalls.Load())
}

// Compile-time interface compliance verification
var _ domain.PasswordService = (*MockPasswordService)(nil)
