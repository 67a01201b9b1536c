package mocks

import (
	"context"
	"sync"

	"github.com/SUJAY300/medi-vault-web-app/domain"
)

// MockRecordStore implements domain.RecordStore for testing. Unset funcs fall back to not-found / success.
type MockRecordStore struct {
	NameValue string

	FindByEmailFunc func(ctx context.Context, email string) (*domain.Identity, error)
	FindByPhoneFunc func(ctx context.Context, phone string) (*domain.Identity, error)
	CreateFunc      func(ctx context.Context, fields domain.NewIdentity) (*domain.Identity, error)
	StoreFunc       func(ctx context.Context, phone, code string) (string, error)
	LatestFunc      func(ctx context.Context, phone string) (*domain.Challenge, error)
	DeleteAllFunc   func(ctx context.Context, phone string) error

	mu    sync.Mutex
	calls []string
}

// NewMockRecordStore creates a new MockRecordStore with default behaviors
func NewMockRecordStore() *MockRecordStore {
	return &MockRecordStore{NameValue: "mock"}
}

// NewFailingRecordStore returns a store whose every operation fails with err
func NewFailingRecordStore(err error) *MockRecordStore {
	m := NewMockRecordStore()
	m.NameValue = "failing"
	m.FindByEmailFunc = func(ctx context.Context, email string) (*domain.Identity, error) { return nil, err }
	m.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.Identity, error) { return nil, err }
	m.CreateFunc = func(ctx context.Context, fields domain.NewIdentity) (*domain.Identity, error) { return nil, err }
	m.StoreFunc = func(ctx context.Context, phone, code string) (string, error) { return "", err }
	m.LatestFunc = func(ctx context.Context, phone string) (*domain.Challenge, error) { return nil, err }
	m.DeleteAllFunc = func(ctx context.Context, phone string) error { return err }
	return m
}

// Name returns the configured backend name
func (m *MockRecordStore) Name() string {
	return m.NameValue
}

// FindByEmail finds an identity by email
func (m *MockRecordStore) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	m.record("FindByEmail")
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrIdentityNotFound
}

// FindByPhone finds a patient identity by phone
func (m *MockRecordStore) FindByPhone(ctx context.Context, phone string) (*domain.Identity, error) {
	m.record("FindByPhone")
	if m.FindByPhoneFunc != nil {
		return m.FindByPhoneFunc(ctx, phone)
	}
	return nil, domain.ErrIdentityNotFound
}

// Create creates a new identity
func (m *MockRecordStore) Create(ctx context.Context, fields domain.NewIdentity) (*domain.Identity, error) {
	m.record("Create")
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, fields)
	}
	fields = fields.Canonical()
	return &domain.Identity{
		ID:           "mock-id",
		Email:        fields.Email,
		Phone:        fields.Phone,
		PasswordHash: fields.PasswordHash,
		Role:         fields.Role,
		FullName:     fields.FullName,
		License:      fields.License,
	}, nil
}

// Store records a challenge
func (m *MockRecordStore) Store(ctx context.Context, phone, code string) (string, error) {
	m.record("Store")
	if m.StoreFunc != nil {
		return m.StoreFunc(ctx, phone, code)
	}
	return domain.NormalizePhone(phone), nil
}

// Latest returns the newest challenge for the phone
func (m *MockRecordStore) Latest(ctx context.Context, phone string) (*domain.Challenge, error) {
	m.record("Latest")
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx, phone)
	}
	return nil, domain.ErrChallengeNotFound
}

// DeleteAll removes every challenge for the phone
func (m *MockRecordStore) DeleteAll(ctx context.Context, phone string) error {
	m.record("DeleteAll")
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx, phone)
	}
	return nil
}

// Calls returns the names of the methods invoked so far, in order
func (m *MockRecordStore) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockRecordStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

// Compile-time interface compliance verification
var _ domain.RecordStore = (*MockRecordStore)(nil)
