package domain

import (
	"context"
	"time"
)

const (
	// ChallengeTTL is how long an issued OTP stays verifiable
	ChallengeTTL = 5 * time.Minute
	// ResendCooldown is the minimum interval between issuances for one phone
	ResendCooldown = 60 * time.Second
	// CodeLength is the number of digits in an OTP
	CodeLength = 6
)

// CredentialStore persists identity records
type CredentialStore interface {
	// FindByEmail looks up an identity by case-insensitive email
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	// FindByPhone looks up a Patient identity by phone; non-Patient matches are reported as not found
	FindByPhone(ctx context.Context, phone string) (*Identity, error)
	// Create persists a new identity and must return ErrDuplicateIdentity on a unique key collision
	Create(ctx context.Context, fields NewIdentity) (*Identity, error)
}

// ChallengeStore persists OTP challenges keyed by normalized phone
type ChallengeStore interface {
	// Store records a new challenge without touching earlier ones and returns the normalized key
	Store(ctx context.Context, phone, code string) (string, error)
	// Latest returns the most recently created challenge or ErrChallengeNotFound
	Latest(ctx context.Context, phone string) (*Challenge, error)
	// DeleteAll removes every challenge for the phone; deleting nothing is not an error
	DeleteAll(ctx context.Context, phone string) error
}

// ChallengeReaper removes challenges that are past their expiry
type ChallengeReaper interface {
	DeleteExpired(ctx context.Context) error
}

// RecordStore is a backend serving both identities and challenges
type RecordStore interface {
	CredentialStore
	ChallengeStore
	// Name identifies the backend in logs
	Name() string
}

// AuthService defines authentication business logic. Every operation reports its outcome as a SessionResult.
type AuthService interface {
	GenerateCode() string
	Login(ctx context.Context, email, password string) SessionResult
	RequestOTP(ctx context.Context, phone string) SessionResult
	VerifyOTP(ctx context.Context, phone, code string) SessionResult
	Signup(ctx context.Context, role Role, form SignupForm) SessionResult
	CanResend(ctx context.Context, phone string) (bool, error)
	InvalidateOTP(ctx context.Context, phone string) SessionResult
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// NotificationService delivers SMS messages
type NotificationService interface {
	IsConfigured() bool
	SendSMS(to, message string) error
}

// Clock abstracts the current time
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now implements Clock
func (SystemClock) Now() time.Time { return time.Now() }
