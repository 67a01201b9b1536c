package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"

	"github.com/SUJAY300/medi-vault-web-app/domain"
)

// ChallengeRepository implements domain.ChallengeStore using GORM
type ChallengeRepository struct {
	db    *gorm.DB
	clock domain.Clock
}

// DBChallenge represents the database model for an OTP challenge
type DBChallenge struct {
	ID        string    `gorm:"primaryKey;size:26"`
	Phone     string    `gorm:"index;size:32;not null"`
	Code      string    `gorm:"size:6;not null"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

// TableName returns the table name for GORM
func (DBChallenge) TableName() string {
	return "otp_challenges"
}

// NewChallengeRepository creates a new challenge repository
func NewChallengeRepository(db *gorm.DB, clock domain.Clock) *ChallengeRepository {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &ChallengeRepository{db: db, clock: clock}
}

// Store implements domain.ChallengeStore
func (r *ChallengeRepository) Store(ctx context.Context, phone, code string) (string, error) {
	challenge := domain.NewChallenge(ulid.Make().String(), phone, code, r.clock.Now().UTC())
	dbChallenge := &DBChallenge{
		ID:        challenge.ID,
		Phone:     challenge.Phone,
		Code:      challenge.Code,
		CreatedAt: challenge.CreatedAt,
		ExpiresAt: challenge.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(dbChallenge).Error; err != nil {
		return "", fmt.Errorf("failed to store otp challenge: %w", err)
	}
	return challenge.Phone, nil
}

// Latest implements domain.ChallengeStore. ULID ids break ties between challenges issued in the same instant.
func (r *ChallengeRepository) Latest(ctx context.Context, phone string) (*domain.Challenge, error) {
	var dbChallenge DBChallenge
	err := r.db.WithContext(ctx).
		Where("phone = ?", domain.NormalizePhone(phone)).
		Order("created_at desc").
		Order("id desc").
		First(&dbChallenge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to query otp challenge: %w", err)
	}
	return &domain.Challenge{
		ID:        dbChallenge.ID,
		Phone:     dbChallenge.Phone,
		Code:      dbChallenge.Code,
		CreatedAt: dbChallenge.CreatedAt,
		ExpiresAt: dbChallenge.ExpiresAt,
	}, nil
}

// DeleteAll implements domain.ChallengeStore
func (r *ChallengeRepository) DeleteAll(ctx context.Context, phone string) error {
	err := r.db.WithContext(ctx).
		Where("phone = ?", domain.NormalizePhone(phone)).
		Delete(&DBChallenge{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete otp challenges: %w", err)
	}
	return nil
}

// DeleteExpired implements domain.ChallengeReaper
func (r *ChallengeRepository) DeleteExpired(ctx context.Context) error {
	err := r.db.WithContext(ctx).
		Where("expires_at < ?", r.clock.Now().UTC()).
		Delete(&DBChallenge{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete expired otp challenges: %w", err)
	}
	return nil
}

var (
	_ domain.ChallengeStore  = (*ChallengeRepository)(nil)
	_ domain.ChallengeReaper = (*ChallengeRepository)(nil)
)
