package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SUJAY300/medi-vault-web-app/domain"
)

// IdentityRepository implements domain.CredentialStore using GORM
type IdentityRepository struct {
	db    *gorm.DB
	clock domain.Clock
}

// DBIdentity represents the database model for Identity (with GORM tags).
// Email and Phone are nullable so the unique indexes only apply where a value is present.
type DBIdentity struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Email        *string   `gorm:"uniqueIndex;size:255"`
	Phone        *string   `gorm:"uniqueIndex;size:32"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"index;size:16;not null"`
	FullName     string    `gorm:"size:255;not null"`
	License      string    `gorm:"size:64"`
	CreatedAt    time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBIdentity) TableName() string {
	return "identities"
}

// NewIdentityRepository creates a new identity repository
func NewIdentityRepository(db *gorm.DB, clock domain.Clock) *IdentityRepository {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &IdentityRepository{db: db, clock: clock}
}

// Create implements domain.CredentialStore. Uniqueness is enforced by the table's unique indexes.
func (r *IdentityRepository) Create(ctx context.Context, fields domain.NewIdentity) (*domain.Identity, error) {
	fields = fields.Canonical()
	dbIdentity := &DBIdentity{
		ID:           uuid.NewString(),
		Email:        nullable(fields.Email),
		Phone:        nullable(fields.Phone),
		PasswordHash: fields.PasswordHash,
		Role:         string(fields.Role),
		FullName:     fields.FullName,
		License:      fields.License,
		CreatedAt:    r.clock.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(dbIdentity).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, domain.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}
	return r.dbToDomain(dbIdentity), nil
}

// FindByEmail implements domain.CredentialStore
func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	if key == "" {
		return nil, domain.ErrIdentityNotFound
	}
	return r.findOne(ctx, "email = ?", key)
}

// FindByPhone implements domain.CredentialStore. Only Patient identities sign in by phone.
func (r *IdentityRepository) FindByPhone(ctx context.Context, phone string) (*domain.Identity, error) {
	key := domain.NormalizePhone(phone)
	if key == "" {
		return nil, domain.ErrIdentityNotFound
	}
	identity, err := r.findOne(ctx, "phone = ?", key)
	if err != nil {
		return nil, err
	}
	if identity.Role != domain.RolePatient {
		return nil, domain.ErrIdentityNotFound
	}
	return identity, nil
}

func (r *IdentityRepository) findOne(ctx context.Context, query string, arg string) (*domain.Identity, error) {
	var dbIdentity DBIdentity
	err := r.db.WithContext(ctx).Where(query, arg).First(&dbIdentity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("failed to query identity: %w", err)
	}
	return r.dbToDomain(&dbIdentity), nil
}

// dbToDomain converts database identity to domain identity
func (r *IdentityRepository) dbToDomain(dbIdentity *DBIdentity) *domain.Identity {
	return &domain.Identity{
		ID:           dbIdentity.ID,
		Email:        deref(dbIdentity.Email),
		Phone:        deref(dbIdentity.Phone),
		PasswordHash: dbIdentity.PasswordHash,
		Role:         domain.Role(dbIdentity.Role),
		FullName:     dbIdentity.FullName,
		License:      dbIdentity.License,
		CreatedAt:    dbIdentity.CreatedAt,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ domain.CredentialStore = (*IdentityRepository)(nil)
