package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/SUJAY300/medi-vault-web-app/domain"
)

// DemoAdmin describes the bootstrap administrator account
type DemoAdmin struct {
	Email    string
	Password string
	FullName string
}

// DefaultDemoAdmin is the development administrator
var DefaultDemoAdmin = DemoAdmin{
	Email:    "admin@medivault.com",
	Password: "Admin@123",
	FullName: "System Admin",
}

// SeedDemoAdmin creates the admin identity in store unless one with the same email exists.
// It reports whether an identity was created.
func SeedDemoAdmin(ctx context.Context, store domain.CredentialStore, passwordSvc domain.PasswordService, admin DemoAdmin, logger *zap.Logger) (bool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	_, err := store.FindByEmail(ctx, admin.Email)
	switch {
	case err == nil:
		logger.Info("demo admin already exists", zap.String("email", admin.Email))
		return false, nil
	case !errors.Is(err, domain.ErrIdentityNotFound):
		return false, fmt.Errorf("failed to look up demo admin: %w", err)
	}

	hash, err := passwordSvc.Hash(admin.Password)
	if err != nil {
		return false, fmt.Errorf("failed to hash demo admin password: %w", err)
	}

	_, err = store.Create(ctx, domain.NewIdentity{
		Email:        admin.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		FullName:     admin.FullName,
	})
	if errors.Is(err, domain.ErrDuplicateIdentity) {
		// created concurrently by another instance
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create demo admin: %w", err)
	}

	logger.Info("demo admin created", zap.String("email", admin.Email))
	return true, nil
}
