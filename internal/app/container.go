package app

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SUJAY300/medi-vault-web-app/domain"
	"github.com/SUJAY300/medi-vault-web-app/internal/config"
	"github.com/SUJAY300/medi-vault-web-app/internal/infrastructure/audit"
	"github.com/SUJAY300/medi-vault-web-app/internal/infrastructure/auth"
	"github.com/SUJAY300/medi-vault-web-app/internal/infrastructure/database"
	"github.com/SUJAY300/medi-vault-web-app/internal/infrastructure/memory"
	"github.com/SUJAY300/medi-vault-web-app/internal/infrastructure/notifications"
	"github.com/SUJAY300/medi-vault-web-app/internal/infrastructure/repositories"
	"github.com/SUJAY300/medi-vault-web-app/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Logger *zap.Logger
	Clock  domain.Clock

	// Infrastructure; nil when the durable store is not in use
	DB          *gorm.DB
	RedisClient *redis.Client

	// Record stores
	Durable  domain.RecordStore
	Fallback *memory.Store

	// Services
	PasswordSvc     domain.PasswordService
	NotificationSvc domain.NotificationService
	AuditLogger     domain.AuditLogger
	AuthSvc         *services.AuthServiceImpl

	ownsDB    bool
	ownsRedis bool
}

// Option customizes a Container
type Option func(*Container)

// WithDB uses an already opened database instead of connecting to cfg.DSN
func WithDB(db *gorm.DB) Option {
	return func(c *Container) { c.DB = db }
}

// WithRedis uses an existing Redis client for the redis OTP backend
func WithRedis(client *redis.Client) Option {
	return func(c *Container) { c.RedisClient = client }
}

// WithClock overrides the wall clock
func WithClock(clock domain.Clock) Option {
	return func(c *Container) { c.Clock = clock }
}

// NewContainer creates and initializes all dependencies.
// A durable store that cannot be reached at startup is logged and skipped; the service then runs on the in-memory store.
func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	container := &Container{Config: cfg, Logger: logger, Clock: domain.SystemClock{}}
	for _, opt := range opts {
		opt(container)
	}

	container.Fallback = memory.NewStore(container.Clock)
	container.initDurable(ctx)
	container.initServices()

	return container, nil
}

func (c *Container) initDurable(ctx context.Context) {
	if c.DB == nil {
		if !c.Config.DurableConfigured() {
			c.Logger.Info("no durable store configured, using in-memory store")
			return
		}
		db, err := database.Open(c.Config.DSN, c.Config.LogLevel == "debug")
		if err != nil {
			c.Logger.Warn("durable store unavailable, using in-memory store", zap.Error(err))
			return
		}
		c.DB = db
		c.ownsDB = true
	}

	if err := database.AutoMigrate(c.DB); err != nil {
		c.Logger.Warn("durable store migration failed, using in-memory store", zap.Error(err))
		c.closeDB()
		return
	}

	identities := repositories.NewIdentityRepository(c.DB, c.Clock)
	var challenges domain.ChallengeStore = repositories.NewChallengeRepository(c.DB, c.Clock)
	name := "postgres"

	if c.Config.OTPBackend == config.OTPBackendRedis {
		if c.RedisClient == nil {
			client, err := database.NewRedis(ctx, c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
			if err != nil {
				c.Logger.Warn("redis unavailable, keeping otp challenges in the database", zap.Error(err))
			} else {
				c.RedisClient = client
				c.ownsRedis = true
			}
		}
		if c.RedisClient != nil {
			challenges = repositories.NewRedisChallengeRepository(c.RedisClient, c.Clock)
			name = "postgres+redis"
		}
	}

	c.Durable = repositories.NewDurableStore(name, identities, challenges)
	c.Logger.Info("durable store ready", zap.String("backend", name))
}

func (c *Container) initServices() {
	c.PasswordSvc = auth.NewPasswordService(c.Config.BcryptCost)
	c.NotificationSvc = notifications.NewTwilioService(
		c.Config.TwilioSID,
		c.Config.TwilioToken,
		c.Config.TwilioFrom,
		c.Logger,
	)
	c.AuditLogger = audit.NewZapAuditLogger(c.Logger)

	c.AuthSvc = services.NewAuthService(
		services.Backends{Durable: c.Durable, Fallback: c.Fallback},
		c.PasswordSvc,
		c.NotificationSvc,
		c.AuditLogger,
		c.Logger,
		c.Clock,
		services.AuthConfig{
			StoreTimeout: c.Config.StoreTimeout,
			DevMode:      c.Config.DevMode(),
		},
	)
}

// SeedDemoAdmin creates the demo administrator in every active store
func (c *Container) SeedDemoAdmin(ctx context.Context) error {
	admin := services.DemoAdmin{
		Email:    c.Config.DemoAdminEmail,
		Password: c.Config.DemoAdminPass,
		FullName: c.Config.DemoAdminName,
	}

	if _, err := services.SeedDemoAdmin(ctx, c.Fallback, c.PasswordSvc, admin, c.Logger); err != nil {
		return err
	}
	if c.Durable != nil {
		if _, err := services.SeedDemoAdmin(ctx, c.Durable, c.PasswordSvc, admin, c.Logger); err != nil {
			c.Logger.Warn("failed to seed demo admin in durable store", zap.Error(err))
		}
	}
	return nil
}

// Reapers returns the stores that support expired challenge cleanup
func (c *Container) Reapers() []domain.ChallengeReaper {
	reapers := []domain.ChallengeReaper{c.Fallback}
	if reaper, ok := c.Durable.(domain.ChallengeReaper); ok {
		reapers = append(reapers, reaper)
	}
	return reapers
}

// Close closes all connections the container opened
func (c *Container) Close() error {
	var errs []error
	if c.ownsRedis && c.RedisClient != nil {
		errs = append(errs, c.RedisClient.Close())
	}
	errs = append(errs, c.closeDB())
	return errors.Join(errs...)
}

func (c *Container) closeDB() error {
	if !c.ownsDB || c.DB == nil {
		c.DB = nil
		return nil
	}
	err := database.Close(c.DB)
	c.DB = nil
	c.ownsDB = false
	return err
}
