package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks for the YAML file
const DefaultPath = "config/config.yml"

// OTP challenge backends
const (
	OTPBackendDatabase = "database"
	OTPBackendRedis    = "redis"
)

type AppConfig struct {
	Port        int    `yaml:"port" env:"PORT"`
	GinMode     string `yaml:"gin_mode" env:"GIN_MODE"`
	Environment string `yaml:"environment" env:"APP_ENV"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

type DatabaseConfig struct {
	DSN            string `yaml:"dsn" env:"DATABASE_URL"`
	StoreTimeout   string `yaml:"store_timeout" env:"STORE_TIMEOUT"`
	ReaperInterval string `yaml:"reaper_interval" env:"REAPER_INTERVAL"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type OTPConfig struct {
	Backend string `yaml:"backend" env:"OTP_BACKEND"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid" env:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `yaml:"auth_token" env:"TWILIO_AUTH_TOKEN"`
	FromNumber string `yaml:"from_number" env:"TWILIO_PHONE_NUMBER"`
}

type SecurityConfig struct {
	BcryptCost int `yaml:"bcrypt_cost" env:"BCRYPT_COST"`
}

type SeedConfig struct {
	DemoAdmin bool   `yaml:"demo_admin" env:"SEED_DEMO_ADMIN"`
	Email     string `yaml:"email" env:"DEMO_ADMIN_EMAIL"`
	Password  string `yaml:"password" env:"DEMO_ADMIN_PASSWORD"`
	FullName  string `yaml:"full_name" env:"DEMO_ADMIN_NAME"`
}

// ConfigFile mirrors config.yml. Environment variables override file values.
type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	OTP      OTPConfig      `yaml:"otp"`
	Twilio   TwilioConfig   `yaml:"twilio"`
	Security SecurityConfig `yaml:"security"`
	Seed     SeedConfig     `yaml:"seed"`
}

type Config struct {
	Port           string
	GinMode        string
	Environment    string
	LogLevel       string
	LogFormat      string
	DSN            string
	StoreTimeout   time.Duration
	ReaperInterval time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	OTPBackend     string
	TwilioSID      string
	TwilioToken    string
	TwilioFrom     string
	BcryptCost     int
	SeedDemoAdmin  bool
	DemoAdminEmail string
	DemoAdminPass  string
	DemoAdminName  string
}

// DurableConfigured reports whether a durable record store is configured
func (c *Config) DurableConfigured() bool {
	return c.DSN != ""
}

// DevMode reports whether the service runs in the development environment
func (c *Config) DevMode() bool {
	return c.Environment == "development"
}

func defaults() ConfigFile {
	return ConfigFile{
		App:      AppConfig{Port: 5000, GinMode: "release", Environment: "development"},
		Log:      LogConfig{Level: "info", Format: "console"},
		Database: DatabaseConfig{StoreTimeout: "5s", ReaperInterval: "10m"},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		OTP:      OTPConfig{Backend: OTPBackendDatabase},
		Security: SecurityConfig{BcryptCost: 10},
		Seed: SeedConfig{
			DemoAdmin: true,
			Email:     "admin@medivault.com",
			Password:  "Admin@123",
			FullName:  "System Admin",
		},
	}
}

// Load reads DefaultPath and applies environment overrides
func Load() (*Config, error) {
	return LoadFile(DefaultPath)
}

// LoadFile reads the YAML file at path, if present, and applies environment overrides.
// A missing file leaves the built-in defaults in place.
func LoadFile(path string) (*Config, error) {
	file := defaults()
	if err := readConfigFile(path, &file); err != nil {
		return nil, err
	}
	if err := env.Parse(&file); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return build(file)
}

func readConfigFile(path string, into *ConfigFile) error {
	bytes, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not read config file at %s: %w", path, err)
	}
	if err := yaml.Unmarshal(bytes, into); err != nil {
		return fmt.Errorf("could not parse config yaml: %w", err)
	}
	return nil
}

func build(file ConfigFile) (*Config, error) {
	storeTimeout, err := time.ParseDuration(file.Database.StoreTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid store timeout: %w", err)
	}
	if storeTimeout <= 0 || storeTimeout > 10*time.Second {
		return nil, fmt.Errorf("store timeout must be in (0s, 10s], got %s", storeTimeout)
	}

	reaperInterval, err := time.ParseDuration(file.Database.ReaperInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid reaper interval: %w", err)
	}

	switch file.OTP.Backend {
	case OTPBackendDatabase:
	case OTPBackendRedis:
		if file.Redis.Addr == "" {
			return nil, errors.New("redis otp backend requires redis.addr")
		}
	default:
		return nil, fmt.Errorf("unknown otp backend %q", file.OTP.Backend)
	}

	switch file.App.GinMode {
	case "debug", "release", "test":
	default:
		return nil, fmt.Errorf("unknown gin mode %q", file.App.GinMode)
	}

	if file.App.Port <= 0 || file.App.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", file.App.Port)
	}

	return &Config{
		Port:           strconv.Itoa(file.App.Port),
		GinMode:        file.App.GinMode,
		Environment:    file.App.Environment,
		LogLevel:       file.Log.Level,
		LogFormat:      file.Log.Format,
		DSN:            file.Database.DSN,
		StoreTimeout:   storeTimeout,
		ReaperInterval: reaperInterval,
		RedisAddr:      file.Redis.Addr,
		RedisPassword:  file.Redis.Password,
		RedisDB:        file.Redis.DB,
		OTPBackend:     file.OTP.Backend,
		TwilioSID:      file.Twilio.AccountSID,
		TwilioToken:    file.Twilio.AuthToken,
		TwilioFrom:     file.Twilio.FromNumber,
		BcryptCost:     file.Security.BcryptCost,
		SeedDemoAdmin:  file.Seed.DemoAdmin,
		DemoAdminEmail: file.Seed.Email,
		DemoAdminPass:  file.Seed.Password,
		DemoAdminName:  file.Seed.FullName,
	}, nil
}
