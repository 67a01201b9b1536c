package config

import (
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"

	"github.com/SUJAY300/medi-vault-web-app/internal/config"
)

// LoadTestConfig builds a development configuration for end-to-end tests.
// Values from .env.test are applied when the file exists. The durable store and SMS provider are always disabled.
func LoadTestConfig(t *testing.T) *config.Config {
	t.Helper()

	if err := godotenv.Load(".env.test"); err != nil {
		t.Logf("no .env.test loaded: %v", err)
	}

	t.Setenv("GIN_MODE", "test")
	t.Setenv("APP_ENV", "development")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("OTP_BACKEND", config.OTPBackendDatabase)

	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "config.yml"))
	if err != nil {
		t.Fatalf("Failed to load test configuration: %v", err)
	}

	cfg.DSN = ""
	cfg.TwilioSID = ""
	cfg.TwilioToken = ""
	cfg.TwilioFrom = ""
	cfg.SeedDemoAdmin = true

	return cfg
}
