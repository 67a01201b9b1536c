package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SUJAY300/medi-vault-web-app/domain"
	"github.com/SUJAY300/medi-vault-web-app/internal/app"
	"github.com/SUJAY300/medi-vault-web-app/internal/config"
	testconfig "github.com/SUJAY300/medi-vault-web-app/internal/tests/config"
)

// TestSuite holds a running service and the backends behind it
type TestSuite struct {
	Config    *config.Config
	Container *app.Container
	Server    *httptest.Server
	Client    *http.Client
	Logs      *observer.ObservedLogs

	// Durable backends; nil when the suite runs memory-only
	DB    *gorm.DB
	Redis *miniredis.Miniredis
}

type suiteOption func(*suiteSettings)

type suiteSettings struct {
	database bool
	redis    bool
}

// withDatabase backs the durable store with an in-memory SQLite database
func withDatabase() suiteOption {
	return func(s *suiteSettings) { s.database = true }
}

// withRedisChallenges keeps OTP challenges in miniredis. Implies withDatabase.
func withRedisChallenges() suiteOption {
	return func(s *suiteSettings) {
		s.database = true
		s.redis = true
	}
}

func newTestSuite(t *testing.T, opts ...suiteOption) *TestSuite {
	t.Helper()

	var settings suiteSettings
	for _, opt := range opts {
		opt(&settings)
	}

	cfg := testconfig.LoadTestConfig(t)
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	suite := &TestSuite{Config: cfg, Logs: logs}
	var containerOpts []app.Option

	if settings.database {
		suite.DB = openTestDatabase(t)
		containerOpts = append(containerOpts, app.WithDB(suite.DB))
	}
	if settings.redis {
		suite.Redis = miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: suite.Redis.Addr(), MaxRetries: -1})
		t.Cleanup(func() { _ = client.Close() })
		cfg.OTPBackend = config.OTPBackendRedis
		containerOpts = append(containerOpts, app.WithRedis(client))
	}

	ctx := context.Background()
	container, err := app.NewContainer(ctx, cfg, log, containerOpts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })
	require.NoError(t, container.SeedDemoAdmin(ctx))

	router, err := app.NewRouter(container)
	require.NoError(t, err)

	suite.Container = container
	suite.Server = httptest.NewServer(router)
	suite.Client = &http.Client{Timeout: 30 * time.Second}
	t.Cleanup(suite.Server.Close)

	return suite
}

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

// URL returns the full URL for path on the test server
func (s *TestSuite) URL(path string) string {
	return s.Server.URL + path
}

// PostJSON sends body as JSON and decodes the SessionResult reply
func (s *TestSuite) PostJSON(t *testing.T, path string, body any) (int, domain.SessionResult) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, s.URL(path), bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var res domain.SessionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return resp.StatusCode, res
}

// SignupPatient registers a patient and fails the test on error
func (s *TestSuite) SignupPatient(t *testing.T, name, phone string) domain.SessionResult {
	t.Helper()

	status, res := s.PostJSON(t, "/auth/signup", map[string]string{
		"role":     "Patient",
		"fullName": name,
		"phone":    phone,
	})
	require.Equal(t, http.StatusOK, status, "patient signup: %+v", res)
	return res
}

// RequestCode asks for an OTP and returns the code echoed in development mode
func (s *TestSuite) RequestCode(t *testing.T, phone string) string {
	t.Helper()

	status, res := s.PostJSON(t, "/auth/otp/send", map[string]string{"phone": phone})
	require.Equal(t, http.StatusOK, status, "otp send: %+v", res)
	require.Regexp(t, `^\d{6}$`, res.DevCode)
	return res.DevCode
}

// wrongCode returns a six digit code different from code
func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}

func countMessages(logs *observer.ObservedLogs, msg string) int {
	return logs.FilterMessage(msg).Len()
}
