package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/SUJAY300/medi-vault-web-app/domain"
)

func TestZapAuditLogger_LogEvent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapAuditLogger(zap.New(core))
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	ok := domain.NewAuditEvent(domain.OTPVerifyEvent, now).
		WithPhone("5551234567").
		WithResult(domain.Succeeded(&domain.Principal{ID: "p1", Role: domain.RolePatient}))
	logger.LogEvent(context.Background(), ok)

	failed := domain.NewAuditEvent(domain.LoginFailureEvent, now).
		WithEmail("x@example.com").
		WithResult(domain.Failed(domain.StatusUnauthorized, "Invalid email or password"))
	logger.LogEvent(context.Background(), failed)

	logger.LogEvent(context.Background(), nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "audit", entries[0].LoggerName)
	fields := entries[0].ContextMap()
	assert.Equal(t, "OTP_VERIFIED", fields["event_type"])
	assert.Equal(t, "******4567", fields["phone"])
	assert.Equal(t, "p1", fields["identity_id"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	fields = entries[1].ContextMap()
	assert.Equal(t, "unauthorized", fields["status"])
	assert.Equal(t, "x@example.com", fields["email"])
	assert.Equal(t, false, fields["success"])
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "123", maskPhone("123"))
	assert.Equal(t, "1234", maskPhone("1234"))
	assert.Equal(t, "*2345", maskPhone("12345"))
}
