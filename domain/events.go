package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Credential events
	LoginEvent         AuditEventType = "LOGIN"
	LoginFailureEvent  AuditEventType = "LOGIN_FAILED"
	SignupEvent        AuditEventType = "SIGNUP"
	SignupFailureEvent AuditEventType = "SIGNUP_FAILED"

	// OTP events
	OTPRequestEvent        AuditEventType = "OTP_REQUESTED"
	OTPRequestFailureEvent AuditEventType = "OTP_REQUEST_FAILED"
	OTPVerifyEvent         AuditEventType = "OTP_VERIFIED"
	OTPVerifyFailureEvent  AuditEventType = "OTP_VERIFICATION_FAILED"
	OTPInvalidatedEvent    AuditEventType = "OTP_INVALIDATED"
)

// AuditEvent represents a business event that occurred in the system
type AuditEvent struct {
	EventType  AuditEventType         `json:"event_type"`
	IdentityID string                 `json:"identity_id,omitempty"`
	Role       Role                   `json:"role,omitempty"`
	Email      string                 `json:"email,omitempty"`
	Phone      string                 `json:"phone,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Status     Status                 `json:"status,omitempty"`
	ErrorMsg   string                 `json:"error_msg,omitempty"`
	Success    bool                   `json:"success"`
}

// AuditLogger records audit events
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent)
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType, now time.Time) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		Timestamp: now.UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithResult copies the outcome of a SessionResult onto the event
func (e *AuditEvent) WithResult(res SessionResult) *AuditEvent {
	e.Success = res.Success
	e.Status = res.Status
	e.ErrorMsg = res.Error
	if res.User != nil {
		e.IdentityID = res.User.ID
		e.Role = res.User.Role
	}
	return e
}

// WithEmail sets the email field
func (e *AuditEvent) WithEmail(email string) *AuditEvent {
	e.Email = email
	return e
}

// WithPhone sets the phone field
func (e *AuditEvent) WithPhone(phone string) *AuditEvent {
	e.Phone = phone
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	e.Metadata[key] = value
	return e
}
