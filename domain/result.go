package domain

import "net/http"

// Status classifies a failed SessionResult for transport layers
type Status string

const (
	StatusBadRequest   Status = "bad-request"
	StatusUnauthorized Status = "unauthorized"
	StatusNotFound     Status = "not-found"
	StatusConflict     Status = "conflict"
	StatusRateLimited  Status = "rate-limited"
	StatusUnavailable  Status = "unavailable"
	StatusInternal     Status = "internal"
)

// HTTPCode maps the status to an HTTP response code. An empty status means success.
func (s Status) HTTPCode() int {
	switch s {
	case "":
		return http.StatusOK
	case StatusBadRequest:
		return http.StatusBadRequest
	case StatusUnauthorized:
		return http.StatusUnauthorized
	case StatusNotFound:
		return http.StatusNotFound
	case StatusConflict:
		return http.StatusConflict
	case StatusRateLimited:
		return http.StatusTooManyRequests
	case StatusUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// SessionResult is the uniform outcome of every AuthService operation
type SessionResult struct {
	Success bool       `json:"success"`
	User    *Principal `json:"user,omitempty"`
	Message string     `json:"message,omitempty"`
	Error   string     `json:"error,omitempty"`
	Status  Status     `json:"status,omitempty"`
	// DevCode echoes an issued OTP when no SMS provider is configured in development
	DevCode string `json:"devOtp,omitempty"`
}

// Succeeded builds a successful result for the principal
func Succeeded(user *Principal) SessionResult {
	return SessionResult{Success: true, User: user}
}

// Failed builds a failed result
func Failed(status Status, msg string) SessionResult {
	return SessionResult{Success: false, Status: status, Error: msg}
}
