package domain

import (
	"net/http"
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	for _, r := range Roles {
		got, ok := ParseRole(string(r))
		if !ok || got != r {
			t.Errorf("ParseRole(%q) = %q, %v", r, got, ok)
		}
	}

	for _, bad := range []string{"", "admin", "Intern", "PATIENT"} {
		if _, ok := ParseRole(bad); ok {
			t.Errorf("ParseRole(%q) should fail", bad)
		}
	}
}

func TestRole_Policies(t *testing.T) {
	tests := []struct {
		role         Role
		phoneLogin   bool
		needsLicense bool
	}{
		{role: RoleAdmin},
		{role: RoleDoctor, needsLicense: true},
		{role: RoleNurse, needsLicense: true},
		{role: RoleStudent},
		{role: RolePatient, phoneLogin: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.UsesPhoneLogin(); got != tt.phoneLogin {
				t.Errorf("UsesPhoneLogin() = %v, want %v", got, tt.phoneLogin)
			}
			if got := tt.role.RequiresLicense(); got != tt.needsLicense {
				t.Errorf("RequiresLicense() = %v, want %v", got, tt.needsLicense)
			}
		})
	}
}

func TestIdentity_Principal(t *testing.T) {
	doctor := &Identity{
		ID:           "id-1",
		Email:        "doc@example.com",
		Phone:        "5550000000",
		PasswordHash: "secret-digest",
		Role:         RoleDoctor,
		FullName:     "Dr. A",
	}
	p := doctor.Principal()
	if p.Email != "doc@example.com" || p.Phone != "" {
		t.Errorf("doctor principal should carry email only, got %+v", p)
	}

	patient := &Identity{ID: "id-2", Phone: "5550000000", Role: RolePatient, FullName: "Pat"}
	p = patient.Principal()
	if p.Phone != "5550000000" || p.Email != "" {
		t.Errorf("patient principal should carry phone only, got %+v", p)
	}
	if p.ID != "id-2" || p.Role != RolePatient || p.FullName != "Pat" {
		t.Errorf("unexpected principal %+v", p)
	}
}

func TestNewIdentity_Canonical(t *testing.T) {
	n := NewIdentity{
		Email:        "  Doc@Example.COM ",
		Phone:        "+1 (555) 000-0000",
		PasswordHash: "digest",
		Role:         RoleDoctor,
	}.Canonical()

	if n.Email != "doc@example.com" {
		t.Errorf("expected lower-cased email, got %q", n.Email)
	}
	if n.Phone != "5550000000" {
		t.Errorf("expected normalized phone, got %q", n.Phone)
	}

	p := NewIdentity{Phone: "555-000-0000", PasswordHash: "digest", Role: RolePatient}.Canonical()
	if p.PasswordHash != "" {
		t.Error("patients never carry a password digest")
	}
}

func TestChallenge_Expiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewChallenge("c1", "+1 (555) 000-0000", "123456", now)

	if c.Phone != "5550000000" {
		t.Errorf("expected normalized phone, got %q", c.Phone)
	}
	if !c.ExpiresAt.Equal(now.Add(5 * time.Minute)) {
		t.Errorf("expected expiry five minutes after issue, got %v", c.ExpiresAt)
	}
	if c.Expired(now.Add(5 * time.Minute)) {
		t.Error("challenge is still valid at exactly the expiry instant")
	}
	if !c.Expired(now.Add(5*time.Minute + time.Second)) {
		t.Error("challenge should be expired after the expiry instant")
	}
}

func TestStatus_HTTPCode(t *testing.T) {
	tests := []struct {
		status Status
		code   int
	}{
		{status: "", code: http.StatusOK},
		{status: StatusBadRequest, code: http.StatusBadRequest},
		{status: StatusUnauthorized, code: http.StatusUnauthorized},
		{status: StatusNotFound, code: http.StatusNotFound},
		{status: StatusConflict, code: http.StatusConflict},
		{status: StatusRateLimited, code: http.StatusTooManyRequests},
		{status: StatusUnavailable, code: http.StatusServiceUnavailable},
		{status: StatusInternal, code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := tt.status.HTTPCode(); got != tt.code {
			t.Errorf("%q.HTTPCode() = %d, want %d", tt.status, got, tt.code)
		}
	}
}
