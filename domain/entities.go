package domain

import (
	"strings"
	"time"
)

// Role is the closed set of principal roles
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleDoctor  Role = "Doctor"
	RoleNurse   Role = "Nurse"
	RoleStudent Role = "Student"
	RolePatient Role = "Patient"
)

// Roles lists every valid role
var Roles = []Role{RoleAdmin, RoleDoctor, RoleNurse, RoleStudent, RolePatient}

// ParseRole returns the role matching s exactly
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// UsesPhoneLogin reports whether the role signs in with a phone OTP instead of email and password
func (r Role) UsesPhoneLogin() bool {
	return r == RolePatient
}

// RequiresLicense reports whether signup for the role needs a license identifier
func (r Role) RequiresLicense() bool {
	return r == RoleDoctor || r == RoleNurse
}

// Identity represents a registered principal
type Identity struct {
	ID           string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	FullName     string
	License      string
	CreatedAt    time.Time
}

// Principal returns the caller-facing summary of the identity, carrying only the login key for its role.
// The password digest is never included.
func (i *Identity) Principal() *Principal {
	p := &Principal{
		ID:       i.ID,
		Role:     i.Role,
		FullName: i.FullName,
	}
	if i.Role.UsesPhoneLogin() {
		p.Phone = i.Phone
	} else {
		p.Email = i.Email
	}
	return p
}

// NewIdentity holds the fields needed to create an identity
type NewIdentity struct {
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
	FullName     string
	License      string
}

// Canonical returns a copy with the email lower-cased and the phone normalized
func (n NewIdentity) Canonical() NewIdentity {
	n.Email = strings.ToLower(strings.TrimSpace(n.Email))
	if n.Phone != "" {
		n.Phone = NormalizePhone(n.Phone)
	}
	if n.Role == RolePatient {
		n.PasswordHash = ""
	}
	return n
}

// Challenge represents one issued OTP code
type Challenge struct {
	ID        string
	Phone     string
	Code      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewChallenge builds a challenge for the normalized phone issued at now
func NewChallenge(id, phone, code string, now time.Time) *Challenge {
	return &Challenge{
		ID:        id,
		Phone:     NormalizePhone(phone),
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(ChallengeTTL),
	}
}

// Expired reports whether the challenge is past its expiry at now
func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Principal is the summary of an authenticated or newly created identity
type Principal struct {
	ID       string `json:"id"`
	Role     Role   `json:"role"`
	FullName string `json:"fullName"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// SignupForm carries the role-specific signup fields. Shape validation happens upstream.
type SignupForm struct {
	FullName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	License         string
}
