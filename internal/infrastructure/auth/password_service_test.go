package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordService_HashAndVerify(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	hash, err := svc.Hash("Admin@123")
	require.NoError(t, err)
	assert.NotEqual(t, "Admin@123", hash)

	tests := []struct {
		name     string
		hash     string
		password string
		want     bool
	}{
		{name: "correct password", hash: hash, password: "Admin@123", want: true},
		{name: "wrong password", hash: hash, password: "admin@123", want: false},
		{name: "empty digest", hash: "", password: "", want: false},
		{name: "malformed digest", hash: "not-a-bcrypt-hash", password: "Admin@123", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.Verify(tt.hash, tt.password))
		})
	}
}

func TestNewPasswordService_Cost(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{name: "explicit cost", cost: 12, want: 12},
		{name: "zero falls back", cost: 0, want: DefaultCost},
		{name: "too high falls back", cost: 99, want: DefaultCost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPasswordService(tt.cost).cost)
		})
	}
}

func TestPasswordService_DefaultCostDigest(t *testing.T) {
	svc := NewPasswordService(DefaultCost)
	hash, err := svc.Hash("Secret123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)
}
