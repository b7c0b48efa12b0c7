package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correcthorse")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "correcthorse", hash)

	// Повторное хеширование дает другой хеш (случайная соль)
	hash2, err := HashPassword("correcthorse")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correcthorse")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		wantErr  bool
	}{
		{name: "correct password", password: "correcthorse", hash: hash, wantErr: false},
		{name: "wrong password", password: "batterystaple", hash: hash, wantErr: true},
		{name: "empty password", password: "", hash: hash, wantErr: true},
		{name: "empty hash", password: "correcthorse", hash: "", wantErr: true},
		{name: "garbage hash", password: "correcthorse", hash: "not-a-bcrypt-hash", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPassword(tt.password, tt.hash)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
