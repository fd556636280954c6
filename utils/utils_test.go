package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "Rp 0"},
		{999, "Rp 999"},
		{1000, "Rp 1.000"},
		{11300, "Rp 11.300"},
		{1250000, "Rp 1.250.000"},
		{-5000, "-Rp 5.000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRupiah(tt.in))
	}
}

func TestTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret", time.Hour)

	token, err := GenerateToken(42, "owner")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "owner", claims.Role)

	_, err = ParseToken(token + "x")
	assert.Error(t, err)

	SetJWTSecret("rotated-secret", 0)
	_, err = ParseToken(token)
	assert.Error(t, err)
}
