package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	svc := NewAdminTokenService("secret", time.Hour)
	token, expiresAt, err := svc.Issue("admin-id", "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin-id", claims.Subject)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	token, _, err := NewAdminTokenService("one", time.Hour).Issue("id", "admin")
	require.NoError(t, err)
	_, err = NewAdminTokenService("two", time.Hour).Parse(token)
	assert.Error(t, err)
}

func TestParseReportsExpiry(t *testing.T) {
	svc := NewAdminTokenService("secret", -time.Minute)
	token, _, err := svc.Issue("id", "admin")
	require.NoError(t, err)
	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, ErrExpired)
}
