package services

import (
	"context"
	"testing"
	"time"

	"github.com/ArowuTest/scratchcard-backend/internal/models"
	"github.com/ArowuTest/scratchcard-backend/internal/repositories/memory"
	"github.com/ArowuTest/scratchcard-backend/pkg/jwt"
	"github.com/ArowuTest/scratchcard-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestAuth(t *testing.T) (*AuthService, *jwt.AdminTokenService) {
	t.Helper()
	store := memory.NewStore()
	tokens := jwt.NewAdminTokenService("jwt-secret", time.Hour)
	svc := NewAuthService(store.AdminUsers, tokens, logger.Discard())
	require.NoError(t, svc.EnsureDefaultAdmin(context.Background(), "admin", "admin123"))
	return svc, tokens
}

func TestLogin(t *testing.T) {
	svc, tokens := newTestAuth(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, models.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Username)
	claims, err := tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)

	_, err = svc.Login(ctx, models.LoginRequest{Username: "admin", Password: "wrong"})
	assert.True(t, IsKind(err, ErrUnauthorized))
	_, err = svc.Login(ctx, models.LoginRequest{Username: "ghost", Password: "admin123"})
	assert.True(t, IsKind(err, ErrUnauthorized))
}

func TestEnsureDefaultAdminRunsOnce(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureDefaultAdmin(ctx, "other", "secret99"))
	_, err := svc.Login(ctx, models.LoginRequest{Username: "other", Password: "secret99"})
	assert.True(t, IsKind(err, ErrUnauthorized))
}

func adminIDFromLogin(t *testing.T, svc *AuthService, tokens *jwt.AdminTokenService, username, password string) string {
	t.Helper()
	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: username, Password: password})
	require.NoError(t, err)
	claims, err := tokens.Parse(resp.Token)
	require.NoError(t, err)
	return claims.Subject
}

func TestUpdateCredentials(t *testing.T) {
	svc, tokens := newTestAuth(t)
	ctx := context.Background()
	adminID := adminIDFromLogin(t, svc, tokens, "admin", "admin123")

	require.NoError(t, svc.UpdateCredentials(ctx, adminID, models.CredentialsRequest{Username: "boss", Password: "newpass1"}))

	_, err := svc.Login(ctx, models.LoginRequest{Username: "admin", Password: "admin123"})
	assert.True(t, IsKind(err, ErrUnauthorized))
	_, err = svc.Login(ctx, models.LoginRequest{Username: "boss", Password: "newpass1"})
	assert.NoError(t, err)

	err = svc.UpdateCredentials(ctx, primitive.NewObjectID().Hex(), models.CredentialsRequest{Username: "x", Password: "newpass1"})
	assert.True(t, IsKind(err, ErrNotFound))
	err = svc.UpdateCredentials(ctx, "not-an-id", models.CredentialsRequest{Username: "x", Password: "newpass1"})
	assert.True(t, IsKind(err, ErrUnauthorized))
}

func TestUpdateCredentialsTwiceWithSameSession(t *testing.T) {
	svc, tokens := newTestAuth(t)
	ctx := context.Background()
	adminID := adminIDFromLogin(t, svc, tokens, "admin", "admin123")

	require.NoError(t, svc.UpdateCredentials(ctx, adminID, models.CredentialsRequest{Username: "boss", Password: "newpass1"}))
	require.NoError(t, svc.UpdateCredentials(ctx, adminID, models.CredentialsRequest{Username: "chief", Password: "newpass2"}))

	_, err := svc.Login(ctx, models.LoginRequest{Username: "boss", Password: "newpass1"})
	assert.True(t, IsKind(err, ErrUnauthorized))
	assert.Equal(t, adminID, adminIDFromLogin(t, svc, tokens, "chief", "newpass2"))
}
