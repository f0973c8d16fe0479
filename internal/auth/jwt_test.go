package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircast/aircast/internal/auth"
)

func newService(ttl time.Duration) *auth.Service {
	return auth.NewService(auth.Config{
		SigningKey: "test-signing-key",
		Issuer:     auth.DefaultIssuer,
		TokenTTL:   ttl,
	})
}

func TestService_GenerateAndValidate(t *testing.T) {
	svc := newService(0)

	token, expiresAt, err := svc.GenerateToken("ops-cli", auth.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(auth.DefaultTokenTTL), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops-cli", claims.Subject)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
	assert.Equal(t, "https://api.aircast.dev", claims.Issuer)
}

// Tokens are minted out-of-band (cmd/tokengen) with their own TTL; the
// API's service must accept them as long as key and issuer agree.
func TestService_ValidateTokenFromSeparateIssuingService(t *testing.T) {
	minter := auth.NewService(auth.Config{
		SigningKey: "test-signing-key",
		Issuer:     auth.DefaultIssuer,
		TokenTTL:   15 * time.Minute,
	})

	token, _, err := minter.GenerateToken("deploy-bot", auth.RoleAdmin)
	require.NoError(t, err)

	claims, err := newService(0).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "deploy-bot", claims.Subject)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestService_ValidateExpiredToken(t *testing.T) {
	svc := newService(-1 * time.Minute)

	token, _, err := svc.GenerateToken("ops-cli", auth.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestService_ValidateGarbageToken(t *testing.T) {
	svc := newService(0)

	_, err := svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestService_ValidateTokenFromOtherKey(t *testing.T) {
	other := auth.NewService(auth.Config{
		SigningKey: "different-key",
		Issuer:     "https://api.aircast.dev",
	})

	token, _, err := other.GenerateToken("ops-cli", auth.RoleAdmin)
	require.NoError(t, err)

	_, err = newService(0).ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
