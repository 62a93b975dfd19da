package token

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkvn/ideapool/internal/apperr"
	"github.com/tkvn/ideapool/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:    "6a1f9c2e-0000-0000-0000-000000000001",
		Email: "user@ideapool.test",
		Name:  "Ada",
	}
}

func TestSignAndVerifyAccessToken(t *testing.T) {
	codec := NewCodec("test-secret", 10*time.Minute, 720*time.Hour)
	user := testUser()

	signed, err := codec.SignAccessToken(user)
	require.NoError(t, err)
	require.NoError(t, models.ValidateAccessTokenFormat(signed))

	claims, err := codec.VerifyAccessToken(signed, false)
	require.NoError(t, err)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Name, claims.Name)
	assert.Equal(t, user.ID, claims.UserID)

	// Verification is read-only: a second pass sees the same claims.
	again, err := codec.VerifyAccessToken(signed, false)
	require.NoError(t, err)
	assert.Equal(t, claims, again)
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	codec := NewCodec("test-secret", -time.Second, 720*time.Hour)
	signed, err := codec.SignAccessToken(testUser())
	require.NoError(t, err)

	_, err = codec.VerifyAccessToken(signed, false)
	assert.True(t, apperr.IsKind(err, apperr.KindTokenExpired), "got %v", err)

	// The refresh path still identifies the owner of an expired token.
	claims, err := codec.VerifyAccessToken(signed, true)
	require.NoError(t, err)
	assert.Equal(t, "user@ideapool.test", claims.Email)
}

func TestVerifyAccessTokenFailures(t *testing.T) {
	codec := NewCodec("test-secret", 10*time.Minute, 720*time.Hour)

	_, err := codec.VerifyAccessToken("not-a-token", false)
	assert.True(t, apperr.IsKind(err, apperr.KindMalformedAccessToken), "got %v", err)

	other := NewCodec("other-secret", 10*time.Minute, 720*time.Hour)
	signed, err := other.SignAccessToken(testUser())
	require.NoError(t, err)

	_, err = codec.VerifyAccessToken(signed, false)
	assert.True(t, apperr.IsKind(err, apperr.KindTokenManager), "got %v", err)
}

func TestMintRefreshToken(t *testing.T) {
	codec := NewCodec("test-secret", 10*time.Minute, 720*time.Hour)

	tok := codec.MintRefreshToken()
	raw, err := base64.StdEncoding.DecodeString(tok)
	require.NoError(t, err)
	assert.Contains(t, string(raw), ":")

	expired, err := codec.RefreshTokenExpired(tok)
	require.NoError(t, err)
	assert.False(t, expired)

	assert.NotEqual(t, tok, codec.MintRefreshToken(), "each mint must be unique")
}

func TestRefreshTokenExpired(t *testing.T) {
	stale := NewCodec("test-secret", 10*time.Minute, -time.Hour)
	tok := stale.MintRefreshToken()

	expired, err := stale.RefreshTokenExpired(tok)
	require.NoError(t, err)
	assert.True(t, expired)
}

func TestRefreshTokenExpiredRejectsGarbage(t *testing.T) {
	codec := NewCodec("test-secret", 10*time.Minute, 720*time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "%%%"},
		{"no separator", base64.StdEncoding.EncodeToString([]byte("justanid"))},
		{"non numeric expiry", base64.StdEncoding.EncodeToString([]byte("id:soon"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.RefreshTokenExpired(tt.token)
			assert.True(t, apperr.IsKind(err, apperr.KindTokenManager), "got %v", err)
		})
	}
}
