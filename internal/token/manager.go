package token

import (
	"context"
	"errors"

	"github.com/tkvn/ideapool/internal/apperr"
	"github.com/tkvn/ideapool/internal/models"
	"github.com/tkvn/ideapool/internal/storage"
)

// Pair is a freshly issued (access, refresh) token pair in its wire shape.
type Pair struct {
	AccessToken  string `json:"jwt"`
	RefreshToken string `json:"refresh_token"`
}

// Manager orchestrates the token lifecycle against the user store: issuing
// a pair on login, minting a new access token on refresh, and clearing the
// pair on logout.
type Manager struct {
	codec *Codec
	users storage.UserStore
}

// NewManager creates a lifecycle manager backed by the given codec and
// user store.
func NewManager(codec *Codec, users storage.UserStore) *Manager {
	return &Manager{codec: codec, users: users}
}

// GeneratePair mints a new token pair for the user without persisting it.
// Sign-up uses this to embed the pair in the user record it is about to
// create.
func (m *Manager) GeneratePair(user *models.User) (*Pair, error) {
	accessToken, err := m.codec.SignAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &Pair{
		AccessToken:  accessToken,
		RefreshToken: m.codec.MintRefreshToken(),
	}, nil
}

// Create mints a new token pair and persists it on the user record,
// replacing whatever pair was stored before.
func (m *Manager) Create(ctx context.Context, user *models.User) (*Pair, error) {
	pair, err := m.GeneratePair(user)
	if err != nil {
		return nil, err
	}
	if err := m.users.UpdateTokens(ctx, user.Email, pair.AccessToken, pair.RefreshToken); err != nil {
		return nil, translateStoreErr(err)
	}
	if err := user.SetTokens(pair.AccessToken, pair.RefreshToken); err != nil {
		return nil, apperr.TokenManagerError(err)
	}
	return pair, nil
}

// Refresh validates the presented refresh token against the stored one and
// mints a new access token. The refresh token itself is not rotated: the
// same token stays valid until its own expiry, so one session keeps one
// refresh token for its whole lifetime.
func (m *Manager) Refresh(ctx context.Context, user *models.User, refreshToken string) (string, error) {
	if user.RefreshToken != refreshToken {
		return "", apperr.RefreshTokenMismatch()
	}
	expired, err := m.codec.RefreshTokenExpired(refreshToken)
	if err != nil {
		return "", err
	}
	if expired {
		return "", apperr.RefreshTokenExpired()
	}

	accessToken, err := m.codec.SignAccessToken(user)
	if err != nil {
		return "", err
	}
	if err := m.users.UpdateTokens(ctx, user.Email, accessToken, user.RefreshToken); err != nil {
		return "", translateStoreErr(err)
	}
	if err := user.SetAccessToken(accessToken); err != nil {
		return "", apperr.TokenManagerError(err)
	}
	return accessToken, nil
}

// Delete clears the stored token pair (logout). The presented refresh
// token must match the stored one and still be within its expiry, exactly
// as for Refresh.
func (m *Manager) Delete(ctx context.Context, user *models.User, refreshToken string) error {
	if user.RefreshToken != refreshToken {
		return apperr.RefreshTokenMismatch()
	}
	expired, err := m.codec.RefreshTokenExpired(refreshToken)
	if err != nil {
		return err
	}
	if expired {
		return apperr.RefreshTokenExpired()
	}

	if err := m.users.UpdateTokens(ctx, user.Email, "", ""); err != nil {
		return translateStoreErr(err)
	}
	user.ClearTokens()
	return nil
}

// Verify checks an access token and returns its claims. On the refresh
// path the expiry is ignored so an expired access token can still identify
// its owner.
func (m *Manager) Verify(accessToken string, isRefreshRequest bool) (*Claims, error) {
	return m.codec.VerifyAccessToken(accessToken, isRefreshRequest)
}

// translateStoreErr distinguishes the missing-user signal; everything else
// collapses to a generic manager error carrying the cause.
func translateStoreErr(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.UserNotFound()
	}
	return apperr.TokenManagerError(err)
}
