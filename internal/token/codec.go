// Package token implements the access/refresh token codec and the token
// lifecycle manager.
//
// Access tokens are compact signed tokens (HS256) carrying the owner's
// identity; they are verifiable without a storage lookup. Refresh tokens
// are opaque base64 strings encoding "<uuid>:<expiry epoch ms>"; they are
// format-checked rather than signed, and revocation works by overwriting
// the single stored value on the user record.
package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tkvn/ideapool/internal/apperr"
	"github.com/tkvn/ideapool/internal/models"
)

// Claims is the access-token claim set.
type Claims struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Codec signs and verifies access tokens and mints and inspects refresh
// tokens.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec creates a codec. secret should be a strong random string;
// accessTTL is the access-token lifetime (short, minutes) and refreshTTL
// the refresh-token lifetime (long, hours).
func NewCodec(secret string, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// SignAccessToken produces a signed access token for the user.
func (c *Codec) SignAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email:  user.Email,
		Name:   user.Name,
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", apperr.TokenManagerError(fmt.Errorf("signing access token: %w", err))
	}
	return signed, nil
}

// VerifyAccessToken parses and verifies an access token, returning its
// claims. With ignoreExpiration the expiry claim is not enforced, so an
// expired token can still identify its owner; the signature is verified
// either way. ignoreExpiration is only ever used on the refresh path.
func (c *Codec) VerifyAccessToken(tokenString string, ignoreExpiration bool) (*Claims, error) {
	opts := []jwt.ParserOption{}
	if ignoreExpiration {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, apperr.MalformedAccessToken()
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, apperr.TokenExpired()
		default:
			return nil, apperr.TokenManagerError(err)
		}
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, apperr.TokenManagerError(errors.New("unexpected claims type"))
	}
	return claims, nil
}

// MintRefreshToken creates a new opaque refresh token with an absolute
// expiry embedded in the payload.
func (c *Codec) MintRefreshToken() string {
	expiresAt := time.Now().Add(c.refreshTTL).UnixMilli()
	payload := fmt.Sprintf("%s:%d", uuid.New().String(), expiresAt)
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

// RefreshTokenExpired reports whether the token's embedded expiry has
// passed. A token that cannot be decoded is an internal error: callers
// compare against the stored value before getting here, so a garbage token
// indicates a bug, not bad user input.
func (c *Codec) RefreshTokenExpired(refreshToken string) (bool, error) {
	raw, err := base64.StdEncoding.DecodeString(refreshToken)
	if err != nil {
		return false, apperr.TokenManagerError(fmt.Errorf("decoding refresh token: %w", err))
	}
	parts := strings.Split(string(raw), ":")
	if len(parts) != 2 {
		return false, apperr.TokenManagerError(errors.New("refresh token payload is not id:expiry"))
	}
	expiresAt, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return false, apperr.TokenManagerError(fmt.Errorf("parsing refresh token expiry: %w", err))
	}
	return time.Now().UnixMilli() > expiresAt, nil
}
