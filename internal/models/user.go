package models

import (
	"crypto/md5"
	"fmt"
	"net/mail"
	"strings"

	"github.com/tkvn/ideapool/internal/apperr"
)

// User represents a registered account.
//
// A user holds at most one active (access, refresh) token pair. The pair is
// written together on sign-up, login and refresh, and cleared together on
// logout; one is never set without the other outside of that clear.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's unique email address, also used as the username.
	Email string

	// Name is the display name of the user.
	Name string

	// PasswordHash is the bcrypt hash of the user's password. The plain
	// password is policy-checked at set time and never stored.
	PasswordHash string

	// AvatarURL is the profile image URL. Defaults to the user's gravatar
	// when not explicitly provided.
	AvatarURL string

	// AccessToken is the currently active signed access token, empty when
	// the user is signed out.
	AccessToken string

	// RefreshToken is the currently active opaque refresh token, empty when
	// the user is signed out.
	RefreshToken string
}

// NewUser validates the identity fields and builds a User with a derived
// gravatar avatar. passwordHash must already be hashed; the plain password
// is checked separately with ValidatePassword before hashing.
func NewUser(email, name, passwordHash string) (*User, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperr.EmptyName()
	}
	return &User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		AvatarURL:    GravatarURL(email),
	}, nil
}

// SetName updates the display name, rejecting a blank value.
func (u *User) SetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperr.EmptyName()
	}
	u.Name = name
	return nil
}

// SetAvatarURL sets an explicit avatar URL. A blank value falls back to the
// gravatar derived from the user's email; with neither a URL nor an email
// there is nothing to derive and the call fails.
func (u *User) SetAvatarURL(url string) error {
	if url == "" {
		if u.Email == "" {
			return apperr.EmptyAvatarURL()
		}
		u.AvatarURL = GravatarURL(u.Email)
		return nil
	}
	u.AvatarURL = url
	return nil
}

// SetAccessToken stores a new access token after checking it is a
// well-formed three-segment signed token. Format only; signature
// verification belongs to the token codec.
func (u *User) SetAccessToken(token string) error {
	if err := ValidateAccessTokenFormat(token); err != nil {
		return err
	}
	u.AccessToken = token
	return nil
}

// SetTokens stores a new (access, refresh) pair together.
func (u *User) SetTokens(accessToken, refreshToken string) error {
	if err := u.SetAccessToken(accessToken); err != nil {
		return err
	}
	u.RefreshToken = refreshToken
	return nil
}

// ClearTokens removes both tokens, signing the user out.
func (u *User) ClearTokens() {
	u.AccessToken = ""
	u.RefreshToken = ""
}

// ProfileJSON is the wire shape of a user profile.
type ProfileJSON struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Profile returns the public profile of the user.
func (u *User) Profile() ProfileJSON {
	return ProfileJSON{Email: u.Email, Name: u.Name, AvatarURL: u.AvatarURL}
}

// ValidateEmail rejects blank or implausible email addresses.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return apperr.EmptyEmail()
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, ".") {
		return apperr.InvalidEmailFormat()
	}
	return nil
}

// ValidatePassword applies the password policy to a plain password: it must
// be non-blank and must not contain the literal word "password" in any
// case. Deliberately narrow; this is not a general strength checker.
func ValidatePassword(password string) error {
	if password == "" {
		return apperr.EmptyPassword()
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return apperr.WeakPassword()
	}
	return nil
}

// ValidateAccessTokenFormat checks that a token is non-blank and shaped
// like a compact signed token: three dot-separated base64url segments.
func ValidateAccessTokenFormat(token string) error {
	if token == "" {
		return apperr.EmptyToken()
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return apperr.InvalidTokenFormat()
	}
	for _, part := range parts {
		if part == "" || !isBase64URL(part) {
			return apperr.InvalidTokenFormat()
		}
	}
	return nil
}

// GravatarURL derives the deterministic gravatar identicon URL for an
// email address.
func GravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=mm&s=200", md5.Sum([]byte(normalized)))
}

func isBase64URL(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '=':
		default:
			return false
		}
	}
	return true
}
