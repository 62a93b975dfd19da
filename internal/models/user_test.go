package models

import (
	"strings"
	"testing"

	"github.com/tkvn/ideapool/internal/apperr"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		wantKind apperr.Kind
	}{
		{"valid address", "user@ideapool.test", ""},
		{"blank", "", apperr.KindEmptyEmail},
		{"whitespace only", "   ", apperr.KindEmptyEmail},
		{"no at sign", "user.ideapool.test", apperr.KindInvalidEmailFormat},
		{"no dot", "user@localhost", apperr.KindInvalidEmailFormat},
		{"display name form", "User <user@ideapool.test>", apperr.KindInvalidEmailFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantKind == "" {
				if err != nil {
					t.Errorf("ValidateEmail(%q) = %v, want nil", tt.email, err)
				}
				return
			}
			if !apperr.IsKind(err, tt.wantKind) {
				t.Errorf("ValidateEmail(%q) = %v, want kind %s", tt.email, err, tt.wantKind)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantKind apperr.Kind
	}{
		{"acceptable password", "the-Secret-123", ""},
		{"blank", "", apperr.KindEmptyPassword},
		{"contains password", "Password123", apperr.KindWeakPassword},
		{"contains password uppercase", "MYPASSWORD!", apperr.KindWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantKind == "" {
				if err != nil {
					t.Errorf("ValidatePassword(%q) = %v, want nil", tt.password, err)
				}
				return
			}
			if !apperr.IsKind(err, tt.wantKind) {
				t.Errorf("ValidatePassword(%q) = %v, want kind %s", tt.password, err, tt.wantKind)
			}
		})
	}
}

func TestNewUser(t *testing.T) {
	user, err := NewUser("user@ideapool.test", "Ada", "hashed")
	if err != nil {
		t.Fatalf("NewUser() unexpected error: %v", err)
	}
	if user.AvatarURL != GravatarURL("user@ideapool.test") {
		t.Errorf("AvatarURL = %q, want gravatar default", user.AvatarURL)
	}
	if user.AccessToken != "" || user.RefreshToken != "" {
		t.Error("Expected new user to have no tokens")
	}

	if _, err := NewUser("user@ideapool.test", "  ", "hashed"); !apperr.IsKind(err, apperr.KindEmptyName) {
		t.Errorf("NewUser() with blank name = %v, want kind %s", err, apperr.KindEmptyName)
	}
	if _, err := NewUser("bad-email", "Ada", "hashed"); !apperr.IsKind(err, apperr.KindInvalidEmailFormat) {
		t.Errorf("NewUser() with bad email = %v, want kind %s", err, apperr.KindInvalidEmailFormat)
	}
}

func TestGravatarURLNormalizes(t *testing.T) {
	a := GravatarURL(" User@IdeaPool.Test ")
	b := GravatarURL("user@ideapool.test")
	if a != b {
		t.Errorf("GravatarURL not normalized: %q != %q", a, b)
	}
	if !strings.HasPrefix(a, "https://www.gravatar.com/avatar/") {
		t.Errorf("GravatarURL = %q, want gravatar host", a)
	}
}

func TestSetAvatarURL(t *testing.T) {
	user := &User{Email: "user@ideapool.test"}
	if err := user.SetAvatarURL("https://example.com/pic.png"); err != nil {
		t.Fatalf("SetAvatarURL() unexpected error: %v", err)
	}
	if user.AvatarURL != "https://example.com/pic.png" {
		t.Errorf("AvatarURL = %q, want explicit URL", user.AvatarURL)
	}

	if err := user.SetAvatarURL(""); err != nil {
		t.Fatalf("SetAvatarURL(\"\") unexpected error: %v", err)
	}
	if user.AvatarURL != GravatarURL(user.Email) {
		t.Errorf("AvatarURL = %q, want gravatar fallback", user.AvatarURL)
	}

	orphan := &User{}
	if err := orphan.SetAvatarURL(""); !apperr.IsKind(err, apperr.KindEmptyAvatarURL) {
		t.Errorf("SetAvatarURL(\"\") without email = %v, want kind %s", err, apperr.KindEmptyAvatarURL)
	}
}

func TestValidateAccessTokenFormat(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		wantKind apperr.Kind
	}{
		{"well formed", "eyJhbGciOiJIUzI1NiJ9.eyJlbWFpbCI6ImEifQ.c2ln", ""},
		{"blank", "", apperr.KindEmptyToken},
		{"single segment", "abc", apperr.KindInvalidTokenFormat},
		{"two segments", "abc.def", apperr.KindInvalidTokenFormat},
		{"empty segment", "abc..def", apperr.KindInvalidTokenFormat},
		{"invalid characters", "abc.d$f.ghi", apperr.KindInvalidTokenFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAccessTokenFormat(tt.token)
			if tt.wantKind == "" {
				if err != nil {
					t.Errorf("ValidateAccessTokenFormat(%q) = %v, want nil", tt.token, err)
				}
				return
			}
			if !apperr.IsKind(err, tt.wantKind) {
				t.Errorf("ValidateAccessTokenFormat(%q) = %v, want kind %s", tt.token, err, tt.wantKind)
			}
		})
	}
}

func TestSetTokensAndClear(t *testing.T) {
	user := &User{Email: "user@ideapool.test"}
	access := "eyJhbGciOiJIUzI1NiJ9.eyJlbWFpbCI6ImEifQ.c2ln"

	if err := user.SetTokens(access, "refresh-opaque"); err != nil {
		t.Fatalf("SetTokens() unexpected error: %v", err)
	}
	if user.AccessToken != access || user.RefreshToken != "refresh-opaque" {
		t.Error("Expected both tokens to be stored together")
	}

	if err := user.SetTokens("not-a-token", "other"); !apperr.IsKind(err, apperr.KindInvalidTokenFormat) {
		t.Errorf("SetTokens() with malformed access token = %v, want kind %s", err, apperr.KindInvalidTokenFormat)
	}
	if user.RefreshToken != "refresh-opaque" {
		t.Error("Expected refresh token unchanged after rejected pair")
	}

	user.ClearTokens()
	if user.AccessToken != "" || user.RefreshToken != "" {
		t.Error("Expected ClearTokens to remove both tokens")
	}
}
