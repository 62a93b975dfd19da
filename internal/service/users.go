// Package service implements the application services sitting between the
// HTTP layer and the stores.
package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/tkvn/ideapool/internal/apperr"
	"github.com/tkvn/ideapool/internal/models"
	"github.com/tkvn/ideapool/internal/storage"
	"github.com/tkvn/ideapool/internal/token"
)

// UserService manages accounts and their credentials.
type UserService struct {
	users  storage.UserStore
	tokens *token.Manager
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(users storage.UserStore, tokens *token.Manager, logger *slog.Logger) *UserService {
	return &UserService{users: users, tokens: tokens, logger: logger}
}

// SignUp registers a new account and returns its first token pair. The
// plain password is policy-checked, then hashed; the token pair is part of
// the created record, so a freshly signed-up user is already logged in.
func (s *UserService) SignUp(ctx context.Context, email, name, password string) (*token.Pair, error) {
	if err := models.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.UserServiceError(err)
	}

	user, err := models.NewUser(email, name, string(hash))
	if err != nil {
		return nil, err
	}

	pair, err := s.tokens.GeneratePair(user)
	if err != nil {
		return nil, err
	}
	if err := user.SetTokens(pair.AccessToken, pair.RefreshToken); err != nil {
		return nil, apperr.UserServiceError(err)
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		s.logger.Warn("sign-up failed", "email", email, "error", err)
		return nil, apperr.UserServiceError(err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return pair, nil
}

// ValidateCredentials checks an email/password pair and returns the
// matching user. An unknown email is reported as a not-found with an
// authentication status so login responses do not reveal which of the two
// inputs was wrong at a different status code.
func (s *UserService) ValidateCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.New(apperr.KindUserNotFound, http.StatusUnauthorized, "user not found")
		}
		return nil, apperr.UserServiceError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.InvalidPassword()
	}
	return user, nil
}

// VerifyUserAndToken loads the user behind a verified claim set and checks
// the presented access token against the stored one. A user with no stored
// token is signed out; a different stored token means the presented one
// has been superseded.
func (s *UserService) VerifyUserAndToken(ctx context.Context, email, accessToken string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.New(apperr.KindUserNotFound, http.StatusUnauthorized, "user not found")
		}
		return nil, apperr.UserServiceError(err)
	}

	if user.AccessToken == "" {
		return nil, apperr.UserLoggedOut()
	}
	if user.AccessToken != accessToken {
		return nil, apperr.TokenMismatch()
	}
	return user, nil
}

// Profile returns the public profile of an authenticated user.
func (s *UserService) Profile(user *models.User) models.ProfileJSON {
	return user.Profile()
}

// Delete removes the account and its idea partition.
func (s *UserService) Delete(ctx context.Context, email string) error {
	if err := s.users.DeleteUser(ctx, email); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.UserNotFound()
		}
		return apperr.UserServiceError(err)
	}
	s.logger.Info("user deleted", "email", email)
	return nil
}
