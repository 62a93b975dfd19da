package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tkvn/ideapool/internal/models"
	"github.com/tkvn/ideapool/internal/storage"
)

// CreateUser persists a new user, generating its ID. The email uniqueness
// check and the insert run in one transaction so two concurrent sign-ups
// with the same email cannot both succeed.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx, "SELECT id FROM users WHERE email = ?", user.Email).Scan(&existing)
	if err == nil {
		return storage.ErrDuplicate
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check for existing user: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO users (id, email, name, password_hash, avatar_url, access_token, refresh_token) VALUES (?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Email, user.Name, user.PasswordHash, user.AvatarURL, user.AccessToken, user.RefreshToken,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, name, password_hash, avatar_url, access_token, refresh_token FROM users WHERE email = ?",
		email,
	).Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.AvatarURL, &user.AccessToken, &user.RefreshToken)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateTokens overwrites the stored token pair for the user. The pair is
// written in a single UPDATE, so concurrent writers serialize on the row
// and the last one wins.
func (s *SQLiteStore) UpdateTokens(ctx context.Context, email, accessToken, refreshToken string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET access_token = ?, refresh_token = ? WHERE email = ?",
		accessToken, refreshToken, email,
	)
	if err != nil {
		return fmt.Errorf("failed to update tokens: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteUser removes the user and all of their ideas in one transaction:
// either both the user row and the idea partition are gone, or nothing
// changed.
func (s *SQLiteStore) DeleteUser(ctx context.Context, email string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRowContext(ctx, "SELECT id FROM users WHERE email = ?", email).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM ideas WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete user ideas: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
