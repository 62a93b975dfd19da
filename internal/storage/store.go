// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/tkvn/ideapool/internal/models"
)

// Sentinel errors returned by store implementations. Services translate
// these into their own domain errors before they reach the API boundary.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a uniqueness constraint was violated.
	ErrDuplicate = errors.New("duplicate record")
)

// PageSize is the fixed number of ideas per page.
const PageSize = 10

// ListOptions selects one page of a user's ranked ideas. The two modes are
// mutually exclusive: when Last is set it wins over Page.
type ListOptions struct {
	// Last is a score cursor: return ideas with a strictly lower average
	// score, capped at PageSize.
	Last *float64

	// Page is a 1-based page number for offset mode.
	Page *int
}

// UserStore defines the interface for user persistence.
type UserStore interface {
	// CreateUser persists a new user, assigning its ID.
	// Returns ErrDuplicate if the email is already registered.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	// Returns ErrNotFound if no user matches.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateTokens overwrites the stored (access, refresh) token pair for
	// the user with the given email. Empty values clear the pair.
	// Returns ErrNotFound if no user matches.
	UpdateTokens(ctx context.Context, email, accessToken, refreshToken string) error

	// DeleteUser removes the user with the given email together with the
	// user's idea partition. The removal is atomic: either both the user
	// and all of their ideas are gone, or nothing changed.
	// Returns ErrNotFound if no user matches.
	DeleteUser(ctx context.Context, email string) error
}

// IdeaStore defines the interface for idea persistence. Ideas are
// partitioned per user; every operation is scoped by the owning user's ID.
type IdeaStore interface {
	// InsertIdea persists a new idea in the user's partition, assigning
	// its ID.
	InsertIdea(ctx context.Context, userID string, idea *models.Idea) error

	// UpdateIdea overwrites an existing idea and returns the stored
	// result. Returns ErrNotFound if the idea does not exist.
	UpdateIdea(ctx context.Context, userID string, idea *models.Idea) (*models.Idea, error)

	// GetIdea retrieves a single idea by ID.
	// Returns ErrNotFound if the idea does not exist.
	GetIdea(ctx context.Context, userID, ideaID string) (*models.Idea, error)

	// ListIdeas returns one page of the user's ideas ordered by average
	// score descending, selected per opts.
	ListIdeas(ctx context.Context, userID string, opts ListOptions) ([]*models.Idea, error)

	// DeleteIdea removes a single idea by ID.
	// Returns ErrNotFound if the idea does not exist.
	DeleteIdea(ctx context.Context, userID, ideaID string) error
}

// Store is the full persistence surface consumed by the services.
type Store interface {
	UserStore
	IdeaStore

	// Close releases any resources held by the store.
	Close() error
}
