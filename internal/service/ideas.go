package service

import (
	"context"
	"errors"
	"math"

	"github.com/tkvn/ideapool/internal/apperr"
	"github.com/tkvn/ideapool/internal/models"
	"github.com/tkvn/ideapool/internal/storage"
)

// IdeaService manages a user's ideas.
type IdeaService struct {
	ideas storage.IdeaStore
}

// NewIdeaService creates a new idea service.
func NewIdeaService(ideas storage.IdeaStore) *IdeaService {
	return &IdeaService{ideas: ideas}
}

// Create validates the input and persists a new idea in the user's
// partition.
func (s *IdeaService) Create(ctx context.Context, user *models.User, in models.IdeaInput) (*models.Idea, error) {
	idea, err := models.NewIdea(in)
	if err != nil {
		return nil, err
	}
	if err := s.ideas.InsertIdea(ctx, user.ID, idea); err != nil {
		return nil, apperr.IdeaError(err)
	}
	return idea, nil
}

// Update replaces an existing idea's editable fields. All four are
// required together; the input goes through the same validation as create.
func (s *IdeaService) Update(ctx context.Context, user *models.User, ideaID string, in models.IdeaInput) (*models.Idea, error) {
	if ideaID == "" {
		return nil, apperr.IdeaIDMissing()
	}
	idea, err := models.NewIdea(in)
	if err != nil {
		return nil, err
	}
	idea.ID = ideaID

	updated, err := s.ideas.UpdateIdea(ctx, user.ID, idea)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.IdeaNotFound()
		}
		return nil, apperr.IdeaError(err)
	}
	return updated, nil
}

// Get retrieves a single idea by ID.
func (s *IdeaService) Get(ctx context.Context, user *models.User, ideaID string) (*models.Idea, error) {
	idea, err := s.ideas.GetIdea(ctx, user.ID, ideaID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.IdeaNotFound()
		}
		return nil, apperr.IdeaError(err)
	}
	return idea, nil
}

// Delete removes a single idea by ID.
func (s *IdeaService) Delete(ctx context.Context, user *models.User, ideaID string) error {
	if err := s.ideas.DeleteIdea(ctx, user.ID, ideaID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.IdeaNotFound()
		}
		return apperr.IdeaError(err)
	}
	return nil
}

// List returns one page of the user's ideas ranked by average score.
// A last cursor must be a finite score >= 0 and takes precedence over a
// page number; a page number must be a positive integer. Validation
// happens here so the engine never sees NaN, infinities or negatives.
func (s *IdeaService) List(ctx context.Context, user *models.User, opts storage.ListOptions) ([]*models.Idea, error) {
	if opts.Last != nil {
		last := *opts.Last
		if math.IsNaN(last) || math.IsInf(last, 0) || last < 0 {
			return nil, apperr.InvalidLastScore()
		}
		opts.Page = nil
	} else if opts.Page != nil && *opts.Page <= 0 {
		return nil, apperr.InvalidPageNumber()
	}

	ideas, err := s.ideas.ListIdeas(ctx, user.ID, opts)
	if err != nil {
		return nil, apperr.IdeaError(err)
	}
	return ideas, nil
}
