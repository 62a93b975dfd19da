package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tkvn/ideapool/internal/models"
	"github.com/tkvn/ideapool/internal/storage"
)

// InsertIdea persists a new idea in the user's partition. The stored
// average_score column only drives the ranked queries; reads always
// recompute the score from the metrics.
func (s *SQLiteStore) InsertIdea(ctx context.Context, userID string, idea *models.Idea) error {
	if idea.ID == "" {
		idea.ID = uuid.New().String()
	}
	if idea.CreatedAt == 0 {
		idea.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO ideas (id, user_id, content, impact, ease, confidence, average_score, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		idea.ID, userID, idea.Content, idea.Impact, idea.Ease, idea.Confidence, idea.AverageScore(), idea.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert idea: %w", err)
	}
	return nil
}

// UpdateIdea overwrites an existing idea and returns the stored result.
func (s *SQLiteStore) UpdateIdea(ctx context.Context, userID string, idea *models.Idea) (*models.Idea, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE ideas SET content = ?, impact = ?, ease = ?, confidence = ?, average_score = ?, created_at = ? WHERE id = ? AND user_id = ?",
		idea.Content, idea.Impact, idea.Ease, idea.Confidence, idea.AverageScore(), idea.CreatedAt, idea.ID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update idea: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return nil, storage.ErrNotFound
	}
	return s.GetIdea(ctx, userID, idea.ID)
}

// GetIdea retrieves a single idea by ID within the user's partition.
func (s *SQLiteStore) GetIdea(ctx context.Context, userID, ideaID string) (*models.Idea, error) {
	idea := &models.Idea{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, content, impact, ease, confidence, created_at FROM ideas WHERE id = ? AND user_id = ?",
		ideaID, userID,
	).Scan(&idea.ID, &idea.Content, &idea.Impact, &idea.Ease, &idea.Confidence, &idea.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idea: %w", err)
	}
	return idea, nil
}

// DeleteIdea removes a single idea by ID within the user's partition.
func (s *SQLiteStore) DeleteIdea(ctx context.Context, userID, ideaID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM ideas WHERE id = ? AND user_id = ?", ideaID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete idea: %w", err)
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

// ListIdeas returns one page of the user's ideas ordered by average score
// descending. Cursor mode returns ideas scoring strictly below the cursor;
// offset mode resolves the requested page to a synthetic score cursor
// first (see pageCursor), which keeps deep pages cheap and makes
// out-of-range pages land on the last page's remainder instead of coming
// back empty.
func (s *SQLiteStore) ListIdeas(ctx context.Context, userID string, opts storage.ListOptions) ([]*models.Idea, error) {
	cursor, hasCursor, err := s.pageCursor(ctx, userID, opts)
	if err != nil {
		return nil, err
	}

	query := "SELECT id, content, impact, ease, confidence, created_at FROM ideas WHERE user_id = ?"
	args := []any{userID}
	if hasCursor {
		query += " AND average_score < ?"
		args = append(args, cursor)
	}
	query += " ORDER BY average_score DESC LIMIT ?"
	args = append(args, storage.PageSize)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}
	defer rows.Close()

	var ideas []*models.Idea
	for rows.Next() {
		idea := &models.Idea{}
		if err := rows.Scan(&idea.ID, &idea.Content, &idea.Impact, &idea.Ease, &idea.Confidence, &idea.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan idea: %w", err)
		}
		ideas = append(ideas, idea)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ideas: %w", err)
	}
	return ideas, nil
}

// pageCursor resolves the list options to a score cursor. An explicit Last
// value is used as-is. For offset mode beyond the first page the cursor is
// the score of the last item on the previous page: count the partition,
// clamp the skip to the start of the true last page when the request
// overshoots the data, and read the single boundary row. Page 1 (or no
// options at all) needs no cursor.
func (s *SQLiteStore) pageCursor(ctx context.Context, userID string, opts storage.ListOptions) (float64, bool, error) {
	if opts.Last != nil {
		return *opts.Last, true, nil
	}

	page := 1
	if opts.Page != nil {
		page = *opts.Page
	}
	if page <= 1 {
		return 0, false, nil
	}

	var count int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM ideas WHERE user_id = ?", userID,
	).Scan(&count); err != nil {
		return 0, false, fmt.Errorf("failed to count ideas: %w", err)
	}

	// Boundary row index: last item of the previous page.
	skip := (page-1)*storage.PageSize - 1
	if skip >= count {
		skip = ((count-1)/storage.PageSize)*storage.PageSize - 1
	}
	if skip < 0 {
		return 0, false, nil
	}

	var boundary float64
	err := s.db.QueryRowContext(ctx,
		"SELECT average_score FROM ideas WHERE user_id = ? ORDER BY average_score DESC LIMIT 1 OFFSET ?",
		userID, skip,
	).Scan(&boundary)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to fetch page boundary: %w", err)
	}
	return boundary, true, nil
}
