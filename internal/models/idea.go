package models

import (
	"math"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/tkvn/ideapool/internal/apperr"
)

// maxContentLength is the upper bound for idea content.
const maxContentLength = 255

// Idea represents a scored idea owned by a single user.
//
// The three metrics are bounded integers in [1, 10]. The average score is
// never stored on the model: it is derived from the metrics on demand so a
// stale or tampered value can never be observed.
type Idea struct {
	// ID is the unique identifier for the idea (UUID format).
	// Empty until the idea has been persisted.
	ID string

	// Content is the idea description, at most 255 characters.
	Content string

	// Impact, Ease and Confidence are the ranking metrics, each in [1, 10].
	Impact     int
	Ease       int
	Confidence int

	// CreatedAt is the Unix timestamp (seconds) when the idea was saved.
	CreatedAt int64
}

// IdeaInput carries the raw, untyped values of a decoded request body.
// Fields are deliberately `any` so that type errors (non-string content,
// non-numeric metrics) surface as validation failures rather than decode
// failures.
type IdeaInput struct {
	Content    any `json:"content"`
	Impact     any `json:"impact"`
	Ease       any `json:"ease"`
	Confidence any `json:"confidence"`
	CreatedAt  any `json:"created_at"`
}

// NewIdea validates the input and builds an Idea. Validation rejects before
// any field is assigned, so a returned error means no partially-valid model
// escapes. A missing created_at defaults to the current time.
func NewIdea(in IdeaInput) (*Idea, error) {
	content, err := validateContent(in.Content)
	if err != nil {
		return nil, err
	}
	impact, err := validateMetric("impact", in.Impact)
	if err != nil {
		return nil, err
	}
	ease, err := validateMetric("ease", in.Ease)
	if err != nil {
		return nil, err
	}
	confidence, err := validateMetric("confidence", in.Confidence)
	if err != nil {
		return nil, err
	}
	createdAt := time.Now().Unix()
	if in.CreatedAt != nil {
		createdAt, err = validateDate(in.CreatedAt)
		if err != nil {
			return nil, err
		}
	}
	return &Idea{
		Content:    content,
		Impact:     impact,
		Ease:       ease,
		Confidence: confidence,
		CreatedAt:  createdAt,
	}, nil
}

// AverageScore derives the ranking value from the three metrics, rounded to
// 15 decimal places for a stable serialized form. Unset metrics count as 0.
func (i *Idea) AverageScore() float64 {
	avg := float64(i.Impact+i.Ease+i.Confidence) / 3
	return RoundScore(avg)
}

// RoundScore normalizes a score to 15 decimal places. Both the model and
// the pagination cursor go through this so equality comparisons between a
// computed score and a serialized one are exact.
func RoundScore(v float64) float64 {
	out, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 15, 64), 64)
	if err != nil {
		return v
	}
	return out
}

// IdeaJSON is the wire shape of an idea. The id is omitted until the idea
// has been persisted; average_score and created_at are always present.
type IdeaJSON struct {
	ID           string  `json:"id,omitempty"`
	Content      string  `json:"content"`
	Impact       int     `json:"impact"`
	Ease         int     `json:"ease"`
	Confidence   int     `json:"confidence"`
	AverageScore float64 `json:"average_score"`
	CreatedAt    int64   `json:"created_at"`
}

// ToJSON converts the idea to its wire shape, recomputing the average score.
func (i *Idea) ToJSON() IdeaJSON {
	return IdeaJSON{
		ID:           i.ID,
		Content:      i.Content,
		Impact:       i.Impact,
		Ease:         i.Ease,
		Confidence:   i.Confidence,
		AverageScore: i.AverageScore(),
		CreatedAt:    i.CreatedAt,
	}
}

func validateContent(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", apperr.ContentNotString()
	}
	if utf8.RuneCountInString(s) > maxContentLength {
		return "", apperr.ContentTooLong()
	}
	return s, nil
}

// validateMetric accepts whole numbers in [1, 10] only. Fractional values
// are rejected rather than truncated, so a stored metric is always exactly
// what the caller sent.
func validateMetric(name string, v any) (int, error) {
	f, ok := toFloat(v)
	if !ok {
		return 0, apperr.MetricNotNumber(name)
	}
	if f < 1 || f > 10 || math.Trunc(f) != f {
		return 0, apperr.MetricOutOfRange(name)
	}
	return int(f), nil
}

// validateDate accepts an epoch-seconds value. A value resolving to the
// year 1970 is rejected as a zero/garbage sentinel rather than a real date.
func validateDate(v any) (int64, error) {
	f, ok := toFloat(v)
	if !ok {
		return 0, apperr.DateNotNumber()
	}
	sec := int64(f)
	if time.Unix(sec, 0).UTC().Year() == 1970 {
		return 0, apperr.InvalidDateValue()
	}
	return sec, nil
}

// toFloat widens the numeric types a decoded JSON body or a direct caller
// can supply. encoding/json produces float64; in-process callers may pass
// ints.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
