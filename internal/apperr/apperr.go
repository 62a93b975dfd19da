// Package apperr defines the typed errors shared across the service.
//
// Every failure the API can surface is an *Error carrying a Kind, the HTTP
// status it maps to, and a human-readable message. Callers dispatch on Kind
// (never on message text), and unexpected failures are wrapped with their
// cause preserved for diagnostics.
package apperr

import "errors"

// Kind identifies a single failure class.
type Kind string

const (
	// Idea model validation
	KindContentNotString Kind = "content_not_string"
	KindContentTooLong   Kind = "content_too_long"
	KindMetricNotNumber  Kind = "metric_not_number"
	KindMetricOutOfRange Kind = "metric_out_of_range"
	KindDateNotNumber    Kind = "date_not_number"
	KindInvalidDateValue Kind = "invalid_date_value"

	// User model validation
	KindEmptyEmail         Kind = "empty_email"
	KindInvalidEmailFormat Kind = "invalid_email_format"
	KindEmptyPassword      Kind = "empty_password"
	KindWeakPassword       Kind = "weak_password"
	KindEmptyName          Kind = "empty_name"
	KindEmptyAvatarURL     Kind = "empty_avatar_url"
	KindEmptyToken         Kind = "empty_token"
	KindInvalidTokenFormat Kind = "invalid_token_format"

	// Token lifecycle
	KindMalformedAccessToken Kind = "malformed_access_token"
	KindTokenExpired         Kind = "token_expired"
	KindTokenMismatch        Kind = "token_mismatch"
	KindRefreshTokenMismatch Kind = "refresh_token_mismatch"
	KindRefreshTokenExpired  Kind = "refresh_token_expired"
	KindUserLoggedOut        Kind = "user_logged_out"
	KindTokenManager         Kind = "token_manager_error"

	// User service
	KindUserNotFound    Kind = "user_not_found"
	KindInvalidPassword Kind = "invalid_password"
	KindUserService     Kind = "user_service_error"

	// Idea service
	KindIdeaNotFound      Kind = "idea_not_found"
	KindIdeaIDMissing     Kind = "idea_id_missing"
	KindInvalidPageNumber Kind = "invalid_page_number"
	KindInvalidLastScore  Kind = "invalid_last_score"
	KindIdea              Kind = "idea_error"

	// Request layer
	KindMissingProperty    Kind = "missing_property"
	KindMissingAccessToken Kind = "missing_access_token"
	KindUnauthorized       Kind = "unauthorized"
	KindInternal           Kind = "internal_error"
)

// Error is the typed error surfaced by models, services and handlers.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error // wrapped cause, nil for plain validation failures
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an error with an explicit status.
func New(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message}
}

// Wrap builds an error around an underlying cause, keeping the cause's
// message available to diagnostics while the kind stays generic.
func Wrap(kind Kind, status int, message string, err error) *Error {
	return &Error{Kind: kind, Status: status, Message: message, Err: err}
}

// JSON is the wire shape of an error response.
type JSON struct {
	Kind    Kind   `json:"kind"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Cause   string `json:"cause,omitempty"`
}

// ToJSON maps any error to its wire shape and HTTP status. Errors without
// an *Error in their chain are reported as internal without leaking the
// underlying message.
func ToJSON(err error) (int, JSON) {
	e := From(err)
	if e == nil {
		e = Internal(nil)
	}
	out := JSON{Kind: e.Kind, Status: e.Status, Message: e.Message}
	if e.Err != nil {
		out.Cause = e.Err.Error()
	}
	return e.Status, out
}

// IsKind reports whether err is or wraps an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// From extracts the *Error from err, or nil if there is none in the chain.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
