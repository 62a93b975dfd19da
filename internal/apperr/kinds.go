package apperr

import (
	"fmt"
	"net/http"
)

// Constructors for the well-known failures. Statuses mirror the API
// contract: validation problems are 400, authentication problems 401,
// missing records 404, anything unexpected 500.

func ContentNotString() *Error {
	return New(KindContentNotString, http.StatusBadRequest, "idea content must be a string")
}

func ContentTooLong() *Error {
	return New(KindContentTooLong, http.StatusBadRequest, "idea content must be at most 255 characters")
}

func MetricNotNumber(name string) *Error {
	return New(KindMetricNotNumber, http.StatusBadRequest, fmt.Sprintf("%s must be a number", name))
}

func MetricOutOfRange(name string) *Error {
	return New(KindMetricOutOfRange, http.StatusBadRequest, fmt.Sprintf("%s must be a number between 1 and 10", name))
}

func DateNotNumber() *Error {
	return New(KindDateNotNumber, http.StatusBadRequest, "created_at must be a number")
}

func InvalidDateValue() *Error {
	return New(KindInvalidDateValue, http.StatusBadRequest, "created_at is not a valid epoch timestamp")
}

func EmptyEmail() *Error {
	return New(KindEmptyEmail, http.StatusBadRequest, "missing email, please provide an email address")
}

func InvalidEmailFormat() *Error {
	return New(KindInvalidEmailFormat, http.StatusBadRequest, "invalid email address")
}

func EmptyPassword() *Error {
	return New(KindEmptyPassword, http.StatusBadRequest, "missing password, please provide one")
}

func WeakPassword() *Error {
	return New(KindWeakPassword, http.StatusBadRequest, "password must not contain the word password")
}

func EmptyName() *Error {
	return New(KindEmptyName, http.StatusBadRequest, "missing name, please provide a display name")
}

func EmptyAvatarURL() *Error {
	return New(KindEmptyAvatarURL, http.StatusBadRequest, "missing avatar url, please provide one")
}

func EmptyToken() *Error {
	return New(KindEmptyToken, http.StatusBadRequest, "missing access token, please provide a valid token")
}

func InvalidTokenFormat() *Error {
	return New(KindInvalidTokenFormat, http.StatusBadRequest, "invalid access token")
}

func MalformedAccessToken() *Error {
	return New(KindMalformedAccessToken, http.StatusUnauthorized, "the access token provided is malformed")
}

func TokenExpired() *Error {
	return New(KindTokenExpired, http.StatusUnauthorized, "access token has expired")
}

func TokenMismatch() *Error {
	return New(KindTokenMismatch, http.StatusUnauthorized, "access token provided does not match the stored token")
}

func RefreshTokenMismatch() *Error {
	return New(KindRefreshTokenMismatch, http.StatusUnauthorized, "refresh token provided does not match the stored token")
}

func RefreshTokenExpired() *Error {
	return New(KindRefreshTokenExpired, http.StatusUnauthorized, "refresh token has expired")
}

func UserLoggedOut() *Error {
	return New(KindUserLoggedOut, http.StatusUnauthorized, "the user is signed out, please sign in")
}

func TokenManagerError(err error) *Error {
	return Wrap(KindTokenManager, http.StatusBadRequest, "token manager failure", err)
}

func UserNotFound() *Error {
	return New(KindUserNotFound, http.StatusNotFound, "user not found")
}

func InvalidPassword() *Error {
	return New(KindInvalidPassword, http.StatusUnauthorized, "wrong password")
}

func UserServiceError(err error) *Error {
	return Wrap(KindUserService, http.StatusBadRequest, "user service failure", err)
}

func IdeaNotFound() *Error {
	return New(KindIdeaNotFound, http.StatusNotFound, "idea not found")
}

func IdeaIDMissing() *Error {
	return New(KindIdeaIDMissing, http.StatusBadRequest, "missing idea id parameter")
}

func InvalidPageNumber() *Error {
	return New(KindInvalidPageNumber, http.StatusBadRequest, "page must be an integer greater than 0")
}

func InvalidLastScore() *Error {
	return New(KindInvalidLastScore, http.StatusBadRequest, "last must be a number greater than or equal to 0")
}

func IdeaError(err error) *Error {
	return Wrap(KindIdea, http.StatusBadRequest, "idea service failure", err)
}

func MissingProperty(fields ...string) *Error {
	return New(KindMissingProperty, http.StatusBadRequest, fmt.Sprintf("missing required properties: %v", fields))
}

func MissingAccessToken() *Error {
	return New(KindMissingAccessToken, http.StatusUnauthorized, "missing access token, please provide")
}

func Unauthorized(err error) *Error {
	return Wrap(KindUnauthorized, http.StatusUnauthorized, "authentication failed", err)
}

func Internal(err error) *Error {
	return Wrap(KindInternal, http.StatusInternalServerError, "internal server error", err)
}
