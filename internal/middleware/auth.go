// Package middleware provides the HTTP middleware chain: authentication,
// request logging, CORS and metrics.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tkvn/ideapool/internal/apperr"
	"github.com/tkvn/ideapool/internal/models"
	"github.com/tkvn/ideapool/internal/service"
	"github.com/tkvn/ideapool/internal/token"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// userKey is the context key for the authenticated user.
const userKey contextKey = "user"

// GetUser extracts the authenticated user from the context.
// Returns nil if the request was not authenticated.
func GetUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// RequireAuth returns middleware that authenticates every request it
// wraps. The access token comes from the X-Access-Token header (an
// optional Bearer prefix is stripped). The token is verified by the codec
// and then matched against the value stored on the user record, so a token
// that was superseded or cleared by logout is rejected even while its
// signature is still valid. On the refresh route the expiry claim is
// ignored: an expired access token may still identify its owner there.
// Every rejection surfaces as 401: a failure here means "re-authenticate",
// never "bad request".
func RequireAuth(tokens *token.Manager, users *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("X-Access-Token")
			if header == "" {
				writeError(w, apperr.MissingAccessToken())
				return
			}
			accessToken := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))

			isRefreshRequest := r.URL.Path == "/access-tokens/refresh"
			claims, err := tokens.Verify(accessToken, isRefreshRequest)
			if err != nil {
				writeError(w, unauthorized(err))
				return
			}

			user, err := users.VerifyUserAndToken(r.Context(), claims.Email, accessToken)
			if err != nil {
				writeError(w, unauthorized(err))
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// unauthorized maps a verification failure to a 401. Failures that already
// carry an authentication status (expired, malformed, mismatch, signed
// out) pass through with their own kind; anything else, such as an invalid
// signature, is wrapped.
func unauthorized(err error) error {
	if e := apperr.From(err); e != nil && e.Status == http.StatusUnauthorized {
		return err
	}
	return apperr.Unauthorized(err)
}

// writeError renders an authentication failure as the standard error body.
func writeError(w http.ResponseWriter, err error) {
	status, body := apperr.ToJSON(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
