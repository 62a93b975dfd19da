// Package server wires the HTTP routes to the services. It is a thin
// layer: JSON decoding, required-field pre-checks and status codes live
// here, everything else happens in the services.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tkvn/ideapool/internal/apperr"
	"github.com/tkvn/ideapool/internal/middleware"
	"github.com/tkvn/ideapool/internal/service"
	"github.com/tkvn/ideapool/internal/token"
)

// Server holds the services the handlers dispatch to.
type Server struct {
	users  *service.UserService
	ideas  *service.IdeaService
	tokens *token.Manager
}

// New creates a Server.
func New(users *service.UserService, ideas *service.IdeaService, tokens *token.Manager) *Server {
	return &Server{users: users, ideas: ideas, tokens: tokens}
}

// Routes builds the route table. Everything except sign-up, login, health
// and metrics requires an authenticated user.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(s.tokens, s.users)

	mux.HandleFunc("POST /users", s.handleSignUp)
	mux.HandleFunc("POST /access-tokens", s.handleLogin)
	mux.Handle("POST /access-tokens/refresh", auth(http.HandlerFunc(s.handleRefresh)))
	mux.Handle("DELETE /access-tokens", auth(http.HandlerFunc(s.handleLogout)))

	mux.Handle("GET /me", auth(http.HandlerFunc(s.handleProfile)))
	mux.Handle("DELETE /me", auth(http.HandlerFunc(s.handleDeleteAccount)))

	mux.Handle("POST /ideas", auth(http.HandlerFunc(s.handleCreateIdea)))
	mux.Handle("GET /ideas", auth(http.HandlerFunc(s.handleListIdeas)))
	mux.Handle("GET /ideas/{id}", auth(http.HandlerFunc(s.handleGetIdea)))
	mux.Handle("PUT /ideas/{id}", auth(http.HandlerFunc(s.handleUpdateIdea)))
	mux.Handle("DELETE /ideas/{id}", auth(http.HandlerFunc(s.handleDeleteIdea)))

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON renders a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders any error as the standard error body.
func writeError(w http.ResponseWriter, err error) {
	status, body := apperr.ToJSON(err)
	writeJSON(w, status, body)
}

// decodeBody decodes a JSON request body into a generic map so the model
// validators, not the decoder, report type mismatches.
func decodeBody(r *http.Request) (map[string]any, error) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, apperr.New(apperr.KindMissingProperty, http.StatusBadRequest, "request body must be a JSON object")
	}
	return body, nil
}

// requireFields checks the decoded body has every required property
// before any service call runs.
func requireFields(body map[string]any, fields ...string) error {
	var missing []string
	for _, f := range fields {
		if _, ok := body[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return apperr.MissingProperty(missing...)
	}
	return nil
}

// stringField extracts a string property; non-string values come back
// empty and fail the blank-value validation downstream.
func stringField(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}
