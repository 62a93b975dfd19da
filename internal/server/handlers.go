package server

import (
	"net/http"
	"strconv"

	"github.com/tkvn/ideapool/internal/apperr"
	"github.com/tkvn/ideapool/internal/middleware"
	"github.com/tkvn/ideapool/internal/models"
	"github.com/tkvn/ideapool/internal/storage"
)

// handleSignUp registers a new account and returns its first token pair.
func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := requireFields(body, "email", "name", "password"); err != nil {
		writeError(w, err)
		return
	}

	pair, err := s.users.SignUp(r.Context(),
		stringField(body, "email"),
		stringField(body, "name"),
		stringField(body, "password"),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pair)
}

// handleLogin validates credentials and issues a fresh token pair.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := requireFields(body, "email", "password"); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.users.ValidateCredentials(r.Context(),
		stringField(body, "email"),
		stringField(body, "password"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	pair, err := s.tokens.Create(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pair)
}

// handleRefresh exchanges a valid refresh token for a new access token.
// Only the access token is returned; the refresh token is not rotated.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := requireFields(body, "refresh_token"); err != nil {
		writeError(w, err)
		return
	}

	user := middleware.GetUser(r.Context())
	accessToken, err := s.tokens.Refresh(r.Context(), user, stringField(body, "refresh_token"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"jwt": accessToken})
}

// handleLogout clears the stored token pair.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := requireFields(body, "refresh_token"); err != nil {
		writeError(w, err)
		return
	}

	user := middleware.GetUser(r.Context())
	if err := s.tokens.Delete(r.Context(), user, stringField(body, "refresh_token")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleProfile returns the authenticated user's public profile.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	writeJSON(w, http.StatusOK, s.users.Profile(user))
}

// handleDeleteAccount removes the account together with its ideas.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if err := s.users.Delete(r.Context(), user.Email); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ideaInput builds the untyped model input from a decoded body. Values
// pass through as-is so the model validators report type mismatches.
func ideaInput(body map[string]any) models.IdeaInput {
	return models.IdeaInput{
		Content:    body["content"],
		Impact:     body["impact"],
		Ease:       body["ease"],
		Confidence: body["confidence"],
		CreatedAt:  body["created_at"],
	}
}

// handleCreateIdea adds a new idea to the user's pool.
func (s *Server) handleCreateIdea(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := requireFields(body, "content", "impact", "ease", "confidence"); err != nil {
		writeError(w, err)
		return
	}

	user := middleware.GetUser(r.Context())
	idea, err := s.ideas.Create(r.Context(), user, ideaInput(body))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, idea.ToJSON())
}

// handleUpdateIdea replaces an idea's editable fields; all four are
// required together.
func (s *Server) handleUpdateIdea(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := requireFields(body, "content", "impact", "ease", "confidence"); err != nil {
		writeError(w, err)
		return
	}

	user := middleware.GetUser(r.Context())
	idea, err := s.ideas.Update(r.Context(), user, r.PathValue("id"), ideaInput(body))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, idea.ToJSON())
}

// handleGetIdea returns a single idea by id.
func (s *Server) handleGetIdea(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	idea, err := s.ideas.Get(r.Context(), user, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, idea.ToJSON())
}

// handleDeleteIdea removes a single idea by id.
func (s *Server) handleDeleteIdea(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if err := s.ideas.Delete(r.Context(), user, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListIdeas returns one page of ideas ranked by score. The two
// query modes are ?last=<score> (cursor) and ?page=<n> (offset); last
// wins when both are present.
func (s *Server) handleListIdeas(w http.ResponseWriter, r *http.Request) {
	opts := storage.ListOptions{}
	q := r.URL.Query()

	if q.Has("last") {
		last, err := strconv.ParseFloat(q.Get("last"), 64)
		if err != nil {
			writeError(w, apperr.InvalidLastScore())
			return
		}
		opts.Last = &last
	}
	if q.Has("page") {
		page, err := strconv.Atoi(q.Get("page"))
		if err != nil {
			writeError(w, apperr.InvalidPageNumber())
			return
		}
		opts.Page = &page
	}

	user := middleware.GetUser(r.Context())
	ideas, err := s.ideas.List(r.Context(), user, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]models.IdeaJSON, 0, len(ideas))
	for _, idea := range ideas {
		out = append(out, idea.ToJSON())
	}
	writeJSON(w, http.StatusOK, out)
}
