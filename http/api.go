package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fwojciec/askweb"
	"github.com/go-chi/chi/v5"
)

func (s *Server) registerAPIRoutes(r chi.Router) {
	r.Post("/queries", s.handleAPICreateQuery)
	r.Get("/queries", s.handleAPIListQueries)
	r.Get("/queries/{id}", s.handleAPIGetQuery)
	r.Get("/me", s.handleAPIMe)
	r.Put("/me/settings", s.handleAPIUpdateSettings)
}

// CreateQueryRequest is the body of POST /api/queries.
type CreateQueryRequest struct {
	Query string `json:"query"`
}

// CreateQueryResponse is the body returned by POST /api/queries.
type CreateQueryResponse struct {
	Query         *askweb.Query `json:"query"`
	Persisted     bool          `json:"persisted"`
	RefreshRecent bool          `json:"refreshRecent"`
}

// ListQueriesResponse is the body returned by GET /api/queries.
type ListQueriesResponse struct {
	Queries []*askweb.Query `json:"queries"`
}

func (s *Server) handleAPICreateQuery(w http.ResponseWriter, r *http.Request) {
	var req CreateQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Error(w, r, askweb.Errorf(askweb.EINVALID, "invalid JSON body"))
		return
	}
	text, err := askweb.NormalizeQuery(req.Query)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	release, err := s.admitSearch(r)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	defer release()

	out := s.Searcher.Submit(r.Context(), text)

	status := http.StatusOK
	if out.Persisted {
		status = http.StatusCreated
	}
	writeJSON(w, status, &CreateQueryResponse{
		Query:         out.Query,
		Persisted:     out.Persisted,
		RefreshRecent: out.RefreshRecent,
	})
}

func (s *Server) handleAPIListQueries(w http.ResponseWriter, r *http.Request) {
	sort, err := askweb.ParseSort(r.URL.Query().Get("sort"))
	if err != nil {
		s.Error(w, r, err)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 0 {
			s.Error(w, r, askweb.Errorf(askweb.EINVALID, "invalid limit %q", v))
			return
		}
	}

	writeJSON(w, http.StatusOK, &ListQueriesResponse{
		Queries: s.Searcher.ListQueries(r.Context(), sort, limit),
	})
}

func (s *Server) handleAPIGetQuery(w http.ResponseWriter, r *http.Request) {
	q, err := s.findOwnQuery(r, chi.URLParam(r, "id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleAPIMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, askweb.UserFromContext(r.Context()))
}

func (s *Server) handleAPIUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings askweb.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		s.Error(w, r, askweb.Errorf(askweb.EINVALID, "invalid JSON body"))
		return
	}

	user, err := s.Users.UpdateUserSettings(r.Context(), askweb.UserIDFromContext(r.Context()), settings)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
