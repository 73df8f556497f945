package http

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/askweb"
	"github.com/fwojciec/askweb/html"
	"github.com/go-chi/chi/v5"
)

func (s *Server) registerPageRoutes(r chi.Router) {
	r.Get("/", s.handleHome)
	r.Post("/search", s.handleSearch)
	r.Get("/queries/{id}", s.handleQuery)
	r.Get("/history", s.handleHistory)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.renderHome(w, r, http.StatusOK, html.HomePage{
		Query: r.URL.Query().Get("q"),
	})
}

// handleSearch runs one search from the search form. A stored result
// redirects to its permalink; an unstored one is shown inline.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	raw := r.PostFormValue("q")
	text, err := askweb.NormalizeQuery(raw)
	if err != nil {
		s.renderHome(w, r, http.StatusBadRequest, html.HomePage{
			Query: raw,
			Error: "Please enter a question.",
		})
		return
	}

	release, err := s.admitSearch(r)
	if err != nil {
		s.renderHome(w, r, ErrorStatusCode(askweb.ErrorCode(err)), html.HomePage{
			Query: text,
			Error: askweb.ErrorMessage(err),
		})
		return
	}
	defer release()

	out := s.Searcher.Submit(r.Context(), text)

	if out.Persisted {
		http.Redirect(w, r, "/queries/"+out.Query.ID, http.StatusSeeOther)
		return
	}

	view := askweb.NewResultView(out.Query)
	s.renderHome(w, r, http.StatusOK, html.HomePage{
		Query:  text,
		Result: &view,
	})
}

// admitSearch applies the in-flight guard and the rate limit for the
// current user. The returned func must be called when the search ends.
func (s *Server) admitSearch(r *http.Request) (func(), error) {
	userID := askweb.UserIDFromContext(r.Context())

	release, err := s.guard.Acquire(userID)
	if err != nil {
		return nil, err
	}
	if s.Limiter != nil && !s.Limiter.Allow(userID) {
		release()
		return nil, askweb.Errorf(askweb.ERATELIMIT, "too many searches, please wait a moment")
	}
	return release, nil
}

// handleQuery renders a stored query. The page carries an ETag derived from
// its content since stored queries never change.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	q, err := s.findOwnQuery(r, chi.URLParam(r, "id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := s.Renderer.RenderQuery(&buf, html.QueryPage{
		Page:   s.page(r),
		Result: askweb.NewResultView(q),
	}); err != nil {
		s.Error(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "md" {
		s.writeMarkdown(w, r, buf.String())
		return
	}

	etag := `"` + strconv.FormatUint(xxhash.Sum64(buf.Bytes()), 16) + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "private, no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// writeMarkdown converts a rendered query page to Markdown.
func (s *Server) writeMarkdown(w http.ResponseWriter, r *http.Request, page string) {
	if s.Extractor == nil || s.Converter == nil {
		s.Error(w, r, askweb.Errorf(askweb.ENOTFOUND, "markdown export not available"))
		return
	}

	result, err := s.Extractor.Extract(page)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	md, err := s.Converter.Convert(result)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = io.WriteString(w, md)
}

// findOwnQuery loads a query created by the current user. Queries of other
// users and queries recorded without a user are reported as not found, the
// same records history leaves out.
func (s *Server) findOwnQuery(r *http.Request, id string) (*askweb.Query, error) {
	q, err := s.Queries.FindQueryByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if q.CreatedBy == "" || q.CreatedBy != askweb.UserIDFromContext(r.Context()) {
		return nil, askweb.Errorf(askweb.ENOTFOUND, "query not found")
	}
	return q, nil
}

// handleHistory lists all of the user's queries, filtered by ?q= and with
// the entry named by ?id= expanded.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("q")
	all := s.Searcher.ListQueries(r.Context(), askweb.SortByTimestampDesc, 0)

	p := html.HistoryPage{
		Page:    s.page(r),
		Filter:  filter,
		Queries: askweb.FilterQueries(all, filter),
	}
	if id := r.URL.Query().Get("id"); id != "" {
		for _, q := range all {
			if q.ID == id {
				view := askweb.NewResultView(q)
				p.Selected = &view
				break
			}
		}
	}

	s.render(w, r, http.StatusOK, func(buf *bytes.Buffer) error {
		return s.Renderer.RenderHistory(buf, p)
	})
}

func (s *Server) renderHome(w http.ResponseWriter, r *http.Request, status int, p html.HomePage) {
	p.Page = s.page(r)
	p.Suggestions = askweb.Suggestions(s.Suggestions)
	p.Recent = s.Searcher.ListQueries(r.Context(), askweb.SortByTimestampDesc, RecentLimit)

	s.render(w, r, status, func(buf *bytes.Buffer) error {
		return s.Renderer.RenderHome(buf, p)
	})
}

// render buffers a page so template errors can still produce a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, fn func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		s.Error(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) page(r *http.Request) html.Page {
	return html.Page{Session: html.Session{User: askweb.UserFromContext(r.Context())}}
}
