package http

import (
	"net/http"
	"time"

	"github.com/fwojciec/askweb"
	"github.com/go-chi/chi/v5/middleware"
)

// logRequests logs one line per request once the response is written.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func(begin time.Time) {
			s.logger().Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(begin),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}(time.Now())
		next.ServeHTTP(ww, r)
	})
}

// authenticate resolves the session token once per request and attaches the
// user to the request context. Invalid tokens clear the cookie and the
// request continues anonymously.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" || s.Auth == nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.Auth.Me(r.Context(), token)
		if err != nil {
			if askweb.ErrorCode(err) != askweb.EUNAUTHORIZED {
				s.logger().Error("session lookup failed", "err", err)
			}
			s.clearSessionCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(askweb.NewContextWithUser(r.Context(), user)))
	})
}

// requirePageAuth redirects anonymous requests to the login page.
func requirePageAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if askweb.UserFromContext(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAPIAuth rejects anonymous API requests with 401.
func requireAPIAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if askweb.UserFromContext(r.Context()) == nil {
			writeJSON(w, http.StatusUnauthorized, &ErrorResponse{Error: "authentication required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
