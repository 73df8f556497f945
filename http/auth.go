package http

import (
	"bytes"
	"net/http"

	"github.com/fwojciec/askweb"
	"github.com/fwojciec/askweb/html"
)

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if askweb.UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderLogin(w, r, http.StatusOK, html.LoginPage{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	token, _, err := s.Auth.Login(r.Context(), email, r.PostFormValue("password"))
	if askweb.ErrorCode(err) == askweb.EUNAUTHORIZED {
		s.renderLogin(w, r, http.StatusUnauthorized, html.LoginPage{
			Email: email,
			Error: askweb.ErrorMessage(err),
		})
		return
	} else if err != nil {
		s.Error(w, r, err)
		return
	}

	s.setSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, status int, p html.LoginPage) {
	s.render(w, r, status, func(buf *bytes.Buffer) error {
		return s.Renderer.RenderLogin(buf, p)
	})
}
