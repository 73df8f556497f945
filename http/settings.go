package http

import (
	"bytes"
	"net/http"

	"github.com/fwojciec/askweb"
	"github.com/fwojciec/askweb/html"
	"github.com/go-chi/chi/v5"
)

func (s *Server) registerSettingsRoutes(r chi.Router) {
	r.Get("/settings", s.handleSettings)
	r.Post("/settings", s.handleSaveSettings)
	r.Post("/settings/reset", s.handleResetSettings)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	user := askweb.UserFromContext(r.Context())
	s.renderSettings(w, r, http.StatusOK, html.SettingsPage{
		Settings: user.ResolvedSettings(),
		Saved:    r.URL.Query().Get("saved") == "1",
	})
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.Error(w, r, askweb.Errorf(askweb.EINVALID, "invalid form"))
		return
	}
	settings := settingsFromForm(r)

	user, err := s.Users.UpdateUserSettings(r.Context(), askweb.UserIDFromContext(r.Context()), settings)
	if askweb.ErrorCode(err) == askweb.EINVALID {
		s.renderSettings(w, r, http.StatusBadRequest, html.SettingsPage{
			Settings: settings,
			Error:    askweb.ErrorMessage(err),
		})
		return
	} else if err != nil {
		s.Error(w, r, err)
		return
	}

	r = r.WithContext(askweb.NewContextWithUser(r.Context(), user))
	s.renderSettings(w, r, http.StatusOK, html.SettingsPage{
		Settings: user.ResolvedSettings(),
		Saved:    true,
	})
}

func (s *Server) handleResetSettings(w http.ResponseWriter, r *http.Request) {
	if _, err := s.Users.UpdateUserSettings(r.Context(), askweb.UserIDFromContext(r.Context()), askweb.DefaultSettings()); err != nil {
		s.Error(w, r, err)
		return
	}
	http.Redirect(w, r, "/settings?saved=1", http.StatusSeeOther)
}

func (s *Server) renderSettings(w http.ResponseWriter, r *http.Request, status int, p html.SettingsPage) {
	p.Page = s.page(r)
	s.render(w, r, status, func(buf *bytes.Buffer) error {
		return s.Renderer.RenderSettings(buf, p)
	})
}

// settingsFromForm reads the settings form. Unchecked boxes are absent from
// the form and read as false.
func settingsFromForm(r *http.Request) askweb.Settings {
	checked := func(name string) bool {
		return r.PostForm.Get(name) != ""
	}
	return askweb.Settings{
		Version: askweb.SettingsVersion,
		Theme:   askweb.Theme(r.PostForm.Get("theme")),
		SearchPreferences: askweb.SearchPreferences{
			UseWeb:          checked("useWeb"),
			IncludeNews:     checked("includeNews"),
			IncludeAcademic: checked("includeAcademic"),
		},
		DisplayPreferences: askweb.DisplayPreferences{
			ShowSourcesInline: checked("showSourcesInline"),
			CompactResults:    checked("compactResults"),
		},
	}
}
