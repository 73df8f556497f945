// Package html renders askweb pages with html/template. Untrusted text from
// the inference service is reduced to plain text with bluemonday before the
// template escapes it.
package html

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"io"
	"strings"

	"github.com/fwojciec/askweb"
	"github.com/microcosm-cc/bluemonday"
)

//go:embed templates/*.html
var templateFS embed.FS

// Session is the signed-in state passed to every page at composition time.
type Session struct {
	User *askweb.User
}

// SignedIn reports whether the session has a user.
func (s Session) SignedIn() bool {
	return s.User != nil
}

// Page holds the fields shared by all full pages.
type Page struct {
	Session Session
	Title   string
}

// Theme returns the color scheme for the page.
func (p Page) Theme() askweb.Theme {
	return p.Session.User.ResolvedSettings().Theme
}

// Compact reports whether results use the compact layout.
func (p Page) Compact() bool {
	return p.Session.User.ResolvedSettings().DisplayPreferences.CompactResults
}

// HomePage is the landing view: search box, suggestions, recent queries and
// the result of the last submission, if any.
type HomePage struct {
	Page
	Query       string
	Result      *askweb.ResultView
	Recent      []*askweb.Query
	Suggestions []string
	Error       string
}

// QueryPage shows a single stored query.
type QueryPage struct {
	Page
	Result askweb.ResultView
}

// HistoryPage lists past queries with an optional filter and selection.
type HistoryPage struct {
	Page
	Filter   string
	Queries  []*askweb.Query
	Selected *askweb.ResultView
}

// SettingsPage is the settings form.
type SettingsPage struct {
	Page
	Settings askweb.Settings
	Saved    bool
	Error    string
}

// LoginPage is the sign-in form.
type LoginPage struct {
	Page
	Email string
	Error string
}

var pageNames = []string{"home", "query", "history", "settings", "login"}

// Renderer executes the embedded templates.
type Renderer struct {
	pages    map[string]*template.Template
	fragment *template.Template
	policy   *bluemonday.Policy
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		pages:  make(map[string]*template.Template, len(pageNames)),
		policy: bluemonday.StrictPolicy(),
	}

	funcs := template.FuncMap{
		"plain":     r.PlainText,
		"timestamp": askweb.FormatTimestamp,
		"noSources": func() string { return askweb.NoSourcesMessage },
		"loading":   askweb.LoadingResultView,
	}

	fragment, err := template.New("partials.html").Funcs(funcs).ParseFS(templateFS, "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parse partials: %w", err)
	}
	r.fragment = fragment

	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// PlainText strips all markup from s and returns the remaining text unescaped,
// ready for contextual escaping by the template.
func (r *Renderer) PlainText(s string) string {
	return html.UnescapeString(r.policy.Sanitize(s))
}

// RenderHome renders the landing page.
func (r *Renderer) RenderHome(w io.Writer, p HomePage) error {
	if p.Title == "" {
		p.Title = "Search"
	}
	return r.render(w, "home", p)
}

// RenderQuery renders the page of a stored query.
func (r *Renderer) RenderQuery(w io.Writer, p QueryPage) error {
	if p.Title == "" && p.Result.Query != nil {
		p.Title = r.PlainText(p.Result.Query.Query)
	}
	return r.render(w, "query", p)
}

// RenderHistory renders the history page.
func (r *Renderer) RenderHistory(w io.Writer, p HistoryPage) error {
	if p.Title == "" {
		p.Title = "History"
	}
	return r.render(w, "history", p)
}

// RenderSettings renders the settings page.
func (r *Renderer) RenderSettings(w io.Writer, p SettingsPage) error {
	if p.Title == "" {
		p.Title = "Settings"
	}
	return r.render(w, "settings", p)
}

// RenderLogin renders the sign-in page.
func (r *Renderer) RenderLogin(w io.Writer, p LoginPage) error {
	if p.Title == "" {
		p.Title = "Sign in"
	}
	return r.render(w, "login", p)
}

// RenderResult renders only the result component for v.
func (r *Renderer) RenderResult(w io.Writer, v askweb.ResultView) error {
	return r.execute(w, r.fragment, "result", v)
}

func (r *Renderer) render(w io.Writer, name string, data any) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return askweb.Errorf(askweb.EINTERNAL, "unknown page %q", name)
	}
	return r.execute(w, tmpl, "layout", data)
}

// execute renders into a buffer first so a failing template never writes a
// partial page.
func (r *Renderer) execute(w io.Writer, tmpl *template.Template, name string, data any) error {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("execute %s: %w", strings.TrimSuffix(name, ".html"), err)
	}
	_, err := buf.WriteTo(w)
	return err
}
