package html_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/askweb"
	"github.com/fwojciec/askweb/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T) *html.Renderer {
	t.Helper()
	r, err := html.NewRenderer()
	require.NoError(t, err)
	return r
}

func parse(t *testing.T, buf *bytes.Buffer) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	return doc
}

func internetQuery() *askweb.Query {
	return &askweb.Query{
		ID:     "q-1",
		Query:  "What is the history of the internet?",
		Result: "Para1\n\nPara2",
		Sources: []askweb.Source{
			{Title: "A", URL: "http://a", Snippet: "s"},
		},
		Timestamp: time.Date(2025, 3, 14, 15, 9, 0, 0, time.UTC),
	}
}

func TestRenderer_RenderResult(t *testing.T) {
	t.Parallel()

	t.Run("renders paragraphs with spacing and one source", func(t *testing.T) {
		t.Parallel()

		r := newRenderer(t)
		var buf bytes.Buffer
		require.NoError(t, r.RenderResult(&buf, askweb.NewResultView(internetQuery())))

		doc := parse(t, &buf)
		paragraphs := doc.Find(".answer > p")
		require.Equal(t, 2, paragraphs.Length())
		assert.Equal(t, "Para1", paragraphs.Eq(0).Text())
		assert.Equal(t, "Para2", paragraphs.Eq(1).Text())
		assert.Equal(t, 1, doc.Find(".answer > .spacer").Length())
		assert.Equal(t, "Sources (1)", doc.Find(`[data-tab="sources"]`).Text())

		link := doc.Find(".source a")
		assert.Equal(t, "A", link.Text())
		href, _ := link.Attr("href")
		assert.Equal(t, "http://a", href)
		assert.Equal(t, "s", doc.Find(".source .snippet").Text())
		assert.Zero(t, doc.Find(".no-sources").Length())
	})

	t.Run("renders no-sources message", func(t *testing.T) {
		t.Parallel()

		r := newRenderer(t)
		q := internetQuery()
		q.Sources = []askweb.Source{}
		var buf bytes.Buffer
		require.NoError(t, r.RenderResult(&buf, askweb.NewResultView(q)))

		doc := parse(t, &buf)
		assert.Equal(t, askweb.NoSourcesMessage, doc.Find(".no-sources").Text())
		assert.Equal(t, "Sources (0)", doc.Find(`[data-tab="sources"]`).Text())
	})

	t.Run("renders loading skeleton without data", func(t *testing.T) {
		t.Parallel()

		r := newRenderer(t)
		var buf bytes.Buffer
		require.NoError(t, r.RenderResult(&buf, askweb.LoadingResultView()))

		doc := parse(t, &buf)
		assert.Equal(t, 1, doc.Find(".result-loading").Length())
		assert.NotZero(t, doc.Find(".skeleton").Length())
		assert.Zero(t, doc.Find(".answer").Length())
	})

	t.Run("rendering twice is identical", func(t *testing.T) {
		t.Parallel()

		r := newRenderer(t)
		q := internetQuery()
		var first, second bytes.Buffer
		require.NoError(t, r.RenderResult(&first, askweb.NewResultView(q)))
		require.NoError(t, r.RenderResult(&second, askweb.NewResultView(q)))

		assert.Equal(t, first.String(), second.String())
	})

	t.Run("strips markup from model output", func(t *testing.T) {
		t.Parallel()

		r := newRenderer(t)
		q := internetQuery()
		q.Result = `Tom & Jerry <script>alert(1)</script><b>bold</b>`
		q.Sources = []askweb.Source{{Title: "<i>T</i>", URL: "javascript:alert(1)", Snippet: "x"}}
		var buf bytes.Buffer
		require.NoError(t, r.RenderResult(&buf, askweb.NewResultView(q)))

		out := buf.String()
		assert.NotContains(t, out, "<script>")
		assert.NotContains(t, out, "<b>")
		assert.NotContains(t, out, "javascript:")

		doc := parse(t, &buf)
		assert.Equal(t, "Tom & Jerry bold", doc.Find(".answer > p").Text())
		assert.Equal(t, "T", doc.Find(".source a").Text())
	})
}

func TestRenderer_RenderHome(t *testing.T) {
	t.Parallel()

	t.Run("shows search box, suggestions and recent queries", func(t *testing.T) {
		t.Parallel()

		r := newRenderer(t)
		var buf bytes.Buffer
		err := r.RenderHome(&buf, html.HomePage{
			Suggestions: askweb.DefaultSuggestions,
			Recent:      []*askweb.Query{internetQuery()},
		})
		require.NoError(t, err)

		doc := parse(t, &buf)
		assert.Equal(t, 1, doc.Find(`form#search-form input[name="q"]`).Length())
		assert.Equal(t, len(askweb.DefaultSuggestions), doc.Find(".chip").Length())
		assert.Equal(t, "Explain quantum computing in simple terms", doc.Find(".chip").First().Text())
		assert.Equal(t, "Mar 14, 2025 • 3:09 PM", doc.Find(".recent time").Text())
		href, _ := doc.Find(".recent a").Attr("href")
		assert.Equal(t, "/queries/q-1", href)
		assert.Zero(t, doc.Find("#result .result").Length())
		assert.True(t, doc.Find("html").HasClass("theme-light"))
		assert.Equal(t, 1, doc.Find(`a[href="/login"]`).Length())
	})

	t.Run("shows result and signed-in user theme", func(t *testing.T) {
		t.Parallel()

		r := newRenderer(t)
		settings := askweb.DefaultSettings()
		settings.Theme = askweb.ThemeDark
		view := askweb.NewResultView(internetQuery())
		var buf bytes.Buffer
		err := r.RenderHome(&buf, html.HomePage{
			Page:   html.Page{Session: html.Session{User: &askweb.User{ID: "u", FullName: "Ada", Settings: &settings}}},
			Query:  "What is the history of the internet?",
			Result: &view,
		})
		require.NoError(t, err)

		doc := parse(t, &buf)
		assert.True(t, doc.Find("html").HasClass("theme-dark"))
		assert.Equal(t, "Ada", doc.Find("header .user").Text())
		val, _ := doc.Find(`input[name="q"]`).Attr("value")
		assert.Equal(t, "What is the history of the internet?", val)
		assert.Equal(t, 2, doc.Find("#result .answer > p").Length())
	})
}

func TestRenderer_RenderHistory(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	q := internetQuery()
	view := askweb.NewResultView(q)
	var buf bytes.Buffer
	err := r.RenderHistory(&buf, html.HistoryPage{
		Filter:   "internet & more",
		Queries:  []*askweb.Query{q},
		Selected: &view,
	})
	require.NoError(t, err)

	doc := parse(t, &buf)
	item := doc.Find(".query-item")
	assert.True(t, item.HasClass("selected"))
	href, _ := item.Find("a").Attr("href")
	assert.Equal(t, "/history?q=internet%20%26%20more&id=q-1", href)
	assert.Equal(t, 1, doc.Find("#result .result").Length())
}

func TestRenderer_RenderHistory_Empty(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	var buf bytes.Buffer
	require.NoError(t, r.RenderHistory(&buf, html.HistoryPage{Filter: "zzz"}))

	doc := parse(t, &buf)
	assert.Contains(t, doc.Find(".empty").Text(), "zzz")
}

func TestRenderer_RenderSettings(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	settings := askweb.DefaultSettings()
	settings.Theme = askweb.ThemeSystem
	var buf bytes.Buffer
	require.NoError(t, r.RenderSettings(&buf, html.SettingsPage{Settings: settings, Saved: true}))

	doc := parse(t, &buf)
	checked, _ := doc.Find(`input[name="theme"][checked]`).Attr("value")
	assert.Equal(t, "system", checked)
	assert.Equal(t, 1, doc.Find(`input[name="useWeb"][checked]`).Length())
	assert.Equal(t, 1, doc.Find(`input[name="includeNews"][checked]`).Length())
	assert.Zero(t, doc.Find(`input[name="includeAcademic"][checked]`).Length())
	assert.Equal(t, "Settings saved.", doc.Find(".saved").Text())
}

func TestRenderer_RenderLogin(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	var buf bytes.Buffer
	require.NoError(t, r.RenderLogin(&buf, html.LoginPage{Email: "ada@example.com", Error: "invalid email or password"}))

	doc := parse(t, &buf)
	val, _ := doc.Find(`input[name="email"]`).Attr("value")
	assert.Equal(t, "ada@example.com", val)
	assert.Equal(t, "invalid email or password", strings.TrimSpace(doc.Find(".error").Text()))
	assert.Contains(t, doc.Find("title").Text(), "Sign in")
}

func TestRenderer_RenderQuery(t *testing.T) {
	t.Parallel()

	r := newRenderer(t)
	var buf bytes.Buffer
	require.NoError(t, r.RenderQuery(&buf, html.QueryPage{Result: askweb.NewResultView(internetQuery())}))

	doc := parse(t, &buf)
	assert.Contains(t, doc.Find("title").Text(), "What is the history of the internet?")
	assert.Equal(t, `q-1`, doc.Find(".result").AttrOr("data-query-id", ""))
}
