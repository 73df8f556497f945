package htmltomarkdown_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/fwojciec/askweb"
	"github.com/fwojciec/askweb/goquery"
	"github.com/fwojciec/askweb/html"
	"github.com/fwojciec/askweb/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts paragraphs", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(&askweb.ExtractResult{ContentHTML: `<p>Para1</p><p>Para2</p>`})

		require.NoError(t, err)
		assert.Equal(t, "Para1\n\nPara2\n", md)
	})

	t.Run("puts title in a heading", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(&askweb.ExtractResult{
			Title:       "  What is\n  Go?  ",
			ContentHTML: `<p>A language.</p>`,
		})

		require.NoError(t, err)
		assert.Equal(t, "# What is Go?\n\nA language.\n", md)
	})

	t.Run("collapses blank runs", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(&askweb.ExtractResult{ContentHTML: `<p>One</p><br><br><br><p>Two</p>`})

		require.NoError(t, err)
		assert.NotContains(t, md, "\n\n\n")
		assert.Contains(t, md, "One")
		assert.Contains(t, md, "Two")
	})

	t.Run("converts source list", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(&askweb.ExtractResult{
			ContentHTML: `<h2>Sources</h2><ol><li><a href="https://example.com">Example</a><p>snippet</p></li></ol>`,
		})

		require.NoError(t, err)
		assert.Contains(t, md, "## Sources")
		assert.Contains(t, md, "1. [Example](https://example.com)")
		assert.Contains(t, md, "snippet")
	})

	t.Run("drops markup", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(&askweb.ExtractResult{ContentHTML: `<p>*not emphasis*</p>`})

		require.NoError(t, err)
		assert.NotContains(t, md, "<p>")
		assert.Contains(t, md, "not emphasis")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.Convert(&askweb.ExtractResult{Title: "t", ContentHTML: "  "})
		require.Error(t, err)
		assert.Equal(t, askweb.EINVALID, askweb.ErrorCode(err))

		_, err = conv.Convert(nil)
		assert.Equal(t, askweb.EINVALID, askweb.ErrorCode(err))
	})
}

func TestConverter_RenderedResult(t *testing.T) {
	t.Parallel()

	r, err := html.NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderResult(&buf, askweb.NewResultView(&askweb.Query{
		ID:        "q-1",
		Query:     "What is the history of the internet?",
		Result:    "Para1\n\nPara2",
		Sources:   []askweb.Source{{Title: "A", URL: "http://a", Snippet: "s"}},
		Timestamp: time.Now(),
	})))

	extracted, err := goquery.NewExtractor().Extract(buf.String())
	require.NoError(t, err)

	md, err := htmltomarkdown.NewConverter().Convert(extracted)
	require.NoError(t, err)

	assert.Contains(t, md, "# What is the history of the internet?\n\nPara1\n\nPara2")
	assert.Contains(t, md, "[A](http://a)")
	assert.NotContains(t, md, "Copy")
	assert.NotContains(t, md, "Helpful")
}
