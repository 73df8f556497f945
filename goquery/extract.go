// Package goquery extracts the result component from rendered askweb pages.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/askweb"
)

// Ensure Extractor implements askweb.Extractor at compile time.
var _ askweb.Extractor = (*Extractor)(nil)

// controlSelector matches elements that only make sense in a browser.
const controlSelector = "script, style, template, form, button, .tabs, .actions, .skeleton"

// Extractor finds the result component in rendered HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the first result component in html with its controls
// stripped. Hidden panels are made visible so sources survive conversion.
// Returns ENOTFOUND if html contains no loaded result.
func (e *Extractor) Extract(html string) (*askweb.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, askweb.Errorf(askweb.EINVALID, "failed to parse HTML: %v", err)
	}

	result := doc.Find(".result").Not(".result-loading").First()
	if result.Length() == 0 {
		return nil, askweb.Errorf(askweb.ENOTFOUND, "no result in page")
	}

	title := strings.TrimSpace(result.Find(".result-query").First().Text())
	result.Find(".result-query").Remove()
	result.Find(controlSelector).Remove()
	result.Find("[hidden]").RemoveAttr("hidden")
	result.Find(".spacer").Remove()
	result.Find(".panel.sources").PrependHtml("<h2>Sources</h2>")

	content, err := goquery.OuterHtml(result)
	if err != nil {
		return nil, askweb.Errorf(askweb.EINTERNAL, "failed to render result: %v", err)
	}

	return &askweb.ExtractResult{
		Title:       title,
		ContentHTML: content,
	}, nil
}
