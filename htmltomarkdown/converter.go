// Package htmltomarkdown turns extracted result components into Markdown
// documents for terminal output and export.
package htmltomarkdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/fwojciec/askweb"
)

var _ askweb.Converter = (*Converter)(nil)

// blankRuns matches three or more consecutive newlines.
var blankRuns = regexp.MustCompile(`\n{3,}`)

// Converter renders extracted results with html-to-markdown. Tables are not
// enabled: result components never contain them.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a Converter using the base and CommonMark plugins.
func NewConverter() *Converter {
	return &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
}

// Convert renders r as a document: the title as a level one heading, then the
// content with paragraphs separated by exactly one blank line. The document
// ends in a single newline.
func (c *Converter) Convert(r *askweb.ExtractResult) (string, error) {
	if r == nil || strings.TrimSpace(r.ContentHTML) == "" {
		return "", askweb.Errorf(askweb.EINVALID, "empty HTML input")
	}

	body, err := c.conv.ConvertString(r.ContentHTML)
	if err != nil {
		return "", fmt.Errorf("convert result: %w", err)
	}
	body = blankRuns.ReplaceAllString(strings.TrimSpace(body), "\n\n")

	var sb strings.Builder
	if title := strings.Join(strings.Fields(r.Title), " "); title != "" {
		sb.WriteString("# " + title + "\n\n")
	}
	sb.WriteString(body)
	sb.WriteString("\n")
	return sb.String(), nil
}
