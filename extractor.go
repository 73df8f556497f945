package askweb

// ExtractResult holds the content pulled out of a rendered page.
type ExtractResult struct {
	// Title is the question the result answers.
	Title string

	// ContentHTML is the result component with interactive controls
	// (tabs, buttons, forms, scripts) removed.
	ContentHTML string
}

// Extractor pulls the result component out of a rendered page so it can be
// converted for non-browser output.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
