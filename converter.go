package askweb

// Converter converts extracted results to Markdown.
type Converter interface {
	// Convert renders r as a Markdown document, e.g. to print a result
	// view in a terminal. Returns EINVALID if r has no content.
	Convert(r *ExtractResult) (string, error)
}
