package askweb

// NoSourcesMessage is shown in place of an empty source list.
const NoSourcesMessage = "No sources available for this answer."

// DefaultSuggestions are the example queries offered on the landing view.
var DefaultSuggestions = []string{
	"Explain quantum computing in simple terms",
	"What are the latest breakthroughs in AI?",
	"How does climate change affect biodiversity?",
	"What is the history of the internet?",
	"Explain how blockchain technology works",
}

// ResultView is what the result component renders. It is either loading,
// with no data, or loaded with a query's answer and sources.
type ResultView struct {
	Loading    bool
	Query      *Query
	Paragraphs []Paragraph
	Sources    []Source
}

// LoadingResultView returns the placeholder view shown while a search runs.
func LoadingResultView() ResultView {
	return ResultView{Loading: true}
}

// NewResultView returns the loaded view of q.
// The view depends only on q, so rendering it repeatedly is stable.
func NewResultView(q *Query) ResultView {
	return ResultView{
		Query:      q,
		Paragraphs: SplitParagraphs(q.Result),
		Sources:    q.Sources,
	}
}

// SourceCount returns the number of sources shown in the tab label.
func (v ResultView) SourceCount() int {
	return len(v.Sources)
}

// Suggestions returns custom when it is non-empty, DefaultSuggestions otherwise.
func Suggestions(custom []string) []string {
	if len(custom) > 0 {
		return custom
	}
	return DefaultSuggestions
}
