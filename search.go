package askweb

import "context"

// SearchOutcome is the result of one search submission.
type SearchOutcome struct {
	// Query is the shaped record to render. Never nil.
	Query *Query

	// Persisted reports whether Query was stored.
	Persisted bool

	// RefreshRecent signals that the recent queries list changed and
	// should be read again. Only set after a successful create.
	RefreshRecent bool
}

// Searcher orchestrates a search: it asks the inference service, shapes the
// answer into a Query, and stores it.
type Searcher interface {
	// Submit runs a search for text, which callers must have normalized
	// with NormalizeQuery. Submit never fails: upstream errors produce a
	// fallback record instead.
	Submit(ctx context.Context, text string) *SearchOutcome

	// ListQueries returns stored queries in the given order, capped at
	// limit when limit > 0. Errors are logged and yield an empty list.
	ListQueries(ctx context.Context, sort SortOrder, limit int) []*Query
}
