package mock

import (
	"context"

	"github.com/fwojciec/askweb"
)

var _ askweb.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of askweb.Searcher.
type Searcher struct {
	SubmitFn      func(ctx context.Context, text string) *askweb.SearchOutcome
	ListQueriesFn func(ctx context.Context, sort askweb.SortOrder, limit int) []*askweb.Query
}

func (s *Searcher) Submit(ctx context.Context, text string) *askweb.SearchOutcome {
	return s.SubmitFn(ctx, text)
}

func (s *Searcher) ListQueries(ctx context.Context, sort askweb.SortOrder, limit int) []*askweb.Query {
	return s.ListQueriesFn(ctx, sort, limit)
}
