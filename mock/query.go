package mock

import (
	"context"

	"github.com/fwojciec/askweb"
)

var _ askweb.QueryService = (*QueryService)(nil)

// QueryService is a mock implementation of askweb.QueryService.
type QueryService struct {
	CreateQueryFn   func(ctx context.Context, q *askweb.Query) error
	FindQueryByIDFn func(ctx context.Context, id string) (*askweb.Query, error)
	FindQueriesFn   func(ctx context.Context, filter askweb.QueryFilter) ([]*askweb.Query, error)
}

func (s *QueryService) CreateQuery(ctx context.Context, q *askweb.Query) error {
	return s.CreateQueryFn(ctx, q)
}

func (s *QueryService) FindQueryByID(ctx context.Context, id string) (*askweb.Query, error) {
	return s.FindQueryByIDFn(ctx, id)
}

func (s *QueryService) FindQueries(ctx context.Context, filter askweb.QueryFilter) ([]*askweb.Query, error) {
	return s.FindQueriesFn(ctx, filter)
}
