package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/askweb"
)

// Ensure LoggingQueryService implements askweb.QueryService.
var _ askweb.QueryService = (*LoggingQueryService)(nil)

// LoggingQueryService wraps a QueryService with debug logging.
type LoggingQueryService struct {
	next   askweb.QueryService
	logger *slog.Logger
}

// NewLoggingQueryService creates a new LoggingQueryService.
func NewLoggingQueryService(next askweb.QueryService, logger *slog.Logger) *LoggingQueryService {
	return &LoggingQueryService{next: next, logger: logger}
}

// CreateQuery delegates to the wrapped service and logs the operation.
func (s *LoggingQueryService) CreateQuery(ctx context.Context, q *askweb.Query) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("create query",
			"id", q.ID,
			"sources", len(q.Sources),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateQuery(ctx, q)
}

// FindQueryByID delegates to the wrapped service and logs the operation.
func (s *LoggingQueryService) FindQueryByID(ctx context.Context, id string) (q *askweb.Query, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find query",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindQueryByID(ctx, id)
}

// FindQueries delegates to the wrapped service and logs the operation.
func (s *LoggingQueryService) FindQueries(ctx context.Context, filter askweb.QueryFilter) (qs []*askweb.Query, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find queries",
			"sort", string(filter.SortBy),
			"limit", filter.Limit,
			"count", len(qs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindQueries(ctx, filter)
}
