package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/askweb"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ askweb.QueryService = (*QueryService)(nil)

// QueryService implements askweb.QueryService using SQLite.
type QueryService struct {
	db *DB
}

// NewQueryService creates a new QueryService.
func NewQueryService(db *DB) *QueryService {
	return &QueryService{db: db}
}

const queryColumns = "id, query, result, sources, timestamp, created_by"

// CreateQuery stores a new query and assigns its ID.
// The timestamp is kept as given: it is set by the caller at submission time.
func (s *QueryService) CreateQuery(ctx context.Context, q *askweb.Query) error {
	if err := q.Validate(); err != nil {
		return err
	}

	if q.Sources == nil {
		q.Sources = []askweb.Source{}
	}
	sources, err := json.Marshal(q.Sources)
	if err != nil {
		return fmt.Errorf("failed to encode sources: %w", err)
	}

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO queries (id, query, result, sources, timestamp, created_by)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, q.Query, q.Result, string(sources), formatTime(q.Timestamp), q.CreatedBy)
	if err != nil {
		return err
	}

	q.ID = id
	return nil
}

// FindQueryByID retrieves a query by ID.
func (s *QueryService) FindQueryByID(ctx context.Context, id string) (*askweb.Query, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+queryColumns+" FROM queries WHERE id = ?", id)

	q, err := scanQuery(row)
	if err == sql.ErrNoRows {
		return nil, askweb.Errorf(askweb.ENOTFOUND, "query not found")
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

// FindQueries retrieves queries matching the filter.
// Equal timestamps keep insertion order.
func (s *QueryService) FindQueries(ctx context.Context, filter askweb.QueryFilter) ([]*askweb.Query, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + queryColumns + " FROM queries WHERE 1=1")

	if filter.CreatedBy != nil {
		query.WriteString(" AND created_by = ?")
		args = append(args, *filter.CreatedBy)
	}

	switch filter.SortBy {
	case "", askweb.SortByTimestampDesc:
		query.WriteString(" ORDER BY timestamp DESC, seq ASC")
	case askweb.SortByTimestampAsc:
		query.WriteString(" ORDER BY timestamp ASC, seq ASC")
	default:
		return nil, askweb.Errorf(askweb.EINVALID, "unsupported sort %q", filter.SortBy)
	}

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	qs := []*askweb.Query{}
	for rows.Next() {
		q, err := scanQuery(rows)
		if err != nil {
			return nil, err
		}
		qs = append(qs, q)
	}

	return qs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuery(row scanner) (*askweb.Query, error) {
	var q askweb.Query
	var sources, timestamp string

	if err := row.Scan(&q.ID, &q.Query, &q.Result, &sources, &timestamp, &q.CreatedBy); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(sources), &q.Sources); err != nil {
		return nil, fmt.Errorf("failed to decode sources: %w", err)
	}
	if q.Sources == nil {
		q.Sources = []askweb.Source{}
	}

	var err error
	q.Timestamp, err = parseTime(timestamp, "timestamp")
	if err != nil {
		return nil, err
	}

	return &q, nil
}
