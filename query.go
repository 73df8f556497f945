package askweb

import (
	"context"
	"strings"
	"time"
)

// Source is a web page cited by an answer.
type Source struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Query represents one completed search attempt: the user's input, the
// rendered answer, and the sources the answer was grounded on.
// Queries are immutable once created.
type Query struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Result    string    `json:"result"`
	Sources   []Source  `json:"sources"`
	Timestamp time.Time `json:"timestamp"`
	CreatedBy string    `json:"createdBy,omitempty"`
}

// Validate returns an error if the query contains invalid fields.
func (q *Query) Validate() error {
	if strings.TrimSpace(q.Query) == "" {
		return Errorf(EINVALID, "query text required")
	}
	if q.Timestamp.IsZero() {
		return Errorf(EINVALID, "query timestamp required")
	}
	return nil
}

// QueryService represents a service for storing search queries.
type QueryService interface {
	// CreateQuery stores a new query and assigns its ID.
	CreateQuery(ctx context.Context, q *Query) error

	// FindQueryByID retrieves a query by ID.
	// Returns ENOTFOUND if the query does not exist.
	FindQueryByID(ctx context.Context, id string) (*Query, error)

	// FindQueries retrieves queries matching the filter.
	FindQueries(ctx context.Context, filter QueryFilter) ([]*Query, error)
}

// SortOrder is a field name with an optional "-" prefix for descending order.
type SortOrder string

// SortOrder constants for QueryFilter.
const (
	SortByTimestampDesc SortOrder = "-timestamp"
	SortByTimestampAsc  SortOrder = "timestamp"
)

// ParseSort converts a sort token into a SortOrder.
// An empty token defaults to SortByTimestampDesc.
func ParseSort(s string) (SortOrder, error) {
	switch SortOrder(strings.TrimSpace(s)) {
	case "", SortByTimestampDesc:
		return SortByTimestampDesc, nil
	case SortByTimestampAsc:
		return SortByTimestampAsc, nil
	default:
		return "", Errorf(EINVALID, "unsupported sort %q", s)
	}
}

// QueryFilter represents a filter for FindQueries.
type QueryFilter struct {
	CreatedBy *string `json:"createdBy"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`

	SortBy SortOrder `json:"sortBy"`
}

// NormalizeQuery trims the user's input. Returns EINVALID if nothing is left.
func NormalizeQuery(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", Errorf(EINVALID, "query text required")
	}
	return text, nil
}

// FilterQueries returns the queries whose text contains s, ignoring case.
// An empty s returns qs unchanged.
func FilterQueries(qs []*Query, s string) []*Query {
	if s == "" {
		return qs
	}
	needle := strings.ToLower(s)
	out := make([]*Query, 0, len(qs))
	for _, q := range qs {
		if strings.Contains(strings.ToLower(q.Query), needle) {
			out = append(out, q)
		}
	}
	return out
}
