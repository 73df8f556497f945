package main

import (
	"fmt"

	"github.com/fwojciec/askweb"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := askweb.QueryFilter{SortBy: askweb.SortByTimestampDesc}
	if c.Oldest {
		filter.SortBy = askweb.SortByTimestampAsc
	}
	if c.User != "" {
		user, err := deps.Users.FindUserByEmail(deps.Ctx, c.User)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", askweb.ErrorMessage(err))
			return err
		}
		filter.CreatedBy = &user.ID
	}

	// Without a text filter the store pages; with one, matching happens
	// here so paging applies to matches.
	if c.Filter == "" {
		filter.Limit, filter.Offset = c.Limit, c.Offset
	}

	qs, err := deps.Queries.FindQueries(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", askweb.ErrorMessage(err))
		return err
	}
	if c.Filter != "" {
		qs = page(askweb.FilterQueries(qs, c.Filter), c.Offset, c.Limit)
	}

	if len(qs) == 0 {
		fmt.Fprintln(deps.Stdout, "No queries found. Use 'askweb ask' to run one.")
		return nil
	}

	for _, q := range qs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", q.ID, askweb.FormatTimestamp(q.Timestamp), q.Query)
	}
	return nil
}

// page returns up to limit queries after skipping offset. A limit of zero
// means no limit.
func page(qs []*askweb.Query, offset, limit int) []*askweb.Query {
	offset = max(offset, 0)
	if offset >= len(qs) {
		return nil
	}
	qs = qs[offset:]
	if limit > 0 && len(qs) > limit {
		qs = qs[:limit]
	}
	return qs
}
