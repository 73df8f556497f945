package search_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/askweb"
	"github.com/fwojciec/askweb/mock"
	"github.com/fwojciec/askweb/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestSearcher(inferrer askweb.Inferrer, queries askweb.QueryService, logs *bytes.Buffer) *search.Searcher {
	s := search.NewSearcher(inferrer, queries, slog.New(slog.NewTextHandler(logs, nil)))
	s.Now = func() time.Time { return fixedNow }
	return s
}

func staticInferrer(body string) *mock.Inferrer {
	return &mock.Inferrer{
		InferFn: func(context.Context, *askweb.InferenceRequest) ([]byte, error) {
			return []byte(body), nil
		},
	}
}

func TestSearcher_Submit(t *testing.T) {
	t.Parallel()

	t.Run("stores answer and sources and signals refresh", func(t *testing.T) {
		t.Parallel()

		var req *askweb.InferenceRequest
		inferrer := &mock.Inferrer{
			InferFn: func(_ context.Context, r *askweb.InferenceRequest) ([]byte, error) {
				req = r
				return []byte(`{"answer":"Para1\n\nPara2","sources":[{"title":"A","url":"http://a","snippet":"s"}]}`), nil
			},
		}
		var created *askweb.Query
		queries := &mock.QueryService{
			CreateQueryFn: func(_ context.Context, q *askweb.Query) error {
				q.ID = "query-1"
				created = q
				return nil
			},
		}

		s := newTestSearcher(inferrer, queries, &bytes.Buffer{})
		out := s.Submit(context.Background(), "What is the history of the internet?")

		require.NotNil(t, req)
		assert.True(t, req.AddContextFromInternet)
		assert.Contains(t, req.Prompt, "What is the history of the internet?")
		require.NotNil(t, req.ResponseSchema)
		assert.Equal(t, []string{"answer", "sources"}, req.ResponseSchema.Required)

		require.NotNil(t, created)
		assert.True(t, out.Persisted)
		assert.True(t, out.RefreshRecent)
		assert.Same(t, created, out.Query)
		assert.Equal(t, "query-1", out.Query.ID)
		assert.Equal(t, "What is the history of the internet?", out.Query.Query)
		assert.Equal(t, "Para1\n\nPara2", out.Query.Result)
		assert.Equal(t, []askweb.Source{{Title: "A", URL: "http://a", Snippet: "s"}}, out.Query.Sources)
		assert.Equal(t, fixedNow, out.Query.Timestamp)

		view := askweb.NewResultView(out.Query)
		var blocks int
		for _, p := range view.Paragraphs {
			if !p.Blank {
				blocks++
			}
		}
		assert.Equal(t, 2, blocks)
		assert.Equal(t, 1, view.SourceCount())
	})

	t.Run("returns fallback without saving on inference error", func(t *testing.T) {
		t.Parallel()

		inferrer := &mock.Inferrer{
			InferFn: func(context.Context, *askweb.InferenceRequest) ([]byte, error) {
				return nil, errors.New("dial tcp: connection refused")
			},
		}
		queries := &mock.QueryService{
			CreateQueryFn: func(context.Context, *askweb.Query) error {
				t.Fatal("CreateQuery must not be called")
				return nil
			},
		}
		logs := &bytes.Buffer{}

		s := newTestSearcher(inferrer, queries, logs)
		out := s.Submit(context.Background(), "What is the history of the internet?")

		assert.False(t, out.Persisted)
		assert.False(t, out.RefreshRecent)
		assert.Equal(t, "What is the history of the internet?", out.Query.Query)
		assert.Equal(t, "Sorry, I encountered an error while searching. Please try again.", out.Query.Result)
		assert.NotNil(t, out.Query.Sources)
		assert.Empty(t, out.Query.Sources)
		assert.Empty(t, out.Query.ID)
		assert.Contains(t, logs.String(), "search failed")
		assert.Contains(t, logs.String(), "connection refused")
	})

	t.Run("treats schema violations as failures", func(t *testing.T) {
		t.Parallel()

		bodies := []string{
			`not json`,
			`[]`,
			`null`,
			`{"sources":[]}`,
			`{"answer":"   "}`,
			`{"answer":42}`,
			`{"answer":"ok","sources":"none"}`,
		}
		for _, body := range bodies {
			queries := &mock.QueryService{
				CreateQueryFn: func(context.Context, *askweb.Query) error {
					t.Fatalf("CreateQuery called for %q", body)
					return nil
				},
			}

			s := newTestSearcher(staticInferrer(body), queries, &bytes.Buffer{})
			out := s.Submit(context.Background(), "q")

			assert.Equal(t, search.FallbackAnswer, out.Query.Result, body)
			assert.False(t, out.Persisted, body)
		}
	})

	t.Run("defaults missing sources and source fields", func(t *testing.T) {
		t.Parallel()

		queries := &mock.QueryService{
			CreateQueryFn: func(context.Context, *askweb.Query) error { return nil },
		}

		s := newTestSearcher(staticInferrer(`{"answer":"A"}`), queries, &bytes.Buffer{})
		out := s.Submit(context.Background(), "q")
		assert.NotNil(t, out.Query.Sources)
		assert.Empty(t, out.Query.Sources)

		s = newTestSearcher(staticInferrer(`{"answer":"A","sources":[{"url":"http://a"}]}`), queries, &bytes.Buffer{})
		out = s.Submit(context.Background(), "q")
		assert.Equal(t, []askweb.Source{{URL: "http://a"}}, out.Query.Sources)
	})

	t.Run("shows answer but does not signal refresh when save fails", func(t *testing.T) {
		t.Parallel()

		queries := &mock.QueryService{
			CreateQueryFn: func(context.Context, *askweb.Query) error {
				return errors.New("database is locked")
			},
		}
		logs := &bytes.Buffer{}

		s := newTestSearcher(staticInferrer(`{"answer":"A","sources":[]}`), queries, logs)
		out := s.Submit(context.Background(), "q")

		assert.Equal(t, "A", out.Query.Result)
		assert.False(t, out.Persisted)
		assert.False(t, out.RefreshRecent)
		assert.Contains(t, logs.String(), "failed to save query")
	})

	t.Run("times out a slow inference call", func(t *testing.T) {
		t.Parallel()

		inferrer := &mock.Inferrer{
			InferFn: func(ctx context.Context, _ *askweb.InferenceRequest) ([]byte, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		}
		queries := &mock.QueryService{
			CreateQueryFn: func(context.Context, *askweb.Query) error {
				t.Fatal("CreateQuery must not be called")
				return nil
			},
		}

		s := newTestSearcher(inferrer, queries, &bytes.Buffer{})
		s.Timeout = 10 * time.Millisecond
		out := s.Submit(context.Background(), "q")

		assert.Equal(t, search.FallbackAnswer, out.Query.Result)
	})

	t.Run("records the signed-in user", func(t *testing.T) {
		t.Parallel()

		queries := &mock.QueryService{
			CreateQueryFn: func(context.Context, *askweb.Query) error { return nil },
		}
		ctx := askweb.NewContextWithUser(context.Background(), &askweb.User{ID: "user-1"})

		s := newTestSearcher(staticInferrer(`{"answer":"A"}`), queries, &bytes.Buffer{})
		out := s.Submit(ctx, "q")

		assert.Equal(t, "user-1", out.Query.CreatedBy)
	})
}

func TestSearcher_ListQueries(t *testing.T) {
	t.Parallel()

	t.Run("passes sort, limit and current user", func(t *testing.T) {
		t.Parallel()

		want := []*askweb.Query{{ID: "1"}}
		var got askweb.QueryFilter
		queries := &mock.QueryService{
			FindQueriesFn: func(_ context.Context, filter askweb.QueryFilter) ([]*askweb.Query, error) {
				got = filter
				return want, nil
			},
		}
		ctx := askweb.NewContextWithUser(context.Background(), &askweb.User{ID: "user-1"})

		s := newTestSearcher(nil, queries, &bytes.Buffer{})
		qs := s.ListQueries(ctx, askweb.SortByTimestampDesc, 5)

		assert.Equal(t, want, qs)
		assert.Equal(t, askweb.SortByTimestampDesc, got.SortBy)
		assert.Equal(t, 5, got.Limit)
		require.NotNil(t, got.CreatedBy)
		assert.Equal(t, "user-1", *got.CreatedBy)
	})

	t.Run("returns empty list and logs on error", func(t *testing.T) {
		t.Parallel()

		queries := &mock.QueryService{
			FindQueriesFn: func(context.Context, askweb.QueryFilter) ([]*askweb.Query, error) {
				return nil, errors.New("no such table: queries")
			},
		}
		logs := &bytes.Buffer{}

		s := newTestSearcher(nil, queries, logs)
		qs := s.ListQueries(context.Background(), askweb.SortByTimestampDesc, 0)

		assert.NotNil(t, qs)
		assert.Empty(t, qs)
		assert.Contains(t, logs.String(), "failed to list queries")
	})
}

func TestDecodeAnswer(t *testing.T) {
	t.Parallel()

	answer, err := search.DecodeAnswer([]byte(`{"answer":"A","sources":[{"title":"T","url":"U","snippet":"S"},null]}`))

	require.NoError(t, err)
	assert.Equal(t, "A", answer.Answer)
	assert.Equal(t, []askweb.Source{{Title: "T", URL: "U", Snippet: "S"}, {}}, answer.Sources)
}

func TestBuildPrompt_ContainsQuestion(t *testing.T) {
	t.Parallel()

	prompt := search.BuildPrompt("How do tides work?")

	assert.Contains(t, prompt, "Question: How do tides work?")
	assert.Contains(t, prompt, "paragraphs")
}
