// Package search implements the query orchestrator: it sends one grounded
// inference request per submission, shapes the answer into a query record,
// and stores it.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/askweb"
)

// FallbackAnswer is returned in place of an answer when the search fails.
const FallbackAnswer = "Sorry, I encountered an error while searching. Please try again."

// DefaultTimeout bounds the wait for the inference service.
const DefaultTimeout = 60 * time.Second

const promptTemplate = `Please provide a comprehensive and accurate answer to the following question. ` +
	`Base the answer on reliable, up-to-date sources and cite the sources you used. ` +
	`Format the answer in clear paragraphs separated by blank lines.

Question: %s`

var _ askweb.Searcher = (*Searcher)(nil)

// Searcher implements askweb.Searcher.
type Searcher struct {
	Inferrer askweb.Inferrer
	Queries  askweb.QueryService
	Logger   *slog.Logger

	// Timeout bounds each inference call. Zero means DefaultTimeout.
	Timeout time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewSearcher creates a Searcher with default timeout and clock.
// A nil logger discards output.
func NewSearcher(inferrer askweb.Inferrer, queries askweb.QueryService, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Searcher{
		Inferrer: inferrer,
		Queries:  queries,
		Logger:   logger,
		Timeout:  DefaultTimeout,
		Now:      time.Now,
	}
}

// Submit runs one search for text.
//
// Inference failures are logged and produce a fallback record that is NOT
// stored. Store failures are logged and the answered record is still
// returned, with Persisted and RefreshRecent unset.
func (s *Searcher) Submit(ctx context.Context, text string) *askweb.SearchOutcome {
	answer, err := s.infer(ctx, text)
	if err != nil {
		s.logger().Error("search failed", "query", text, "err", err)
		return &askweb.SearchOutcome{Query: s.newQuery(ctx, text, FallbackAnswer, []askweb.Source{})}
	}

	q := s.newQuery(ctx, text, answer.Answer, answer.Sources)
	if err := s.Queries.CreateQuery(ctx, q); err != nil {
		s.logger().Error("failed to save query", "query", text, "err", err)
		return &askweb.SearchOutcome{Query: q}
	}

	return &askweb.SearchOutcome{Query: q, Persisted: true, RefreshRecent: true}
}

// ListQueries returns the current user's stored queries.
func (s *Searcher) ListQueries(ctx context.Context, sort askweb.SortOrder, limit int) []*askweb.Query {
	filter := askweb.QueryFilter{SortBy: sort, Limit: limit}
	if userID := askweb.UserIDFromContext(ctx); userID != "" {
		filter.CreatedBy = &userID
	}

	qs, err := s.Queries.FindQueries(ctx, filter)
	if err != nil {
		s.logger().Error("failed to list queries", "sort", string(sort), "limit", limit, "err", err)
		return []*askweb.Query{}
	}
	return qs
}

func (s *Searcher) infer(ctx context.Context, text string) (*Answer, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := s.Inferrer.Infer(ctx, BuildRequest(text))
	if err != nil {
		return nil, err
	}
	return DecodeAnswer(raw)
}

func (s *Searcher) newQuery(ctx context.Context, text, result string, sources []askweb.Source) *askweb.Query {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return &askweb.Query{
		Query:     text,
		Result:    result,
		Sources:   sources,
		Timestamp: now().UTC(),
		CreatedBy: askweb.UserIDFromContext(ctx),
	}
}

func (s *Searcher) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}

// BuildPrompt embeds text in the answer instructions.
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}

// BuildRequest returns the grounded inference request for text.
func BuildRequest(text string) *askweb.InferenceRequest {
	return &askweb.InferenceRequest{
		Prompt:                 BuildPrompt(text),
		AddContextFromInternet: true,
		ResponseSchema:         AnswerSchema(),
	}
}

// AnswerSchema returns the response shape requested from the model.
func AnswerSchema() *askweb.Schema {
	str := func(desc string) *askweb.Schema {
		return &askweb.Schema{Type: askweb.SchemaTypeString, Description: desc}
	}
	return &askweb.Schema{
		Type: askweb.SchemaTypeObject,
		Properties: map[string]*askweb.Schema{
			"answer": str("The answer, in paragraphs separated by blank lines."),
			"sources": {
				Type: askweb.SchemaTypeArray,
				Items: &askweb.Schema{
					Type: askweb.SchemaTypeObject,
					Properties: map[string]*askweb.Schema{
						"title":   str("Title of the source page."),
						"url":     str("URL of the source page."),
						"snippet": str("Short excerpt supporting the answer."),
					},
					Required: []string{"title", "url", "snippet"},
				},
			},
		},
		Required: []string{"answer", "sources"},
	}
}

// Answer is a decoded inference response.
type Answer struct {
	Answer  string
	Sources []askweb.Source
}

type answerPayload struct {
	Answer  *string `json:"answer"`
	Sources []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Snippet string `json:"snippet"`
	} `json:"sources"`
}

// DecodeAnswer decodes a raw inference response. A response that is not a
// JSON object, has mistyped fields, or carries no answer text is rejected.
// Missing sources decode as an empty list and missing source fields as "".
func DecodeAnswer(raw []byte) (*Answer, error) {
	var payload answerPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, askweb.Errorf(askweb.EINTERNAL, "malformed inference response: %v", err)
	}
	if payload.Answer == nil || strings.TrimSpace(*payload.Answer) == "" {
		return nil, askweb.Errorf(askweb.EINTERNAL, "inference response has no answer")
	}

	sources := make([]askweb.Source, 0, len(payload.Sources))
	for _, src := range payload.Sources {
		sources = append(sources, askweb.Source{
			Title:   src.Title,
			URL:     src.URL,
			Snippet: src.Snippet,
		})
	}

	return &Answer{Answer: *payload.Answer, Sources: sources}, nil
}
