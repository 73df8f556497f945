// Package prometheus exposes askweb metrics in the Prometheus format.
package prometheus

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fwojciec/askweb"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds the collectors recorded by the decorators in this package.
type Metrics struct {
	registry *prom.Registry

	inferences        *prom.CounterVec
	inferenceDuration prom.Histogram
	searches          *prom.CounterVec
}

// NewMetrics creates a registry with the askweb collectors plus the
// standard Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prom.NewRegistry(),
		inferences: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "askweb",
			Name:      "inferences_total",
			Help:      "Inference calls by outcome.",
		}, []string{"outcome"}),
		inferenceDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "askweb",
			Name:      "inference_duration_seconds",
			Help:      "Latency of inference calls.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}),
		searches: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "askweb",
			Name:      "searches_total",
			Help:      "Search submissions by whether the record was stored.",
		}, []string{"persisted"}),
	}
	m.registry.MustRegister(
		m.inferences,
		m.inferenceDuration,
		m.searches,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Ensure Metrics can be scraped and inspected like a registry.
var _ prom.Gatherer = (*Metrics)(nil)

// Gather collects the current value of every registered metric.
func (m *Metrics) Gather() ([]*dto.MetricFamily, error) {
	return m.registry.Gather()
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m, promhttp.HandlerOpts{})
}

// Ensure Inferrer implements askweb.Inferrer.
var _ askweb.Inferrer = (*Inferrer)(nil)

// Inferrer records call counts and latency for a wrapped Inferrer.
type Inferrer struct {
	next    askweb.Inferrer
	metrics *Metrics
}

// NewInferrer creates a new Inferrer.
func NewInferrer(next askweb.Inferrer, metrics *Metrics) *Inferrer {
	return &Inferrer{next: next, metrics: metrics}
}

// Infer delegates to the wrapped inferrer.
func (i *Inferrer) Infer(ctx context.Context, req *askweb.InferenceRequest) (raw []byte, err error) {
	defer func(begin time.Time) {
		i.metrics.inferenceDuration.Observe(time.Since(begin).Seconds())
		i.metrics.inferences.WithLabelValues(outcome(err)).Inc()
	}(time.Now())
	return i.next.Infer(ctx, req)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "error"
	}
}

// Ensure Searcher implements askweb.Searcher.
var _ askweb.Searcher = (*Searcher)(nil)

// Searcher counts submissions of a wrapped Searcher.
type Searcher struct {
	next    askweb.Searcher
	metrics *Metrics
}

// NewSearcher creates a new Searcher.
func NewSearcher(next askweb.Searcher, metrics *Metrics) *Searcher {
	return &Searcher{next: next, metrics: metrics}
}

// Submit delegates to the wrapped searcher.
func (s *Searcher) Submit(ctx context.Context, text string) *askweb.SearchOutcome {
	out := s.next.Submit(ctx, text)
	persisted := "false"
	if out != nil && out.Persisted {
		persisted = "true"
	}
	s.metrics.searches.WithLabelValues(persisted).Inc()
	return out
}

// ListQueries delegates to the wrapped searcher.
func (s *Searcher) ListQueries(ctx context.Context, sort askweb.SortOrder, limit int) []*askweb.Query {
	return s.next.ListQueries(ctx, sort, limit)
}
