package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/askweb"
)

// Ensure LoggingInferrer implements askweb.Inferrer.
var _ askweb.Inferrer = (*LoggingInferrer)(nil)

// LoggingInferrer wraps an Inferrer with logging of each inference call.
type LoggingInferrer struct {
	next   askweb.Inferrer
	logger *slog.Logger
}

// NewLoggingInferrer creates a new LoggingInferrer.
func NewLoggingInferrer(next askweb.Inferrer, logger *slog.Logger) *LoggingInferrer {
	return &LoggingInferrer{next: next, logger: logger}
}

// Infer delegates to the wrapped inferrer and logs the call.
func (i *LoggingInferrer) Infer(ctx context.Context, req *askweb.InferenceRequest) (raw []byte, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelError
		}
		i.logger.Log(ctx, level, "inference",
			"grounded", req != nil && req.AddContextFromInternet,
			"structured", req != nil && req.ResponseSchema != nil,
			"bytes", len(raw),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return i.next.Infer(ctx, req)
}
