package mock

import (
	"context"

	"github.com/fwojciec/askweb"
)

var _ askweb.Inferrer = (*Inferrer)(nil)

// Inferrer is a mock implementation of askweb.Inferrer.
type Inferrer struct {
	InferFn func(ctx context.Context, req *askweb.InferenceRequest) ([]byte, error)
}

func (i *Inferrer) Infer(ctx context.Context, req *askweb.InferenceRequest) ([]byte, error) {
	return i.InferFn(ctx, req)
}
