package mock

import "github.com/fwojciec/askweb"

var _ askweb.Converter = (*Converter)(nil)

// Converter is a mock implementation of askweb.Converter.
type Converter struct {
	ConvertFn func(r *askweb.ExtractResult) (string, error)
}

func (c *Converter) Convert(r *askweb.ExtractResult) (string, error) {
	return c.ConvertFn(r)
}
