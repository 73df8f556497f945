package main

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Run executes the serve command. It blocks until the context is canceled
// or the server fails, then shuts the server down.
func (c *ServeCmd) Run(deps *Dependencies) error {
	srv := newServer(deps, c)
	if err := srv.Listen(); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", srv.URL())

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.Go(srv.Serve)
	g.Go(func() error {
		<-ctx.Done()
		deps.Logger.Info("shutting down")
		return srv.Close()
	})
	return g.Wait()
}
