package main

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fwojciec/askweb"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	text, err := askweb.NormalizeQuery(c.Query)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", askweb.ErrorMessage(err))
		return err
	}

	ctx, err := withUser(deps.Ctx, deps.Users, c.User)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", askweb.ErrorMessage(err))
		return err
	}

	out := deps.Searcher.Submit(ctx, text)

	md, err := queryMarkdown(deps, out.Query)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", askweb.ErrorMessage(err))
		return err
	}
	fmt.Fprint(deps.Stdout, md)

	if out.Persisted {
		fmt.Fprintf(deps.Stderr, "Saved as %s\n", out.Query.ID)
	}
	return nil
}

// queryMarkdown renders the result component of q and converts it to
// Markdown.
func queryMarkdown(deps *Dependencies, q *askweb.Query) (string, error) {
	var buf bytes.Buffer
	if err := deps.Renderer.RenderResult(&buf, askweb.NewResultView(q)); err != nil {
		return "", err
	}

	result, err := deps.Extractor.Extract(buf.String())
	if err != nil {
		return "", err
	}
	return deps.Converter.Convert(result)
}

// withUser attaches the user registered under email to ctx. An empty email
// leaves ctx anonymous.
func withUser(ctx context.Context, users askweb.UserService, email string) (context.Context, error) {
	if email == "" {
		return ctx, nil
	}
	user, err := users.FindUserByEmail(ctx, email)
	if err != nil {
		return ctx, err
	}
	return askweb.NewContextWithUser(ctx, user), nil
}
