package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	main "github.com/fwojciec/askweb/cmd/askweb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"default_db": "askweb.db"},
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	for _, cmd := range []string{"serve", "ask", "history", "user"} {
		assert.Contains(t, stdout.String(), cmd, "Help should mention %s command", cmd)
	}
}

func TestCLI_Defaults(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli,
		kong.Exit(func(int) {}),
		kong.Vars{"default_db": "askweb.db"},
	)
	require.NoError(t, err)

	kctx, err := parser.Parse([]string{"serve", "--secret", "0123456789abcdef0123456789abcdef", "--suggestion", "a", "--suggestion", "b"})
	require.NoError(t, err)

	assert.Equal(t, "serve", kctx.Command())
	assert.Equal(t, "askweb.db", cli.DB)
	assert.Equal(t, "gemini-2.5-flash", cli.Model)
	assert.Equal(t, "info", cli.LogLevel)
	assert.Equal(t, ":8080", cli.Serve.Addr)
	assert.InDelta(t, 0.2, cli.Serve.Rate, 1e-9)
	assert.Equal(t, 3, cli.Serve.Burst)
	assert.Equal(t, []string{"a", "b"}, cli.Serve.Suggestions)
	assert.False(t, cli.Serve.SecureCookies)
}

func TestCLI_ServeRequiresSecret(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli,
		kong.Exit(func(int) {}),
		kong.Vars{"default_db": "askweb.db"},
	)
	require.NoError(t, err)

	_, err = parser.Parse([]string{"serve"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--secret")
}

func TestMain_Run_HelpShowsKongOutput(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)
	require.NoError(t, err)

	help := stdout.String()
	for _, cmd := range []string{"serve", "ask", "history", "user"} {
		assert.Contains(t, help, cmd)
	}
	assert.Contains(t, help, "Usage:")
	assert.Contains(t, help, "Flags:")
}

func TestMain_Run_NoCommand(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	err := m.Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestMain_Run_AskRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	m := main.NewMain()
	stderr := &bytes.Buffer{}
	dbPath := filepath.Join(t.TempDir(), "askweb.db")

	err := m.Run(context.Background(), []string{"--db", dbPath, "ask", "why?"}, &bytes.Buffer{}, stderr)

	require.Error(t, err)
	assert.Contains(t, stderr.String(), "GEMINI_API_KEY")
}
