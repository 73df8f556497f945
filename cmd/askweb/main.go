package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/askweb"
	"github.com/fwojciec/askweb/gemini"
	"github.com/fwojciec/askweb/goquery"
	"github.com/fwojciec/askweb/html"
	"github.com/fwojciec/askweb/htmltomarkdown"
	askhttp "github.com/fwojciec/askweb/http"
	askjwt "github.com/fwojciec/askweb/jwt"
	"github.com/fwojciec/askweb/prometheus"
	"github.com/fwojciec/askweb/search"
	askslog "github.com/fwojciec/askweb/slog"
	"github.com/fwojciec/askweb/sqlite"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Inferrer overrides the Gemini client, for end-to-end testing.
	Inferrer askweb.Inferrer
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("askweb"),
		kong.Description("Ask questions, get answers grounded in web search"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
		kong.Vars{"default_db": defaultDBPath()},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'askweb --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	command := kongCtx.Command()

	deps.Logger = newLogger(stderr, cli.LogLevel)

	if err := os.MkdirAll(filepath.Dir(cli.DB), 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	m.DB = sqlite.NewDB(cli.DB)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintln(stderr, "Hint: Set ASKWEB_DB to use a different database path")
		return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
	}
	defer m.Close()

	deps.DB = m.DB
	deps.Queries = askslog.NewLoggingQueryService(sqlite.NewQueryService(m.DB), deps.Logger)
	deps.Users = sqlite.NewUserService(m.DB)

	if command == "serve" || strings.HasPrefix(command, "ask") {
		inferrer, err := m.inferrer(ctx, cli, stderr)
		if err != nil {
			return err
		}
		inferrer = askslog.NewLoggingInferrer(inferrer, deps.Logger)

		deps.Metrics = prometheus.NewMetrics()
		searcher := search.NewSearcher(prometheus.NewInferrer(inferrer, deps.Metrics), deps.Queries, deps.Logger)
		searcher.Timeout = cli.InferenceTimeout
		deps.Searcher = prometheus.NewSearcher(searcher, deps.Metrics)

		if deps.Renderer, err = html.NewRenderer(); err != nil {
			return err
		}
		deps.Extractor = goquery.NewExtractor()
		deps.Converter = htmltomarkdown.NewConverter()
	}

	if command == "serve" {
		if deps.Auth, err = askjwt.NewAuthenticator(deps.Users, []byte(cli.Serve.Secret)); err != nil {
			fmt.Fprintln(stderr, "Hint: Set ASKWEB_SECRET to a random string of at least 32 bytes")
			return err
		}
	}

	return kongCtx.Run(deps)
}

// inferrer returns the configured Inferrer, creating a Gemini client unless
// one was injected.
func (m *Main) inferrer(ctx context.Context, cli *CLI, stderr io.Writer) (askweb.Inferrer, error) {
	if m.Inferrer != nil {
		return m.Inferrer, nil
	}

	if cli.APIKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cli.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return gemini.NewInferrer(client, cli.Model), nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "askweb.db"
	}
	return filepath.Join(home, ".askweb", "askweb.db")
}

// newServer wires the HTTP server from deps.
func newServer(deps *Dependencies, cmd *ServeCmd) *askhttp.Server {
	s := askhttp.NewServer()
	s.Addr = cmd.Addr
	s.Searcher = deps.Searcher
	s.Queries = deps.Queries
	s.Users = deps.Users
	s.Auth = deps.Auth
	s.Renderer = deps.Renderer
	s.Extractor = deps.Extractor
	s.Converter = deps.Converter
	s.Logger = deps.Logger
	s.Suggestions = cmd.Suggestions
	s.SecureCookies = cmd.SecureCookies
	s.Limiter = askhttp.NewSearchLimiter(cmd.Rate, cmd.Burst)
	if deps.DB != nil {
		s.DB = deps.DB
	}
	if deps.Metrics != nil {
		s.Metrics = deps.Metrics.Handler()
	}
	return s
}
