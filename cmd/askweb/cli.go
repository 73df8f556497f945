package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/askweb"
	"github.com/fwojciec/askweb/html"
	"github.com/fwojciec/askweb/prometheus"
	"github.com/fwojciec/askweb/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	DB        *sqlite.DB
	Queries   askweb.QueryService
	Users     askweb.UserService
	Auth      askweb.Authenticator
	Searcher  askweb.Searcher
	Renderer  *html.Renderer
	Extractor askweb.Extractor
	Converter askweb.Converter
	Metrics   *prometheus.Metrics
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB               string        `name:"db" env:"ASKWEB_DB" default:"${default_db}" help:"SQLite database path"`
	APIKey           string        `name:"api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	Model            string        `env:"ASKWEB_MODEL" default:"gemini-2.5-flash" help:"Gemini model"`
	InferenceTimeout time.Duration `env:"ASKWEB_INFERENCE_TIMEOUT" default:"60s" help:"Maximum wait for an answer"`
	LogLevel         string        `env:"ASKWEB_LOG_LEVEL" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`

	Serve   ServeCmd   `cmd:"" help:"Run the web server"`
	Ask     AskCmd     `cmd:"" help:"Ask a question and print the answer as Markdown"`
	History HistoryCmd `cmd:"" help:"List past queries"`
	User    UserCmd    `cmd:"" help:"Manage users"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr          string   `env:"ASKWEB_ADDR" default:":8080" help:"Listen address"`
	Secret        string   `env:"ASKWEB_SECRET" required:"" help:"Session signing key (at least 32 bytes)"`
	Rate          float64  `default:"0.2" help:"Searches per second allowed per user"`
	Burst         int      `default:"3" help:"Search burst allowed per user"`
	Suggestions   []string `name:"suggestion" help:"Suggested query shown on the home page (repeatable)"`
	SecureCookies bool     `env:"ASKWEB_SECURE_COOKIES" help:"Mark the session cookie Secure"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Query string `arg:"" help:"Question to ask"`
	User  string `short:"u" help:"Record the query for the user with this email"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Filter string `short:"f" help:"Only show queries containing this text"`
	Limit  int    `short:"n" default:"0" help:"Maximum number of queries (0 for all)"`
	Offset int    `default:"0" help:"Skip this many matching queries"`
	Oldest bool   `help:"List oldest queries first"`
	User   string `short:"u" help:"Only show queries of the user with this email"`
}

// UserCmd groups user management subcommands.
type UserCmd struct {
	Add UserAddCmd `cmd:"" help:"Create a user"`
}

// UserAddCmd is the "user add" subcommand.
type UserAddCmd struct {
	Email    string `arg:"" help:"Email address"`
	Name     string `arg:"" help:"Full name"`
	Password string `env:"ASKWEB_PASSWORD" required:"" help:"Password (at least 8 characters)"`
	Admin    bool   `help:"Grant the admin role"`
}
