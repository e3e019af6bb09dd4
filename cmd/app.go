package cmd

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/helmcode/profile-comparator/pkg/analyzer"
	"github.com/helmcode/profile-comparator/pkg/config"
	"github.com/helmcode/profile-comparator/pkg/formatter"
	"github.com/helmcode/profile-comparator/pkg/gateway"
	"github.com/helmcode/profile-comparator/pkg/store"
)

// App carries what every subcommand needs once the root command has loaded
// configuration.
type App struct {
	Config *config.Config
	Log    *zap.Logger

	// NewGateway builds the backend client. Tests swap it for a fake.
	NewGateway func(config.APIConfig, *zap.Logger) (gateway.Gateway, error)
}

func NewApp() *App {
	return &App{
		Log: zap.NewNop(),
		NewGateway: func(cfg config.APIConfig, log *zap.Logger) (gateway.Gateway, error) {
			return gateway.New(cfg, gateway.WithLogger(log))
		},
	}
}

// Init loads configuration from v and installs the global logger.
func (a *App) Init(v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	log, err := config.InitLogger(cfg.Log)
	if err != nil {
		return eris.Wrap(err, "failed to initialise logging")
	}
	a.Config = cfg
	a.Log = log
	return nil
}

// Sync flushes buffered log entries. Errors from syncing a terminal are ignored.
func (a *App) Sync() {
	if a.Log != nil {
		_ = a.Log.Sync()
	}
}

// session wires a fresh store, analyzer and screen for one command run.
func (a *App) session(out io.Writer, format string) (*analyzer.Analyzer, *store.Store, *screen, error) {
	if a.Config == nil {
		return nil, nil, nil, eris.New("configuration not loaded")
	}
	gw, err := a.NewGateway(a.Config.API, a.Log)
	if err != nil {
		return nil, nil, nil, eris.Wrap(err, "failed to create API client")
	}
	if format == "" {
		format = a.Config.Output.Format
	}

	st := store.New()
	scr := &screen{
		out:        out,
		store:      st,
		format:     format,
		maxReviews: a.Config.Output.MaxReviews,
	}
	return analyzer.New(gw, st, scr, analyzer.WithLogger(a.Log)), st, scr, nil
}

// screen is the terminal's view router. Navigation is recorded while a request
// is in flight and rendered by Flush once the spinner has stopped.
type screen struct {
	out        io.Writer
	store      *store.Store
	format     string
	maxReviews int

	pending analyzer.View
}

func (s *screen) Navigate(v analyzer.View) {
	s.pending = v
}

// Flush renders the view last navigated to, if any.
func (s *screen) Flush() error {
	view := s.pending
	s.pending = ""

	switch view {
	case analyzer.ViewResults:
		return formatter.DisplayResult(s.out, s.store.LastResult(), s.format, formatter.WithMaxReviews(s.maxReviews))
	case analyzer.ViewHome:
		printHome(s.out)
	}
	return nil
}

// withSpinner shows an in-flight indicator on stderr while fn runs.
func withSpinner(suffix string, fn func() error) error {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	s.Start()
	defer s.Stop()
	return fn()
}

func printHome(w io.Writer) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintln(w, "🔍 Business Profile Comparator")
	color.New(color.FgHiBlack).Fprintln(w, "Type 'help' to see the available commands.")
}

func printSuccess(w io.Writer, msg string) {
	green := color.New(color.FgGreen)
	green.Fprintf(w, "✓ %s\n", msg)
}

func printError(w io.Writer, msg string) {
	red := color.New(color.FgRed)
	red.Fprintf(w, "✗ %s\n", msg)
}
