package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sent-hil/plos-articles/catalog"
	"github.com/sent-hil/plos-articles/config"
	"github.com/sent-hil/plos-articles/plos"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// app carries what every command needs once the config is loaded.
type app struct {
	configPath string
	noColor    bool
	cfg        *config.Config
	log        *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "plos-articles",
		Short: "Browse, search and export PLOS articles",
		Long: `plos-articles fetches academic articles from a remote API, serves them
as a searchable HTML table and exports the loaded list as a PDF report.

Example usage:
  plos-articles serve                      # Run the web UI on :8080
  plos-articles list malaria               # Print matching articles
  plos-articles report -o plos_report.pdf  # Export every article as PDF
  plos-articles report coral --format md   # Export matches as Markdown`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default is $CONFIG_PATH, then environment only)")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newServeCmd(a), newListCmd(a), newReportCmd(a))

	return root
}

func (a *app) init(logOut io.Writer) error {
	cfg, err := config.Load(config.ResolvePath(a.configPath))
	if err != nil {
		return err
	}
	if a.noColor {
		color.NoColor = true
	}

	a.cfg = cfg
	a.log = setupLogger(cfg.Env, logOut)
	a.log.Debug("config loaded", slog.String("env", cfg.Env), slog.String("search_mode", cfg.API.SearchMode))

	return nil
}

// search loads the articles matching query from the configured API.
func (a *app) search(ctx context.Context, query string) (catalog.Snapshot, error) {
	client := plos.New(a.log, a.cfg.API)
	return catalog.New(a.log, client, a.cfg.API.SearchMode).Search(ctx, query)
}

func setupLogger(env string, w io.Writer) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
