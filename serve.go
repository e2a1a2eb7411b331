package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sent-hil/plos-articles/catalog"
	"github.com/sent-hil/plos-articles/plos"
	"github.com/sent-hil/plos-articles/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI",
		Long: `Serve the articles table, search endpoints and report downloads.

Examples:
  plos-articles serve                  # Listen on the configured address
  plos-articles serve --addr :9001     # Override the listen address`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.HTTPServer.Address = addr
			}

			client := plos.New(a.log, a.cfg.API)
			articles := catalog.New(a.log, client, a.cfg.API.SearchMode)

			srv, err := server.NewUIServer(a.log, articles, a.cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.log.Info("plos-articles",
				slog.String("env", a.cfg.Env),
				slog.String("api", a.cfg.API.BaseURL),
				slog.String("search_mode", a.cfg.API.SearchMode),
			)
			a.log.Info("open your browser", slog.String("url", "http://localhost"+a.cfg.HTTPServer.Address))

			if err := srv.Start(ctx); err != nil {
				return err
			}

			a.log.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP server address (overrides http_server.address)")

	return cmd
}
