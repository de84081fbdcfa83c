// Command bracketctl imports registrations and prints or publishes brackets
// without running the HTTP server.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Dosada05/bracket-builder/app"
	"github.com/Dosada05/bracket-builder/config"
)

type cli struct {
	dbDriver string
	dbURL    string
	logLevel string

	cfg    *config.Config
	logger *slog.Logger
	app    *app.App
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "bracketctl",
		Short:         "Import registrations and build seeded single-elimination brackets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.app != nil {
				return c.app.Close()
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.dbDriver, "db-driver", "", "database driver: postgres or sqlite (default $DATABASE_DRIVER)")
	flags.StringVar(&c.dbURL, "db", "", "database URL or sqlite file (default $DATABASE_URL)")
	flags.StringVar(&c.logLevel, "log-level", "", "log level (default $LOG_LEVEL)")

	root.AddCommand(
		c.importCmd(),
		c.eventsCmd(),
		c.categoriesCmd(),
		c.bracketCmd(),
		c.publishCmd(),
		c.rosterCmd(),
		c.dashboardCmd(),
		c.tokenCmd(),
	)
	return root
}

func (c *cli) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Parse()
	if err != nil {
		return err
	}
	if c.dbDriver != "" {
		cfg.DatabaseDriver = c.dbDriver
	}
	if c.dbURL != "" {
		cfg.DatabaseURL = c.dbURL
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	c.cfg = cfg
	c.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	return nil
}

// open validates the configuration and connects on first use. Commands that
// never touch the database do not need DATABASE_URL.
func (c *cli) open(ctx context.Context) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}
	a, err := app.New(ctx, c.cfg, c.logger)
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}
