// Package main is the entry point for the forum backend.
//
// MAIN PACKAGE IN GO:
// The main package should be kept minimal. Its job is to:
// 1. Read configuration (internal/config: defaults → YAML → env)
// 2. Create dependencies (logger, database connection)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/service, etc.).
//
// COMMANDS (urfave/cli):
//
//	forum serve   [--config path]   migrate, then serve HTTP until SIGINT/SIGTERM
//	forum migrate [--config path]   bring the schema up to date and exit
//
// Running the binary with no command is the same as `serve`.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/sakif/forum-backend/internal/auth"
	"github.com/sakif/forum-backend/internal/config"
	"github.com/sakif/forum-backend/internal/repository/sqldb"
	"github.com/sakif/forum-backend/internal/server"
)

func main() {
	app := &cli.App{
		Name:  "forum",
		Usage: "Discussion forum REST backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
				EnvVars: []string{config.ConfigPathEnvVar},
			},
		},
		Commands: []*cli.Command{
			serveCmd(),
			migrateCmd(),
		},
		Action: serve,
	}

	// SIGTERM is what container runtimes send; Ctrl+C sends SIGINT.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.RunContext(ctx, os.Args); err != nil {
		slog.Error("application failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Apply pending migrations and serve the HTTP API",
		Action: serve,
	}
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending schema migrations and exit",
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup(c)
			if err != nil {
				return err
			}

			db, err := sqldb.New(c.Context, cfg.Database.Driver, cfg.Database.DSN, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			version, err := db.SchemaVersion(c.Context)
			if err != nil {
				return err
			}
			logger.Info("schema up to date", slog.Int64("version", version))
			return nil
		},
	}
}

func serve(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}

	// The default digest is unsalted SHA-256, kept so digests written by
	// earlier deployments still verify. See DESIGN.md before switching.
	if cfg.Auth.PasswordScheme == auth.SchemeSHA256 {
		logger.Warn("password digests use unsalted SHA-256; set auth.password_scheme=bcrypt for new deployments")
	}

	db, err := sqldb.New(c.Context, cfg.Database.Driver, cfg.Database.DSN, logger)
	if err != nil {
		return err
	}
	// Closed after Start returns, i.e. after in-flight requests finish.
	defer db.Close()

	srv, err := server.New(cfg, db, logger)
	if err != nil {
		return err
	}

	// Start blocks until the context is cancelled (Ctrl+C or SIGTERM)
	return srv.Start(c.Context)
}

// setup loads the configuration and builds the logger it describes.
func setup(c *cli.Context) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}

	logger, err := newLogger(cfg.Logging, os.Stdout)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)

	return cfg, logger, nil
}

// newLogger builds the slog logger for logging.level and logging.format.
//
// Log levels (from least to most severe): Debug → Info → Warn → Error.
// Auth gate rejections are logged at Debug, so they only show up when asked for.
func newLogger(cfg config.LoggingConfig, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	switch cfg.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
}
