package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alexanderramin/timeweave/internal/cli"
	"github.com/alexanderramin/timeweave/internal/cli/formatter"
	"github.com/alexanderramin/timeweave/internal/config"
	"github.com/alexanderramin/timeweave/internal/db"
	"github.com/alexanderramin/timeweave/internal/logging"
	"github.com/alexanderramin/timeweave/internal/repository"
	"github.com/alexanderramin/timeweave/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stdoutTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	stderrTTY := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	if !stdoutTTY {
		formatter.DisableColor()
	}

	var database *sql.DB
	defer func() {
		if database != nil {
			database.Close()
		}
	}()

	app := &cli.App{}
	app.Bootstrap = func(app *cli.App, opts cli.GlobalOptions) error {
		settings, err := config.Load(opts.ConfigFile)
		if err != nil {
			return err
		}
		if opts.LogLevel != "" {
			level, err := zerolog.ParseLevel(strings.ToLower(opts.LogLevel))
			if err != nil {
				return fmt.Errorf("--log-level: %w", err)
			}
			settings.LogLevel = level
		}

		logger := logging.New(os.Stderr, logging.Options{
			Level:   settings.LogLevel,
			JSON:    !stderrTTY,
			NoColor: opts.NoColor,
		})
		if settings.Source != "" {
			logger.Debug().Str("file", settings.Source).Msg("config loaded")
		}

		database, err = db.OpenDB(settings.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}

		uow := db.NewSQLiteUnitOfWork(database, db.WithTxLogger(logging.Component(logger, "db")))
		app.Calendar = service.NewCalendarService(
			repository.NewSQLiteEventRepo(database),
			repository.NewSQLiteRunRepo(database),
			uow,
			settings.Engine,
			service.WithEngineLogger(logging.Component(logger, "generator")),
			service.WithObserver(service.NewLogUseCaseObserver(logging.Component(logger, "service"))),
		)
		app.Settings = settings
		app.Logger = logger
		return nil
	}

	rootCmd := cli.NewRootCmd(app)
	err := rootCmd.ExecuteContext(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
