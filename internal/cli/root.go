package cli

import (
	"time"

	"github.com/alexanderramin/timeweave/internal/cli/formatter"
	"github.com/alexanderramin/timeweave/internal/config"
	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/service"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// GlobalOptions are the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigFile string
	LogLevel   string
	NoColor    bool
}

// App holds the services and settings used by CLI commands.
type App struct {
	Calendar service.CalendarService
	Settings *config.Settings
	Logger   zerolog.Logger
	// Now is the wall clock used for display and the default --now.
	Now func() time.Time

	// Bootstrap, when set, runs once before any command and fills in the
	// fields above from the global flags.
	Bootstrap func(app *App, opts GlobalOptions) error
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) settings() *config.Settings {
	if a.Settings == nil {
		a.Settings = &config.Settings{
			LogLevel: zerolog.InfoLevel,
			Engine:   domain.DefaultConfig().Normalized(),
		}
	}
	return a.Settings
}

// NewRootCmd creates the top-level "timeweave" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var opts GlobalOptions
	root := &cobra.Command{
		Use:           "timeweave",
		Short:         "Weekly calendar generator for tasks, goals and fixed plans",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.NoColor {
				formatter.DisableColor()
			}
			if app.Bootstrap == nil {
				return nil
			}
			bootstrap := app.Bootstrap
			app.Bootstrap = nil
			return bootstrap(app, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default ~/.timeweave/timeweave.yaml)")
	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override the configured log level")
	root.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newGenerateCmd(app),
		newWatchCmd(app),
		newShowCmd(app),
		newHistoryCmd(app),
		newResetCmd(app),
		newGapCmd(app),
	)

	return root
}
