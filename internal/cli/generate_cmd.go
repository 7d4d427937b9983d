package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/generator"
	"github.com/alexanderramin/timeweave/internal/importer"
	"github.com/alexanderramin/timeweave/internal/service"
	"github.com/alexanderramin/timeweave/internal/timeutil"
	"github.com/spf13/cobra"
)

var errNoCalendar = errors.New("calendar service is not configured")

// ErrIncomplete is returned when a run left items unscheduled, so scripts
// can tell a partial calendar from a complete one by exit status.
var ErrIncomplete = errors.New("some items could not be scheduled")

type generateFlags struct {
	input   string
	now     string
	output  outputFormat
	noStore bool
	strict  bool
}

func newGenerateCmd(app *App) *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the calendar for an input document",
		Long: `Reads templates, planner items and optional history from a YAML or
JSON document, schedules every item and prints the resulting calendar.
The result replaces the stored calendar of the document's user unless
--no-store is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, app, f)
		},
	}
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "input document (YAML or JSON)")
	cmd.Flags().StringVar(&f.now, "now", "", "generation instant, ISO-8601 (default: current time)")
	addOutputFlag(cmd.Flags(), &f.output)
	cmd.Flags().BoolVar(&f.noStore, "no-store", false, "neither read nor write the stored calendar")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "exit non-zero when any item is left unscheduled")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runGenerate(cmd *cobra.Command, app *App, f generateFlags) error {
	if app.Calendar == nil {
		return errNoCalendar
	}
	in, err := importer.Load(f.input)
	if err != nil {
		return err
	}

	loc := displayLocation(app, in)
	now := app.now()
	opts := service.GenerateOptions{Persist: !f.noStore}
	if f.now != "" {
		t, err := timeutil.ParseISO(f.now, loc)
		if err != nil {
			return fmt.Errorf("--now: %w", err)
		}
		opts.Now = t
		now = t
	}

	out, err := app.Calendar.Generate(cmd.Context(), in, opts)
	if err != nil {
		return err
	}
	res := out.Result
	if generator.Aborted(res) {
		return fmt.Errorf("input rejected: %s: %s", res.Failures[0].Reason, res.Failures[0].Details)
	}

	sync := &out.Sync
	if out.Run == nil {
		sync = nil
	}
	if err := writeResult(cmd.OutOrStdout(), f.output, res, sync, loc, now); err != nil {
		return err
	}
	if f.strict && !res.Success {
		return ErrIncomplete
	}
	return nil
}

// displayLocation is the zone events are shown in: the document's zone when
// it names one, otherwise the configured engine zone.
func displayLocation(app *App, in domain.CalendarGenerationInput) *time.Location {
	cfg, err := app.settings().Engine.Merge(in.Config)
	if err != nil {
		return app.settings().Engine.Normalized().Location
	}
	return cfg.Normalized().Location
}
