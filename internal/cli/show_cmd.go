package cli

import (
	"fmt"

	"github.com/alexanderramin/timeweave/internal/timeutil"
	"github.com/spf13/cobra"
)

func newShowCmd(app *App) *cobra.Command {
	var (
		user   string
		from   string
		days   int
		output outputFormat
	)
	cmd := &cobra.Command{
		Use:     "show",
		Aliases: []string{"calendar"},
		Short:   "Show the stored calendar of a user",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive, got %d", days)
			}
			if app.Calendar == nil {
				return errNoCalendar
			}
			loc := app.settings().Engine.Normalized().Location
			now := app.now().In(loc)
			start := timeutil.StartOfDay(now)
			if from != "" {
				t, err := timeutil.ParseISO(from, loc)
				if err != nil {
					return fmt.Errorf("--from: %w", err)
				}
				start = t
			}
			events, err := app.Calendar.Calendar(cmd.Context(), user, start, timeutil.AddDays(start, days))
			if err != nil {
				return err
			}
			return writeEvents(cmd.OutOrStdout(), output, events, loc, now)
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "user whose calendar to show")
	cmd.Flags().StringVar(&from, "from", "", "first day to show, ISO-8601 (default: today)")
	cmd.Flags().IntVarP(&days, "days", "d", 7, "number of days to show")
	addOutputFlag(cmd.Flags(), &output)
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
