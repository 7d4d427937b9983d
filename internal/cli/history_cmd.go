package cli

import (
	"fmt"

	"github.com/alexanderramin/timeweave/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	var (
		user  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent generation runs of a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Calendar == nil {
				return errNoCalendar
			}
			runs, err := app.Calendar.History(cmd.Context(), user, limit)
			if err != nil {
				return err
			}
			loc := app.settings().Engine.Normalized().Location
			_, err = fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(runs, loc))
			return err
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "user whose runs to list")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of runs")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
