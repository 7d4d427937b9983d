package cli

import (
	"fmt"

	"github.com/alexanderramin/timeweave/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newResetCmd(app *App) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored calendar of a user",
		Long: `Deletes every stored event of the user. The next generate run then
starts without history, so nothing is frozen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Calendar == nil {
				return errNoCalendar
			}
			n, err := app.Calendar.Reset(cmd.Context(), user)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s for %s.\n",
				formatter.Bold(fmt.Sprintf("%d events", n)), user)
			return err
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "user whose calendar to delete")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
