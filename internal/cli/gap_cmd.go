package cli

import (
	"fmt"

	"github.com/alexanderramin/timeweave/internal/cli/formatter"
	"github.com/alexanderramin/timeweave/internal/importer"
	"github.com/alexanderramin/timeweave/internal/templates"
	"github.com/spf13/cobra"
)

func newGapCmd(app *App) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "gap",
		Short: "Print the largest free stretch left by the weekly templates",
		Long: `Items longer than the largest free stretch of the template week can
never be placed and fail with TOO_LARGE.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := importer.Load(input)
			if err != nil {
				return err
			}
			gap, err := templates.LargestGap(in.Templates, in.WeekStart())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGap(gap, len(in.Templates)))
			return err
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "input document (YAML or JSON)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
