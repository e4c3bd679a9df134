package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/jbstime/internal/dates"
)

var createCmd = &cobra.Command{
	Use:   "create [<date>]",
	Short: "Create a timesheet",
	Long:  `Creates the timesheet covering DATE, or the current week when omitted.`,
	Args:  invalidArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return runCreate(cmd.Context(), a, argOr(args, "current"))
	},
}

// argOr returns the first argument, or def when none was given.
func argOr(args []string, def string) string {
	if len(args) == 0 {
		return def
	}
	return args[0]
}

func runCreate(ctx context.Context, a *app, input string) error {
	day, err := dates.ParseUserDate(input, a.now())
	if err != nil {
		return err
	}
	weekEnding := dates.WeekEndingSunday(day)
	if err := a.session.Create(ctx, weekEnding); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created timesheet for %s\n", dates.Format(weekEnding))
	return nil
}
