package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/jbstime/internal/dates"
	"github.com/Tiliavir/jbstime/internal/timesheet"
)

var timesheetCmd = &cobra.Command{
	Use:   "timesheet [<date>|latest]",
	Short: "Show a timesheet",
	Long:  `Shows the entries of the timesheet covering DATE, or the latest timesheet.`,
	Args:  invalidArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return runTimesheet(cmd.Context(), a, argOr(args, "latest"))
	},
}

func runTimesheet(ctx context.Context, a *app, input string) error {
	var (
		ts  *timesheet.Timesheet
		err error
	)
	if input == "latest" {
		ts, err = a.session.Latest(ctx)
	} else {
		ts, err = a.session.FromUserDate(ctx, input)
	}
	if err != nil {
		return err
	}

	items, err := ts.Items(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintf(a.out, "No hours added to the timesheet for %s\n", dates.Format(ts.WeekEnding))
		return nil
	}
	writeTimesheet(a.out, ts, items)
	return nil
}
