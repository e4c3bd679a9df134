package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/jbstime/internal/apperr"
	"github.com/Tiliavir/jbstime/internal/dates"
)

// fullWeekHours is the total below which submitting asks for confirmation.
const fullWeekHours = 39.9

var submitCmd = &cobra.Command{
	Use:   "submit [<date>]",
	Short: "Submit a timesheet",
	Long: `Submits the timesheet covering DATE, or the current week when omitted.

You are asked to confirm when fewer than 40 hours are logged. A submitted
timesheet cannot be edited.`,
	Args: invalidArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return runSubmit(cmd.Context(), a, argOr(args, "current"))
	},
}

func runSubmit(ctx context.Context, a *app, input string) error {
	ts, err := a.session.FromUserDate(ctx, input)
	if err != nil {
		return err
	}
	if ts.Locked {
		return apperr.New(apperr.TimesheetSubmitted,
			"The timesheet for %s has already been submitted", dates.Format(ts.WeekEnding))
	}

	if ts.TotalHours < fullWeekHours {
		ok, err := a.prompt.Confirm(submitQuestion(ts.TotalHours))
		if err != nil || !ok {
			return err
		}
	}

	if err := ts.Submit(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Submitted timesheet for %s\n", dates.Format(ts.WeekEnding))
	return nil
}
