package cmd

import (
	"context"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/jbstime/internal/timesheet"
)

var (
	addallFill  switchFlag
	addallMerge switchFlag
)

var addallCmd = &cobra.Command{
	Use:   "addall <date> <project> <hours> <description>",
	Short: "Add the same entry to every workday of a timesheet",
	Long: `Adds an entry to every workday, Monday through Friday, of a timesheet.

DATE selects the timesheet. --fill (the default) keeps a day from going past
8 hours when time is already logged on it. --merge (also the default) combines
the new entry with existing entries for the same project and description.

If any of the days is a company holiday you are offered to log paid holiday
time on it instead.`,
	Args: invalidArgs(cobra.ExactArgs(4)),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return runAddall(cmd.Context(), a, args, timesheet.WeekOptions{
			Fill:  addallFill.value(),
			Merge: addallMerge.value(),
		})
	},
}

func init() {
	addallFill.register(addallCmd.Flags(), "fill", true, "Do not log more than 8 hours on a day")
	addallMerge.register(addallCmd.Flags(), "merge", true, "Combine with existing entries for the same project and description")
}

func runAddall(ctx context.Context, a *app, args []string, opts timesheet.WeekOptions) error {
	ts, err := a.session.FromUserDate(ctx, args[0])
	if err != nil {
		return err
	}

	holidays, err := a.session.Holidays(ctx)
	if err != nil {
		return err
	}
	useHolidays := false
	if conflicts := timesheet.HolidayConflicts(ts.WeekEnding, holidays); len(conflicts) > 0 {
		fmt.Fprintln(a.out, conflictSentence(conflicts, a.today()))
		if useHolidays, err = a.prompt.Confirm("Set holidays to time off?"); err != nil {
			return err
		}
	}

	plans := timesheet.PlanWeek(ts.WeekEnding, args[1], args[2], args[3], holidays, useHolidays)
	bar := progressbar.NewOptions(len(plans),
		progressbar.OptionSetWriter(a.errOut),
		progressbar.OptionSetDescription("Adding"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	results, err := ts.AddWeek(ctx, plans, opts, bar)
	_ = bar.Finish()
	if err != nil {
		return err
	}

	writeSkipped(a.out, timesheet.SkippedDays(results))
	return checkPTOIfLatest(ctx, a, ts)
}
