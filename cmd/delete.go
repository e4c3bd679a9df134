package cmd

import (
	"context"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/jbstime/internal/apperr"
	"github.com/Tiliavir/jbstime/internal/dates"
	"github.com/Tiliavir/jbstime/internal/timesheet"
)

var deleteWholeWeek bool

var deleteCmd = &cobra.Command{
	Use:   "delete <date> <project> [<description>]",
	Short: "Delete entries from a timesheet",
	Long: `Deletes an entry or entries from a timesheet.

DATE is the date of the entries, or with --all any date of the timesheet. Every
entry with the given project, and description if one is given, is matched.
"all" as the project matches every project. The number of matching entries is
shown and must be confirmed.`,
	Args: invalidArgs(cobra.RangeArgs(2, 3)),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return runDelete(cmd.Context(), a, args, deleteWholeWeek)
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteWholeWeek, "all", false, "Apply to all days on the timesheet")
}

func runDelete(ctx context.Context, a *app, args []string, wholeWeek bool) error {
	ts, err := a.session.FromUserDate(ctx, args[0])
	if err != nil {
		return err
	}
	if ts.Locked {
		return apperr.New(apperr.TimesheetSubmitted,
			"The timesheet for %s has already been submitted", dates.Format(ts.WeekEnding))
	}

	filter := timesheet.Filter{Project: args[1]}
	if len(args) > 2 {
		filter.Description = args[2]
	}
	if !wholeWeek {
		day, err := dates.ParseUserDate(args[0], a.now())
		if err != nil {
			return err
		}
		filter.Date = &day
	}

	matches, err := ts.MatchItems(ctx, filter)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Fprintln(a.out, "No matching items")
		return nil
	}

	plural := ""
	if len(matches) > 1 {
		plural = "s"
	}
	fmt.Fprintf(a.out, "%d item%s to delete\n", len(matches), plural)
	ok, err := a.prompt.Confirm("Are you sure?")
	if err != nil || !ok {
		return err
	}

	bar := progressbar.NewOptions(len(matches),
		progressbar.OptionSetWriter(a.errOut),
		progressbar.OptionSetDescription("Deleting"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	defer func() { _ = bar.Finish() }()
	for _, item := range matches {
		if err := ts.DeleteItem(ctx, item.ID); err != nil {
			return err
		}
		_ = bar.Add(1)
	}
	return nil
}
