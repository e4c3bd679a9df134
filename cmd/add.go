package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/jbstime/internal/dates"
	"github.com/Tiliavir/jbstime/internal/timesheet"
)

var addMerge switchFlag

var addCmd = &cobra.Command{
	Use:   "add <date> <project> <hours> <description>",
	Short: "Add an entry to a timesheet",
	Long: `Adds an entry to a timesheet.

DATE is the date of the entry and selects the timesheet. --merge (the default)
deletes existing entries with the same project and description on that day and
combines their hours into a single entry.`,
	Args: invalidArgs(cobra.ExactArgs(4)),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return runAdd(cmd.Context(), a, args, addMerge.value())
	},
}

func init() {
	addMerge.register(addCmd.Flags(), "merge", true, "Combine with existing entries for the same project and description")
}

func runAdd(ctx context.Context, a *app, args []string, merge bool) error {
	ts, err := a.session.FromUserDate(ctx, args[0])
	if err != nil {
		return err
	}
	day, err := dates.ParseUserDate(args[0], a.now())
	if err != nil {
		return err
	}
	if _, err := ts.AddItem(ctx, timesheet.AddRequest{
		Date:        day,
		Project:     args[1],
		Hours:       args[2],
		Description: args[3],
		Merge:       merge,
	}); err != nil {
		return err
	}
	return checkPTOIfLatest(ctx, a, ts)
}

// checkPTOIfLatest reloads ts and warns about the PTO cap when ts is the
// newest timesheet.
func checkPTOIfLatest(ctx context.Context, a *app, ts *timesheet.Timesheet) error {
	latest, err := a.session.Latest(ctx)
	if err != nil {
		return err
	}
	if latest != ts {
		return nil
	}
	if err := ts.Reload(ctx); err != nil {
		return err
	}
	return checkPTO(ctx, a, ts, false)
}

func checkPTO(ctx context.Context, a *app, ts *timesheet.Timesheet, full bool) error {
	pto, err := a.session.PTO(ctx)
	if err != nil {
		return err
	}
	items, err := ts.Items(ctx)
	if err != nil {
		return err
	}
	writePTO(a.out, pto, items, ts.Locked, full)
	return nil
}
