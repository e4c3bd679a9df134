package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/jbstime/internal/apperr"
)

var timesheetsLimit string

var timesheetsCmd = &cobra.Command{
	Use:   "timesheets",
	Short: "List timesheets, most recent first",
	Args:  invalidArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return runTimesheets(cmd.Context(), a, timesheetsLimit)
	},
}

func init() {
	timesheetsCmd.Flags().StringVar(&timesheetsLimit, "limit", "5", `Number to show, or "all"`)
}

// parseLimit reads --limit. Zero means no limit.
func parseLimit(raw string) (int, error) {
	if strings.EqualFold(raw, "all") {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, apperr.New(apperr.InvalidArgument, "Invalid limit: %s", raw)
	}
	return n, nil
}

func runTimesheets(ctx context.Context, a *app, rawLimit string) error {
	limit, err := parseLimit(rawLimit)
	if err != nil {
		return err
	}
	list, err := a.session.Timesheets(ctx)
	if err != nil {
		return err
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	for _, ts := range list {
		fmt.Fprintln(a.out, summaryLine(ts))
	}
	return nil
}
