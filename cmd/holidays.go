package cmd

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/jbstime/internal/dates"
)

var holidaysAll bool

var holidaysCmd = &cobra.Command{
	Use:   "holidays",
	Short: "List company holidays",
	Long: `Lists company holidays.

The site only lists upcoming holidays; past ones are remembered in
~/.jbstime/holidays.yaml once seen. By default holidays from the last two weeks
on are shown, --all shows every known holiday.`,
	Args: invalidArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return runHolidays(cmd.Context(), a, holidaysAll)
	},
}

func init() {
	holidaysCmd.Flags().BoolVar(&holidaysAll, "all", false, "List all holidays, including older ones")
}

func runHolidays(ctx context.Context, a *app, all bool) error {
	holidays, err := a.session.Holidays(ctx)
	if err != nil {
		return err
	}

	var from time.Time
	if !all {
		from = a.today().AddDate(0, 0, -14)
	}

	days := make([]time.Time, 0, len(holidays))
	for d := range holidays {
		if !d.Before(from) {
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	for _, d := range days {
		fmt.Fprintf(a.out, "%s: %s\n", dates.FormatPadDay(d), holidays[d])
	}
	return nil
}
