package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Tiliavir/jbstime/internal/dates"
	"github.com/Tiliavir/jbstime/internal/model"
	"github.com/Tiliavir/jbstime/internal/timesheet"
)

// formatHours renders hours without trailing zeros: 8, 7.5, 0.25.
func formatHours(h float64) string {
	return humanize.Ftoa(math.Round(h*100) / 100)
}

// pluralHours renders "1 hour" or "N hours".
func pluralHours(h float64) string {
	if h > 0.999 && h < 1.001 {
		return "1 hour"
	}
	return formatHours(h) + " hours"
}

// conflictSentence joins holiday conflicts into one sentence, e.g.
// "May 18, 2020 was Holiday A and May 19, 2020 is Holiday B".
func conflictSentence(conflicts []timesheet.Conflict, today time.Time) string {
	var b strings.Builder
	for i, c := range conflicts {
		if i > 0 {
			if len(conflicts) != 2 {
				b.WriteString(",")
			}
			b.WriteString(" ")
			if i == len(conflicts)-1 {
				b.WriteString("and ")
			}
		}
		verb := "is"
		if c.Date.Before(today) {
			verb = "was"
		}
		fmt.Fprintf(&b, "%s %s %s", dates.Format(c.Date), verb, c.Name)
	}
	return b.String()
}

// writeSkipped warns about days a filled batch left alone.
func writeSkipped(w io.Writer, skipped []timesheet.DayResult) {
	switch len(skipped) {
	case 0:
	case 1:
		fmt.Fprintf(w, "Warning: no hours added to %s. It already has %s hours.\n",
			dates.FormatKey(skipped[0].Date), formatHours(skipped[0].ExistingHours))
	default:
		fmt.Fprintln(w, "Warning: the following dates are already full.")
		fmt.Fprintln(w, "No additional hours were added to them.")
		for _, r := range skipped {
			fmt.Fprintf(w, "  %s - %6.2f hours\n", dates.FormatPadDay(r.Date), r.ExistingHours)
		}
	}
}

func summaryLine(ts *timesheet.Timesheet) string {
	line := fmt.Sprintf("%s  %6.2f", dates.FormatPadDay(ts.WeekEnding), ts.TotalHours)
	if !ts.Locked {
		line += "  (unsubmitted)"
	}
	return line
}

// submitQuestion is the confirmation asked before submitting a short week.
func submitQuestion(hours float64) string {
	if hours < 0.01 {
		return "There is no time logged. Submit anyway?"
	}
	verb, unit := "are", "hours"
	if hours <= 1 {
		unit = "hour"
	}
	if hours > 0.09 && hours < 1.01 {
		verb = "is"
	}
	return fmt.Sprintf("There %s only %s %s logged. Submit anyway?", verb, formatHours(hours), unit)
}

// writeTimesheet prints the items of ts grouped by day.
func writeTimesheet(w io.Writer, ts *timesheet.Timesheet, items []model.Item) {
	plural := ""
	if ts.TotalHours > 1.01 {
		plural = "s"
	}
	status := ""
	if !ts.Locked {
		status = ", unsubmitted"
	}
	title := fmt.Sprintf("Timesheet for %s (%s hour%s%s)",
		dates.Format(ts.WeekEnding), formatHours(ts.TotalHours), plural, status)

	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
	days, byDay := timesheet.ByDay(items)
	for _, d := range days {
		fmt.Fprintln(w, dates.FormatHeading(d))
		for _, i := range byDay[d] {
			fmt.Fprintf(w, "%30s  %6.2f  %s\n", i.Project, i.Hours, i.Description)
		}
		fmt.Fprintln(w)
	}
}

// writePTO prints the cap warning, and with full the whole account summary.
func writePTO(w io.Writer, pto model.PTO, items []model.Item, locked, full bool) {
	if full {
		fmt.Fprintf(w, "You have %s remaining\n", pluralHours(pto.Balance))
		fmt.Fprintf(w, "You have earned %s and used %s\n", pluralHours(pto.Earned), pluralHours(pto.Used))
		fmt.Fprintf(w, "You earn a day for every %s\n", pluralHours(float64(pto.AccrualHours)))
		fmt.Fprintf(w, "You are capped at %s\n", pluralHours(pto.Cap))
	}

	projected := timesheet.ProjectPTO(pto, items)
	if !timesheet.ExceedsCap(pto, projected, locked) {
		return
	}
	fmt.Fprintln(w, "Warning: current additional hours exceeds your PTO cap")
	current := fmt.Sprintf("Current timesheet puts you at %.2f.", projected)
	if !full {
		current += fmt.Sprintf(" Cap is %s.", formatHours(pto.Cap))
	}
	fmt.Fprintln(w, current)
}
