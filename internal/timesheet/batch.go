package timesheet

import (
	"context"
	"sort"
	"time"

	"github.com/Tiliavir/jbstime/internal/dates"
	"github.com/Tiliavir/jbstime/internal/model"
)

// PaidHolidayProject is booked for holidays that fall on a workday.
const PaidHolidayProject = "JBS - Paid Holiday"

// DayPlan is the entry to add on one day of a week batch.
type DayPlan struct {
	Date        time.Time
	Project     string
	Hours       string
	Description string
}

// DayResult is the outcome of one DayPlan.
type DayResult struct {
	Date time.Time
	AddResult
}

// WeekOptions configures AddWeek.
type WeekOptions struct {
	Fill  bool
	Merge bool
}

// Progress is advanced once per processed day.
type Progress interface {
	Add(n int) error
}

// Conflict is a holiday falling on a workday of the week.
type Conflict struct {
	Date time.Time
	Name string
}

// HolidayConflicts returns the holidays on the workdays of the week ending on
// weekEnding, in date order.
func HolidayConflicts(weekEnding time.Time, holidays model.Holidays) []Conflict {
	var out []Conflict
	for _, d := range dates.Workdays(weekEnding) {
		if name, ok := holidays[d]; ok {
			out = append(out, Conflict{Date: d, Name: name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// PlanWeek builds one DayPlan per workday, Friday first. With useHolidays set,
// holidays become a full day of PaidHolidayProject named after the holiday.
func PlanWeek(weekEnding time.Time, project, hours, description string, holidays model.Holidays, useHolidays bool) []DayPlan {
	days := dates.Workdays(weekEnding)
	plans := make([]DayPlan, 0, len(days))
	for _, d := range days {
		if name, ok := holidays[d]; ok && useHolidays {
			plans = append(plans, DayPlan{Date: d, Project: PaidHolidayProject, Hours: "8", Description: name})
			continue
		}
		plans = append(plans, DayPlan{Date: d, Project: project, Hours: hours, Description: description})
	}
	return plans
}

// AddWeek adds every plan in order. The first error stops the batch; entries
// added before it stay in place and their results are returned with the error.
func (t *Timesheet) AddWeek(ctx context.Context, plans []DayPlan, opts WeekOptions, progress Progress) ([]DayResult, error) {
	results := make([]DayResult, 0, len(plans))
	for _, p := range plans {
		res, err := t.AddItem(ctx, AddRequest{
			Date:        p.Date,
			Project:     p.Project,
			Hours:       p.Hours,
			Description: p.Description,
			Fill:        opts.Fill,
			Merge:       opts.Merge,
		})
		if err != nil {
			return results, err
		}
		results = append(results, DayResult{Date: p.Date, AddResult: res})
		if progress != nil {
			_ = progress.Add(1)
		}
	}
	return results, nil
}

// SkippedDays returns the results of days that were already full.
func SkippedDays(results []DayResult) []DayResult {
	var out []DayResult
	for _, r := range results {
		if r.Skipped {
			out = append(out, r)
		}
	}
	return out
}
