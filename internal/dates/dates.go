package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/Tiliavir/jbstime/internal/apperr"
)

// FormLayout is the date layout used by the remote site in form fields and
// scraped cells.
const FormLayout = "01/02/2006"

// monthDay matches a bare "M/D" with no year.
var monthDay = regexp.MustCompile(`^\d{1,2}/\d{1,2}$`)

// Day returns the calendar date y-m-d. All dates in jbstime are normalised to
// midnight UTC so they compare and hash consistently.
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Truncate returns the calendar date of t as seen in t's own location.
func Truncate(t time.Time) time.Time {
	return Day(t.Year(), t.Month(), t.Day())
}

// ParseUserDate turns free-form user input into a calendar date. "today" and
// "current" resolve to now's date.
func ParseUserDate(input string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(input)
	switch strings.ToLower(s) {
	case "today", "current":
		return Truncate(now), nil
	}

	if monthDay.MatchString(s) {
		s = fmt.Sprintf("%s/%d", s, now.Year())
	}

	t, err := dateparse.ParseIn(s, time.Local)
	if err != nil {
		return time.Time{}, apperr.Wrap(apperr.UnparsableDate, err, "Can't parse date: %s", input)
	}
	// "May 18" parses with year 0; the missing year is the current one.
	if t.Year() == 0 {
		return Day(now.Year(), t.Month(), t.Day()), nil
	}
	return Truncate(t), nil
}

// isoWeekday returns Monday=0 … Sunday=6.
func isoWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekEndingSunday returns the Sunday that closes the timesheet week
// containing d. A Sunday maps to itself.
func WeekEndingSunday(d time.Time) time.Time {
	return Truncate(d).AddDate(0, 0, 6-isoWeekday(d))
}

// Workdays returns Friday back to Monday of the week ending on weekEnding.
func Workdays(weekEnding time.Time) []time.Time {
	days := make([]time.Time, 0, 5)
	for i := 2; i <= 6; i++ {
		days = append(days, weekEnding.AddDate(0, 0, -i))
	}
	return days
}

// Format renders d like "May 4, 2020".
func Format(d time.Time) string {
	return d.Format("Jan 2, 2006")
}

// FormatPadDay renders d like "May  4, 2020" so columns line up.
func FormatPadDay(d time.Time) string {
	return d.Format("Jan _2, 2006")
}

// FormatHeading renders d like "May  4, 2020 (Monday)".
func FormatHeading(d time.Time) string {
	return d.Format("Jan _2, 2006 (Monday)")
}

// FormatForm renders d in the remote site's MM/DD/YYYY form layout.
func FormatForm(d time.Time) string {
	return d.Format(FormLayout)
}

// ParseForm parses a MM/DD/YYYY value scraped from the remote site.
func ParseForm(s string) (time.Time, error) {
	t, err := time.Parse(FormLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return Truncate(t), nil
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// keyLayout is the ISO layout used for dates in local files.
const keyLayout = "2006-01-02"

// FormatKey renders d as YYYY-MM-DD.
func FormatKey(d time.Time) string {
	return d.Format(keyLayout)
}

// ParseKey parses a YYYY-MM-DD date.
func ParseKey(s string) (time.Time, error) {
	t, err := time.Parse(keyLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return Truncate(t), nil
}
