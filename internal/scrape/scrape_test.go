package scrape_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/jbstime/internal/apperr"
	"github.com/Tiliavir/jbstime/internal/dates"
	"github.com/Tiliavir/jbstime/internal/model"
	"github.com/Tiliavir/jbstime/internal/scrape"
)

func fixture(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestParseTimesheetList(t *testing.T) {
	rows, err := scrape.ParseTimesheetList(fixture(t, "list.html"))
	require.NoError(t, err)

	assert.Equal(t, []model.Summary{
		{ID: "1002", WeekEnding: dates.Day(2020, 5, 24), TotalHours: 24, WorkHours: 16},
		{ID: "1001", WeekEnding: dates.Day(2020, 5, 17), TotalHours: 40, WorkHours: 32, Locked: true},
	}, rows)
}

func TestParseTimesheetListErrors(t *testing.T) {
	tests := map[string]string{
		"no table":   `<html><body></body></html>`,
		"bad title":  `<table class="latest-timesheet-table"><tr><td></td><td>Week 5</td><td>1</td><td>1</td><td></td><td><a href="/timesheet/1/">x</a></td></tr></table>`,
		"bad hours":  `<table class="latest-timesheet-table"><tr><td></td><td>Week Ending 05/24/2020</td><td>x</td><td>1</td><td></td><td><a href="/timesheet/1/">x</a></td></tr></table>`,
		"no link":    `<table class="latest-timesheet-table"><tr><td></td><td>Week Ending 05/24/2020</td><td>1</td><td>1</td><td></td><td></td></tr></table>`,
		"few fields": `<table class="latest-timesheet-table"><tr><td></td><td>Week Ending 05/24/2020</td></tr></table>`,
	}
	for name, page := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := scrape.ParseTimesheetList(strings.NewReader(page))
			require.Error(t, err)
			assert.Equal(t, 8, apperr.ExitCode(err))
		})
	}
}

func TestParseTimesheetListEmpty(t *testing.T) {
	rows, err := scrape.ParseTimesheetList(strings.NewReader(
		`<table class="latest-timesheet-table"><tr><th>Week</th></tr></table>`))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseTimesheetDetail(t *testing.T) {
	d, err := scrape.ParseTimesheetDetail(fixture(t, "detail.html"))
	require.NoError(t, err)

	assert.Equal(t, []model.Item{
		{ID: "501", Hours: 6.5, Date: dates.Day(2020, 5, 18), Project: "Client Alpha", Description: "Design review"},
		{ID: "502", Hours: 8, Date: dates.Day(2020, 5, 19), Project: "Internal", Description: "Planning"},
	}, d.Items)
	assert.Equal(t, []model.Project{
		{ID: "7", Name: "Internal", Favorite: true},
		{ID: "12", Name: "Client Alpha"},
		{ID: "30", Name: "JBS - PTO", Favorite: true},
	}, d.Projects)
}

func TestParseTimesheetDetailMissingPicker(t *testing.T) {
	_, err := scrape.ParseTimesheetDetail(strings.NewReader(`<div class="tableholder"><table></table></div>`))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Unexpected))
}

func TestParseHolidays(t *testing.T) {
	h, err := scrape.ParseHolidays(fixture(t, "home.html"))
	require.NoError(t, err)
	assert.Equal(t, model.Holidays{
		dates.Day(2020, 5, 25): "Memorial Day",
		dates.Day(2020, 7, 3):  "Independence Day",
	}, h)
}

func TestParseHolidaysNoPanel(t *testing.T) {
	_, err := scrape.ParseHolidays(fixture(t, "nopanel.html"))
	assert.True(t, apperr.Is(err, apperr.Unexpected))
}

func TestParsePTO(t *testing.T) {
	pto, err := scrape.ParsePTO(fixture(t, "home.html"))
	require.NoError(t, err)
	assert.Equal(t, model.PTO{
		Balance:      52.5,
		Cap:          120,
		Earned:       1040.25,
		Used:         987.75,
		AccrualHours: 40,
	}, pto)
}

func TestParsePTOMissingLabel(t *testing.T) {
	page := `<div class="ptoplaceholder"><table><tr><td>PTO Balance</td><td>1</td></tr></table></div>`
	_, err := scrape.ParsePTO(strings.NewReader(page))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PTO Cap")
}
