package timesheet_test

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/Tiliavir/jbstime/internal/apperr"
	"github.com/Tiliavir/jbstime/internal/dates"
	"github.com/Tiliavir/jbstime/internal/model"
	"github.com/Tiliavir/jbstime/internal/remote"
	"github.com/Tiliavir/jbstime/internal/timesheet"
)

type call struct {
	method string
	path   string
	form   url.Values
}

// fakeRemote serves canned pages and records every request.
type fakeRemote struct {
	pages    map[string]string
	postBody string
	calls    []call
}

func (f *fakeRemote) Get(_ context.Context, path string) (*remote.Response, error) {
	f.calls = append(f.calls, call{method: "GET", path: path})
	body, ok := f.pages[path]
	if !ok {
		return nil, apperr.New(apperr.Unexpected, "GET %s returned status 404", path)
	}
	return &remote.Response{StatusCode: 200, Body: []byte(body)}, nil
}

func (f *fakeRemote) Post(_ context.Context, path string, form url.Values, _ ...remote.PostOption) (*remote.Response, error) {
	f.calls = append(f.calls, call{method: "POST", path: path, form: form})
	return &remote.Response{StatusCode: 200, Body: []byte(f.postBody)}, nil
}

func (f *fakeRemote) posts() []call {
	var out []call
	for _, c := range f.calls {
		if c.method == "POST" {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeRemote) gets(path string) int {
	n := 0
	for _, c := range f.calls {
		if c.method == "GET" && c.path == path {
			n++
		}
	}
	return n
}

type sheetRow struct {
	id         string
	weekEnding time.Time
	hours      float64
	locked     bool
}

func listPage(rows ...sheetRow) string {
	var b strings.Builder
	b.WriteString(`<table class="latest-timesheet-table"><tr><th>Week</th></tr>`)
	for _, r := range rows {
		class := "unlocked"
		if r.locked {
			class = "locked"
		}
		fmt.Fprintf(&b, `<tr><td><span class="%s"></span></td><td>Week Ending %s</td><td>%.2f</td><td>%.2f</td><td></td><td><a href="/timesheet/%s/">View</a></td></tr>`,
			class, dates.FormatForm(r.weekEnding), r.hours, r.hours, r.id)
	}
	b.WriteString(`</table>`)
	return b.String()
}

var testProjects = []model.Project{
	{ID: "7", Name: "Internal", Favorite: true},
	{ID: "12", Name: "Client Alpha"},
	{ID: "30", Name: "JBS - PTO", Favorite: true},
	{ID: "31", Name: "JBS - Paid Holiday"},
}

func projectID(name string) string {
	for _, p := range testProjects {
		if p.Name == name {
			return p.ID
		}
	}
	return ""
}

func detailPage(items ...model.Item) string {
	var b strings.Builder
	b.WriteString(`<div class="tableholder"><table>`)
	for _, i := range items {
		fmt.Fprintf(&b, `<tr id="row-%s"><td><input name="id" value="%s"><input name="log_date" value="%s"></td>`,
			i.ID, i.ID, dates.FormatForm(i.Date))
		fmt.Fprintf(&b, `<td><select name="project"><option value="%s" selected="selected">%s</option></select></td>`,
			projectID(i.Project), i.Project)
		fmt.Fprintf(&b, `<td><input name="hours_worked" value="%g"></td><td><textarea name="description">%s</textarea></td></tr>`,
			i.Hours, i.Description)
	}
	b.WriteString(`</table></div><select id="fav_projects">`)
	for _, p := range testProjects {
		sel := ""
		if p.Favorite {
			sel = ` selected="selected"`
		}
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, p.ID, sel, p.Name)
	}
	b.WriteString(`</select>`)
	return b.String()
}

func homePage(holidays model.Holidays, pto model.PTO) string {
	var b strings.Builder
	b.WriteString(`<div class="ptoplaceholder"><table>`)
	fmt.Fprintf(&b, `<tr><td>PTO Balance:</td><td>%g</td></tr><tr><td>PTO Cap:</td><td>%g</td></tr>`, pto.Balance, pto.Cap)
	fmt.Fprintf(&b, `<tr><td>PTO Earned:</td><td>%g</td></tr><tr><td>PTO Used:</td><td>%g</td></tr>`, pto.Earned, pto.Used)
	fmt.Fprintf(&b, `<tr><td>PTO Accrual Rate:</td><td>%d hours</td></tr>`, pto.AccrualHours)
	b.WriteString(`<tr><td>Upcoming Company Holidays</td><td>`)
	for d, name := range holidays {
		fmt.Fprintf(&b, `<p>%s - %s</p>`, name, dates.FormatForm(d))
	}
	b.WriteString(`</td></tr></table></div>`)
	return b.String()
}

// Week ending May 24, 2020 is current; the week before is submitted.
var (
	now         = time.Date(2020, 5, 20, 10, 0, 0, 0, time.Local)
	currentWeek = dates.Day(2020, 5, 24)
	lastWeek    = dates.Day(2020, 5, 17)
)

const (
	currentPath = "/timesheet/1002/"
	lastPath    = "/timesheet/1001/"
)

func newFake(items ...model.Item) *fakeRemote {
	return &fakeRemote{pages: map[string]string{
		"/?all=1": listPage(
			sheetRow{id: "1002", weekEnding: currentWeek, hours: timesheet.SumHours(items)},
			sheetRow{id: "1001", weekEnding: lastWeek, hours: 40, locked: true},
		),
		currentPath: detailPage(items...),
		lastPath:    detailPage(),
	}}
}

type memStore struct {
	holidays model.Holidays
	loadErr  error
	saved    model.Holidays
}

func (m *memStore) Load() (model.Holidays, error) { return m.holidays, m.loadErr }

func (m *memStore) Save(h model.Holidays) error {
	m.saved = h
	return nil
}

func newSession(f *fakeRemote, opts ...timesheet.Option) (*timesheet.Session, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	base := []timesheet.Option{
		timesheet.WithClock(func() time.Time { return now }),
		timesheet.WithLogger(logrus.NewEntry(logger)),
	}
	return timesheet.NewSession(f, append(base, opts...)...), hook
}

func currentSheet(t *testing.T, s *timesheet.Session) *timesheet.Timesheet {
	t.Helper()
	ts, err := s.ForWeek(context.Background(), currentWeek)
	if err != nil {
		t.Fatalf("ForWeek: %v", err)
	}
	return ts
}
