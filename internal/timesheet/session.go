// Package timesheet holds the session cache over the remote timesheet site
// and the rules for adding, merging and deleting entries.
package timesheet

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Tiliavir/jbstime/internal/apperr"
	"github.com/Tiliavir/jbstime/internal/dates"
	"github.com/Tiliavir/jbstime/internal/model"
	"github.com/Tiliavir/jbstime/internal/remote"
	"github.com/Tiliavir/jbstime/internal/scrape"
)

const (
	listPath  = "/?all=1"
	homePath  = "/timesheet/"
	loginPath = "/accounts/login/"
)

func detailPath(id string) string {
	return fmt.Sprintf("/timesheet/%s/", id)
}

// Remote is the transport a Session reads and writes through.
type Remote interface {
	Get(ctx context.Context, path string) (*remote.Response, error)
	Post(ctx context.Context, path string, form url.Values, opts ...remote.PostOption) (*remote.Response, error)
}

// HolidayStore keeps holidays that the site no longer lists.
type HolidayStore interface {
	Load() (model.Holidays, error)
	Save(model.Holidays) error
}

// Session memoises everything read from the site during one invocation.
// It is not safe for concurrent use.
type Session struct {
	remote Remote
	store  HolidayStore
	now    func() time.Time
	log    *logrus.Entry

	timesheets []*Timesheet
	listed     bool
	projects   []model.Project
	holidays   model.Holidays
	pto        *model.PTO
}

// Option configures a Session.
type Option func(*Session)

// WithHolidayStore sets where past holidays are cached.
func WithHolidayStore(store HolidayStore) Option {
	return func(s *Session) { s.store = store }
}

// WithClock overrides the current time.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *logrus.Entry) Option {
	return func(s *Session) { s.log = log }
}

// NewSession creates a session reading through r.
func NewSession(r Remote, opts ...Option) *Session {
	s := &Session{
		remote: r,
		now:    time.Now,
		log:    logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current calendar date.
func (s *Session) Today() time.Time {
	return dates.Truncate(s.now())
}

// Timesheets returns all timesheets, most recent first. The list is fetched
// once per session.
func (s *Session) Timesheets(ctx context.Context) ([]*Timesheet, error) {
	if s.listed {
		return s.timesheets, nil
	}
	resp, err := s.remote.Get(ctx, listPath)
	if err != nil {
		return nil, err
	}
	rows, err := scrape.ParseTimesheetList(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, err
	}

	s.timesheets = make([]*Timesheet, 0, len(rows))
	for _, row := range rows {
		s.timesheets = append(s.timesheets, &Timesheet{Summary: row, session: s})
	}
	s.listed = true
	s.log.WithField("count", len(rows)).Debug("listed timesheets")
	return s.timesheets, nil
}

func noTimesheets() error {
	return apperr.New(apperr.TimesheetMissing, "No timesheets found")
}

// Latest returns the most recent timesheet.
func (s *Session) Latest(ctx context.Context) (*Timesheet, error) {
	list, err := s.Timesheets(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, noTimesheets()
	}
	return list[0], nil
}

// FromUserDate returns the timesheet covering the date the user typed.
func (s *Session) FromUserDate(ctx context.Context, input string) (*Timesheet, error) {
	d, err := dates.ParseUserDate(input, s.now())
	if err != nil {
		return nil, err
	}
	return s.ForWeek(ctx, dates.WeekEndingSunday(d))
}

// ForWeek returns the timesheet ending on sunday.
func (s *Session) ForWeek(ctx context.Context, sunday time.Time) (*Timesheet, error) {
	list, err := s.Timesheets(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, noTimesheets()
	}
	for _, t := range list {
		if dates.SameDay(t.WeekEnding, sunday) {
			return t, nil
		}
	}
	return nil, apperr.New(apperr.TimesheetMissing, "No timesheet found for %s", dates.Format(sunday))
}

// EnsureProjectCatalogLoaded loads the latest timesheet's detail page when no
// detail page has been read yet; the project catalog comes from it.
func (s *Session) EnsureProjectCatalogLoaded(ctx context.Context) error {
	if s.projects != nil {
		return nil
	}
	latest, err := s.Latest(ctx)
	if err != nil {
		return err
	}
	_, err = latest.Items(ctx)
	return err
}

// Projects returns the project catalog in page order.
func (s *Session) Projects(ctx context.Context) ([]model.Project, error) {
	if err := s.EnsureProjectCatalogLoaded(ctx); err != nil {
		return nil, err
	}
	return s.projects, nil
}

// LookupProject finds a project by name, ignoring case.
func (s *Session) LookupProject(ctx context.Context, name string) (model.Project, error) {
	projects, err := s.Projects(ctx)
	if err != nil {
		return model.Project{}, err
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return model.Project{}, apperr.New(apperr.InvalidArgument, "Invalid project: %s", name)
}

// Holidays returns the cached past holidays merged with the upcoming ones the
// site lists. The store is a history: only its dates before today are kept,
// and from today on the site's list is authoritative, so a holiday the site
// has dropped disappears. The merged set is written back to the store; a
// failed write is only logged.
func (s *Session) Holidays(ctx context.Context) (model.Holidays, error) {
	if s.holidays != nil {
		return s.holidays, nil
	}

	resp, err := s.remote.Get(ctx, homePath)
	if err != nil {
		return nil, err
	}
	upcoming, err := scrape.ParseHolidays(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, err
	}

	merged := model.Holidays{}
	if s.store != nil {
		stored, err := s.store.Load()
		if err != nil {
			s.log.WithError(err).Warn("ignoring holiday cache")
		}
		today := s.Today()
		for d, name := range stored {
			if d.Before(today) {
				merged[d] = name
			}
		}
	}
	for d, name := range upcoming {
		merged[d] = name
	}

	if s.store != nil {
		if err := s.store.Save(merged); err != nil {
			s.log.WithError(err).Warn("could not update holiday cache")
		}
	}
	s.holidays = merged
	return merged, nil
}

// PTO returns the user's PTO account, fetched once per session.
func (s *Session) PTO(ctx context.Context) (model.PTO, error) {
	if s.pto != nil {
		return *s.pto, nil
	}
	resp, err := s.remote.Get(ctx, homePath)
	if err != nil {
		return model.PTO{}, err
	}
	pto, err := scrape.ParsePTO(bytes.NewReader(resp.Body))
	if err != nil {
		return model.PTO{}, err
	}
	s.pto = &pto
	return pto, nil
}

// Create starts a new timesheet for the week ending on weekEnding.
func (s *Session) Create(ctx context.Context, weekEnding time.Time) error {
	resp, err := s.remote.Post(ctx, homePath, url.Values{
		"newsheet": {dates.FormatForm(weekEnding)},
	}, remote.WithReferer(loginPath))
	if err != nil {
		return err
	}
	if remote.Classify(resp.Text()) == remote.OutcomeTimesheetExists {
		return apperr.New(apperr.TimesheetExists, "A timesheet already exists for %s", dates.Format(weekEnding))
	}
	s.listed = false
	s.timesheets = nil
	return nil
}

// Invalidate drops all memoised state.
func (s *Session) Invalidate() {
	s.timesheets = nil
	s.listed = false
	s.projects = nil
	s.holidays = nil
	s.pto = nil
}
