package timesheet

import (
	"bytes"
	"context"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/Tiliavir/jbstime/internal/apperr"
	"github.com/Tiliavir/jbstime/internal/dates"
	"github.com/Tiliavir/jbstime/internal/model"
	"github.com/Tiliavir/jbstime/internal/remote"
	"github.com/Tiliavir/jbstime/internal/scrape"
)

const (
	// DayHours is the length of a full workday.
	DayHours = 8.0
	// MaxItemHours is the largest amount the site accepts on one entry.
	MaxItemHours = 99.0

	minHours = 0.01
)

// Timesheet is one week of logged time.
type Timesheet struct {
	model.Summary

	session *Session
	items   []model.Item
	loaded  bool
}

// Items returns the entries on the timesheet, loading them on first use.
// Loading also refreshes the session's project catalog. Adding or deleting
// entries leaves the loaded list as it was; call Reload to see the changes.
func (t *Timesheet) Items(ctx context.Context) ([]model.Item, error) {
	if !t.loaded {
		if err := t.load(ctx); err != nil {
			return nil, err
		}
	}
	return t.items, nil
}

func (t *Timesheet) load(ctx context.Context) error {
	resp, err := t.session.remote.Get(ctx, detailPath(t.ID))
	if err != nil {
		return err
	}
	d, err := scrape.ParseTimesheetDetail(bytes.NewReader(resp.Body))
	if err != nil {
		return err
	}
	t.items = d.Items
	t.loaded = true
	t.session.projects = d.Projects
	if t.session.projects == nil {
		t.session.projects = []model.Project{}
	}
	return nil
}

// Reload re-reads the entries and recomputes TotalHours from them.
func (t *Timesheet) Reload(ctx context.Context) error {
	if err := t.load(ctx); err != nil {
		return err
	}
	t.TotalHours = SumHours(t.items)
	return nil
}

// SumHours adds up the hours of items.
func SumHours(items []model.Item) float64 {
	var total float64
	for _, i := range items {
		total += i.Hours
	}
	return total
}

// ByDay groups items by date, days ascending and items by ID within a day.
func ByDay(items []model.Item) ([]time.Time, map[time.Time][]model.Item) {
	groups := map[time.Time][]model.Item{}
	var days []time.Time
	for _, i := range items {
		if _, ok := groups[i.Date]; !ok {
			days = append(days, i.Date)
		}
		groups[i.Date] = append(groups[i.Date], i)
	}
	sort.Slice(days, func(a, b int) bool { return days[a].Before(days[b]) })
	for _, g := range groups {
		sort.SliceStable(g, func(a, b int) bool { return g[a].ID < g[b].ID })
	}
	return days, groups
}

func (t *Timesheet) submitted() error {
	return apperr.New(apperr.TimesheetSubmitted,
		"The timesheet for %s has already been submitted", dates.Format(t.WeekEnding))
}

// AddRequest describes an entry to add. Hours is the user's raw input.
type AddRequest struct {
	Date        time.Time
	Project     string
	Hours       string
	Description string
	// Fill caps the entry so the day does not exceed DayHours.
	Fill bool
	// Merge folds existing entries with the same date, project and
	// description into the new one.
	Merge bool
}

// AddResult reports what AddItem did.
type AddResult struct {
	// Skipped is set when Fill found the day already full.
	Skipped       bool
	ExistingHours float64
	// Hours is the amount posted, including merged entries.
	Hours float64
	// Replaced lists the IDs of merged entries that were deleted.
	Replaced []string
}

// ParseHours validates user-entered hours.
func ParseHours(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	h, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, apperr.New(apperr.InvalidArgument, "Invalid hours: %s", raw)
	}
	switch {
	case h > MaxItemHours:
		return 0, apperr.New(apperr.InvalidArgument, "Too many hours: %s", raw)
	case math.Abs(h) < minHours:
		return 0, apperr.New(apperr.InvalidArgument, "Hours cannot be 0")
	case h < 0:
		return 0, apperr.New(apperr.InvalidArgument, "Hours cannot be negative: %s", raw)
	}
	return h, nil
}

// AddItem validates req and posts it. Existing entries with the same key are
// deleted first when merging; nothing is sent if validation fails.
func (t *Timesheet) AddItem(ctx context.Context, req AddRequest) (AddResult, error) {
	if t.Locked {
		return AddResult{}, t.submitted()
	}

	items, err := t.Items(ctx)
	if err != nil {
		return AddResult{}, err
	}
	project, err := t.session.LookupProject(ctx, req.Project)
	if err != nil {
		return AddResult{}, err
	}
	hours, err := ParseHours(req.Hours)
	if err != nil {
		return AddResult{}, err
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return AddResult{}, apperr.New(apperr.InvalidArgument, "No description provided")
	}

	date := dates.Truncate(req.Date)
	if req.Fill {
		var existing float64
		for _, i := range items {
			if i.Date.Equal(date) {
				existing += i.Hours
			}
		}
		hours = math.Min(hours, math.Max(0, DayHours-existing))
		if hours < minHours {
			return AddResult{Skipped: true, ExistingHours: existing}, nil
		}
	}

	total := hours
	var replaced []string
	if req.Merge {
		key := model.NewItemKey(date, project.Name, description)
		for _, i := range items {
			if i.Key() == key {
				total += i.Hours
				replaced = append(replaced, i.ID)
			}
		}
	}
	total = math.Round(total*100) / 100
	if total > MaxItemHours {
		return AddResult{}, apperr.New(apperr.InvalidArgument,
			"Merging this item with other items is too many hours: %s", humanize.Ftoa(total))
	}

	log := t.session.log.WithFields(logrus.Fields{
		"timesheet": t.ID,
		"date":      dates.FormatKey(date),
		"project":   project.Name,
	})
	for _, id := range replaced {
		if err := t.postDelete(ctx, id); err != nil {
			return AddResult{}, err
		}
		log.WithField("id", id).Debug("deleted merged item")
	}

	_, err = t.session.remote.Post(ctx, detailPath(t.ID), url.Values{
		"log_date":      {dates.FormatForm(date)},
		"project":       {project.ID},
		"hours_worked":  {strconv.FormatFloat(total, 'f', -1, 64)},
		"description":   {description},
		"ticket":        {""},
		"billing_type":  {"M"},
		"parent_ticket": {""},
		"undefined":     {""},
	}, remote.AsXHR())
	if err != nil {
		return AddResult{}, err
	}
	log.WithField("hours", total).Debug("added item")

	return AddResult{Hours: total, Replaced: replaced}, nil
}

// DeleteItem removes the entry with the given ID.
func (t *Timesheet) DeleteItem(ctx context.Context, id string) error {
	if t.Locked {
		return t.submitted()
	}
	return t.postDelete(ctx, id)
}

func (t *Timesheet) postDelete(ctx context.Context, id string) error {
	_, err := t.session.remote.Post(ctx, detailPath(t.ID), url.Values{
		"id":     {id},
		"action": {"delete"},
	}, remote.AsXHR())
	return err
}

// Submit hands the timesheet in. It is locked afterwards.
func (t *Timesheet) Submit(ctx context.Context) error {
	if _, err := t.session.remote.Post(ctx, detailPath(t.ID), url.Values{
		"action": {"submit"},
	}); err != nil {
		return err
	}
	t.Locked = true
	return nil
}

// AllProjects is the Filter project that matches every project.
const AllProjects = "all"

// Filter selects entries for deletion.
type Filter struct {
	// Date restricts matches to one day when set.
	Date *time.Time
	// Project is matched ignoring case; AllProjects matches any.
	Project string
	// Description is matched ignoring case when not empty.
	Description string
}

// MatchItems returns the entries selected by f.
func (t *Timesheet) MatchItems(ctx context.Context, f Filter) ([]model.Item, error) {
	items, err := t.Items(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Item
	for _, i := range items {
		if f.Date != nil && !dates.SameDay(i.Date, *f.Date) {
			continue
		}
		if !strings.EqualFold(f.Project, AllProjects) && !strings.EqualFold(f.Project, i.Project) {
			continue
		}
		if f.Description != "" && !strings.EqualFold(f.Description, i.Description) {
			continue
		}
		out = append(out, i)
	}
	return out, nil
}
