// Package scrape extracts timesheet data from the remote site's HTML pages.
package scrape

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Tiliavir/jbstime/internal/apperr"
	"github.com/Tiliavir/jbstime/internal/dates"
	"github.com/Tiliavir/jbstime/internal/model"
)

const (
	weekEndingPrefix = "Week Ending "
	detailPathPrefix = "/timesheet/"
)

// Detail is what a timesheet detail page carries.
type Detail struct {
	Items []model.Item
	// Projects is the selectable project catalog, in page order.
	Projects []model.Project
}

func layoutError(page, format string, args ...any) error {
	return apperr.New(apperr.Unexpected, "unexpected %s page layout: %s", page, fmt.Sprintf(format, args...))
}

func parseHours(page, s string) (float64, error) {
	h, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, layoutError(page, "bad hours %q", s)
	}
	return h, nil
}

// ParseTimesheetList reads the "all timesheets" page. Rows are returned in
// page order, most recent first.
func ParseTimesheetList(r io.Reader) ([]model.Summary, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing timesheet list: %w", err)
	}
	table := doc.Find("table.latest-timesheet-table").First()
	if table.Length() == 0 {
		return nil, layoutError("timesheet list", "no timesheet table")
	}

	var out []model.Summary
	var rowErr error
	table.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return true
		}
		s, err := parseSummaryRow(cells)
		if err != nil {
			rowErr = err
			return false
		}
		out = append(out, s)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return out, nil
}

func parseSummaryRow(cells *goquery.Selection) (model.Summary, error) {
	const page = "timesheet list"
	if cells.Length() < 6 {
		return model.Summary{}, layoutError(page, "row has %d cells", cells.Length())
	}

	title := strings.TrimSpace(cells.Eq(1).Text())
	if !strings.HasPrefix(title, weekEndingPrefix) {
		return model.Summary{}, layoutError(page, "unexpected title %q", title)
	}
	weekEnding, err := dates.ParseForm(strings.TrimPrefix(title, weekEndingPrefix))
	if err != nil {
		return model.Summary{}, layoutError(page, "bad week ending %q", title)
	}

	total, err := parseHours(page, cells.Eq(2).Text())
	if err != nil {
		return model.Summary{}, err
	}
	work, err := parseHours(page, cells.Eq(3).Text())
	if err != nil {
		return model.Summary{}, err
	}

	href, ok := cells.Eq(5).Find("a").Attr("href")
	id := strings.Trim(strings.TrimPrefix(href, detailPathPrefix), "/")
	if !ok || id == "" {
		return model.Summary{}, layoutError(page, "no timesheet link for %s", title)
	}

	return model.Summary{
		ID:         id,
		WeekEnding: weekEnding,
		TotalHours: total,
		WorkHours:  work,
		Locked:     cells.Eq(0).Find("span").First().HasClass("locked"),
	}, nil
}

// ParseTimesheetDetail reads a timesheet detail page: its logged items and the
// project catalog offered by its project picker.
func ParseTimesheetDetail(r io.Reader) (*Detail, error) {
	const page = "timesheet"
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing timesheet: %w", err)
	}
	holder := doc.Find("div.tableholder").First()
	if holder.Length() == 0 {
		return nil, layoutError(page, "no item table")
	}

	d := &Detail{}
	var rowErr error
	holder.Find("tr[id]").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if id, _ := row.Attr("id"); id == "" {
			return true
		}
		item, err := parseItemRow(row)
		if err != nil {
			rowErr = err
			return false
		}
		d.Items = append(d.Items, item)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	picker := doc.Find("select#fav_projects").First()
	if picker.Length() == 0 {
		return nil, layoutError(page, "no project picker")
	}
	picker.Find("option").Each(func(_ int, opt *goquery.Selection) {
		id, _ := opt.Attr("value")
		_, selected := opt.Attr("selected")
		d.Projects = append(d.Projects, model.Project{
			ID:       id,
			Name:     strings.TrimSpace(opt.Text()),
			Favorite: selected,
		})
	})
	return d, nil
}

func parseItemRow(row *goquery.Selection) (model.Item, error) {
	const page = "timesheet"
	input := func(name string) (string, bool) {
		return row.Find(fmt.Sprintf("input[name=%q]", name)).First().Attr("value")
	}

	id, ok := input("id")
	if !ok {
		return model.Item{}, layoutError(page, "item without id")
	}
	rawHours, ok := input("hours_worked")
	if !ok {
		return model.Item{}, layoutError(page, "item %s without hours", id)
	}
	hours, err := parseHours(page, rawHours)
	if err != nil {
		return model.Item{}, err
	}
	rawDate, ok := input("log_date")
	if !ok {
		return model.Item{}, layoutError(page, "item %s without date", id)
	}
	date, err := dates.ParseForm(rawDate)
	if err != nil {
		return model.Item{}, layoutError(page, "item %s has bad date %q", id, rawDate)
	}
	project := row.Find(`select[name="project"] option[selected]`).First()
	if project.Length() == 0 {
		return model.Item{}, layoutError(page, "item %s without project", id)
	}

	return model.Item{
		ID:          id,
		Hours:       hours,
		Date:        date,
		Project:     strings.TrimSpace(project.Text()),
		Description: row.Find(`textarea[name="description"]`).First().Text(),
	}, nil
}
