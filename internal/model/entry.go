package model

import (
	"strings"
	"time"
)

// Item is one logged time entry on a timesheet.
type Item struct {
	ID          string
	Hours       float64
	Date        time.Time
	Project     string
	Description string
}

// Key returns the merge identity of the item.
func (i Item) Key() ItemKey {
	return NewItemKey(i.Date, i.Project, i.Description)
}

// ItemKey identifies entries that describe the same work: same day, same
// project (case-insensitive) and identical description.
type ItemKey struct {
	Date        time.Time
	Project     string
	Description string
}

// NewItemKey builds a key, lowercasing the project name.
func NewItemKey(date time.Time, project, description string) ItemKey {
	return ItemKey{
		Date:        date,
		Project:     strings.ToLower(project),
		Description: description,
	}
}

// Project is a billing category entries are booked against.
type Project struct {
	ID       string
	Name     string
	Favorite bool
}

// Summary is one row of the remote timesheet list.
type Summary struct {
	ID         string
	WeekEnding time.Time
	TotalHours float64
	WorkHours  float64
	Locked     bool
}

// PTO is a snapshot of the user's paid-time-off account.
type PTO struct {
	Balance float64
	Cap     float64
	Earned  float64
	Used    float64
	// AccrualHours is the number of hours worked to earn one day.
	AccrualHours int
}

// Holidays maps a calendar date to the holiday's name.
type Holidays map[time.Time]string
