package timesheet

import (
	"strings"

	"github.com/Tiliavir/jbstime/internal/model"
)

// ptoProjectPrefix marks projects that draw from the PTO balance.
const ptoProjectPrefix = "JBS - PTO"

// ProjectPTO estimates the PTO balance once items are accounted for: worked
// hours accrue at pto.AccrualHours per 8-hour day and PTO entries are spent.
func ProjectPTO(pto model.PTO, items []model.Item) float64 {
	var worked, taken float64
	for _, i := range items {
		if strings.HasPrefix(i.Project, ptoProjectPrefix) {
			taken += i.Hours
		} else {
			worked += i.Hours
		}
	}
	projected := pto.Balance - taken
	if pto.AccrualHours > 0 {
		projected += worked / float64(pto.AccrualHours) * DayHours
	}
	return projected
}

// ExceedsCap reports whether the projected balance reaches the cap on a sheet
// that can still be changed.
func ExceedsCap(pto model.PTO, projected float64, locked bool) bool {
	return !locked && pto.Cap <= projected
}
