// Package calendarview projects appointments onto the fixed 42-cell month
// grid the agenda screen renders. Pure derivation, no state.
package calendarview

import (
	"time"

	"braidpro/internal/model"
	"braidpro/internal/timeutil"
)

// GridCells is six full weeks; every month fits regardless of length or
// starting weekday.
const GridCells = 42

// Cell is one grid position. Blank cells pad before day 1 and after the
// month's last day.
type Cell struct {
	Blank bool   `json:"blank"`
	Day   int    `json:"day,omitempty"`
	Date  string `json:"date,omitempty"` // YYYY-MM-DD for non-blank cells
}

// MonthGrid lays out a month: leading blanks equal to the weekday index of
// day 1, one cell per day, trailing blanks to exactly GridCells.
func MonthGrid(year int, month time.Month) []Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	leading := int(first.Weekday())

	cells := make([]Cell, 0, GridCells)
	for i := 0; i < leading; i++ {
		cells = append(cells, Cell{Blank: true})
	}
	for d := 1; d <= daysInMonth; d++ {
		cells = append(cells, Cell{
			Day:  d,
			Date: timeutil.DateKey(time.Date(year, month, d, 0, 0, 0, 0, time.UTC)),
		})
	}
	for len(cells) < GridCells {
		cells = append(cells, Cell{Blank: true})
	}
	return cells
}

// MarkedDays returns the set of date keys that carry at least one
// appointment, status-agnostic. It backs the marker dot on the calendar,
// which is display-only; the availability resolver is the authority on what
// is actually bookable.
func MarkedDays(appts []model.Appointment) map[string]bool {
	marked := make(map[string]bool, len(appts))
	for _, a := range appts {
		marked[a.Date] = true
	}
	return marked
}
