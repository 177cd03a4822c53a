package calendarview

import (
	"testing"
	"time"

	"braidpro/internal/model"
)

func TestMonthGrid_AlwaysFortyTwoCells(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		days  int
	}{
		{2026, time.February, 28},
		{2028, time.February, 29},
		{2026, time.August, 31},
		{2026, time.September, 30},
		// May 2027 starts on a Saturday and has 31 days: the widest layout.
		{2027, time.May, 31},
	}
	for _, tt := range tests {
		cells := MonthGrid(tt.year, tt.month)
		if len(cells) != GridCells {
			t.Fatalf("%d-%02d: %d cells, want %d", tt.year, tt.month, len(cells), GridCells)
		}
		var nonBlank int
		for _, c := range cells {
			if !c.Blank {
				nonBlank++
			}
		}
		if nonBlank != tt.days {
			t.Fatalf("%d-%02d: %d day cells, want %d", tt.year, tt.month, nonBlank, tt.days)
		}
	}
}

func TestMonthGrid_LeadingBlanksMatchWeekday(t *testing.T) {
	// August 2026 starts on a Saturday: six leading blanks, then day 1.
	cells := MonthGrid(2026, time.August)
	for i := 0; i < 6; i++ {
		if !cells[i].Blank {
			t.Fatalf("cell %d should be blank", i)
		}
	}
	if cells[6].Blank || cells[6].Day != 1 {
		t.Fatalf("cell 6 = %+v, want day 1", cells[6])
	}
	if cells[6].Date != "2026-08-01" {
		t.Fatalf("cell 6 date = %q, want 2026-08-01", cells[6].Date)
	}

	// March 2026 starts on a Sunday: no leading blanks.
	cells = MonthGrid(2026, time.March)
	if cells[0].Blank || cells[0].Day != 1 {
		t.Fatalf("cell 0 = %+v, want day 1", cells[0])
	}
}

func TestMonthGrid_DaysAscend(t *testing.T) {
	cells := MonthGrid(2026, time.September)
	next := 1
	for _, c := range cells {
		if c.Blank {
			continue
		}
		if c.Day != next {
			t.Fatalf("day %d out of order, want %d", c.Day, next)
		}
		next++
	}
	if next != 31 {
		t.Fatalf("walked %d days, want 30", next-1)
	}
}

func TestMarkedDays(t *testing.T) {
	appts := []model.Appointment{
		{Date: "2026-09-01", Status: model.StatusConfirmed},
		{Date: "2026-09-01", Status: model.StatusCompleted},
		{Date: "2026-09-15", Status: model.StatusCancelled},
	}
	marked := MarkedDays(appts)
	if len(marked) != 2 {
		t.Fatalf("marked %d days, want 2", len(marked))
	}
	// Cancelled appointments still mark the day; the dot means history, not
	// availability.
	if !marked["2026-09-15"] {
		t.Fatal("expected 2026-09-15 to be marked")
	}
}
