// Package availability derives the bookable slots of a calendar day from
// the weekday's working-hours configuration and the appointments already on
// the books. It is a pure read: safe to call speculatively while a client
// is still picking a date, and callers must re-resolve at commit time
// because the books may have changed in between.
package availability

import (
	"fmt"

	"braidpro/internal/model"
	"braidpro/internal/timeutil"
)

// SlotMinutes is the booking granularity. Braiding sessions run for hours,
// so slots open on the hour.
const SlotMinutes = 60

// Resolve returns the open HH:MM slot starts for a day, ascending. A closed
// or unconfigured weekday yields nothing, as does a malformed or inverted
// start/end pair (configuration is validated here defensively, not at write
// time). Slots must fit fully before closing: the last candidate starts
// SlotMinutes before end.
func Resolve(day model.WorkingDay, taken []model.Appointment) []string {
	if !day.IsOpen {
		return nil
	}
	if !timeutil.ValidClock(day.Start) || !timeutil.ValidClock(day.End) {
		return nil
	}
	start := timeutil.ClockMinutes(day.Start)
	end := timeutil.ClockMinutes(day.End)
	if start >= end {
		return nil
	}
	// Slots open on the hour; a half-hour opening time rounds up to the
	// first full hour inside the window.
	if rem := start % SlotMinutes; rem != 0 {
		start += SlotMinutes - rem
	}

	occupied := make(map[string]bool, len(taken))
	for _, appt := range taken {
		if appt.Occupies() {
			occupied[timeutil.HourMark(appt.Time)] = true
		}
	}

	var slots []string
	for m := start; m+SlotMinutes <= end; m += SlotMinutes {
		slot := fmt.Sprintf("%02d:%02d", m/60, m%60)
		if !occupied[slot] {
			slots = append(slots, slot)
		}
	}
	return slots
}

// Contains reports whether slot is in the resolved open set.
func Contains(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}
