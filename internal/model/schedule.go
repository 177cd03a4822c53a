package model

import "time"

// WorkingDay is one weekday's opening configuration. Start and End are
// HH:MM strings; when IsOpen is false they are not consulted.
type WorkingDay struct {
	IsOpen bool   `json:"isOpen"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// WeeklySchedule maps weekdays to their configuration. Absent weekdays are
// treated as closed.
type WeeklySchedule map[time.Weekday]WorkingDay

// WorkingDayPatch is a partial update to a WorkingDay; nil fields are left
// unchanged by the merge.
type WorkingDayPatch struct {
	IsOpen *bool   `json:"isOpen,omitempty"`
	Start  *string `json:"start,omitempty"`
	End    *string `json:"end,omitempty"`
}

func (d WorkingDay) Merge(p WorkingDayPatch) WorkingDay {
	if p.IsOpen != nil {
		d.IsOpen = *p.IsOpen
	}
	if p.Start != nil {
		d.Start = *p.Start
	}
	if p.End != nil {
		d.End = *p.End
	}
	return d
}
