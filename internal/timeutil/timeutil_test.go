package timeutil

import (
	"testing"
	"time"
)

func TestDateKey_LocalDayBoundary(t *testing.T) {
	// 23:59 on March 5 in a UTC-8 zone is already March 6 in UTC. The key
	// must follow the wall clock the user saw, not UTC.
	loc := time.FixedZone("UTC-8", -8*60*60)
	lateNight := time.Date(2026, 3, 5, 23, 59, 0, 0, loc)

	if got := DateKey(lateNight); got != "2026-03-05" {
		t.Fatalf("DateKey = %q, want 2026-03-05", got)
	}
}

func TestSameDay(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	a := time.Date(2026, 7, 1, 0, 10, 0, 0, loc)
	b := time.Date(2026, 7, 1, 23, 50, 0, 0, loc)
	c := time.Date(2026, 7, 2, 0, 0, 0, 0, loc)

	if !SameDay(a, b) {
		t.Fatal("expected a and b to share a day")
	}
	if SameDay(b, c) {
		t.Fatal("expected b and c to be on different days")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"2026-03-05", false},
		{"2026-3-5", true},
		{"2026-13-01", true},
		{"not-a-date", true},
		{"", true},
	}
	for _, tt := range tests {
		_, err := ParseDate(tt.key, time.UTC)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDate(%q) err = %v, wantErr %v", tt.key, err, tt.wantErr)
		}
	}
}

func TestValidClock(t *testing.T) {
	valid := []string{"00:00", "09:30", "23:59"}
	invalid := []string{"24:00", "9:00", "09:60", "09-00", "", "0900"}

	for _, s := range valid {
		if !ValidClock(s) {
			t.Errorf("ValidClock(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if ValidClock(s) {
			t.Errorf("ValidClock(%q) = true, want false", s)
		}
	}
}

func TestClockMinutes(t *testing.T) {
	if got := ClockMinutes("09:30"); got != 570 {
		t.Fatalf("ClockMinutes(09:30) = %d, want 570", got)
	}
	if got := ClockMinutes("00:00"); got != 0 {
		t.Fatalf("ClockMinutes(00:00) = %d, want 0", got)
	}
}

func TestHourMark(t *testing.T) {
	if got := HourMark("14:45"); got != "14:00" {
		t.Fatalf("HourMark(14:45) = %q, want 14:00", got)
	}
}

func TestWeekday(t *testing.T) {
	wd, err := Weekday("2026-08-31")
	if err != nil {
		t.Fatal(err)
	}
	if wd != time.Monday {
		t.Fatalf("weekday of 2026-08-31 = %v, want Monday", wd)
	}
	if _, err := Weekday("garbage"); err == nil {
		t.Fatal("expected error for malformed date")
	}
}
