package model

import "time"

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

type Origin string

const (
	OriginManual       Origin = "manual"
	OriginPublicLink   Origin = "public_link"
	OriginExternalSync Origin = "external_sync"
)

// Appointment is one booked slot in a provider's agenda. Date and Time are
// provider-local strings (YYYY-MM-DD / HH:MM); a reschedule is modeled as
// cancel + new booking, never an in-place edit of Date/Time.
type Appointment struct {
	ID              string
	ProviderID      string
	ClientName      string
	ClientPhone     string
	Service         string // catalog name by convention, free text by contract
	Date            string
	Time            string
	Status          Status
	Origin          Origin
	Notes           string
	ExternalEventID string // id assigned by an external calendar after sync
	CreatedAt       time.Time
}

// Occupies reports whether this appointment blocks its (date, time) slot.
// Only cancelled appointments release the slot.
func (a Appointment) Occupies() bool {
	return a.Status != StatusCancelled
}

func ValidStatus(s Status) bool {
	switch s {
	case StatusConfirmed, StatusPending, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

func ValidOrigin(o Origin) bool {
	switch o {
	case OriginManual, OriginPublicLink, OriginExternalSync:
		return true
	}
	return false
}
