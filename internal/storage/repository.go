// Package storage holds the appointment repository: the single durable
// collection of appointments per provider, and the serialization point for
// the no-double-booking guarantee. Add must perform the occupancy check and
// the insert as one atomic unit; listings are ordered by (date, time) with
// ties broken by insertion order.
package storage

import (
	"context"
	"errors"

	"braidpro/internal/model"
)

var (
	// ErrDuplicateSlot means an occupying appointment already exists at the
	// requested (date, time) for the provider.
	ErrDuplicateSlot = errors.New("slot already booked")
	// ErrNotFound means no appointment with the given id exists for the
	// provider.
	ErrNotFound = errors.New("appointment not found")
)

type AppointmentRepository interface {
	Add(ctx context.Context, appt model.Appointment) error
	Get(ctx context.Context, providerID, id string) (model.Appointment, error)
	ListByDay(ctx context.Context, providerID, date string) ([]model.Appointment, error)
	ListUpcoming(ctx context.Context, providerID, fromDateExclusive string, limit int) ([]model.Appointment, error)
	ListByMonth(ctx context.Context, providerID string, year int, month int) ([]model.Appointment, error)
	Cancel(ctx context.Context, providerID, id string) error
	Complete(ctx context.Context, providerID, id string) error
	Delete(ctx context.Context, providerID, id string) error
}
